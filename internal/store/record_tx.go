package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/models"
)

// recordTx is the [RecordTx] implementation handed out by
// [recordRepository.Begin]. All writes of one sync persistence step run on
// the wrapped *sql.Tx, so a failure anywhere before Commit leaves the cache
// untouched.
type recordTx struct {
	tx     *sql.Tx
	logger *logger.Logger
}

// UpsertRecords writes one entity's changed records into the cache using a
// prepared statement. Unchanged records never reach this method; the change
// filter drops them beforehand. The payload is stored as text so that the
// same statement works on SQLite and PostgreSQL.
func (t *recordTx) UpsertRecords(ctx context.Context, entity string, records []models.LocalRecord) error {
	log := logger.FromContext(ctx)

	if len(records) == 0 {
		return nil
	}

	stmt, err := t.tx.PrepareContext(ctx, upsertRecord)
	if err != nil {
		log.Err(err).
			Str("func", "recordTx.UpsertRecords").
			Str("entity", entity).
			Int("count", len(records)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, record := range records {
		log.Debug().
			Str("func", "recordTx.UpsertRecords").
			Int("iteration", idx+1).
			Int("total", len(records)).
			Str("entity", entity).
			Str("record_id", record.ID).
			Msg("upserting record in transaction")

		_, execErr := stmt.ExecContext(ctx,
			entity,
			record.ID,
			record.DisplayName,
			record.Status,
			record.Remarks,
			record.FollowUpAt,
			record.UpdatedAt,
			string(record.Payload),
			record.SyncedAt,
		)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "recordTx.UpsertRecords").
				Int("iteration", idx+1).
				Str("entity", entity).
				Str("record_id", record.ID).
				Msg("failed to execute prepared statement")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	return nil
}

// WriteMetadata records the sync watermark of one entity inside the same
// transaction as its records, so a rollback also rolls the watermark back.
func (t *recordTx) WriteMetadata(ctx context.Context, meta models.SyncMetadata) error {
	log := logger.FromContext(ctx)

	if _, err := t.tx.ExecContext(ctx, upsertMetadata, meta.Entity, meta.LastSyncAt); err != nil {
		log.Err(err).
			Str("func", "recordTx.WriteMetadata").
			Str("entity", meta.Entity).
			Msg("failed to upsert sync metadata")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Commit finalises the transaction.
func (t *recordTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// Rollback aborts the transaction. Calling it after a successful Commit
// returns the driver's ErrTxDone, which deferred callers ignore.
func (t *recordTx) Rollback() error {
	return t.tx.Rollback()
}
