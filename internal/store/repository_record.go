package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/models"
)

// recordRepository is the SQL-backed implementation of [RecordRepository].
// It executes all record-cache reads directly against the "records" and
// "sync_metadata" tables using the embedded [*DB] connection; writes go
// through the transaction returned by [recordRepository.Begin].
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (entity, id count, etc.).
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by the provided
// database connection and logger.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

// GetRecords retrieves cached records of one entity, optionally narrowed by
// query. Returns an empty slice when nothing matches.
func (r *recordRepository) GetRecords(ctx context.Context, entity string, query RecordQuery) ([]models.LocalRecord, error) {
	log := logger.FromContext(ctx)

	sqlQuery, args, err := buildSelectRecordsQuery(entity, query)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.GetRecords").
			Str("entity", entity).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := r.DB.QueryContext(ctx, sqlQuery, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "recordRepository.GetRecords").
			Str("entity", entity).
			Str("status", query.Status).
			Msg("failed to execute query for getting cached records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	return scanRecordRows(rows, log, "recordRepository.GetRecords", entity)
}

// GetRecordsByIDs retrieves the cached rows of one entity whose ids appear in
// ids. Rows missing from the cache are simply absent from the result; an
// empty ids slice short-circuits to an empty result without touching the
// database.
func (r *recordRepository) GetRecordsByIDs(ctx context.Context, entity string, ids []string) ([]models.LocalRecord, error) {
	log := logger.FromContext(ctx)

	if len(ids) == 0 {
		return []models.LocalRecord{}, nil
	}

	sqlQuery, args, err := buildSelectRecordsByIDsQuery(entity, ids)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.GetRecordsByIDs").
			Str("entity", entity).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := r.DB.QueryContext(ctx, sqlQuery, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "recordRepository.GetRecordsByIDs").
			Str("entity", entity).
			Int("ids count", len(ids)).
			Msg("failed to execute query for getting cached records by ids")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	return scanRecordRows(rows, log, "recordRepository.GetRecordsByIDs", entity)
}

// GetMetadata returns the sync metadata row of one entity, or
// [ErrMetadataNotFound] when the entity has never completed a sync.
func (r *recordRepository) GetMetadata(ctx context.Context, entity string) (models.SyncMetadata, error) {
	log := logger.FromContext(ctx)

	var meta models.SyncMetadata
	err := r.DB.QueryRowContext(ctx, getMetadata, entity).Scan(&meta.Entity, &meta.LastSyncAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SyncMetadata{}, ErrMetadataNotFound
		}

		log.Err(err).
			Str("func", "recordRepository.GetMetadata").
			Str("entity", entity).
			Msg("failed to execute query for getting sync metadata")
		return models.SyncMetadata{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return meta, nil
}

// GetAllMetadata returns the sync metadata of every entity that has completed
// at least one sync, ordered by entity name.
func (r *recordRepository) GetAllMetadata(ctx context.Context) ([]models.SyncMetadata, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := r.DB.QueryContext(ctx, getAllMetadata)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "recordRepository.GetAllMetadata").
			Msg("failed to execute query for getting all sync metadata")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	all := make([]models.SyncMetadata, 0, 8)

	for rows.Next() {
		var meta models.SyncMetadata

		if scanErr := rows.Scan(&meta.Entity, &meta.LastSyncAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordRepository.GetAllMetadata").
				Msg("failed to scan sync metadata row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		all = append(all, meta)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).
			Str("func", "recordRepository.GetAllMetadata").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return all, nil
}

// Begin opens a write transaction for one entity's persistence step.
// Transient lock contention (SQLITE_BUSY under a concurrent reader, or a
// connection hiccup on PostgreSQL) is retried once before giving up.
func (r *recordRepository) Begin(ctx context.Context) (RecordTx, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil && r.classify(err) == Retryable {
		log.Warn().
			Str("func", "recordRepository.Begin").
			Err(err).
			Msg("transient error beginning transaction, retrying once")
		tx, err = r.DB.BeginTx(ctx, nil)
	}
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Begin").
			Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	return &recordTx{tx: tx, logger: r.logger}, nil
}

// scanRecordRows drains a records result set in [recordColumns] order.
func scanRecordRows(rows *sql.Rows, log *logger.Logger, funcName, entity string) ([]models.LocalRecord, error) {
	results := make([]models.LocalRecord, 0, 50)

	for rows.Next() {
		var record models.LocalRecord

		scanErr := rows.Scan(
			&record.Entity,
			&record.ID,
			&record.DisplayName,
			&record.Status,
			&record.Remarks,
			&record.FollowUpAt,
			&record.UpdatedAt,
			&record.Payload,
			&record.SyncedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Str("entity", entity).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Str("entity", entity).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}
