package store

import (
	"context"
	"time"

	"github.com/pocketcrm/go-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordQuery narrows a [RecordRepository.GetRecords] call. Zero values mean
// "no filter": an empty Status matches every status, a non-positive Limit
// returns all matching rows.
type RecordQuery struct {
	Status string
	Limit  int
}

// RecordRepository is the local cache of server-owned records, keyed by
// (entity, id). All reads happen outside transactions; writes go through
// [RecordRepository.Begin] so that one entity's records and its sync
// metadata land atomically.
type RecordRepository interface {
	GetRecords(ctx context.Context, entity string, query RecordQuery) ([]models.LocalRecord, error)
	GetRecordsByIDs(ctx context.Context, entity string, ids []string) ([]models.LocalRecord, error)
	GetMetadata(ctx context.Context, entity string) (models.SyncMetadata, error)
	GetAllMetadata(ctx context.Context) ([]models.SyncMetadata, error)
	Begin(ctx context.Context) (RecordTx, error)
}

// RecordTx is a single open write transaction against the record cache.
// Callers must finish it with exactly one Commit or Rollback; deferring
// Rollback after Begin is the expected pattern.
type RecordTx interface {
	UpsertRecords(ctx context.Context, entity string, records []models.LocalRecord) error
	WriteMetadata(ctx context.Context, meta models.SyncMetadata) error
	Commit() error
	Rollback() error
}

// StateRepository persists engine state that must survive restarts:
// throttling markers and the last cached dashboard summary snapshot.
type StateRepository interface {
	GetMarker(ctx context.Context, key string) (time.Time, error)
	SetMarker(ctx context.Context, key string, at time.Time) error
	GetSummary(ctx context.Context) (models.DashboardSummary, error)
	SaveSummary(ctx context.Context, summary models.DashboardSummary) error
}
