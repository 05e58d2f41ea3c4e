package store

import (
	"context"
	"fmt"

	"github.com/pocketcrm/go-sync/internal/config"
	"github.com/pocketcrm/go-sync/internal/logger"
)

// Storages groups all local cache repositories into a single value that can
// be passed around the service layer.
type Storages struct {
	// Records is the cache of server-owned records plus per-entity sync
	// metadata.
	Records RecordRepository

	// State holds restart-surviving engine state: throttle markers and the
	// last dashboard summary snapshot.
	State StateRepository
}

// NewStorages initialises the local storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens a connection for the configured driver ("sqlite3" opens the
//     database file, creating it if it does not yet exist; "pgx" connects
//     to PostgreSQL).
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [Storages] value wired to fresh repositories.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewStorages(cfg config.AgentStorage, log *logger.Logger) (*Storages, error) {
	log.Info().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	var db *DB
	var err error
	switch cfg.DB.Driver {
	case "pgx":
		db, err = NewConnectPostgres(context.Background(), cfg.DB, log)
	default:
		db, err = NewConnectSQLite(context.Background(), cfg.DB, log)
	}
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Records: NewRecordRepository(db, log),
		State:   NewStateRepository(db, log),
	}, nil
}
