package database

import (
	"fmt"
	"os"
	"path/filepath"

	"snipvault/internal/config"
	"snipvault/internal/database/migrations"
	"snipvault/internal/snip"
)

// NewStoreFromConfig creates a Store implementation based on the database
// config type. The "memory" type is an in-memory SQLite database with the
// schema applied, useful for tests and throwaway runs.
func NewStoreFromConfig(cfg config.DatabaseConfig) (snip.Store, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite database requires data_dir to be set")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "snipvault.db"))
	case "memory":
		store, err := NewSQLiteStore(":memory:")
		if err != nil {
			return nil, err
		}
		if err := migrations.MigrateUp(store.DB()); err != nil {
			store.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database type: %q", cfg.Type)
	}
}
