package app

import (
	"context"
	"fmt"
	"os"

	"snipvault/internal/cipher"
	"snipvault/internal/codec"
	"snipvault/internal/config"
	"snipvault/internal/database"
	"snipvault/internal/database/migrations"
	"snipvault/internal/keystore"
	"snipvault/internal/model"
	"snipvault/internal/recency"
	"snipvault/internal/snip"
)

// App is the application layer between the CLI and the snippet service. It
// constructs all dependencies from config and manages their lifecycle on
// Close.
type App struct {
	cfg     *config.Config
	store   snip.Store
	service *snip.Service
	logFile *os.File
}

// New creates a fully wired App from the given config and unlocked data key.
// operation identifies the CLI command being run (e.g. "Put", "Search") and
// tags every log line of this invocation. The caller must call Close when
// done.
func New(cfg *config.Config, key []byte, operation string) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, logFile, err := newLogger(cfg.LogDir, operation)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	store, err := database.NewStoreFromConfig(cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	if cfg.Database.Type != "memory" {
		if sqlStore, ok := store.(*database.SQLiteStore); ok {
			if err := migrations.CheckStatus(sqlStore.DB()); err != nil {
				store.Close()
				logFile.Close()
				return nil, fmt.Errorf("database schema out of date: %w", err)
			}
		}
	}

	index, err := recency.NewIndexFromConfig(cfg.Cache)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating recency index: %w", err)
	}

	zc, err := codec.NewZstdCodec()
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating codec: %w", err)
	}

	xc, err := cipher.NewXChaCha(key)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	service := snip.NewService(store, index, zc, xc, logger, snip.RealClock{}, cfg.ChunkSize, cfg.MaxContentSize)

	return &App{
		cfg:     cfg,
		store:   store,
		service: service,
		logFile: logFile,
	}, nil
}

// Keystore returns the keystore for the configured key path.
func Keystore(cfg *config.Config) *keystore.Keystore {
	return keystore.New(cfg.Encryption.KeyPath)
}

// Put stores content as a new snippet for owner.
func (a *App) Put(ctx context.Context, ownerID int64, content []byte, sourceRef string) (*model.Snippet, error) {
	return a.service.Create(ctx, ownerID, content, sourceRef)
}

// Get returns a snippet with its content, refreshing its recency rank.
func (a *App) Get(ctx context.Context, ownerID, id int64) (*model.SnippetContent, error) {
	return a.service.Get(ctx, ownerID, id)
}

// ListRecent returns the owner's most recently used snippets.
func (a *App) ListRecent(ctx context.Context, ownerID int64) ([]*model.Snippet, error) {
	return a.service.ListRecent(ctx, ownerID)
}

// Search returns the owner's snippets containing query.
func (a *App) Search(ctx context.Context, ownerID int64, query string) ([]*model.SnippetContent, error) {
	return a.service.Search(ctx, ownerID, query)
}

// Delete soft-deletes a snippet.
func (a *App) Delete(ctx context.Context, ownerID, id int64) error {
	return a.service.Delete(ctx, ownerID, id)
}

// Touch refreshes a snippet's recency rank without reading it.
func (a *App) Touch(ctx context.Context, ownerID, id int64) error {
	return a.service.Touch(ctx, ownerID, id)
}

// Migrate brings the database schema to the latest version.
func (a *App) Migrate() error {
	sqlStore, ok := a.store.(*database.SQLiteStore)
	if !ok {
		return nil
	}
	return migrations.MigrateUp(sqlStore.DB())
}

// Close releases the store connection and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
