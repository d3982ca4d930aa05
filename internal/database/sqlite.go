package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"snipvault/internal/model"
	"snipvault/internal/snip"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the snip.Store interface using SQLite.
//
// Chunk payloads are content-addressed: the chunk_data table holds one row
// per distinct plaintext fingerprint, and chunks rows reference it by hash.
// PutChunk inserts the payload only when the hash is new, so identical
// plaintext chunks share physical bytes.
type SQLiteStore struct {
	db *sql.DB
}

var _ snip.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens a SQLite database at path and wraps it in a store.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection. The caller is
// responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a properly configured
// connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Foreign keys default to OFF in SQLite for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Concurrent readers during a write get a bounded wait instead of an
	// immediate SQLITE_BUSY.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return db, nil
}

// DB exposes the underlying connection for migrations.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Close closes the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Snippet metadata operations

const snippetColumns = "id, owner_id, source_ref, total_chunks, total_size, status, deleted, created_at, updated_at"

func scanSnippet(row interface{ Scan(...any) error }) (*model.Snippet, error) {
	var sn model.Snippet
	var status string
	err := row.Scan(&sn.ID, &sn.OwnerID, &sn.SourceRef, &sn.TotalChunks, &sn.TotalSize, &status, &sn.Deleted, &sn.CreatedAt, &sn.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sn.Status = model.SnippetStatus(status)
	return &sn, nil
}

func (s *SQLiteStore) CreateSnippet(ctx context.Context, sn *model.Snippet) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snippets (owner_id, source_ref, total_chunks, total_size, status, deleted, created_at, updated_at)
		 VALUES (?, ?, 0, 0, ?, 0, ?, ?)`,
		sn.OwnerID, sn.SourceRef, string(model.StatusProcessing), sn.CreatedAt, sn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting snippet: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading snippet id: %w", err)
	}
	sn.ID = id
	sn.Status = model.StatusProcessing
	return nil
}

func (s *SQLiteStore) GetSnippet(ctx context.Context, ownerID, id int64) (*model.Snippet, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+snippetColumns+" FROM snippets WHERE id = ? AND owner_id = ? AND deleted = 0", id, ownerID)
	sn, err := scanSnippet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("loading snippet: %w", err)
	}
	return sn, nil
}

func (s *SQLiteStore) CompleteSnippet(ctx context.Context, id int64, totalChunks int, totalSize int64, now time.Time) error {
	return s.transition(ctx, id, model.StatusCompleted, totalChunks, totalSize, now)
}

func (s *SQLiteStore) FailSnippet(ctx context.Context, id int64, now time.Time) error {
	return s.transition(ctx, id, model.StatusFailed, 0, 0, now)
}

// transition applies a status change guarded on the current status being
// PROCESSING, so the state machine is enforced in the row update itself.
func (s *SQLiteStore) transition(ctx context.Context, id int64, to model.SnippetStatus, totalChunks int, totalSize int64, now time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE snippets SET status = ?, total_chunks = ?, total_size = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		string(to), totalChunks, totalSize, now, id, string(model.StatusProcessing))
	if err != nil {
		return fmt.Errorf("updating snippet status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking status update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("snippet %d is not in %s state", id, model.StatusProcessing)
	}
	return nil
}

func (s *SQLiteStore) MarkDeleted(ctx context.Context, ownerID, id int64, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE snippets SET deleted = 1, updated_at = ? WHERE id = ? AND owner_id = ? AND deleted = 0",
		now, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("marking snippet deleted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking delete: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListCompleted(ctx context.Context, ownerID int64) ([]*model.Snippet, error) {
	return s.querySnippets(ctx,
		`SELECT `+snippetColumns+` FROM snippets
		 WHERE owner_id = ? AND deleted = 0 AND status = ?
		 ORDER BY updated_at DESC, id DESC`,
		ownerID, string(model.StatusCompleted))
}

func (s *SQLiteStore) ListRecent(ctx context.Context, ownerID int64, limit int) ([]*model.Snippet, error) {
	return s.querySnippets(ctx,
		`SELECT `+snippetColumns+` FROM snippets
		 WHERE owner_id = ? AND deleted = 0 AND status = ?
		 ORDER BY updated_at DESC, id DESC LIMIT ?`,
		ownerID, string(model.StatusCompleted), limit)
}

func (s *SQLiteStore) GetSnippetsByIDs(ctx context.Context, ownerID int64, ids []int64) (map[int64]*model.Snippet, error) {
	if len(ids) == 0 {
		return map[int64]*model.Snippet{}, nil
	}

	args := make([]any, 0, len(ids)+2)
	args = append(args, ownerID, string(model.StatusCompleted))
	for _, id := range ids {
		args = append(args, id)
	}
	query := `SELECT ` + snippetColumns + ` FROM snippets
		 WHERE owner_id = ? AND deleted = 0 AND status = ? AND id IN (` + placeholders(len(ids)) + `)`

	snippets, err := s.querySnippets(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.Snippet, len(snippets))
	for _, sn := range snippets {
		byID[sn.ID] = sn
	}
	return byID, nil
}

func (s *SQLiteStore) querySnippets(ctx context.Context, query string, args ...any) ([]*model.Snippet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying snippets: %w", err)
	}
	defer rows.Close()

	var snippets []*model.Snippet
	for rows.Next() {
		sn, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snippet: %w", err)
		}
		snippets = append(snippets, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snippets: %w", err)
	}
	return snippets, nil
}

// Chunk operations

func (s *SQLiteStore) PutChunk(ctx context.Context, snippetID int64, index int, data *model.ChunkData, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Content-addressed payload: first writer for a hash wins, later
	// writers share the existing row.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chunk_data (hash, payload, iv, compressed, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (hash) DO NOTHING`,
		data.Hash, data.Payload, data.IV, data.Compressed, now); err != nil {
		return fmt.Errorf("inserting chunk payload: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO chunks (snippet_id, chunk_index, content_hash, created_at) VALUES (?, ?, ?, ?)",
		snippetID, index, data.Hash, now); err != nil {
		return fmt.Errorf("inserting chunk row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunk: %w", err)
	}
	return nil
}

const chunkColumns = `c.id, c.snippet_id, c.chunk_index, c.created_at, d.hash, d.payload, d.iv, d.compressed`

func scanChunk(rows *sql.Rows) (*model.Chunk, error) {
	var ch model.Chunk
	err := rows.Scan(&ch.ID, &ch.SnippetID, &ch.ChunkIndex, &ch.CreatedAt,
		&ch.Hash, &ch.Payload, &ch.IV, &ch.Compressed)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *SQLiteStore) GetChunksOrdered(ctx context.Context, snippetID int64) ([]*model.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chunkColumns+` FROM chunks c
		 JOIN chunk_data d ON d.hash = c.content_hash
		 WHERE c.snippet_id = ?
		 ORDER BY c.chunk_index ASC`, snippetID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*model.Chunk
	for rows.Next() {
		ch, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

func (s *SQLiteStore) GetChunksOrderedForMany(ctx context.Context, snippetIDs []int64) (map[int64][]*model.Chunk, error) {
	if len(snippetIDs) == 0 {
		return map[int64][]*model.Chunk{}, nil
	}

	args := make([]any, len(snippetIDs))
	for i, id := range snippetIDs {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chunkColumns+` FROM chunks c
		 JOIN chunk_data d ON d.hash = c.content_hash
		 WHERE c.snippet_id IN (`+placeholders(len(snippetIDs))+`)
		 ORDER BY c.snippet_id ASC, c.chunk_index ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	grouped := make(map[int64][]*model.Chunk)
	for rows.Next() {
		ch, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		grouped[ch.SnippetID] = append(grouped[ch.SnippetID], ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return grouped, nil
}

func (s *SQLiteStore) FindChunkDataByHash(ctx context.Context, hash string) (*model.ChunkData, error) {
	var data model.ChunkData
	err := s.db.QueryRowContext(ctx,
		"SELECT hash, payload, iv, compressed FROM chunk_data WHERE hash = ?", hash).
		Scan(&data.Hash, &data.Payload, &data.IV, &data.Compressed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("looking up chunk payload: %w", err)
	}
	return &data, nil
}

func (s *SQLiteStore) DeleteChunksForSnippet(ctx context.Context, snippetID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE snippet_id = ?", snippetID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
