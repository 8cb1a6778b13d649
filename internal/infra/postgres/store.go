package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aliskhannn/quranlingo-bot/internal/repository"
)

// DB is the part of *pgxpool.Pool the store uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ DB = (*pgxpool.Pool)(nil)

// DocumentStore keeps JSON documents in the documents table.
type DocumentStore struct {
	db DB
}

// NewDocumentStore creates a DocumentStore on top of db, usually a pool.
func NewDocumentStore(db DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Get returns the body stored under key.
// Returns repository.ErrDocumentNotFound if the key doesn't exist.
func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT body::text FROM documents WHERE key = $1`

	var body string
	err := s.db.QueryRow(ctx, query, key).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return []byte(body), nil
}

// Put creates or replaces the document under key.
func (s *DocumentStore) Put(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO documents (key, body, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key)
		DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`

	if _, err := s.db.Exec(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("put document: %w", err)
	}

	return nil
}

// Keys lists the keys starting with prefix.
func (s *DocumentStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `
		SELECT key
		FROM documents
		WHERE starts_with(key, $1)
		ORDER BY key
	`

	rows, err := s.db.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}

	return keys, nil
}
