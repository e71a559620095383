package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	portsrepo "github.com/SscSPs/dailybalance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxKVRepository stores ledger documents in the kv_store table.
type PgxKVRepository struct {
	pool *pgxpool.Pool
}

// NewPgxKVRepository creates a new repository for ledger documents.
func NewPgxKVRepository(pool *pgxpool.Pool) *PgxKVRepository {
	return &PgxKVRepository{pool: pool}
}

var (
	_ portsrepo.KeyValueStore = (*PgxKVRepository)(nil)
	_ portsrepo.PrefixDeleter = (*PgxKVRepository)(nil)
)

// Get retrieves the document stored under key.
func (r *PgxKVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value FROM kv_store WHERE key = $1;`

	var value []byte
	err := r.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, true, nil
}

// ListKeys returns every key starting with prefix, in ascending order.
func (r *PgxKVRepository) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT key FROM kv_store WHERE key LIKE $1 ESCAPE '\' ORDER BY key;`

	rows, err := r.pool.Query(ctx, query, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list keys with prefix %s: %w", prefix, err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan keys with prefix %s: %w", prefix, err)
	}
	return keys, nil
}

// Put inserts or replaces the document stored under key.
func (r *PgxKVRepository) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.pool.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *PgxKVRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = $1;`
	if _, err := r.pool.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix turns prefix into a LIKE pattern matching it literally.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

// DeletePrefix removes every key starting with prefix in a single statement.
func (r *PgxKVRepository) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	query := `DELETE FROM kv_store WHERE key LIKE $1 ESCAPE '\';`
	tag, err := r.pool.Exec(ctx, query, likePrefix(prefix))
	if err != nil {
		return 0, fmt.Errorf("failed to delete keys with prefix %s: %w", prefix, err)
	}
	return tag.RowsAffected(), nil
}
