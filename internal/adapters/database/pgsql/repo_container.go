package pgsql

import (
	portsrepo "github.com/SscSPs/dailybalance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the PostgreSQL-backed repositories. Close releases the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerStore: NewPgxKVRepository(dbPool),
		Close:       dbPool.Close,
	}
}
