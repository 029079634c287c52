package postgres

import (
	"context"
	"fmt"

	"github.com/angela142004/taller-mecanico-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MechanicRepository backs the capacity pool. ActiveCount is deliberately
// uncached: the headcount can change between any two admissions and a stale
// value either overbooks or falsely rejects.
type MechanicRepository struct {
	pool *pgxpool.Pool
}

func NewMechanicRepository(pool *pgxpool.Pool) *MechanicRepository {
	return &MechanicRepository{pool: pool}
}

func (r *MechanicRepository) ActiveCount(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM mechanics WHERE status = $1`

	var count int
	if err := r.queryRow(ctx, query, domain.MechanicStatusActive).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active mechanics: %w", err)
	}
	return count, nil
}

func (r *MechanicRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
