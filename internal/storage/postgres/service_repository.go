package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/angela142004/taller-mecanico-api/internal/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	durationCacheSize = 256
	durationCacheTTL  = time.Minute
)

// ServiceRepository resolves catalog services. Durations change rarely and
// are not capacity-relevant, so lookups sit behind a short-lived LRU.
type ServiceRepository struct {
	pool      *pgxpool.Pool
	durations *expirable.LRU[int64, int]
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{
		pool:      pool,
		durations: expirable.NewLRU[int64, int](durationCacheSize, nil, durationCacheTTL),
	}
}

func (r *ServiceRepository) DurationFor(ctx context.Context, serviceID int64) (int, error) {
	if d, ok := r.durations.Get(serviceID); ok {
		return d, nil
	}

	const query = `SELECT duration_minutes FROM services WHERE id = $1`

	var duration int
	err := r.queryRow(ctx, query, serviceID).Scan(&duration)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrServiceNotFound
		}
		return 0, fmt.Errorf("look up service duration: %w", err)
	}

	r.durations.Add(serviceID, duration)
	return duration, nil
}

func (r *ServiceRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
