package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/angela142004/taller-mecanico-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// AcquireSlotLock serializes against other holders of the same slot token.
// pg_advisory_xact_lock blocks until the lock is granted or ctx aborts the
// query; Postgres releases it when the transaction commits, rolls back or
// the connection drops, so there is no unlock path to forget.
func (r *ReservationRepository) AcquireSlotLock(ctx context.Context, token uint64) error {
	tx := txFromContext(ctx)
	if tx == nil {
		return domain.ErrNoTransaction
	}
	// Advisory locks take a bigint; reinterpret the token's bits.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(token)); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

func (r *ReservationRepository) CountForSlot(ctx context.Context, key domain.SlotKey) (int, error) {
	const query = `
SELECT COUNT(*)
FROM reservations
WHERE service_id = $1 AND date = $2 AND start_time = $3 AND status <> 'cancelled'`

	dt, err := time.Parse("2006-01-02", key.Date)
	if err != nil {
		return 0, domain.ErrInvalidDate
	}

	var count int
	if err := r.queryRow(ctx, query, key.ServiceID, dt, key.StartTime).Scan(&count); err != nil {
		return 0, fmt.Errorf("count slot reservations: %w", err)
	}
	return count, nil
}

func (r *ReservationRepository) Insert(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	const stmt = `
INSERT INTO reservations (client_id, vehicle_id, service_id, date, start_time, end_time, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

	dt, err := time.Parse("2006-01-02", res.Date)
	if err != nil {
		return domain.Reservation{}, domain.ErrInvalidDate
	}

	err = r.queryRow(ctx, stmt,
		res.ClientID,
		res.VehicleID,
		res.ServiceID,
		dt,
		res.StartTime,
		res.EndTime,
		res.Status,
		res.CreatedAt,
	).Scan(&res.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Reservation{}, domain.ErrServiceNotFound
		}
		return domain.Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	return res, nil
}

// UpdateStatus moves a reservation through its lifecycle. Freeing a slot by
// cancelling needs no lock: the counting query stops seeing the row.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	tag, err := r.exec(ctx, `UPDATE reservations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id int64) (domain.Reservation, error) {
	const query = `
SELECT id, client_id, vehicle_id, service_id, date, start_time, end_time, status, created_at
FROM reservations
WHERE id = $1`

	var (
		res domain.Reservation
		dt  time.Time
	)
	err := r.queryRow(ctx, query, id).Scan(
		&res.ID,
		&res.ClientID,
		&res.VehicleID,
		&res.ServiceID,
		&dt,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&res.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("find reservation: %w", err)
	}
	res.Date = dt.Format("2006-01-02")
	return res, nil
}

func (r *ReservationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
