package app

import (
	"context"
	"fmt"

	"github.com/angela142004/taller-mecanico-api/internal/clock"
	"github.com/angela142004/taller-mecanico-api/internal/domain"
)

// ReservationRepository is the durable store for reservations. All methods
// run on the transaction carried in ctx when one is present; WithTx opens one
// and AcquireSlotLock must only ever be called inside it.
type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	AcquireSlotLock(ctx context.Context, token uint64) error
	CountForSlot(ctx context.Context, key domain.SlotKey) (int, error)
	Insert(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	FindByID(ctx context.Context, id int64) (domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
}

// CapacityProvider reports the number of mechanics able to take a booking
// right now. It is read fresh inside every admission, never cached.
type CapacityProvider interface {
	ActiveCount(ctx context.Context) (int, error)
}

// ServiceCatalog resolves a service to its duration in minutes.
type ServiceCatalog interface {
	DurationFor(ctx context.Context, serviceID int64) (int, error)
}

// EventPublisher is notified after a reservation has been committed.
type EventPublisher interface {
	ReservationCreated(ctx context.Context, r domain.Reservation) error
}

type AdmissionService struct {
	repo     ReservationRepository
	capacity CapacityProvider
	catalog  ServiceCatalog
	events   EventPublisher
	clock    clock.Clock
}

func NewAdmissionService(
	repo ReservationRepository,
	capacity CapacityProvider,
	catalog ServiceCatalog,
	clk clock.Clock,
	opts ...AdmissionServiceOption,
) *AdmissionService {
	svc := &AdmissionService{
		repo:     repo,
		capacity: capacity,
		catalog:  catalog,
		clock:    clk,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type AdmissionServiceOption func(*AdmissionService)

// WithEventPublisher makes the service emit an event after each commit.
func WithEventPublisher(p EventPublisher) AdmissionServiceOption {
	return func(s *AdmissionService) {
		s.events = p
	}
}

type AdmissionInput struct {
	ServiceID int64
	VehicleID int64
	ClientID  int64
	Date      string
	StartTime string
}

// AdmissionMeta carries the diagnostics observed at decision time.
type AdmissionMeta struct {
	Capacity   int
	PriorCount int
}

// Admit decides whether the requested slot can take one more reservation and,
// if so, books it. Input validation and the duration lookup happen before any
// lock or transaction is opened; the capacity read, the occupancy count and
// the insert all happen under an advisory lock scoped to the slot token, so
// two requests for the same slot serialize while unrelated slots proceed
// untouched. The lock lives exactly as long as the transaction.
func (s *AdmissionService) Admit(ctx context.Context, in AdmissionInput) (domain.Reservation, AdmissionMeta, error) {
	date, err := domain.NormalizeDate(in.Date)
	if err != nil {
		return domain.Reservation{}, AdmissionMeta{}, err
	}
	start, err := domain.NormalizeClock(in.StartTime)
	if err != nil {
		return domain.Reservation{}, AdmissionMeta{}, err
	}

	duration, err := s.catalog.DurationFor(ctx, in.ServiceID)
	if err != nil {
		return domain.Reservation{}, AdmissionMeta{}, err
	}

	end, err := domain.EndTime(start, duration)
	if err != nil {
		return domain.Reservation{}, AdmissionMeta{}, err
	}

	key := domain.SlotKey{ServiceID: in.ServiceID, Date: date, StartTime: start}

	var (
		created domain.Reservation
		meta    AdmissionMeta
	)
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.AcquireSlotLock(txCtx, key.Token()); err != nil {
			return fmt.Errorf("acquire slot lock: %w", err)
		}

		capacity, err := s.capacity.ActiveCount(txCtx)
		if err != nil {
			return fmt.Errorf("read capacity: %w", err)
		}
		if capacity < 0 {
			return fmt.Errorf("capacity provider returned %d", capacity)
		}
		if capacity == 0 {
			return domain.ErrNoCapacity
		}

		booked, err := s.repo.CountForSlot(txCtx, key)
		if err != nil {
			return fmt.Errorf("count slot occupancy: %w", err)
		}
		if booked >= capacity {
			return &domain.SlotFullError{Capacity: capacity, Available: max(0, capacity-booked)}
		}

		created, err = s.repo.Insert(txCtx, domain.Reservation{
			ClientID:  in.ClientID,
			VehicleID: in.VehicleID,
			ServiceID: in.ServiceID,
			Date:      date,
			StartTime: start,
			EndTime:   end,
			Status:    domain.ReservationStatusPending,
			CreatedAt: s.clock.Now(),
		})
		if err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}

		meta = AdmissionMeta{Capacity: capacity, PriorCount: booked}
		return nil
	})
	if err != nil {
		return domain.Reservation{}, AdmissionMeta{}, err
	}

	if s.events != nil {
		// Best effort: the reservation is committed either way.
		_ = s.events.ReservationCreated(ctx, created)
	}
	return created, meta, nil
}

// GetReservation fetches a single reservation by its store-assigned id.
func (s *AdmissionService) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	return s.repo.FindByID(ctx, id)
}

// Cancel releases a reservation's place in its slot. No lock is taken:
// removing occupancy can only make concurrent admissions more permissive.
func (s *AdmissionService) Cancel(ctx context.Context, id int64) error {
	return s.repo.UpdateStatus(ctx, id, domain.ReservationStatusCancelled)
}

// SlotAvailability is a point-in-time snapshot for display; it takes no lock
// and gives no admission guarantee.
type SlotAvailability struct {
	Capacity  int
	Booked    int
	Available int
}

// Availability reports how many places the slot currently has left.
func (s *AdmissionService) Availability(ctx context.Context, serviceID int64, date, startTime string) (SlotAvailability, error) {
	d, err := domain.NormalizeDate(date)
	if err != nil {
		return SlotAvailability{}, err
	}
	start, err := domain.NormalizeClock(startTime)
	if err != nil {
		return SlotAvailability{}, err
	}
	if _, err := s.catalog.DurationFor(ctx, serviceID); err != nil {
		return SlotAvailability{}, err
	}

	capacity, err := s.capacity.ActiveCount(ctx)
	if err != nil {
		return SlotAvailability{}, fmt.Errorf("read capacity: %w", err)
	}
	booked, err := s.repo.CountForSlot(ctx, domain.SlotKey{ServiceID: serviceID, Date: d, StartTime: start})
	if err != nil {
		return SlotAvailability{}, fmt.Errorf("count slot occupancy: %w", err)
	}

	return SlotAvailability{
		Capacity:  capacity,
		Booked:    booked,
		Available: max(0, capacity-booked),
	}, nil
}
