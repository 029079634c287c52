package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation is a booked (service, date, start time) interval for one
// client/vehicle. EndTime is always derived from the service duration.
type Reservation struct {
	ID        int64
	ClientID  int64
	VehicleID int64
	ServiceID int64
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Status    ReservationStatus
	CreatedAt time.Time
}

// Slot returns the slot identity this reservation occupies.
func (r Reservation) Slot() SlotKey {
	return SlotKey{ServiceID: r.ServiceID, Date: r.Date, StartTime: r.StartTime}
}

// Service is the catalog entry reservations are made against.
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
}

type MechanicStatus string

const (
	MechanicStatusActive   MechanicStatus = "active"
	MechanicStatusInactive MechanicStatus = "inactive"
)

// Mechanic is a server in the capacity pool; only active mechanics count
// toward slot capacity.
type Mechanic struct {
	ID     int64
	Name   string
	Status MechanicStatus
}
