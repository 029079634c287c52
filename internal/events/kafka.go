package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/angela142004/taller-mecanico-api/internal/domain"
)

const reservationCreatedType = "reservation.created"

// reservationCreatedEvent is the payload written to the reservations topic.
type reservationCreatedEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	ReservationID int64  `json:"reservation_id"`
	ClientID      int64  `json:"client_id"`
	VehicleID     int64  `json:"vehicle_id"`
	ServiceID     int64  `json:"service_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
}

// messageWriter is the slice of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher emits reservation lifecycle events. Messages are keyed by
// the slot token so all events for one slot land on the same partition.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaPublisher builds a publisher writing to topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger:  kafka.LoggerFunc(log.Printf),
	}
	return &KafkaPublisher{writer: w, now: time.Now}
}

// ReservationCreated publishes a reservation.created event.
func (p *KafkaPublisher) ReservationCreated(ctx context.Context, r domain.Reservation) error {
	msg, err := p.createdMessage(r)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", reservationCreatedType, err)
	}
	return nil
}

func (p *KafkaPublisher) createdMessage(r domain.Reservation) (kafka.Message, error) {
	ev := reservationCreatedEvent{
		EventID:       uuid.NewString(),
		Type:          reservationCreatedType,
		OccurredAt:    p.now().UTC(),
		ReservationID: r.ID,
		ClientID:      r.ClientID,
		VehicleID:     r.VehicleID,
		ServiceID:     r.ServiceID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status),
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s: %w", reservationCreatedType, err)
	}

	return kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", r.Slot().Token())),
		Value: value,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(ev.EventID)},
			{Key: "event-type", Value: []byte(reservationCreatedType)},
		},
	}, nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	if w, ok := p.writer.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}

// NopPublisher discards events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) ReservationCreated(context.Context, domain.Reservation) error { return nil }
