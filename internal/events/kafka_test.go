package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/angela142004/taller-mecanico-api/internal/domain"
)

type capturingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestKafkaPublisher_ReservationCreated(t *testing.T) {
	t.Parallel()

	r := domain.Reservation{
		ID:        42,
		ClientID:  7,
		VehicleID: 9,
		ServiceID: 3,
		Date:      "2025-01-10",
		StartTime: "14:00",
		EndTime:   "15:30",
		Status:    domain.ReservationStatusPending,
	}

	fixed := time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)
	w := &capturingWriter{}
	pub := &KafkaPublisher{writer: w, now: func() time.Time { return fixed }}

	if err := pub.ReservationCreated(context.Background(), r); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]

	wantKey := fmt.Sprintf("%d", r.Slot().Token())
	if string(msg.Key) != wantKey {
		t.Fatalf("expected slot token key %s, got %s", wantKey, msg.Key)
	}

	var ev reservationCreatedEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if ev.Type != "reservation.created" {
		t.Fatalf("unexpected type %q", ev.Type)
	}
	if ev.ReservationID != 42 || ev.ServiceID != 3 || ev.EndTime != "15:30" {
		t.Fatalf("payload does not match reservation: %+v", ev)
	}
	if !ev.OccurredAt.Equal(fixed) {
		t.Fatalf("expected occurred_at %s, got %s", fixed, ev.OccurredAt)
	}
	if ev.EventID == "" {
		t.Fatalf("expected a generated event id")
	}

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers["event-id"] != ev.EventID {
		t.Fatalf("header event-id %q does not match payload %q", headers["event-id"], ev.EventID)
	}
	if headers["event-type"] != "reservation.created" {
		t.Fatalf("unexpected event-type header %q", headers["event-type"])
	}
}

func TestKafkaPublisher_WriteFailure(t *testing.T) {
	t.Parallel()

	w := &capturingWriter{err: context.DeadlineExceeded}
	pub := &KafkaPublisher{writer: w, now: time.Now}

	err := pub.ReservationCreated(context.Background(), domain.Reservation{ID: 1})
	if err == nil {
		t.Fatalf("expected error from writer")
	}
}
