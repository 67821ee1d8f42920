// Package events defines the domain event envelope published to the message bus.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TypeOrderStatusChanged       = "order.status_changed"
	TypeOrderPlaced              = "order.placed"
	TypeSlotBooked               = "slot.booked"
	TypeSlotReleased             = "slot.released"
	TypeAppointmentStatusChanged = "appointment.status_changed"
	TypeAdoptionDecided          = "adoption.decided"
)

// Event is the envelope written to the bus. Key drives partitioning.
type Event struct {
	ID         string    `json:"event_id"`
	Type       string    `json:"event_type"`
	Version    int       `json:"event_version"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	Producer   string    `json:"producer"`
	Payload    any       `json:"payload"`
}

// New stamps an event with a fresh id and timestamp.
func New(eventType, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Version:    1,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Producer:   "petopia-api",
		Payload:    payload,
	}
}

// Publisher sends events to the bus. Delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards every event.
var Noop Publisher = noopPublisher{}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory; used by tests.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return nil
}

// Types returns the recorded event types in publish order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
