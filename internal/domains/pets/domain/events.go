package domain

import "time"

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AdoptionRequested is raised when a customer asks to adopt a pet.
type AdoptionRequested struct {
	BaseEvent
	PetID  int64
	UserID int64
}

func (e AdoptionRequested) EventName() string {
	return "adoption.requested"
}

// AdoptionDecided is raised when staff approve or reject a request.
type AdoptionDecided struct {
	BaseEvent
	AdoptionID int64
	PetID      int64
	UserID     int64
	Decision   AdoptionStatus
}

func (e AdoptionDecided) EventName() string {
	return "adoption.decided"
}

// AggregateWithEvents is implemented by aggregates that track domain events.
type AggregateWithEvents interface {
	Events() []Event
	ClearEvents()
}
