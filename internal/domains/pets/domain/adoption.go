package domain

import (
	"strings"
	"time"
)

// AdoptionStatus is the decision state of a request.
type AdoptionStatus string

const (
	AdoptionPending  AdoptionStatus = "Pending"
	AdoptionApproved AdoptionStatus = "Approved"
	AdoptionRejected AdoptionStatus = "Rejected"
)

// Adoption is a customer's request to adopt a shelter pet.
type Adoption struct {
	ID        int64
	PetID     int64
	UserID    int64
	Status    AdoptionStatus
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
	events    []Event
}

// RequestAdoption opens a pending request; the pet must be available.
func RequestAdoption(pet *Pet, userID int64, note string) (*Adoption, error) {
	if userID <= 0 {
		return nil, ErrMissingUser
	}
	if pet == nil || !pet.Adoptable() {
		return nil, ErrNotAdoptable
	}
	a := &Adoption{PetID: pet.ID, UserID: userID, Status: AdoptionPending, Note: strings.TrimSpace(note)}
	a.record(AdoptionRequested{BaseEvent: now(), PetID: pet.ID, UserID: userID})
	return a, nil
}

// Approve closes the request in the requester's favour.
func (a *Adoption) Approve(note string) error {
	return a.decide(AdoptionApproved, note)
}

// Reject closes the request and returns the pet to the shelter.
func (a *Adoption) Reject(note string) error {
	return a.decide(AdoptionRejected, note)
}

func (a *Adoption) decide(to AdoptionStatus, note string) error {
	if a.Status != AdoptionPending {
		return ErrAlreadyDecided
	}
	a.Status = to
	if note = strings.TrimSpace(note); note != "" {
		a.Note = note
	}
	a.record(AdoptionDecided{BaseEvent: now(), AdoptionID: a.ID, PetID: a.PetID, UserID: a.UserID, Decision: to})
	return nil
}

// PetStatusAfter is the pet status implied by a decided request.
func (s AdoptionStatus) PetStatusAfter() Status {
	switch s {
	case AdoptionApproved:
		return StatusAdopted
	case AdoptionRejected:
		return StatusAvailable
	default:
		return StatusPending
	}
}

func (a *Adoption) Events() []Event {
	return append([]Event(nil), a.events...)
}

func (a *Adoption) ClearEvents() {
	a.events = nil
}

func (a *Adoption) record(e Event) {
	a.events = append(a.events, e)
}

// Clone copies the adoption without its pending events.
func (a *Adoption) Clone() *Adoption {
	if a == nil {
		return nil
	}
	clone := *a
	clone.events = nil
	return &clone
}

func now() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}
