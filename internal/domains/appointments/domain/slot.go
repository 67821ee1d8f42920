package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for slot and appointment dates.
const DateLayout = "2006-01-02"

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ServiceType is the kind of clinic service booked.
type ServiceType string

const (
	ServiceGrooming ServiceType = "Grooming"
	ServiceTraining ServiceType = "Training"
	ServiceMedical  ServiceType = "Medical"
	ServiceBoarding ServiceType = "Boarding"
)

// ParseServiceType accepts only the known service types.
func ParseServiceType(raw string) (ServiceType, error) {
	switch st := ServiceType(strings.TrimSpace(raw)); st {
	case ServiceGrooming, ServiceTraining, ServiceMedical, ServiceBoarding:
		return st, nil
	case "":
		return "", invalid("serviceType", "is required")
	default:
		return "", invalid("serviceType", fmt.Sprintf("unknown service type %q", raw))
	}
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, invalid(field, "is required")
	}
	day, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, invalid(field, "must be formatted as YYYY-MM-DD")
	}
	return day, nil
}

// BookedSlot reserves one half-hour slot of one service on one day.
type BookedSlot struct {
	Slot        string
	ServiceType ServiceType
	Date        string
	CreatedAt   time.Time
}

// NewBookedSlot validates the (date, service, slot) triple.
func NewBookedSlot(date, serviceType, slot string) (*BookedSlot, error) {
	if _, err := ParseDate("date", date); err != nil {
		return nil, err
	}
	st, err := ParseServiceType(serviceType)
	if err != nil {
		return nil, err
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return nil, invalid("slot", "is required")
	}
	if !IsStandardSlot(slot) {
		return nil, invalid("slot", fmt.Sprintf("%q is not a clinic slot", slot))
	}
	return &BookedSlot{Slot: slot, ServiceType: st, Date: strings.TrimSpace(date)}, nil
}

// Key identifies the slot for uniqueness checks.
func (s BookedSlot) Key() string {
	return s.Date + "|" + string(s.ServiceType) + "|" + s.Slot
}

const (
	openingHour  = 9
	closingHour  = 17
	slotDuration = 30 * time.Minute
	labelLayout  = "03:04 PM"
)

var standardSlots = buildStandardSlots()

func buildStandardSlots() []string {
	start := time.Date(2000, 1, 1, openingHour, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, closingHour, 0, 0, 0, time.UTC)
	var slots []string
	for t := start; t.Before(end); t = t.Add(slotDuration) {
		slots = append(slots, t.Format(labelLayout)+"-"+t.Add(slotDuration).Format(labelLayout))
	}
	return slots
}

// StandardSlots returns the clinic's half-hour labels from 09:00 AM to 05:00 PM in order.
func StandardSlots() []string {
	return append([]string(nil), standardSlots...)
}

// IsStandardSlot reports whether label is one of StandardSlots.
func IsStandardSlot(label string) bool {
	for _, s := range standardSlots {
		if s == label {
			return true
		}
	}
	return false
}

// SlotIndex orders labels by time of day; unknown labels sort last.
func SlotIndex(label string) int {
	for i, s := range standardSlots {
		if s == label {
			return i
		}
	}
	return len(standardSlots)
}
