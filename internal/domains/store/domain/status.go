package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// PaymentStatus tracks settlement separately from fulfilment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

var (
	ErrInvalidStatus        = errors.New("order status is invalid")
	ErrInvalidTransition    = errors.New("order status transition is not allowed")
	ErrInvalidPaymentStatus = errors.New("payment status is invalid")
)

// statusFlow is the order state machine. Slices are kept in display order.
var statusFlow = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// TransitionError reports a disallowed move together with the reachable states.
type TransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}

// Is lets callers match with errors.Is(err, ErrInvalidTransition).
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ParseStatus accepts only the statuses known to the state machine.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.TrimSpace(raw))
	if _, ok := statusFlow[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// ParsePaymentStatus validates a payment status value.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch status := PaymentStatus(strings.TrimSpace(raw)); status {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, raw)
	}
}

// AllowedTransitions returns the statuses reachable in one step from the given one.
func AllowedTransitions(from Status) []Status {
	next := statusFlow[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is an edge of the state machine.
func CanTransition(from, to Status) bool {
	for _, candidate := range statusFlow[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(status Status) bool {
	next, ok := statusFlow[status]
	return !ok || len(next) == 0
}

// Statuses lists every known order status.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}
