package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CancellationNotice is the payload handed to the customer notification channel.
type CancellationNotice struct {
	OrderID     int64
	UserID      int64
	TotalAmount decimal.Decimal
	ItemCount   int
	CancelledAt time.Time
}

// CancellationNotifier delivers the order-cancelled message to the customer.
type CancellationNotifier interface {
	NotifyCancellation(ctx context.Context, notice CancellationNotice) error
}

// NoopNotifier is used when no delivery channel is configured.
var NoopNotifier CancellationNotifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) NotifyCancellation(context.Context, CancellationNotice) error { return nil }

// Contact is the addressable identity of a customer.
type Contact struct {
	Email string
	Name  string
}

// CustomerDirectory resolves a user id into contact details.
type CustomerDirectory interface {
	Contact(ctx context.Context, userID int64) (Contact, error)
}

// DirectoryFunc adapts a lookup function to CustomerDirectory.
type DirectoryFunc func(ctx context.Context, userID int64) (Contact, error)

func (f DirectoryFunc) Contact(ctx context.Context, userID int64) (Contact, error) {
	return f(ctx, userID)
}
