package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidUser     = errors.New("user id must be greater than zero")
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidProduct  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrMissingDelivery = errors.New("delivery address is required")
)

// LineItem is one product entry of an order, priced at checkout time.
type LineItem struct {
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity * unit price.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// DeliveryDetails is the shipping destination captured at checkout.
type DeliveryDetails struct {
	FullName   string
	Address    string
	City       string
	PostalCode string
	Phone      string
}

// Order models the store purchase order aggregate.
type Order struct {
	ID              int64
	UserID          int64
	Items           []LineItem
	TotalAmount     decimal.Decimal
	Status          Status
	PaymentStatus   PaymentStatus
	PaymentMethod   string
	DeliveryDetails DeliveryDetails
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder builds a pending order and computes its total from the priced lines.
func NewOrder(userID int64, items []LineItem, paymentMethod string, delivery DeliveryDetails) (*Order, error) {
	order := &Order{
		UserID:          userID,
		Items:           append([]LineItem(nil), items...),
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   strings.TrimSpace(paymentMethod),
		DeliveryDetails: delivery,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	order.TotalAmount = order.computeTotal()
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.UserID <= 0 {
		return ErrInvalidUser
	}
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range o.Items {
		if item.ProductID <= 0 {
			return ErrInvalidProduct
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	if strings.TrimSpace(o.DeliveryDetails.Address) == "" {
		return ErrMissingDelivery
	}
	if _, ok := statusFlow[o.Status]; !ok {
		return ErrInvalidStatus
	}
	return nil
}

// Transition moves the order to the requested status if the state machine allows it.
func (o *Order) Transition(to Status) error {
	if _, ok := statusFlow[to]; !ok {
		return ErrInvalidStatus
	}
	if !CanTransition(o.Status, to) {
		return &TransitionError{From: o.Status, To: to, Allowed: AllowedTransitions(o.Status)}
	}
	o.Status = to
	return nil
}

// SetPaymentStatus is unconstrained by the fulfilment status.
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if _, err := ParsePaymentStatus(string(status)); err != nil {
		return err
	}
	o.PaymentStatus = status
	return nil
}

// RestockLines aggregates quantities per product for returning stock.
func (o *Order) RestockLines() map[int64]int32 {
	lines := make(map[int64]int32, len(o.Items))
	for _, item := range o.Items {
		lines[item.ProductID] += item.Quantity
	}
	return lines
}

func (o *Order) computeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Clone returns a deep copy safe to hand across adapters.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]LineItem(nil), o.Items...)
	return &clone
}
