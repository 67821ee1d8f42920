package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, status Status) *Order {
	t.Helper()
	order, err := NewOrder(7, []LineItem{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("9.99")},
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("20")},
	}, "card", DeliveryDetails{FullName: "Ann", Address: "1 Main St"})
	require.NoError(t, err)
	order.Status = status
	return order
}

func TestNewOrder_ComputesTotalAndDefaults(t *testing.T) {
	order := newTestOrder(t, StatusPending)

	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, PaymentPending, order.PaymentStatus)
	assert.True(t, decimal.RequireFromString("39.98").Equal(order.TotalAmount))
}

func TestNewOrder_RejectsInvalidInput(t *testing.T) {
	_, err := NewOrder(0, []LineItem{{ProductID: 1, Quantity: 1}}, "", DeliveryDetails{Address: "x"})
	require.ErrorIs(t, err, ErrInvalidUser)

	_, err = NewOrder(1, nil, "", DeliveryDetails{Address: "x"})
	require.ErrorIs(t, err, ErrEmptyOrder)

	_, err = NewOrder(1, []LineItem{{ProductID: 1, Quantity: 0}}, "", DeliveryDetails{Address: "x"})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder(1, []LineItem{{ProductID: 1, Quantity: 1}}, "", DeliveryDetails{})
	require.ErrorIs(t, err, ErrMissingDelivery)
}

func TestTransition_FollowsAdjacencyTable(t *testing.T) {
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			order := newTestOrder(t, from)
			err := order.Transition(to)
			if CanTransition(from, to) {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, order.Status)
				continue
			}
			require.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			assert.Equal(t, from, order.Status)
		}
	}
}

func TestTransition_PendingToShippedReportsAllowed(t *testing.T) {
	order := newTestOrder(t, StatusPending)

	err := order.Transition(StatusShipped)

	var transitionErr *TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, []Status{StatusProcessing, StatusCancelled}, transitionErr.Allowed)
}

func TestTransition_TerminalStatesHaveNoExit(t *testing.T) {
	for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
		assert.True(t, IsTerminal(terminal))
		for _, to := range Statuses() {
			order := newTestOrder(t, terminal)
			require.Error(t, order.Transition(to))
		}
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	order := newTestOrder(t, StatusPending)
	require.ErrorIs(t, order.Transition(Status("Lost")), ErrInvalidStatus)

	_, err := ParseStatus("lost")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAllowedTransitions_ReturnsCopy(t *testing.T) {
	allowed := AllowedTransitions(StatusPending)
	allowed[0] = StatusDelivered

	assert.Equal(t, []Status{StatusProcessing, StatusCancelled}, AllowedTransitions(StatusPending))
}

func TestSetPaymentStatus_IndependentOfStatus(t *testing.T) {
	order := newTestOrder(t, StatusCancelled)

	require.NoError(t, order.SetPaymentStatus(PaymentPaid))
	assert.Equal(t, PaymentPaid, order.PaymentStatus)
	require.ErrorIs(t, order.SetPaymentStatus("Refunded"), ErrInvalidPaymentStatus)
}

func TestRestockLines_AggregatesPerProduct(t *testing.T) {
	order := newTestOrder(t, StatusPending)
	order.Items = append(order.Items, LineItem{ProductID: 1, Quantity: 3})

	assert.Equal(t, map[int64]int32{1: 5, 2: 1}, order.RestockLines())
}
