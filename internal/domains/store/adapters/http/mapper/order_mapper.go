package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	storedomain "github.com/petopia/petopia-server/internal/domains/store/domain"
	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
)

// LineItem is the HTTP representation of an order line.
type LineItem struct {
	ProductID int64            `json:"productId"`
	Quantity  int32            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Subtotal  *decimal.Decimal `json:"subtotal,omitempty"`
}

// DeliveryDetails is the shipping address block.
type DeliveryDetails struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

// CheckoutRequest is the POST /api/orders payload. TotalAmount is informational only.
type CheckoutRequest struct {
	UserID          int64            `json:"userId"`
	Items           []LineItem       `json:"items"`
	PaymentMethod   string           `json:"paymentMethod"`
	DeliveryDetails DeliveryDetails  `json:"deliveryDetails"`
	TotalAmount     *decimal.Decimal `json:"totalAmount,omitempty"`
}

// StatusRequest is the PATCH /status payload.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderPatch is the PUT /api/orders/:orderId payload.
type OrderPatch struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
}

// Order is the HTTP representation of an order.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Items           []LineItem      `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	DeliveryDetails DeliveryDetails `json:"deliveryDetails"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ToCheckoutInput converts a checkout payload into the application input.
func ToCheckoutInput(req CheckoutRequest) storeports.CheckoutInput {
	input := storeports.CheckoutInput{
		UserID:        req.UserID,
		PaymentMethod: req.PaymentMethod,
		DeliveryDetails: storedomain.DeliveryDetails{
			FullName:   req.DeliveryDetails.FullName,
			Address:    req.DeliveryDetails.Address,
			City:       req.DeliveryDetails.City,
			PostalCode: req.DeliveryDetails.PostalCode,
			Phone:      req.DeliveryDetails.Phone,
		},
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, storeports.CheckoutLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return input
}

// ToOrderPatch converts the admin update payload.
func ToOrderPatch(req OrderPatch) storeports.OrderPatch {
	return storeports.OrderPatch{Status: req.Status, PaymentStatus: req.PaymentStatus}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *storedomain.Order) Order {
	if order == nil {
		return Order{}
	}
	out := Order{
		ID:            order.ID,
		UserID:        order.UserID,
		Items:         make([]LineItem, 0, len(order.Items)),
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		PaymentMethod: order.PaymentMethod,
		DeliveryDetails: DeliveryDetails{
			FullName:   order.DeliveryDetails.FullName,
			Address:    order.DeliveryDetails.Address,
			City:       order.DeliveryDetails.City,
			PostalCode: order.DeliveryDetails.PostalCode,
			Phone:      order.DeliveryDetails.Phone,
		},
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	for _, item := range order.Items {
		price, subtotal := item.UnitPrice, item.Subtotal()
		out.Items = append(out.Items, LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: &price,
			Subtotal:  &subtotal,
		})
	}
	return out
}

// FromDomainOrders converts a list of orders.
func FromDomainOrders(orders []*storedomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}
