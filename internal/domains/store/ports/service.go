package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/petopia/petopia-server/internal/domains/store/domain"
)

// CheckoutLine is a requested product and quantity; pricing comes from the catalogue.
type CheckoutLine struct {
	ProductID int64
	Quantity  int32
}

// CheckoutInput carries the cart submitted at checkout.
type CheckoutInput struct {
	UserID          int64
	Items           []CheckoutLine
	PaymentMethod   string
	DeliveryDetails domain.DeliveryDetails
}

// OrderPatch holds the optional fields accepted by the admin update.
type OrderPatch struct {
	Status        *string
	PaymentStatus *string
}

// ProductInput carries catalogue fields for create and update.
type ProductInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int32
	ImageURL string
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input CheckoutInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	TransitionStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, patch OrderPatch) (*domain.Order, error)
	CancelOrder(ctx context.Context, id int64) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	Inventory(ctx context.Context) (map[string]int32, error)
}

// CatalogService exposes product and stock use cases.
type CatalogService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, category string) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int32) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
