package ports

import (
	"context"
	"errors"

	"github.com/petopia/petopia-server/internal/domains/store/domain"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrStaleState        = errors.New("order status changed concurrently")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// TransitionResult describes what a committed status change touched.
type TransitionResult struct {
	Order             *domain.Order
	RestockedProducts []int64
	SkippedProducts   []int64
}

// OrderRepository persists orders.
type OrderRepository interface {
	// Create decrements stock for every line and inserts the order atomically.
	// ErrInsufficientStock is returned when any line cannot be covered.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	Delete(ctx context.Context, id int64) error
	// TransitionStatus swaps the status only if it still equals from, returning ErrStaleState otherwise.
	// When restock is set the line quantities are returned to stock in the same transaction.
	TransitionStatus(ctx context.Context, id int64, from, to domain.Status, restock bool) (*TransitionResult, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Order, error)
}

// ProductRepository persists catalogue entries.
type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	List(ctx context.Context, category string) ([]*domain.Product, error)
	// AdjustStock applies delta atomically, failing with domain.ErrNegativeStock below zero.
	AdjustStock(ctx context.Context, id int64, delta int32) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
