package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/petopia/petopia-server/internal/domains/store/domain"
	"github.com/petopia/petopia-server/internal/domains/store/ports"
	"github.com/petopia/petopia-server/internal/shared/events"
)

// maxTransitionAttempts bounds the reload-and-retry loop after a lost compare-and-swap.
const maxTransitionAttempts = 3

// Service orchestrates order use cases.
type Service struct {
	orders    ports.OrderRepository
	products  ports.ProductRepository
	notifier  ports.CancellationNotifier
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option customises the service collaborators.
type Option func(*Service)

// WithNotifier sets the channel used to tell customers about cancellations.
func WithNotifier(n ports.CancellationNotifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithPublisher sets the domain event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets the logger used for best-effort side-effect failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(orders ports.OrderRepository, products ports.ProductRepository, opts ...Option) *Service {
	s := &Service{
		orders:    orders,
		products:  products,
		notifier:  ports.NoopNotifier,
		publisher: events.Noop,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder prices the cart from the catalogue and reserves stock while inserting the order.
func (s *Service) PlaceOrder(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, mapError(domain.ErrEmptyOrder)
	}
	ids := make([]int64, 0, len(input.Items))
	for _, line := range input.Items {
		if line.ProductID <= 0 {
			return nil, mapError(domain.ErrInvalidProduct)
		}
		ids = append(ids, line.ProductID)
	}
	catalogue, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]domain.LineItem, 0, len(input.Items))
	for _, line := range input.Items {
		product, ok := catalogue[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ports.ErrProductNotFound, line.ProductID)
		}
		items = append(items, domain.LineItem{ProductID: line.ProductID, Quantity: line.Quantity, UnitPrice: product.Price})
	}
	order, err := domain.NewOrder(input.UserID, items, input.PaymentMethod, input.DeliveryDetails)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, events.New(events.TypeOrderPlaced, orderKey(saved.ID), map[string]any{
		"order_id":     saved.ID,
		"user_id":      saved.UserID,
		"total_amount": saved.TotalAmount.StringFixed(2),
	}))
	return saved, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *Service) ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// TransitionStatus validates the move against the state machine and persists it with a compare-and-swap.
func (s *Service) TransitionStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	target, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, id, target)
}

// CancelOrder is the customer-facing cancellation.
func (s *Service) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.transition(ctx, id, domain.StatusCancelled)
}

// UpdateOrder applies the optional status transition first, then the payment status.
func (s *Service) UpdateOrder(ctx context.Context, id int64, patch ports.OrderPatch) (*domain.Order, error) {
	var (
		target  domain.Status
		payment domain.PaymentStatus
		err     error
	)
	if patch.Status != nil {
		if target, err = domain.ParseStatus(*patch.Status); err != nil {
			return nil, err
		}
	}
	if patch.PaymentStatus != nil {
		if payment, err = domain.ParsePaymentStatus(*patch.PaymentStatus); err != nil {
			return nil, mapError(err)
		}
	}

	var order *domain.Order
	if target != "" {
		if order, err = s.transition(ctx, id, target); err != nil {
			return nil, err
		}
	}
	if payment != "" {
		if order, err = s.orders.UpdatePaymentStatus(ctx, id, payment); err != nil {
			return nil, err
		}
	}
	if order == nil {
		return s.orders.GetByID(ctx, id)
	}
	return order, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.orders.Delete(ctx, id)
}

// Inventory returns the number of orders in each status.
func (s *Service) Inventory(ctx context.Context) (map[string]int32, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]int32, len(domain.Statuses()))
	for _, status := range domain.Statuses() {
		result[string(status)] = 0
	}
	for _, order := range orders {
		result[string(order.Status)]++
	}
	return result, nil
}

func (s *Service) transition(ctx context.Context, id int64, target domain.Status) (*domain.Order, error) {
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		order, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		from := order.Status
		if err := order.Transition(target); err != nil {
			return nil, err
		}
		result, err := s.orders.TransitionStatus(ctx, id, from, target, target == domain.StatusCancelled)
		if errors.Is(err, ports.ErrStaleState) {
			s.logger.WarnContext(ctx, "order status changed concurrently, retrying",
				slog.Int64("order.id", id), slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}
		s.afterTransition(ctx, from, result)
		return result.Order, nil
	}
	return nil, fmt.Errorf("%w: order %d", ErrConflict, id)
}

func (s *Service) afterTransition(ctx context.Context, from domain.Status, result *ports.TransitionResult) {
	order := result.Order
	for _, productID := range result.SkippedProducts {
		s.logger.WarnContext(ctx, "restock skipped for missing product",
			slog.Int64("order.id", order.ID), slog.Int64("product.id", productID))
	}
	if order.Status == domain.StatusCancelled && from != domain.StatusCancelled {
		notice := ports.CancellationNotice{
			OrderID:     order.ID,
			UserID:      order.UserID,
			TotalAmount: order.TotalAmount,
			ItemCount:   len(order.Items),
			CancelledAt: s.now(),
		}
		if err := s.notifier.NotifyCancellation(ctx, notice); err != nil {
			s.logger.ErrorContext(ctx, "failed to send cancellation notice",
				slog.Int64("order.id", order.ID), slog.String("error", err.Error()))
		}
	}
	s.publish(ctx, events.New(events.TypeOrderStatusChanged, orderKey(order.ID), map[string]any{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"from":     string(from),
		"to":       string(order.Status),
	}))
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			slog.String("event.type", event.Type), slog.String("error", err.Error()))
	}
}

func orderKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

var _ ports.Service = (*Service)(nil)
