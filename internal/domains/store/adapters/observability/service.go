package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	storedomain "github.com/petopia/petopia-server/internal/domains/store/domain"
	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
)

const tracerName = "github.com/petopia/petopia-server/internal/domains/store/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   storeports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner storeports.Service, opts ...Option) storeports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input storeports.CheckoutInput) (*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(attribute.Int64("order.user_id", input.UserID), attribute.Int("order.lines", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("order.user_id", input.UserID), slog.Int("order.lines", len(input.Items)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("order.user_id", input.UserID))
	}
	s.metrics.recordPlaced(ctx)
	span.SetAttributes(attribute.Int64("order.id", result.ID), attribute.String("order.total", result.TotalAmount.StringFixed(2)))
	s.logInfo(ctx, "order placed", slog.Int64("order.id", result.ID), slog.String("order.total", result.TotalAmount.StringFixed(2)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) ListOrdersByUser(ctx context.Context, userID int64) ([]*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrdersByUser", trace.WithAttributes(attribute.Int64("order.user_id", userID)))
	defer span.End()

	result, err := s.inner.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list user orders", slog.Int64("order.user_id", userID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) TransitionStatus(ctx context.Context, id int64, status string) (*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.TransitionStatus",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.String("order.target_status", status)))
	defer span.End()

	s.logInfo(ctx, "changing order status", slog.Int64("order.id", id), slog.String("status", status))
	result, err := s.inner.TransitionStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change order status", slog.Int64("order.id", id), slog.String("status", status))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order status changed", slog.Int64("order.id", id), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, id int64, patch storeports.OrderPatch) (*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.Int64("order.id", id))
	before, _ := s.inner.GetOrder(ctx, id)
	result, err := s.inner.UpdateOrder(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.Int64("order.id", id))
	}
	if before != nil && before.Status != result.Status {
		s.metrics.recordTransition(ctx, result.Status)
	}
	s.logInfo(ctx, "order updated", slog.Int64("order.id", id),
		slog.String("status", string(result.Status)), slog.String("payment_status", string(result.PaymentStatus)))
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, id int64) (*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CancelOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.Int64("order.id", id))
	result, err := s.inner.CancelOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", id))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order cancelled", slog.Int64("order.id", id))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", id))
	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	return nil
}

func (s *Service) Inventory(ctx context.Context) (map[string]int32, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Inventory")
	defer span.End()

	result, err := s.inner.Inventory(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to calculate inventory")
	}
	span.SetAttributes(attribute.Int("inventory.status.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	return recordFailure(ctx, s.logger, span, err, msg, attrs...)
}

// recordFailure marks the span and logs; client-side rejections are logged at warn.
func recordFailure(ctx context.Context, logger *slog.Logger, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if logger == nil {
		return err
	}
	level := slog.LevelError
	if isClientError(err) {
		level = slog.LevelWarn
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

func isClientError(err error) bool {
	return errors.Is(err, storeports.ErrNotFound) ||
		errors.Is(err, storeports.ErrProductNotFound) ||
		errors.Is(err, storeports.ErrInsufficientStock) ||
		errors.Is(err, storedomain.ErrInvalidTransition) ||
		errors.Is(err, storedomain.ErrInvalidStatus)
}

type serviceMetrics struct {
	ordersPlaced      metric.Int64Counter
	ordersDeleted     metric.Int64Counter
	statusTransitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("store.service.orders_placed", metric.WithDescription("Number of orders placed"))
	ordersDeleted, _ := m.Int64Counter("store.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	transitions, _ := m.Int64Counter("store.service.status_transitions", metric.WithDescription("Number of committed order status changes"))
	return serviceMetrics{ordersPlaced: ordersPlaced, ordersDeleted: ordersDeleted, statusTransitions: transitions}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status storedomain.Status) {
	if m.statusTransitions != nil {
		m.statusTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ storeports.Service = (*Service)(nil)
