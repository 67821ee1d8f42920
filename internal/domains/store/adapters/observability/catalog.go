package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	storedomain "github.com/petopia/petopia-server/internal/domains/store/domain"
	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
)

// Catalog decorates the catalogue service with tracing and logging.
type Catalog struct {
	inner  storeports.CatalogService
	tracer trace.Tracer
	logger *slog.Logger
}

// NewCatalog wraps the catalogue service. Only the logger and tracer options apply.
func NewCatalog(inner storeports.CatalogService, opts ...Option) storeports.CatalogService {
	cfg := &Service{
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.tracer == nil {
		cfg.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Catalog{inner: inner, tracer: cfg.tracer, logger: cfg.logger}
}

func (c *Catalog) CreateProduct(ctx context.Context, input storeports.ProductInput) (*storedomain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogService.CreateProduct", trace.WithAttributes(attribute.String("product.name", input.Name)))
	defer span.End()

	result, err := c.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, recordFailure(ctx, c.logger, span, err, "failed to create product", slog.String("product.name", input.Name))
	}
	c.logger.InfoContext(ctx, "product created", slog.Int64("product.id", result.ID))
	return result, nil
}

func (c *Catalog) GetProduct(ctx context.Context, id int64) (*storedomain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := c.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, recordFailure(ctx, c.logger, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (c *Catalog) ListProducts(ctx context.Context, category string) ([]*storedomain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogService.ListProducts", trace.WithAttributes(attribute.String("product.category", category)))
	defer span.End()

	result, err := c.inner.ListProducts(ctx, category)
	if err != nil {
		return nil, recordFailure(ctx, c.logger, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (c *Catalog) UpdateProduct(ctx context.Context, id int64, input storeports.ProductInput) (*storedomain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := c.inner.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, recordFailure(ctx, c.logger, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	c.logger.InfoContext(ctx, "product updated", slog.Int64("product.id", id))
	return result, nil
}

func (c *Catalog) AdjustStock(ctx context.Context, id int64, delta int32) (*storedomain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogService.AdjustStock",
		trace.WithAttributes(attribute.Int64("product.id", id), attribute.Int("stock.delta", int(delta))))
	defer span.End()

	result, err := c.inner.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, recordFailure(ctx, c.logger, span, err, "failed to adjust stock", slog.Int64("product.id", id))
	}
	c.logger.InfoContext(ctx, "stock adjusted", slog.Int64("product.id", id), slog.Int("stock.quantity", int(result.Quantity)))
	return result, nil
}

func (c *Catalog) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := c.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := c.inner.DeleteProduct(ctx, id); err != nil {
		return recordFailure(ctx, c.logger, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	c.logger.InfoContext(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}

var _ storeports.CatalogService = (*Catalog)(nil)
