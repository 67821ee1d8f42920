package application

import (
	"context"

	"github.com/petopia/petopia-server/internal/domains/store/domain"
	"github.com/petopia/petopia-server/internal/domains/store/ports"
)

// Catalog manages products and their stock levels.
type Catalog struct {
	products ports.ProductRepository
}

func NewCatalog(products ports.ProductRepository) *Catalog {
	return &Catalog{products: products}
}

func (c *Catalog) CreateProduct(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Name, input.Category, input.Price, input.Quantity, input.ImageURL)
	if err != nil {
		return nil, mapError(err)
	}
	return c.products.Save(ctx, product)
}

func (c *Catalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return c.products.GetByID(ctx, id)
}

func (c *Catalog) ListProducts(ctx context.Context, category string) ([]*domain.Product, error) {
	return c.products.List(ctx, category)
}

// UpdateProduct replaces the editable fields of an existing product.
func (c *Catalog) UpdateProduct(ctx context.Context, id int64, input ports.ProductInput) (*domain.Product, error) {
	existing, err := c.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := domain.NewProduct(input.Name, input.Category, input.Price, input.Quantity, input.ImageURL)
	if err != nil {
		return nil, mapError(err)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	return c.products.Save(ctx, updated)
}

// AdjustStock applies a signed delta; the repository refuses to go below zero.
func (c *Catalog) AdjustStock(ctx context.Context, id int64, delta int32) (*domain.Product, error) {
	product, err := c.products.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (c *Catalog) DeleteProduct(ctx context.Context, id int64) error {
	return c.products.Delete(ctx, id)
}

var _ ports.CatalogService = (*Catalog)(nil)
