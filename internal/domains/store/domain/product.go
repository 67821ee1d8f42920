package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductName = errors.New("product name is required")
	ErrInvalidPrice     = errors.New("price must be greater or equal to zero")
	ErrNegativeStock    = errors.New("stock cannot be negative")
)

// Product is a catalogue entry with its on-hand stock.
type Product struct {
	ID        int64
	Name      string
	Category  string
	Price     decimal.Decimal
	Quantity  int32
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct validates and constructs a catalogue entry.
func NewProduct(name, category string, price decimal.Decimal, quantity int32, imageURL string) (*Product, error) {
	p := &Product{
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
		Price:    price,
		Quantity: quantity,
		ImageURL: strings.TrimSpace(imageURL),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces invariants on the product.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyProductName
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if p.Quantity < 0 {
		return ErrNegativeStock
	}
	return nil
}

// AdjustStock applies a signed delta and refuses to go below zero.
func (p *Product) AdjustStock(delta int32) error {
	if p.Quantity+delta < 0 {
		return ErrNegativeStock
	}
	p.Quantity += delta
	return nil
}
