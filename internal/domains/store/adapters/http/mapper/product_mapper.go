package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	storedomain "github.com/petopia/petopia-server/internal/domains/store/domain"
	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
)

// ProductRequest is the create/update payload for catalogue entries.
type ProductRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
	ImageURL string          `json:"imageUrl"`
}

// StockAdjustment is the PATCH /stock payload.
type StockAdjustment struct {
	Delta int32 `json:"delta"`
}

// Product is the HTTP representation of a catalogue entry.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func ToProductInput(req ProductRequest) storeports.ProductInput {
	return storeports.ProductInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
	}
}

func FromDomainProduct(p *storedomain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Quantity:  p.Quantity,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromDomainProducts(list []*storedomain.Product) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, FromDomainProduct(p))
	}
	return out
}
