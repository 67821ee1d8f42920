package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petopia/petopia-server/internal/domains/store/domain"
	"github.com/petopia/petopia-server/internal/domains/store/ports"
)

var _ ports.ProductRepository = (*Products)(nil)

// Products persists the catalogue in PostgreSQL using GORM.
type Products struct {
	db *gorm.DB
}

func NewProducts(db *gorm.DB) *Products {
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return &Products{db: db}
}

type productRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	Name      string          `gorm:"column:name"`
	Category  string          `gorm:"column:category;index"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Quantity  int32           `gorm:"column:quantity;check:chk_products_quantity,quantity >= 0"`
	ImageURL  string          `gorm:"column:image_url"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts a new product or replaces the fields of an existing one.
func (p *Products) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := p.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := toProductRecord(product)
	db := p.db.WithContext(ctx)
	if record.ID == 0 {
		if err := db.Create(&record).Error; err != nil {
			return nil, err
		}
		return record.toDomain(), nil
	}
	res := db.Model(&productRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"name":       record.Name,
		"category":   record.Category,
		"price":      record.Price,
		"quantity":   record.Quantity,
		"image_url":  record.ImageURL,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ports.ErrProductNotFound
	}
	return p.GetByID(ctx, record.ID)
}

func (p *Products) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := p.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := p.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetMany returns the products that exist among ids; missing ids are absent from the map.
func (p *Products) GetMany(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	if err := p.ensureDB(); err != nil {
		return nil, err
	}
	out := make(map[int64]*domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var records []productRecord
	if err := p.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		out[records[i].ID] = records[i].toDomain()
	}
	return out, nil
}

func (p *Products) List(ctx context.Context, category string) ([]*domain.Product, error) {
	if err := p.ensureDB(); err != nil {
		return nil, err
	}
	query := p.db.WithContext(ctx).Order("id")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var records []productRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// AdjustStock applies delta in a single conditional UPDATE so concurrent callers never drive stock negative.
func (p *Products) AdjustStock(ctx context.Context, id int64, delta int32) (*domain.Product, error) {
	if err := p.ensureDB(); err != nil {
		return nil, err
	}
	res := p.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := p.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrNegativeStock
	}
	return p.GetByID(ctx, id)
}

func (p *Products) Delete(ctx context.Context, id int64) error {
	if err := p.ensureDB(); err != nil {
		return err
	}
	result := p.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func (p *Products) ensureDB() error {
	if p == nil || p.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:        product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price,
		Quantity:  product.Quantity,
		ImageURL:  product.ImageURL,
		CreatedAt: product.CreatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:        r.ID,
		Name:      r.Name,
		Category:  r.Category,
		Price:     r.Price,
		Quantity:  r.Quantity,
		ImageURL:  r.ImageURL,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
