package postgres

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petopia/petopia-server/internal/domains/store/domain"
	"github.com/petopia/petopia-server/internal/domains/store/ports"
)

var _ ports.OrderRepository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{}, &orderRecord{}, &orderItemRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID            int64             `gorm:"primaryKey;column:id"`
	UserID        int64             `gorm:"column:user_id;index"`
	TotalAmount   decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2)"`
	Status        string            `gorm:"column:status;type:varchar(32);index"`
	PaymentStatus string            `gorm:"column:payment_status;type:varchar(32)"`
	PaymentMethod string            `gorm:"column:payment_method"`
	FullName      string            `gorm:"column:delivery_full_name"`
	Address       string            `gorm:"column:delivery_address"`
	City          string            `gorm:"column:delivery_city"`
	PostalCode    string            `gorm:"column:delivery_postal_code"`
	Phone         string            `gorm:"column:delivery_phone"`
	Items         []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;index"`
	UpdatedAt     time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index"`
	ProductID int64           `gorm:"column:product_id"`
	Quantity  int32           `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create reserves stock with conditional decrements and inserts the order in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := order.RestockLines()
		for _, productID := range sortedKeys(lines) {
			qty := lines[productID]
			res := tx.Model(&productRecord{}).
				Where("id = ? AND quantity >= ?", productID, qty).
				Updates(map[string]any{
					"quantity":   gorm.Expr("quantity - ?", qty),
					"updated_at": time.Now().UTC(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&productRecord{}).Where("id = ?", productID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ports.ErrProductNotFound
				}
				return ports.ErrInsufficientStock
			}
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order and its lines.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return getOrder(r.db.WithContext(ctx), id)
}

// List returns all orders, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(r.db.WithContext(ctx))
}

// ListByUser returns the orders of one customer, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// Delete removes an order and its lines.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

// TransitionStatus swaps the status with a WHERE status = from guard and restocks in the same transaction.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to domain.Status, restock bool) (*ports.TransitionResult, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := &ports.TransitionResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&orderRecord{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(map[string]any{"status": string(to), "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&orderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ports.ErrNotFound
			}
			return ports.ErrStaleState
		}
		order, err := getOrder(tx, id)
		if err != nil {
			return err
		}
		if restock {
			lines := order.RestockLines()
			for _, productID := range sortedKeys(lines) {
				res := tx.Model(&productRecord{}).
					Where("id = ?", productID).
					Updates(map[string]any{
						"quantity":   gorm.Expr("quantity + ?", lines[productID]),
						"updated_at": now,
					})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					result.SkippedProducts = append(result.SkippedProducts, productID)
					continue
				}
				result.RestockedProducts = append(result.RestockedProducts, productID)
			}
		}
		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdatePaymentStatus sets the payment status without touching fulfilment.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := domain.ParsePaymentStatus(string(status)); err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"payment_status": string(status), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) find(query *gorm.DB) ([]*domain.Order, error) {
	var records []orderRecord
	if err := query.Preload("Items").Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func getOrder(db *gorm.DB, id int64) (*domain.Order, error) {
	var record orderRecord
	if err := db.Preload("Items").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func sortedKeys(lines map[int64]int32) []int64 {
	keys := make([]int64, 0, len(lines))
	for id := range lines {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:            order.ID,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		PaymentMethod: order.PaymentMethod,
		FullName:      order.DeliveryDetails.FullName,
		Address:       order.DeliveryDetails.Address,
		City:          order.DeliveryDetails.City,
		PostalCode:    order.DeliveryDetails.PostalCode,
		Phone:         order.DeliveryDetails.Phone,
	}
	for _, item := range order.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:            r.ID,
		UserID:        r.UserID,
		TotalAmount:   r.TotalAmount,
		Status:        domain.Status(r.Status),
		PaymentStatus: domain.PaymentStatus(r.PaymentStatus),
		PaymentMethod: r.PaymentMethod,
		DeliveryDetails: domain.DeliveryDetails{
			FullName:   r.FullName,
			Address:    r.Address,
			City:       r.City,
			PostalCode: r.PostalCode,
			Phone:      r.Phone,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	items := append([]orderItemRecord(nil), r.Items...)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	for _, item := range items {
		order.Items = append(order.Items, domain.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order
}
