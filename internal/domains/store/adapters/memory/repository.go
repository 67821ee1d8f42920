package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/petopia/petopia-server/internal/domains/store/domain"
	"github.com/petopia/petopia-server/internal/domains/store/ports"
)

var (
	_ ports.OrderRepository   = (*Repository)(nil)
	_ ports.ProductRepository = (*Products)(nil)
)

// Store holds orders and products behind one lock so checkout and restock stay atomic.
type Store struct {
	mu            sync.Mutex
	orders        map[int64]*domain.Order
	products      map[int64]*domain.Product
	nextOrderID   int64
	nextProductID int64
	now           func() time.Time
}

func NewStore() *Store {
	return &Store{
		orders:   map[int64]*domain.Order{},
		products: map[int64]*domain.Product{},
		now:      time.Now,
	}
}

// Orders returns the order repository view of the store.
func (s *Store) Orders() *Repository { return &Repository{store: s} }

// Products returns the product repository view of the store.
func (s *Store) Products() *Products { return &Products{store: s} }

// Repository is an in-memory order persistence adapter.
type Repository struct {
	store *Store
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	needed := order.RestockLines()
	for productID, qty := range needed {
		product, ok := s.products[productID]
		if !ok {
			return nil, ports.ErrProductNotFound
		}
		if product.Quantity < qty {
			return nil, ports.ErrInsufficientStock
		}
	}
	now := s.now().UTC()
	for productID, qty := range needed {
		s.products[productID].Quantity -= qty
		s.products[productID].UpdatedAt = now
	}
	clone := order.Clone()
	s.nextOrderID++
	clone.ID = s.nextOrderID
	clone.CreatedAt = now
	clone.UpdatedAt = now
	s.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	order, ok := r.store.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.orders, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	return r.filter(func(*domain.Order) bool { return true }), nil
}

func (r *Repository) ListByUser(_ context.Context, userID int64) ([]*domain.Order, error) {
	return r.filter(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (r *Repository) filter(keep func(*domain.Order) bool) []*domain.Order {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	list := make([]*domain.Order, 0, len(r.store.orders))
	for _, order := range r.store.orders {
		if keep(order) {
			list = append(list, order.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list
}

func (r *Repository) TransitionStatus(_ context.Context, id int64, from, to domain.Status, restock bool) (*ports.TransitionResult, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if order.Status != from {
		return nil, ports.ErrStaleState
	}
	now := s.now().UTC()
	result := &ports.TransitionResult{}
	if restock {
		for productID, qty := range order.RestockLines() {
			product, ok := s.products[productID]
			if !ok {
				result.SkippedProducts = append(result.SkippedProducts, productID)
				continue
			}
			product.Quantity += qty
			product.UpdatedAt = now
			result.RestockedProducts = append(result.RestockedProducts, productID)
		}
	}
	order.Status = to
	order.UpdatedAt = now
	result.Order = order.Clone()
	sortIDs(result.RestockedProducts)
	sortIDs(result.SkippedProducts)
	return result, nil
}

func (r *Repository) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) (*domain.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := order.SetPaymentStatus(status); err != nil {
		return nil, err
	}
	order.UpdatedAt = s.now().UTC()
	return order.Clone(), nil
}

// Products is an in-memory catalogue adapter sharing the order store.
type Products struct {
	store *Store
}

func (p *Products) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *product
	now := s.now().UTC()
	if clone.ID == 0 {
		s.nextProductID++
		clone.ID = s.nextProductID
		clone.CreatedAt = now
	} else {
		if _, ok := s.products[clone.ID]; !ok {
			return nil, ports.ErrProductNotFound
		}
		if clone.ID > s.nextProductID {
			s.nextProductID = clone.ID
		}
	}
	clone.UpdatedAt = now
	s.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (p *Products) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	product, ok := p.store.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (p *Products) GetMany(_ context.Context, ids []int64) (map[int64]*domain.Product, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	out := make(map[int64]*domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := p.store.products[id]; ok {
			clone := *product
			out[id] = &clone
		}
	}
	return out, nil
}

func (p *Products) List(_ context.Context, category string) ([]*domain.Product, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	list := make([]*domain.Product, 0, len(p.store.products))
	for _, product := range p.store.products {
		if category != "" && product.Category != category {
			continue
		}
		clone := *product
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (p *Products) AdjustStock(_ context.Context, id int64, delta int32) (*domain.Product, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	product, ok := p.store.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	if err := product.AdjustStock(delta); err != nil {
		return nil, err
	}
	product.UpdatedAt = p.store.now().UTC()
	clone := *product
	return &clone, nil
}

func (p *Products) Delete(_ context.Context, id int64) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	if _, ok := p.store.products[id]; !ok {
		return ports.ErrProductNotFound
	}
	delete(p.store.products, id)
	return nil
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
