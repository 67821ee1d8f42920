package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petopia/petopia-server/internal/domains/store/adapters/memory"
	"github.com/petopia/petopia-server/internal/domains/store/domain"
	"github.com/petopia/petopia-server/internal/domains/store/ports"
	"github.com/petopia/petopia-server/internal/shared/events"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []ports.CancellationNotice
	err     error
}

func (r *recordingNotifier) NotifyCancellation(_ context.Context, notice ports.CancellationNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

// staleOrders loses every compare-and-swap.
type staleOrders struct {
	ports.OrderRepository
	attempts int
}

func (s *staleOrders) TransitionStatus(context.Context, int64, domain.Status, domain.Status, bool) (*ports.TransitionResult, error) {
	s.attempts++
	return nil, ports.ErrStaleState
}

type fixture struct {
	store     *memory.Store
	svc       *Service
	catalog   *Catalog
	notifier  *recordingNotifier
	publisher *events.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	publisher := &events.Recorder{}
	return &fixture{
		store:     store,
		svc:       NewService(store.Orders(), store.Products(), WithNotifier(notifier), WithPublisher(publisher)),
		catalog:   NewCatalog(store.Products()),
		notifier:  notifier,
		publisher: publisher,
	}
}

func (f *fixture) product(t *testing.T, name, price string, qty int32) *domain.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), ports.ProductInput{
		Name: name, Category: "food", Price: decimal.RequireFromString(price), Quantity: qty,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) order(t *testing.T, lines ...ports.CheckoutLine) *domain.Order {
	t.Helper()
	order, err := f.svc.PlaceOrder(context.Background(), ports.CheckoutInput{
		UserID:          3,
		Items:           lines,
		PaymentMethod:   "card",
		DeliveryDetails: domain.DeliveryDetails{FullName: "Ann", Address: "1 Main St", City: "Oslo"},
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) stock(t *testing.T, id int64) int32 {
	t.Helper()
	p, err := f.catalog.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func TestPlaceOrder_PricesFromCatalogueAndReservesStock(t *testing.T) {
	f := newFixture(t)
	kibble := f.product(t, "Kibble", "12.50", 10)
	toy := f.product(t, "Toy", "4.25", 3)

	order := f.order(t, ports.CheckoutLine{ProductID: kibble.ID, Quantity: 2}, ports.CheckoutLine{ProductID: toy.ID, Quantity: 3})

	assert.Equal(t, domain.StatusPending, order.Status)
	assert.True(t, decimal.RequireFromString("37.75").Equal(order.TotalAmount), order.TotalAmount.String())
	assert.Equal(t, int32(8), f.stock(t, kibble.ID))
	assert.Equal(t, int32(0), f.stock(t, toy.ID))
	assert.Equal(t, []string{events.TypeOrderPlaced}, f.publisher.Types())
}

func TestPlaceOrder_InsufficientStockLeavesCatalogueUntouched(t *testing.T) {
	f := newFixture(t)
	kibble := f.product(t, "Kibble", "12.50", 10)
	toy := f.product(t, "Toy", "4.25", 1)

	_, err := f.svc.PlaceOrder(context.Background(), ports.CheckoutInput{
		UserID:          3,
		Items:           []ports.CheckoutLine{{ProductID: kibble.ID, Quantity: 2}, {ProductID: toy.ID, Quantity: 2}},
		DeliveryDetails: domain.DeliveryDetails{Address: "1 Main St"},
	})
	require.ErrorIs(t, err, ports.ErrInsufficientStock)
	assert.Equal(t, int32(10), f.stock(t, kibble.ID))
	assert.Equal(t, int32(1), f.stock(t, toy.ID))
}

func TestPlaceOrder_RejectsBadCarts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, ports.CheckoutInput{UserID: 1, DeliveryDetails: domain.DeliveryDetails{Address: "x"}})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyOrder)

	_, err = f.svc.PlaceOrder(ctx, ports.CheckoutInput{
		UserID:          1,
		Items:           []ports.CheckoutLine{{ProductID: 99, Quantity: 1}},
		DeliveryDetails: domain.DeliveryDetails{Address: "x"},
	})
	require.ErrorIs(t, err, ports.ErrProductNotFound)

	p := f.product(t, "Leash", "8", 5)
	_, err = f.svc.PlaceOrder(ctx, ports.CheckoutInput{
		UserID:          1,
		Items:           []ports.CheckoutLine{{ProductID: p.ID, Quantity: 1}},
		DeliveryDetails: domain.DeliveryDetails{},
	})
	require.ErrorIs(t, err, domain.ErrMissingDelivery)
	assert.Equal(t, int32(5), f.stock(t, p.ID))
}

func TestTransitionStatus_FollowsStateMachine(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kibble", "10", 5)
	order := f.order(t, ports.CheckoutLine{ProductID: p.ID, Quantity: 1})
	ctx := context.Background()

	_, err := f.svc.TransitionStatus(ctx, order.ID, "Shipped")
	var transitionErr *domain.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, []domain.Status{domain.StatusProcessing, domain.StatusCancelled}, transitionErr.Allowed)

	for _, next := range []string{"Processing", "Shipped", "Delivered"} {
		updated, err := f.svc.TransitionStatus(ctx, order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, domain.Status(next), updated.Status)
	}

	_, err = f.svc.TransitionStatus(ctx, order.ID, "Cancelled")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	require.ErrorAs(t, err, &transitionErr)
	assert.Empty(t, transitionErr.Allowed)

	_, err = f.svc.TransitionStatus(ctx, order.ID, "Lost")
	require.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.TransitionStatus(ctx, 404, "Processing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCancelFromProcessing_RestocksAndNotifiesOnce(t *testing.T) {
	f := newFixture(t)
	kibble := f.product(t, "Kibble", "12.50", 10)
	toy := f.product(t, "Toy", "4.25", 5)
	order := f.order(t,
		ports.CheckoutLine{ProductID: kibble.ID, Quantity: 2},
		ports.CheckoutLine{ProductID: toy.ID, Quantity: 1},
		ports.CheckoutLine{ProductID: kibble.ID, Quantity: 1},
	)
	ctx := context.Background()
	_, err := f.svc.TransitionStatus(ctx, order.ID, "Processing")
	require.NoError(t, err)
	assert.Equal(t, int32(7), f.stock(t, kibble.ID))

	cancelled, err := f.svc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, int32(10), f.stock(t, kibble.ID))
	assert.Equal(t, int32(5), f.stock(t, toy.ID))
	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, order.ID, f.notifier.notices[0].OrderID)
	assert.True(t, order.TotalAmount.Equal(f.notifier.notices[0].TotalAmount))
	assert.Equal(t, []string{events.TypeOrderPlaced, events.TypeOrderStatusChanged, events.TypeOrderStatusChanged}, f.publisher.Types())
}

func TestCancel_SkipsDeletedProducts(t *testing.T) {
	f := newFixture(t)
	kibble := f.product(t, "Kibble", "12.50", 10)
	toy := f.product(t, "Toy", "4.25", 5)
	order := f.order(t, ports.CheckoutLine{ProductID: kibble.ID, Quantity: 2}, ports.CheckoutLine{ProductID: toy.ID, Quantity: 1})
	require.NoError(t, f.catalog.DeleteProduct(context.Background(), toy.ID))

	cancelled, err := f.svc.CancelOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, int32(10), f.stock(t, kibble.ID))
}

func TestCancel_NotifierFailureDoesNotFailTheRequest(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("smtp down")
	p := f.product(t, "Kibble", "10", 5)
	order := f.order(t, ports.CheckoutLine{ProductID: p.ID, Quantity: 1})

	cancelled, err := f.svc.CancelOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, 1, f.notifier.count())
}

func TestConcurrentCancel_RestocksExactlyOnce(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kibble", "10", 10)
	order := f.order(t, ports.CheckoutLine{ProductID: p.ID, Quantity: 4})
	_, err := f.svc.TransitionStatus(context.Background(), order.ID, "Processing")
	require.NoError(t, err)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.CancelOrder(context.Background(), order.ID); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, int32(10), f.stock(t, p.ID))
	assert.Equal(t, 1, f.notifier.count())
}

func TestTransitionStatus_GivesUpAfterRepeatedConflicts(t *testing.T) {
	store := memory.NewStore()
	catalog := NewCatalog(store.Products())
	p, err := catalog.CreateProduct(context.Background(), ports.ProductInput{Name: "Kibble", Price: decimal.NewFromInt(1), Quantity: 1})
	require.NoError(t, err)
	seed := NewService(store.Orders(), store.Products())
	order, err := seed.PlaceOrder(context.Background(), ports.CheckoutInput{
		UserID:          1,
		Items:           []ports.CheckoutLine{{ProductID: p.ID, Quantity: 1}},
		DeliveryDetails: domain.DeliveryDetails{Address: "x"},
	})
	require.NoError(t, err)

	stale := &staleOrders{OrderRepository: store.Orders()}
	notifier := &recordingNotifier{}
	svc := NewService(stale, store.Products(), WithNotifier(notifier))

	_, err = svc.CancelOrder(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, maxTransitionAttempts, stale.attempts)
	assert.Zero(t, notifier.count())
}

func TestUpdateOrder_PaymentIsIndependentOfFulfilment(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kibble", "10", 5)
	order := f.order(t, ports.CheckoutLine{ProductID: p.ID, Quantity: 1})
	ctx := context.Background()

	status, paid := "Processing", "Paid"
	updated, err := f.svc.UpdateOrder(ctx, order.ID, ports.OrderPatch{Status: &status, PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)
	assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)

	failed := "Failed"
	updated, err = f.svc.UpdateOrder(ctx, order.ID, ports.OrderPatch{PaymentStatus: &failed})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)
	assert.Equal(t, domain.PaymentFailed, updated.PaymentStatus)

	bogus := "Refunded"
	_, err = f.svc.UpdateOrder(ctx, order.ID, ports.OrderPatch{PaymentStatus: &bogus})
	require.ErrorIs(t, err, ErrInvalidInput)

	back := "Pending"
	_, err = f.svc.UpdateOrder(ctx, order.ID, ports.OrderPatch{Status: &back})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateOrder_SameStatusIsRejected(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kibble", "10", 5)
	ctx := context.Background()

	pending := f.order(t, ports.CheckoutLine{ProductID: p.ID, Quantity: 1})
	same := "Pending"
	_, err := f.svc.UpdateOrder(ctx, pending.ID, ports.OrderPatch{Status: &same})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.CancelOrder(ctx, pending.ID)
	require.NoError(t, err)
	cancelled := "Cancelled"
	_, err = f.svc.UpdateOrder(ctx, pending.ID, ports.OrderPatch{Status: &cancelled})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	var transitionErr *domain.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Empty(t, transitionErr.Allowed)

	stock, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(5), stock.Quantity)
}

func TestInventory_CountsOrdersPerStatus(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kibble", "10", 50)
	first := f.order(t, ports.CheckoutLine{ProductID: p.ID, Quantity: 1})
	f.order(t, ports.CheckoutLine{ProductID: p.ID, Quantity: 1})
	_, err := f.svc.CancelOrder(context.Background(), first.ID)
	require.NoError(t, err)

	counts, err := f.svc.Inventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), counts["Pending"])
	assert.Equal(t, int32(1), counts["Cancelled"])
	assert.Equal(t, int32(0), counts["Delivered"])
	assert.Len(t, counts, 5)
}

func TestCatalog_AdjustStockRefusesNegative(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kibble", "10", 2)

	updated, err := f.catalog.AdjustStock(context.Background(), p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(5), updated.Quantity)

	_, err = f.catalog.AdjustStock(context.Background(), p.ID, -6)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNegativeStock)
	assert.Equal(t, int32(5), f.stock(t, p.ID))

	_, err = f.catalog.AdjustStock(context.Background(), 404, 1)
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}
