//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	petopiaserver "github.com/petopia/petopia-server/go"
	apptmemory "github.com/petopia/petopia-server/internal/domains/appointments/adapters/memory"
	apptapp "github.com/petopia/petopia-server/internal/domains/appointments/application"
	apptports "github.com/petopia/petopia-server/internal/domains/appointments/ports"
	petsmemory "github.com/petopia/petopia-server/internal/domains/pets/adapters/memory"
	petsapp "github.com/petopia/petopia-server/internal/domains/pets/application"
	storememory "github.com/petopia/petopia-server/internal/domains/store/adapters/memory"
	storeapp "github.com/petopia/petopia-server/internal/domains/store/application"
	storedomain "github.com/petopia/petopia-server/internal/domains/store/domain"
	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
	usermemory "github.com/petopia/petopia-server/internal/domains/users/adapters/memory"
	"github.com/petopia/petopia-server/internal/domains/users/adapters/token"
	userapp "github.com/petopia/petopia-server/internal/domains/users/application"
	pacttest "github.com/petopia/petopia-server/test/pact"
)

func TestPetopiaProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateProductInStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedProduct(t)
			}
			return nil, nil
		},
		pacttest.StateOrderDelivered: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedDeliveredOrder(t)
			}
			return nil, nil
		},
		pacttest.StateNoSlotsBooked: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateSlotBooked: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedSlot(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves the real router over memory adapters that are rebuilt per provider state.
type contractProviderApp struct {
	mu      sync.RWMutex
	handler http.Handler
	orders  storeports.Service
	catalog storeports.CatalogService
	slots   apptports.SlotService
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		handler := app.handler
		app.mu.RUnlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	store := storememory.NewStore()
	orders := storeapp.NewService(store.Orders(), store.Products())
	catalog := storeapp.NewCatalog(store.Products())
	appointments := apptapp.NewService(apptmemory.NewSlotRepository(), apptmemory.NewAppointmentRepository())
	issuer, err := token.NewJWTIssuer("pact-secret-with-enough-entropy", time.Hour)
	require.NoError(t, err)

	handlers := petopiaserver.ApiHandleFunctions{
		OrderAPI:       petopiaserver.NewOrderAPI(orders),
		ProductAPI:     petopiaserver.NewProductAPI(catalog),
		TimeSlotAPI:    petopiaserver.NewTimeSlotAPI(appointments),
		AppointmentAPI: petopiaserver.NewAppointmentAPI(appointments),
		UserAPI:        petopiaserver.NewUserAPI(userapp.NewService(usermemory.NewRepository(), issuer)),
		PetAPI:         petopiaserver.NewPetAPI(petsapp.NewService(petsmemory.NewRepository())),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = petopiaserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = router
	a.orders, a.catalog, a.slots = orders, catalog, appointments
}

func (a *contractProviderApp) seedProduct(t testing.TB) {
	t.Helper()
	product, err := a.catalog.CreateProduct(context.Background(), storeports.ProductInput{
		Name:     "Salmon Kibble",
		Category: "food",
		Price:    decimal.RequireFromString("12.50"),
		Quantity: 10,
	})
	require.NoError(t, err)
	require.Equal(t, pacttest.ProductID, product.ID)
}

func (a *contractProviderApp) seedDeliveredOrder(t testing.TB) {
	t.Helper()
	a.seedProduct(t)
	ctx := context.Background()
	order, err := a.orders.PlaceOrder(ctx, storeports.CheckoutInput{
		UserID:          7,
		Items:           []storeports.CheckoutLine{{ProductID: pacttest.ProductID, Quantity: 1}},
		PaymentMethod:   "card",
		DeliveryDetails: storedomain.DeliveryDetails{FullName: "Pact Customer", Address: "1 Contract Way"},
	})
	require.NoError(t, err)
	require.Equal(t, pacttest.OrderID, order.ID)
	for _, status := range []storedomain.Status{storedomain.StatusProcessing, storedomain.StatusShipped, storedomain.StatusDelivered} {
		_, err = a.orders.TransitionStatus(ctx, order.ID, string(status))
		require.NoError(t, err)
	}
}

func (a *contractProviderApp) seedSlot(t testing.TB) {
	t.Helper()
	_, err := a.slots.BookSlot(context.Background(), pacttest.SlotDate, pacttest.SlotService, pacttest.SlotLabel)
	require.NoError(t, err)
}
