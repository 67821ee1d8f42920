package petopiaserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptmemory "github.com/petopia/petopia-server/internal/domains/appointments/adapters/memory"
	apptapp "github.com/petopia/petopia-server/internal/domains/appointments/application"
	petsmemory "github.com/petopia/petopia-server/internal/domains/pets/adapters/memory"
	petsapp "github.com/petopia/petopia-server/internal/domains/pets/application"
	storememory "github.com/petopia/petopia-server/internal/domains/store/adapters/memory"
	storeapp "github.com/petopia/petopia-server/internal/domains/store/application"
	usermemory "github.com/petopia/petopia-server/internal/domains/users/adapters/memory"
	"github.com/petopia/petopia-server/internal/domains/users/adapters/token"
	userapp "github.com/petopia/petopia-server/internal/domains/users/application"
	apierrors "github.com/petopia/petopia-server/internal/shared/errors"
)

const (
	testDay  = "2026-05-04"
	testSlot = "09:00 AM-09:30 AM"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := storememory.NewStore()
	issuer, err := token.NewJWTIssuer("test-secret-with-enough-entropy", time.Hour)
	require.NoError(t, err)
	appointments := apptapp.NewService(apptmemory.NewSlotRepository(), apptmemory.NewAppointmentRepository())

	return NewRouter(ApiHandleFunctions{
		OrderAPI:       NewOrderAPI(storeapp.NewService(store.Orders(), store.Products())),
		ProductAPI:     NewProductAPI(storeapp.NewCatalog(store.Products())),
		TimeSlotAPI:    NewTimeSlotAPI(appointments),
		AppointmentAPI: NewAppointmentAPI(appointments),
		UserAPI:        NewUserAPI(userapp.NewService(usermemory.NewRepository(), issuer)),
		PetAPI:         NewPetAPI(petsapp.NewService(petsmemory.NewRepository())),
	})
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func createProduct(t *testing.T, router *gin.Engine, name string, qty int) int64 {
	t.Helper()
	rec, body := do(t, router, http.MethodPost, "/api/products", map[string]any{
		"name": name, "category": "food", "price": "12.50", "quantity": qty,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return int64(body["id"].(float64))
}

func placeOrder(t *testing.T, router *gin.Engine, productID int64, qty int) int64 {
	t.Helper()
	rec, body := do(t, router, http.MethodPost, "/api/orders", map[string]any{
		"userId":        3,
		"items":         []map[string]any{{"productId": productID, "quantity": qty}},
		"paymentMethod": "card",
		"deliveryDetails": map[string]any{
			"fullName": "Ann", "address": "1 Main St", "city": "Oslo", "postalCode": "0150",
		},
		"totalAmount": "1.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	want := decimal.RequireFromString("12.50").Mul(decimal.NewFromInt(int64(qty)))
	assert.Equal(t, want.String(), body["totalAmount"])
	return int64(body["id"].(float64))
}

func stockOf(t *testing.T, router *gin.Engine, productID int64) float64 {
	t.Helper()
	rec, body := do(t, router, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return body["quantity"].(float64)
}

func TestHealthz(t *testing.T) {
	rec, body := do(t, newTestRouter(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestOrderStatus_InvalidTransitionListsAllowed(t *testing.T) {
	router := newTestRouter(t)
	orderID := placeOrder(t, router, createProduct(t, router, "Kibble", 5), 2)

	rec, body := do(t, router, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", orderID), map[string]any{"status": "Shipped"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, []any{"Processing", "Cancelled"}, body["allowedTransitions"])
	assert.Equal(t, "cannot change order status from Pending to Shipped", body["error"])
}

func TestOrderStatus_UnknownStatusIsBadRequest(t *testing.T) {
	router := newTestRouter(t)
	orderID := placeOrder(t, router, createProduct(t, router, "Kibble", 5), 1)

	rec, body := do(t, router, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", orderID), map[string]any{"status": "Lost"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, body, "allowedTransitions")
}

func TestOrderStatus_ProcessingToCancelledRestocks(t *testing.T) {
	router := newTestRouter(t)
	productID := createProduct(t, router, "Kibble", 5)
	orderID := placeOrder(t, router, productID, 2)
	require.Equal(t, float64(3), stockOf(t, router, productID))

	path := fmt.Sprintf("/api/orders/%d/status", orderID)
	rec, _ := do(t, router, http.MethodPatch, path, map[string]any{"status": "Processing"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body := do(t, router, http.MethodPatch, path, map[string]any{"status": "Cancelled"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cancelled", body["status"])
	assert.Equal(t, float64(5), stockOf(t, router, productID))

	rec, body = do(t, router, http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel", orderID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{}, body["allowedTransitions"])
	assert.Equal(t, float64(5), stockOf(t, router, productID))
}

func TestUpdateOrder_SameStatusIsRejected(t *testing.T) {
	router := newTestRouter(t)
	orderID := placeOrder(t, router, createProduct(t, router, "Kibble", 5), 1)
	path := fmt.Sprintf("/api/orders/%d", orderID)

	rec, body := do(t, router, http.MethodPut, path, map[string]any{"status": "Pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"Processing", "Cancelled"}, body["allowedTransitions"])

	rec, _ = do(t, router, http.MethodPut, path, map[string]any{"status": "Cancelled"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body = do(t, router, http.MethodPut, path, map[string]any{"status": "Cancelled"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{}, body["allowedTransitions"])
}

func TestPlaceOrder_InsufficientStockIsConflict(t *testing.T) {
	router := newTestRouter(t)
	productID := createProduct(t, router, "Toy", 1)

	rec, _ := do(t, router, http.MethodPost, "/api/orders", map[string]any{
		"userId":          3,
		"items":           []map[string]any{{"productId": productID, "quantity": 2}},
		"deliveryDetails": map[string]any{"address": "1 Main St"},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, float64(1), stockOf(t, router, productID))
}

func TestGetOrder_NotFoundAndBadID(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := do(t, router, http.MethodGet, "/api/orders/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/api/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventory_CountsByStatus(t *testing.T) {
	router := newTestRouter(t)
	placeOrder(t, router, createProduct(t, router, "Kibble", 5), 1)

	rec, body := do(t, router, http.MethodGet, "/api/orders/inventory", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["Pending"])
}

func TestTimeSlots_DuplicateBookingIsRejected(t *testing.T) {
	router := newTestRouter(t)
	slot := map[string]any{"slot": testSlot, "date": testDay, "serviceType": "Grooming"}

	rec, _ := do(t, router, http.MethodPost, "/timeslots/bookSlot", slot)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, body := do(t, router, http.MethodPost, "/timeslots/bookSlot", slot)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "this time slot is already booked", body["detail"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/timeslots/bookedSlots?date="+testDay+"&serviceType=Grooming", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"slot":"09:00 AM-09:30 AM"}]`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/timeslots/bookedSlots?date="+testDay+"&serviceType=Training", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAppointments_CompleteRequiresConfirmation(t *testing.T) {
	router := newTestRouter(t)
	rec, body := do(t, router, http.MethodPost, "/appointments", map[string]any{
		"petId": 1, "userId": 2, "serviceType": "Grooming", "groomingType": "Full Groom",
		"date": testDay, "time": testSlot, "amount": "1.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "45", body["amount"])
	id := int64(body["id"].(float64))

	complete := fmt.Sprintf("/appointments/complete/%d", id)
	rec, _ = do(t, router, http.MethodPut, complete, map[string]any{"status": "Completed"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, http.MethodPut, fmt.Sprintf("/appointments/confirm/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body = do(t, router, http.MethodPut, complete, map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Completed", body["status"])
}

func TestAppointments_QuoteAndDeleteSlot(t *testing.T) {
	router := newTestRouter(t)

	rec, body := do(t, router, http.MethodPost, "/appointments/quote", map[string]any{
		"serviceType": "Boarding", "boardingStart": "2026-05-01", "boardingEnd": "2026-05-08",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "220.5", body["amount"])

	rec, _ = do(t, router, http.MethodPost, "/timeslots/bookSlot", map[string]any{"slot": testSlot, "date": testDay, "serviceType": "Medical"})
	require.Equal(t, http.StatusCreated, rec.Code)
	release := map[string]any{"date": testDay, "time": testSlot, "serviceType": "Medical"}
	rec, _ = do(t, router, http.MethodPost, "/appointments/timeslots/delete", release)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, router, http.MethodPost, "/appointments/timeslots/delete", release)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers_RegisterLoginAndLookup(t *testing.T) {
	router := newTestRouter(t)
	register := map[string]any{"username": "ann", "email": "ann@example.com", "password": "s3cret!"}

	rec, body := do(t, router, http.MethodPost, "/api/users/register", register)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, body, "password")
	id := int64(body["id"].(float64))

	rec, _ = do(t, router, http.MethodPost, "/api/users/register", register)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/api/users/login", map[string]any{"username": "ann", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = do(t, router, http.MethodPost, "/api/users/login", map[string]any{"username": "ann", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["token"])

	rec, body = do(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann", body["username"])
}

func TestAdoptions_ApproveThenRejectFails(t *testing.T) {
	router := newTestRouter(t)
	rec, body := do(t, router, http.MethodPost, "/api/pets", map[string]any{"name": "Rex", "species": "dog", "ageYears": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "available", body["status"])
	petID := int64(body["id"].(float64))

	rec, body = do(t, router, http.MethodPost, "/api/adoptions", map[string]any{"petId": petID, "userId": 7})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	adoptionID := int64(body["id"].(float64))

	rec, _ = do(t, router, http.MethodPost, "/api/adoptions", map[string]any{"petId": petID, "userId": 8})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, http.MethodPut, fmt.Sprintf("/api/adoptions/%d/approve", adoptionID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, router, http.MethodPut, fmt.Sprintf("/api/adoptions/%d/reject", adoptionID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(t, router, http.MethodGet, fmt.Sprintf("/api/pets/%d", petID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "adopted", body["status"])
	assert.Equal(t, float64(7), body["ownerId"])
}
