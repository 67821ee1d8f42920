// Package petopiaserver exposes the Petopia use cases over HTTP with gin.
package petopiaserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every bounded context.
type ApiHandleFunctions struct {
	OrderAPI       OrderAPI
	ProductAPI     ProductAPI
	TimeSlotAPI    TimeSlotAPI
	AppointmentAPI AppointmentAPI
	UserAPI        UserAPI
	PetAPI         PetAPI
}

// NewRouter returns a new router with request id, access logging and recovery installed.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(slog.Default()), gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", Healthz},

		{"PlaceOrder", http.MethodPost, "/api/orders", h.OrderAPI.PlaceOrder},
		{"ListOrders", http.MethodGet, "/api/orders", h.OrderAPI.ListOrders},
		{"GetInventory", http.MethodGet, "/api/orders/inventory", h.OrderAPI.GetInventory},
		{"ListOrdersByUser", http.MethodGet, "/api/orders/user/:userId", h.OrderAPI.ListOrdersByUser},
		{"GetOrder", http.MethodGet, "/api/orders/:orderId", h.OrderAPI.GetOrder},
		{"UpdateOrderStatus", http.MethodPatch, "/api/orders/:orderId/status", h.OrderAPI.UpdateOrderStatus},
		{"UpdateOrder", http.MethodPut, "/api/orders/:orderId", h.OrderAPI.UpdateOrder},
		{"CancelOrder", http.MethodPut, "/api/orders/:orderId/cancel", h.OrderAPI.CancelOrder},
		{"DeleteOrder", http.MethodDelete, "/api/orders/:orderId", h.OrderAPI.DeleteOrder},

		{"CreateProduct", http.MethodPost, "/api/products", h.ProductAPI.CreateProduct},
		{"ListProducts", http.MethodGet, "/api/products", h.ProductAPI.ListProducts},
		{"GetProduct", http.MethodGet, "/api/products/:productId", h.ProductAPI.GetProduct},
		{"UpdateProduct", http.MethodPut, "/api/products/:productId", h.ProductAPI.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/api/products/:productId", h.ProductAPI.DeleteProduct},
		{"AdjustStock", http.MethodPatch, "/api/products/:productId/stock", h.ProductAPI.AdjustStock},

		{"BookSlot", http.MethodPost, "/timeslots/bookSlot", h.TimeSlotAPI.BookSlot},
		{"BookedSlots", http.MethodGet, "/timeslots/bookedSlots", h.TimeSlotAPI.BookedSlots},
		{"AvailableSlots", http.MethodGet, "/timeslots/availableSlots", h.TimeSlotAPI.AvailableSlots},

		{"BookAppointment", http.MethodPost, "/appointments", h.AppointmentAPI.BookAppointment},
		{"QuoteAppointment", http.MethodPost, "/appointments/quote", h.AppointmentAPI.Quote},
		{"ListAppointments", http.MethodGet, "/appointments", h.AppointmentAPI.ListAppointments},
		{"GetAppointment", http.MethodGet, "/appointments/:id", h.AppointmentAPI.GetAppointment},
		{"ConfirmAppointment", http.MethodPut, "/appointments/confirm/:id", h.AppointmentAPI.ConfirmAppointment},
		{"CompleteAppointment", http.MethodPut, "/appointments/complete/:id", h.AppointmentAPI.CompleteAppointment},
		{"CancelAppointment", http.MethodPut, "/appointments/cancel/:id", h.AppointmentAPI.CancelAppointment},
		{"DeleteSlot", http.MethodPost, "/appointments/timeslots/delete", h.AppointmentAPI.DeleteSlot},

		{"RegisterUser", http.MethodPost, "/api/users/register", h.UserAPI.Register},
		{"LoginUser", http.MethodPost, "/api/users/login", h.UserAPI.Login},
		{"GetUser", http.MethodGet, "/api/users/:userId", h.UserAPI.GetUser},

		{"AddPet", http.MethodPost, "/api/pets", h.PetAPI.AddPet},
		{"ListPets", http.MethodGet, "/api/pets", h.PetAPI.ListPets},
		{"GetPet", http.MethodGet, "/api/pets/:petId", h.PetAPI.GetPet},
		{"RequestAdoption", http.MethodPost, "/api/adoptions", h.PetAPI.RequestAdoption},
		{"ListAdoptions", http.MethodGet, "/api/adoptions", h.PetAPI.ListAdoptions},
		{"ApproveAdoption", http.MethodPut, "/api/adoptions/:adoptionId/approve", h.PetAPI.ApproveAdoption},
		{"RejectAdoption", http.MethodPut, "/api/adoptions/:adoptionId/reject", h.PetAPI.RejectAdoption},
	}
}
