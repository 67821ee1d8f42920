package petopiaserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	storehttpmapper "github.com/petopia/petopia-server/internal/domains/store/adapters/http/mapper"
	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
)

// OrderAPI wires HTTP transport with the order use cases.
type OrderAPI struct {
	service storeports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service storeports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /api/orders
// Check out a cart; prices come from the catalogue
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload storehttpmapper.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.PlaceOrder(c.Request.Context(), storehttpmapper.ToCheckoutInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, storehttpmapper.FromDomainOrder(order))
}

// Get /api/orders
// List every order, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainOrders(orders))
}

// Get /api/orders/inventory
// Count orders per status
func (api *OrderAPI) GetInventory(c *gin.Context) {
	inventory, err := api.service.Inventory(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}

// Get /api/orders/user/:userId
// List the orders of one customer
func (api *OrderAPI) ListOrdersByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	orders, err := api.service.ListOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainOrders(orders))
}

// Get /api/orders/:orderId
// Find order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainOrder(order))
}

// Patch /api/orders/:orderId/status
// Move an order along the status state machine
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload storehttpmapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.TransitionStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainOrder(order))
}

// Put /api/orders/:orderId
// Admin update of status and payment status
func (api *OrderAPI) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload storehttpmapper.OrderPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.UpdateOrder(c.Request.Context(), id, storehttpmapper.ToOrderPatch(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainOrder(order))
}

// Put /api/orders/:orderId/cancel
// Cancel an order and restock its lines
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.CancelOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainOrder(order))
}

// Delete /api/orders/:orderId
// Delete purchase order by ID
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
