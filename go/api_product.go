package petopiaserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	storehttpmapper "github.com/petopia/petopia-server/internal/domains/store/adapters/http/mapper"
	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
)

// ProductAPI wires HTTP transport with the catalogue.
type ProductAPI struct {
	catalog storeports.CatalogService
}

func NewProductAPI(catalog storeports.CatalogService) ProductAPI {
	return ProductAPI{catalog: catalog}
}

// Post /api/products
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload storehttpmapper.ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.catalog.CreateProduct(c.Request.Context(), storehttpmapper.ToProductInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, storehttpmapper.FromDomainProduct(product))
}

// Get /api/products
// Optional ?category= filter
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.catalog.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainProducts(products))
}

// Get /api/products/:productId
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainProduct(product))
}

// Put /api/products/:productId
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload storehttpmapper.ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.catalog.UpdateProduct(c.Request.Context(), id, storehttpmapper.ToProductInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainProduct(product))
}

// Patch /api/products/:productId/stock
func (api *ProductAPI) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload storehttpmapper.StockAdjustment
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.catalog.AdjustStock(c.Request.Context(), id, payload.Delta)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, storehttpmapper.FromDomainProduct(product))
}

// Delete /api/products/:productId
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
