package handler

import (
	"strings"

	catalogapp "github.com/catalogsync/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler exposes read access to catalog products
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes mounts the product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("/:code", h.GetByCode)
		products.DELETE("/:code/saved-response", h.ClearSavedResponse)
	}
}

// GetByCode handles GET /api/v1/products/:code
func (h *ProductHandler) GetByCode(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	product, err := h.productService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// ClearSavedResponse handles DELETE /api/v1/products/:code/saved-response
func (h *ProductHandler) ClearSavedResponse(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	if err := h.productService.ClearSavedResponse(c.Request.Context(), code); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"code": code, "cleared": true})
}
