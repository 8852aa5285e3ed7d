package handler

import (
	catalogapp "github.com/catalogsync/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// AttributeHandler exposes read access to the attribute taxonomy
type AttributeHandler struct {
	BaseHandler
	attributeService *catalogapp.AttributeService
}

// NewAttributeHandler creates a new AttributeHandler
func NewAttributeHandler(attributeService *catalogapp.AttributeService) *AttributeHandler {
	return &AttributeHandler{attributeService: attributeService}
}

// RegisterRoutes mounts the attribute routes
func (h *AttributeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	attributes := rg.Group("/attributes")
	{
		attributes.GET("", h.List)
	}
}

// List handles GET /api/v1/attributes
func (h *AttributeHandler) List(c *gin.Context) {
	attributes, err := h.attributeService.ListAttributes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, attributes)
}
