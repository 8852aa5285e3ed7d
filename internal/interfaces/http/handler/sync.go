package handler

import (
	"strings"

	catalogapp "github.com/catalogsync/backend/internal/application/catalog"
	integrationapp "github.com/catalogsync/backend/internal/application/integration"
	"github.com/catalogsync/backend/internal/domain/integration"
	"github.com/catalogsync/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerateVariantsRequest is the body of a variant generation request
type GenerateVariantsRequest struct {
	// Descriptor is the free-text variant descriptor, in either the
	// parenthesized pipe-delimited or the flat comma-delimited form
	Descriptor string `json:"descriptor" binding:"required,max=500"`
	// Image is an optional base64 image payload applied to every variant
	Image string `json:"image"`
}

// SyncResponse is the body returned for a successful synchronization run
type SyncResponse struct {
	State          string                             `json:"state"`
	TemplateID     int64                              `json:"template_id"`
	VariantIDs     []int64                            `json:"variant_ids"`
	VariantCount   int                                `json:"variant_count"`
	AttributeLines []catalogapp.AttributeLineResponse `json:"attribute_lines"`
}

// SyncHandler exposes the variant generation and replay operations
type SyncHandler struct {
	BaseHandler
	syncService    *integrationapp.VariantSyncService
	productService *catalogapp.ProductService
	locker         integration.SyncLocker
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(
	syncService *integrationapp.VariantSyncService,
	productService *catalogapp.ProductService,
	locker integration.SyncLocker,
) *SyncHandler {
	return &SyncHandler{
		syncService:    syncService,
		productService: productService,
		locker:         locker,
	}
}

// RegisterRoutes mounts the synchronization routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync/products/:code")
	{
		sync.POST("/variants", h.GenerateVariants)
		sync.POST("/variants/replay", h.ReplayVariants)
	}
}

// GenerateVariants handles POST /api/v1/sync/products/:code/variants
func (h *SyncHandler) GenerateVariants(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	var req GenerateVariantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, formatBindingError(err))
		return
	}

	release, err := h.locker.Acquire(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer release()

	result, err := h.syncService.GenerateAndSync(c.Request.Context(), integrationapp.GenerateSyncRequest{
		ProductCode: code,
		Descriptor:  req.Descriptor,
		Image:       req.Image,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// The run already succeeded remotely; a failed local store only disables
	// replay, so it is logged rather than turned into an error response
	if err := h.productService.StoreSavedResponse(c.Request.Context(), code, result.SavedResponse); err != nil {
		logger.GetGinLogger(c).Error("Failed to store saved response after sync",
			zap.String("product_code", code),
			zap.Error(err))
	}

	h.Success(c, toSyncResponse(result))
}

// ReplayVariants handles POST /api/v1/sync/products/:code/variants/replay
func (h *SyncHandler) ReplayVariants(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	release, err := h.locker.Acquire(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer release()

	result, err := h.syncService.Replay(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSyncResponse(result))
}

func toSyncResponse(result *integrationapp.SyncResult) SyncResponse {
	return SyncResponse{
		State:          result.State.String(),
		TemplateID:     result.TemplateID,
		VariantIDs:     result.VariantIDs,
		VariantCount:   result.VariantCount,
		AttributeLines: catalogapp.ToAttributeLineResponses(result.AttributeLines),
	}
}
