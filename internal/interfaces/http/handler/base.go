package handler

import (
	"errors"
	"net/http"

	"github.com/catalogsync/backend/internal/domain/integration"
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/catalogsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID assigned by the logging middleware
func getRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleError maps domain and pipeline errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, integration.ErrPreconditionFailed):
		h.Error(c, http.StatusPreconditionFailed, dto.ErrCodePreconditionFailed, err.Error())
	case errors.Is(err, integration.ErrSyncInProgress):
		h.Error(c, http.StatusConflict, dto.ErrCodeConflict, err.Error())
	case errors.Is(err, integration.ErrMissingCredential):
		h.Error(c, http.StatusPreconditionFailed, dto.ErrCodeMissingCredential, err.Error())
	case errors.Is(err, integration.ErrRemoteValidation):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeRemoteRejected, err.Error())
	case errors.Is(err, integration.ErrRemoteAuth), errors.Is(err, integration.ErrRemoteServer):
		h.Error(c, http.StatusBadGateway, dto.ErrCodeRemoteUnavailable, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found")
	default:
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.Error(c, http.StatusBadRequest, domainErr.Code, domainErr.Message)
			return
		}
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
	}
}
