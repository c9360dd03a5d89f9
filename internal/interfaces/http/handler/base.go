// Package handler holds the gin handlers of the reporting API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/erp/reporting/internal/domain/shared"
	"github.com/erp/reporting/internal/interfaces/http/dto"
	"github.com/erp/reporting/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// HandleBindError answers a request whose body or query could not be bound.
func (h *BaseHandler) HandleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var tooLarge *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		middleware.HandleValidationError(c, err)
	case errors.As(err, &tooLarge):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		h.HandleError(c, err)
	default:
		h.BadRequest(c, err.Error())
	}
}

// HandleError converts service errors to HTTP responses. Validation errors
// carry their field details; domain errors map through their code.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		details := make([]dto.ValidationDetail, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			details = append(details, dto.ValidationDetail{Field: f.Field, Rule: f.Rule, Message: f.Message})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(verr.Error(), getRequestID(c), details))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status := dto.GetHTTPStatus(code)
		// Wrapped errors name the offending value; server faults keep the generic text
		msg := err.Error()
		if status >= http.StatusInternalServerError {
			msg = domainErr.Message
		}
		h.Error(c, status, code, msg)
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
