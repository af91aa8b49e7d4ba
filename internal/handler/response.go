package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"lingovibe/backend/internal/audio"
	"lingovibe/backend/internal/service"
	"lingovibe/backend/internal/service/ai"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalid):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})
	case errors.Is(err, service.ErrPrecondition):
		return c.JSON(http.StatusConflict, errorResponse{Error: "not available in the current state"})
	case errors.Is(err, service.ErrBusy), errors.Is(err, audio.ErrBusy):
		return c.JSON(http.StatusConflict, errorResponse{Error: "busy"})
	case errors.Is(err, service.ErrNotConfigured):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "ai provider is not configured"})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, errorResponse{Error: "ai request timed out"})
	case errors.Is(err, ai.ErrSchemaViolation):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "ai response could not be parsed"})
	case errors.Is(err, service.ErrTransport):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "ai request failed"})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// Error returns a JSON error response with the given status and message
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}
