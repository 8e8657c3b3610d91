package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/verdora/plantmarket/internal/logging"
	"github.com/verdora/plantmarket/internal/mykafka"
	"github.com/verdora/plantmarket/internal/service"
	"github.com/verdora/plantmarket/internal/transport"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// serviceError maps service sentinels onto HTTP responses. Unknown errors
// become a generic 500; detail stays in the logs.
func serviceError(c echo.Context, l *slog.Logger, op string, err error) error {
	if se, ok := service.IsInsufficientStock(err); ok {
		l.Warn(op, "status", 400, "product", se.Name, "requested", se.Requested, "available", se.Available)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{
			Message: fmt.Sprintf("Insufficient stock for %s", se.Name),
		})
	}

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		l.Warn(op, "status", 400, "reason", "empty cart")
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "Cart is empty"})
	case errors.Is(err, service.ErrValidation):
		l.Warn(op, "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op, "status", 404, "error", err)
		return c.JSON(http.StatusNotFound, transport.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrConflict):
		l.Warn(op, "status", 409, "error", err)
		return c.JSON(http.StatusConflict, transport.ErrorResponse{Message: err.Error()})
	default:
		l.Error(op, "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "internal error"})
	}
}

// publish sends a domain event with a bounded timeout. A nil producer (unit
// tests, broker outage at boot) turns it into a no-op; delivery failures are
// logged, never surfaced to the client.
func publish(c echo.Context, producer *mykafka.Producer, topic string, key uint, event map[string]any) {
	if producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}
