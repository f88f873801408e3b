package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Pinger is satisfied by *sql.DB and repository.Memory.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	Store        Pinger
	ShuttingDown *atomic.Bool
}

// Health is a simple liveness endpoint used by load balancers and
// monitoring systems to verify that the process is running.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready reports 503 once shutdown has begun or when the store is unreachable.
func (h *HealthHandler) Ready(c echo.Context) error {
	if h.ShuttingDown != nil && h.ShuttingDown.Load() {
		return message(c, http.StatusServiceUnavailable, "shutting down")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.Store.PingContext(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("readiness ping failed")
		return message(c, http.StatusServiceUnavailable, "store unavailable")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
