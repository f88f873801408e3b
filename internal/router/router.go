package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/contacts-manager/internal/handler"
	"github.com/iliyamo/contacts-manager/internal/middleware"
)

// Options configures the echo instance built by New.
type Options struct {
	CORSOrigin string
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// New builds an echo instance with the shared error handler and the global
// middleware chain. Routes are added with the Register* functions.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	// Order matters: the logger sees the final status because Metrics renders
	// handler errors before returning.
	e.Use(middleware.RequestLogger())
	if opts.Registerer != nil {
		e.Use(middleware.NewMetrics(opts.Registerer).Middleware())
	}
	e.Use(echomw.Recover())
	if opts.CORSOrigin != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{opts.CORSOrigin},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, middleware.RequestIDHeader},
			AllowCredentials: true,
		}))
	}

	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	return e
}

// RegisterRoutes registers the probes, which need no authentication.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
	e.GET("/readyz", h.Ready)
}

// RegisterAuth registers the session endpoints under /api/auth. Register,
// login and logout are public; /me sits behind the session gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, gate echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, gate)
}

// RegisterContacts registers the owner-scoped contact CRUD. Every route
// requires a session.
func RegisterContacts(e *echo.Echo, h *handler.ContactHandler, gate echo.MiddlewareFunc) {
	g := e.Group("/api/contacts", gate)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
