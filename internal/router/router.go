// Package router registers the HTTP surface of the API on an Echo instance.
package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nileshswami544-code/freelancerpayment/internal/config"
	"github.com/nileshswami544-code/freelancerpayment/internal/handler"
	"github.com/nileshswami544-code/freelancerpayment/internal/middleware"
)

// Deps is everything the routes need.
type Deps struct {
	Auth      *handler.AuthHandler
	Resources *handler.ResourceHandler
	Verifier  middleware.TokenVerifier
	Cache     config.CacheConfig
	Redis     *redis.Client // nil disables the report cache
	Log       *zap.SugaredLogger
	StaticDir string
}

// New builds an Echo instance with the shared middleware stack, the central
// error handler and every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "request_id", v.RequestID}
			if v.Error != nil {
				d.Log.Warnw("request", append(fields, "error", v.Error)...)
				return nil
			}
			d.Log.Infow("request", fields...)
			return nil
		},
	}))

	RegisterRoutes(e)
	RegisterAuth(e, d.Auth, d.Verifier)
	RegisterResources(e, d)
	if d.StaticDir != "" {
		e.Static("/", d.StaticDir)
	}
	return e
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers signup/login and the token probe.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, v middleware.TokenVerifier) {
	g := e.Group("/api")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)

	e.GET("/api/me", a.Me, middleware.JWTAuth(v))
}

// RegisterResources registers the ownership-scoped CRUD and report routes.
// Every route requires a session token; successful writes invalidate the
// caller's cached reports.
func RegisterResources(e *echo.Echo, d Deps) {
	h := d.Resources
	g := e.Group("/api",
		middleware.JWTAuth(d.Verifier),
		middleware.InvalidateOnWrite(d.Cache, d.Redis, d.Log),
	)

	g.GET("/clients", h.ListClients)
	g.POST("/clients", h.CreateClient)
	g.GET("/clients/:id", h.GetClient)
	g.PUT("/clients/:id", h.UpdateClient)
	g.DELETE("/clients/:id", h.DeleteClient)

	g.GET("/projects", h.ListProjects)
	g.POST("/projects", h.CreateProject)
	g.GET("/projects/:id", h.GetProject)
	g.PUT("/projects/:id", h.UpdateProject)
	g.DELETE("/projects/:id", h.DeleteProject)

	g.GET("/invoices", h.ListInvoices)
	g.POST("/invoices", h.CreateInvoice)
	g.GET("/invoices/:id", h.GetInvoice)
	g.PUT("/invoices/:id", h.UpdateInvoice)
	g.DELETE("/invoices/:id", h.DeleteInvoice)

	g.GET("/payments", h.ListPayments)
	g.POST("/payments", h.CreatePayment)

	reports := g.Group("/reports", middleware.ReportCache(d.Cache, d.Redis, d.Log))
	reports.GET("/total-payments", h.TotalPayments)
	reports.GET("/pending-invoices", h.PendingInvoices)
}
