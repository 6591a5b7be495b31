package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/task-manager/docs"
	"github.com/99minutos/task-manager/internal/api/handler"
	"github.com/99minutos/task-manager/internal/api/middleware"
	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
)

// Dependencies are the services and probes the HTTP layer is wired to.
type Dependencies struct {
	Auth        ports.AuthService
	Invitations ports.InvitationService
	Tasks       ports.TaskService
	Tokens      ports.TokenCodec
	Readiness   map[string]handler.DependencyCheck
	Log         zerolog.Logger
	// Registry receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "taskmanager",
		Registerer: registerer(deps.Registry),
	}))

	authMiddleware := middleware.Auth(deps.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/signup", authHandler.Signup)

	// --- Invitation routes (admin only) ---
	invitationHandler := handler.NewInvitationHandler(deps.Invitations)
	invitations := e.Group("/invitations", authMiddleware, adminOnly)
	invitations.POST("", invitationHandler.Create)
	invitations.GET("", invitationHandler.List)
	invitations.PATCH("/:id/resend", invitationHandler.Resend)

	// --- Task routes (any authenticated identity) ---
	taskHandler := handler.NewTaskHandler(deps.Tasks)
	tasks := e.Group("/tasks", authMiddleware, middleware.RBAC())
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(deps.Registry),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func registerer(r *prometheus.Registry) prometheus.Registerer {
	if r == nil {
		return prometheus.DefaultRegisterer
	}
	return r
}

func gatherer(r *prometheus.Registry) prometheus.Gatherer {
	if r == nil {
		return prometheus.DefaultGatherer
	}
	return r
}
