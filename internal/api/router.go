package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identitylab/identity-service/internal/api/handler"
	"github.com/identitylab/identity-service/internal/api/middleware"
	"github.com/identitylab/identity-service/internal/core/domain"
	"github.com/identitylab/identity-service/internal/core/ports"
)

// Dependencies carries everything the router needs, constructed explicitly at
// process start. Mongo and Redis are only used by the readiness probe and may
// be nil in tests, in which case /health/ready is not registered.
type Dependencies struct {
	Auth     ports.AuthService
	Users    ports.UserRepository
	Tokens   ports.TokenService
	Throttle ports.LoginThrottle
	Mongo    *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger

	// Registry receives the HTTP metrics registered by echoprometheus.
	// When nil each router gets its own registry, so repeated construction
	// (tests build several) cannot trip duplicate registration.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "identity",
		Registerer: registry,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Throttle, deps.Log)
	homeHandler := handler.NewHomeHandler()

	// --- Public routes (bypass the access guard) ---
	e.GET("/", homeHandler.Greeting)
	e.POST("/signup", authHandler.SignUp)
	e.POST("/authenticate", authHandler.Authenticate)
	// Expose both the HTTP metrics above and the identity_* metrics living
	// in the default registry.
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))

	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness) // liveness – is the process alive?
	if deps.Mongo != nil && deps.Redis != nil {
		healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)
		e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	}

	// --- Protected routes: guard first, then per-route role sets ---
	guard := middleware.Auth(deps.Tokens, deps.Users)

	e.GET("/afterauthall", homeHandler.AfterAuthAll, guard, middleware.RBAC(domain.RoleUser, domain.RoleAdmin))
	e.GET("/user", homeHandler.AfterAuthUser, guard, middleware.RBAC(domain.RoleUser))
	e.GET("/admin", homeHandler.AfterAuthAdmin, guard, middleware.RBAC(domain.RoleAdmin))
	e.GET("/me", homeHandler.Me, guard, middleware.RBAC(domain.RoleUser, domain.RoleAdmin))

	return e
}
