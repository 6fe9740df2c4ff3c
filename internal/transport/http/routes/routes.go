package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
	"github.com/telvana/fleet-console/internal/infra/config"
	"github.com/telvana/fleet-console/internal/transport/http/handlers"
	"github.com/telvana/fleet-console/internal/transport/http/middleware"
	"github.com/telvana/fleet-console/internal/usecase"
)

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    handlers.ServiceSet
	Messaging   *usecase.MessagingService
	Sessions    port.SessionStore
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	sessionMiddleware := middleware.RequireSession(deps.Config.Auth.JWTSecret, deps.Sessions)

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(sessionMiddleware)
	{
		inventoryHandler := handlers.NewInventoryHandler(deps.Services)
		attributionHandler := handlers.NewAttributionHandler(deps.Services)

		readGroup := api.Group("")
		inventoryHandler.RegisterRoutes(readGroup)
		attributionHandler.RegisterReadRoutes(readGroup)

		manageGroup := api.Group("")
		manageGroup.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleAssigner))
		submitMiddlewares := buildSubmitMiddlewares(deps)
		if len(submitMiddlewares) > 0 {
			manageGroup.Use(submitMiddlewares...)
		}
		attributionHandler.RegisterManageRoutes(manageGroup)

		adminGroup := api.Group("")
		adminGroup.Use(middleware.RequireRole(domain.RoleAdmin))
		attributionHandler.RegisterAdminRoutes(adminGroup)

		if deps.Services.Audit != nil {
			auditHandler := handlers.NewAuditHandler(deps.Services.Audit)
			auditHandler.RegisterRoutes(adminGroup)
		}

		if deps.Messaging != nil {
			messagingHandler := handlers.NewMessagingHandler(deps.Messaging)
			messagingHandler.RegisterRoutes(api)
		}
	}

	return r
}

func buildSubmitMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.SubmitMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "attribution_submit_actor",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ActorIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
