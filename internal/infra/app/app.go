package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/port"
	"github.com/telvana/fleet-console/internal/infra/config"
	"github.com/telvana/fleet-console/internal/infra/database"
	kafkainfra "github.com/telvana/fleet-console/internal/infra/kafka"
	"github.com/telvana/fleet-console/internal/infra/logger"
	redisinfra "github.com/telvana/fleet-console/internal/infra/redis"
	postgresrepo "github.com/telvana/fleet-console/internal/repository/postgres"
	redisrepo "github.com/telvana/fleet-console/internal/repository/redis"
	"github.com/telvana/fleet-console/internal/transport/http/handlers"
	"github.com/telvana/fleet-console/internal/transport/http/middleware"
	"github.com/telvana/fleet-console/internal/transport/http/routes"
	"github.com/telvana/fleet-console/internal/upstream"
	"github.com/telvana/fleet-console/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	baseClient, err := upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Token:   cfg.Upstream.Token,
		Timeout: cfg.Upstream.Timeout,
	}, log)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init upstream client: %w", err)
	}

	var eventPublisher port.EventPublisher
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka disabled, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitStore(redisClient.Client(), "fleet:rate-limit", rateLimitWindow*2)
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	sessionStore := redisrepo.NewSessionStore(redisClient.Client(), cfg.Redis.SessionKeyPrefix)
	snapshotCache := redisrepo.NewSnapshotCache(redisClient.Client())
	auditRepo := postgresrepo.NewAuditRepository(pool)

	messageBus := redisrepo.NewMessageBus(redisClient.Client(), log)
	messagingService := usecase.NewMessagingService(messageBus, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		log.Warn("failed to init http metrics", zap.Error(err))
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Sessions:    sessionStore,
		Messaging:   messagingService,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: handlers.ServiceSet{
			Factory: func(token string) port.FleetAPI {
				return baseClient.WithToken(token)
			},
			Cache:       snapshotCache,
			SnapshotTTL: cfg.Cache.SnapshotTTL,
			Audit:       auditRepo,
			Events:      eventPublisher,
			Logger:      log,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting fleet console",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
