package streamflix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/streamflix/internal/cache"
	"github.com/magabrotheeeer/streamflix/internal/config"
	grpchealth "github.com/magabrotheeeer/streamflix/internal/grpc/health"
	"github.com/magabrotheeeer/streamflix/internal/http/handlers/health"
	"github.com/magabrotheeeer/streamflix/internal/http/middlewarectx"
	"github.com/magabrotheeeer/streamflix/internal/lib/jwt"
	"github.com/magabrotheeeer/streamflix/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/metrics"
	"github.com/magabrotheeeer/streamflix/internal/migrations"
	authservice "github.com/magabrotheeeer/streamflix/internal/services/auth"
	contservice "github.com/magabrotheeeer/streamflix/internal/services/content"
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
	refservice "github.com/magabrotheeeer/streamflix/internal/services/referral"
	subservice "github.com/magabrotheeeer/streamflix/internal/services/subscription"
	viewservice "github.com/magabrotheeeer/streamflix/internal/services/viewing"
	wlservice "github.com/magabrotheeeer/streamflix/internal/services/watchlist"
	"github.com/magabrotheeeer/streamflix/internal/storage/repository"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthCheckInterval = 10 * time.Second
)

// App — HTTP API и gRPC health-сервис.
type App struct {
	server    *http.Server
	health    *grpchealth.Server
	healthLis net.Listener
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	conn      *amqp.Connection
	ch        *amqp.Channel
}

// New поднимает зависимости: PostgreSQL с миграциями, Redis, RabbitMQ, и собирает сервисы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	plans, err := cfg.PlanTable()
	if err != nil {
		return nil, err
	}
	discount, err := cfg.Discount()
	if err != nil {
		return nil, err
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.DB.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.DB.Close()
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.DB.Close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.DB.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}
	publisher := rabbitmq.NewPublisher(ch)

	healthLis, err := net.Listen("tcp", cfg.GRPCHealthAddress)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.DB.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, cacheRedis, jwtMaker, publisher, cfg.Account, logger)
	subscriptionService := subservice.NewSubscriptionService(db, db, plans, m, logger)
	referralService := refservice.NewReferralService(refservice.Deps{
		Referrals:     db,
		Subscriptions: db,
		Accounts:      db,
		Tx:            db,
		Publisher:     publisher,
		Metrics:       m,
	}, discount, rabbitmq.RoutingReferral, logger)
	profileService := profservice.NewProfileService(db, db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Log:           logger,
		Auth:          authService,
		Subscriptions: subscriptionService,
		Referrals:     referralService,
		Profiles:      profileService,
		Contents:      contservice.NewContentService(db, profileService, logger),
		Watchlists:    wlservice.NewWatchlistService(db, profileService, logger),
		Viewings:      viewservice.NewViewingService(db, profileService, logger),
		AdminEmails:   cfg.AdminEmails,
		Tokens:        jwtMaker,
		Revocations:   cacheRedis,
		Limiter:       middlewarectx.NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		Metrics:       m,
		Gatherer:      registry,
		HealthChecks: map[string]health.Pinger{
			"postgres": db,
			"redis":    cacheRedis,
		},
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		health:    grpchealth.NewServer(db, healthCheckInterval, logger),
		healthLis: healthLis,
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		conn:      conn,
		ch:        ch,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливается.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()
	go func() {
		errCh <- a.health.Serve(a.healthLis)
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go a.health.Watch(watchCtx)

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down HTTP server gracefully")
	if err := a.server.Shutdown(timeoutCtx); err != nil && runErr == nil {
		runErr = err
	}
	a.health.Stop()
	a.close()
	return runErr
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
