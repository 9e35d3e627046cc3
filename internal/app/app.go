// Package app assembles the service: configuration, infrastructure,
// services, the HTTP router and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/config"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/events/kafka"
	httpHandler "github.com/zemanluky/cz.uun-shopping-list.be/internal/handler/http"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/infrastructure/database"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/infrastructure/database/postgres"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/infrastructure/ratelimit"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/infrastructure/security"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/service"
	"github.com/zemanluky/cz.uun-shopping-list.be/migrations"
)

// Run starts the service and blocks until the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func Run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(postgres.DSN(cfg.Database), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	pool, err := postgres.NewDBPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	var limiter *ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		limiter = ratelimit.NewLimiter(redisClient, "shopping-list", logger)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Warn("failed to close event producer", zap.Error(err))
		}
	}()

	hasher, err := security.NewArgon2idHasher(cfg.Security.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to configure password hasher: %w", err)
	}
	jwtService := security.NewJWTService(cfg.JWT)

	userRepo := database.NewPgxUserRepository(pool)
	sessionRepo := database.NewPgxRefreshTokenRepository(pool)
	listRepo := database.NewPgxShoppingListRepository(pool)

	authService := service.NewAuthService(userRepo, sessionRepo, jwtService, hasher, producer, logger, cfg.JWT, cfg.Auth)
	userService := service.NewUserService(userRepo, hasher, producer, logger)
	listService := service.NewShoppingListService(listRepo, userRepo, producer, logger)
	itemService := service.NewShoppingListItemService(listRepo, userRepo, listService, logger)
	memberService := service.NewShoppingListMemberService(listRepo, userRepo, listService, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := httpHandler.NewRouter(httpHandler.RouterDeps{
		Config:      cfg,
		Logger:      logger,
		AuthService: authService,
		Users:       userService,
		Lists:       listService,
		Items:       itemService,
		Members:     memberService,
		RateLimiter: limiter,
		Registry:    registry,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed, closing server", zap.Error(err))
		return server.Close()
	}

	logger.Info("server stopped")
	return nil
}
