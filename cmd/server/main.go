package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	config "github.com/acme/cartsvc/configs"
	"github.com/acme/cartsvc/internal/application/services"
	"github.com/acme/cartsvc/internal/core/ports"
	"github.com/acme/cartsvc/internal/infrastructure/circuitbreaker"
	"github.com/acme/cartsvc/internal/infrastructure/health"
	"github.com/acme/cartsvc/internal/infrastructure/httpserver"
	"github.com/acme/cartsvc/internal/infrastructure/httpserver/helpers"
	"github.com/acme/cartsvc/internal/infrastructure/redis"
	"github.com/acme/cartsvc/internal/infrastructure/repositories"
	"github.com/acme/cartsvc/internal/infrastructure/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.WithField("environment", cfg.Server.Environment).Info("Starting cart service...")

	ctx := context.Background()

	if cfg.Tracing.Enabled() {
		tp, err := telemetry.NewTracerProvider(ctx, &cfg.Tracing)
		if err != nil {
			logger.WithError(err).Warn("tracing disabled")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.WithError(err).Warn("failed to flush traces")
				}
			}()
		}
	}

	// Redis being down at startup is survivable: the breaker trips on the
	// first requests and carts are served from memory.
	redisClient, err := redis.NewRedisClient(ctx, &cfg.Redis, logger)
	if err != nil {
		logger.WithError(err).Error("Redis unreachable at startup; continuing with in-memory fallback")
	} else {
		logger.Info("Connected to Redis successfully")
	}
	defer redisClient.Close()

	breaker := circuitbreaker.NewBreaker(cfg.Cart.BreakerThreshold,
		circuitbreaker.WithName("cart"),
		circuitbreaker.WithLogger(logger),
		circuitbreaker.WithMetrics(circuitbreaker.NewMetrics(prometheus.DefaultRegisterer)),
	)
	fallbackStore := repositories.NewCartMemoryRepository()
	cartStore := repositories.NewCartRedisRepository(
		redis.NewHashStore(redisClient, cfg.Cart.KeyPrefix),
		cfg.Cart.TTL,
		breaker,
		fallbackStore,
		logger,
	)
	cartService := services.NewCartService(cartStore, logger)

	rateLimiterConfig := &services.RateLimiterConfig{
		RequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
		BurstMultiplier:   cfg.RateLimit.BurstMultiplier,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         cfg.RateLimit.KeyPrefix,
	}
	// Rate limiting fails open; its own breaker stops it from dialling a dead Redis on every request.
	rateLimitBreaker := circuitbreaker.NewBreaker(cfg.Cart.BreakerThreshold, circuitbreaker.WithName("ratelimit"), circuitbreaker.WithLogger(logger))
	rateLimiterService := services.NewRateLimiterService(repositories.NewRateLimitRedisRepository(redisClient, rateLimitBreaker), rateLimiterConfig, logger)

	hcSlice := []ports.HealthChecker{health.NewRedisHealthChecker(redisClient), health.NewBreakerHealthChecker(breaker)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
	}

	deps := httpserver.ServerDeps{
		CartService:        cartService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     hcSlice,
		CartCookie:         helpers.NewCartCookie(cfg.Cart.CookieSecret, cfg.Cart.TTL),
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.WithField("breaker_state", breaker.State().String()).Info("Server exited")
}
