package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/acme/cartsvc/internal/core/ports"
	"github.com/acme/cartsvc/internal/infrastructure/httpserver/helpers"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	CartCookie *CartCookieMiddleware
	Logging    *LoggingMiddleware
	RateLimit  *RateLimitMiddleware
	Metrics    *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(
	cookies *helpers.CartCookie,
	rateLimiterService ports.RateLimiterService,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		CartCookie: NewCartCookieMiddleware(cookies, logger),
		Logging:    NewLoggingMiddleware(logger),
		RateLimit:  NewRateLimitMiddleware(rateLimiterService, logger),
		Metrics:    NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}
