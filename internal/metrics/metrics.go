// Package metrics provides Prometheus metrics for the HedgeX API.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hedgex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hedgex_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Auth Metrics
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hedgex_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // "success", "failed"
	)

	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hedgex_registrations_total",
			Help: "Total number of successful user registrations",
		},
	)

	TokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hedgex_token_verifications_total",
			Help: "Bearer token verifications by result",
		},
		[]string{"result"}, // "valid", "missing", "invalid"
	)

	AuthRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hedgex_auth_rate_limited_total",
			Help: "Auth requests rejected by the login rate limiter",
		},
	)

	// Data Initialization Metrics
	StocksInitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hedgex_stocks_init_total",
			Help: "Bulk stock initializations by result",
		},
		[]string{"result"}, // "success", "failed"
	)

	PortfolioInitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hedgex_portfolio_init_total",
			Help: "Bulk portfolio initializations by result",
		},
		[]string{"result"}, // "success", "failed"
	)

	// Database Metrics
	StocksTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hedgex_stocks_tracked",
			Help: "Number of stock rows in the database",
		},
	)

	WatchlistsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hedgex_watchlists_total",
			Help: "Number of watchlists in the database",
		},
	)
)
