// Package metrics provides Prometheus instrumentation for the HoneyGuard API.
package metrics

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honeyguard",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "honeyguard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honeyguard",
			Name:      "logins_total",
			Help:      "Total login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// TierDecisionsTotal counts data-tier routing decisions by tier.
	TierDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honeyguard",
			Name:      "tier_decisions_total",
			Help:      "Total data-tier routing decisions by selected tier.",
		},
		[]string{"tier"},
	)

	// FinalRiskScore observes the distribution of final risk scores.
	FinalRiskScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "honeyguard",
		Name:      "final_risk_score",
		Help:      "Distribution of final risk scores (0-100).",
		Buckets:   []float64{10, 20, 30, 35, 40, 50, 60, 70, 80, 90, 100},
	})

	// RiskFallbacksTotal counts combiner fallbacks to the neutral score.
	// A session vanishing mid-evaluation is anomalous; repeated occurrences
	// warrant an alert.
	RiskFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "honeyguard",
		Name:      "risk_fallbacks_total",
		Help:      "Total risk evaluations that fell back to the neutral default score.",
	})

	// ActiveSessions tracks current live sessions.
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "honeyguard",
		Name:      "active_sessions",
		Help:      "Number of currently live sessions.",
	})

	// SessionEvictionsTotal counts sessions removed by the TTL janitor.
	SessionEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "honeyguard",
		Name:      "session_evictions_total",
		Help:      "Total sessions evicted after exceeding the idle TTL.",
	})

	// ActiveWebSocketClients tracks connected monitoring stream clients.
	ActiveWebSocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "honeyguard",
		Name:      "active_websocket_clients",
		Help:      "Number of currently connected WebSocket clients.",
	})

	// DBOpenConnections tracks open database connections.
	DBOpenConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "honeyguard", Name: "db_open_connections",
		Help: "Number of open database connections.",
	})
	// DBIdleConnections tracks idle database connections.
	DBIdleConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "honeyguard", Name: "db_idle_connections",
		Help: "Number of idle database connections.",
	})
	// DBInUseConnections tracks in-use database connections.
	DBInUseConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "honeyguard", Name: "db_in_use_connections",
		Help: "Number of in-use database connections.",
	})
	// GoroutineCount tracks the current number of goroutines.
	GoroutineCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "honeyguard", Name: "goroutines",
		Help: "Current number of goroutines.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		LoginsTotal,
		TierDecisionsTotal,
		FinalRiskScore,
		RiskFallbacksTotal,
		ActiveSessions,
		SessionEvictionsTotal,
		ActiveWebSocketClients,
		DBOpenConnections,
		DBIdleConnections,
		DBInUseConnections,
		GoroutineCount,
	)
}

// StartDBStatsCollector periodically samples sql.DBStats and runtime goroutine
// count into Prometheus gauges. Call in a goroutine; exits when ctx is done.
func StartDBStatsCollector(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			DBOpenConnections.Set(float64(stats.OpenConnections))
			DBIdleConnections.Set(float64(stats.Idle))
			DBInUseConnections.Set(float64(stats.InUse))
			GoroutineCount.Set(float64(runtime.NumGoroutine()))
		}
	}
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // Uses route pattern, not actual path (avoids cardinality explosion)
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
