// Package analytics serves the KPI REST endpoints computed from SQL
// aggregates over the generated telemetry: connectivity rate, connection
// latency, session quality, user satisfaction and infrastructure cost
// breakdowns.
package analytics

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	db             *sql.DB
	logger         *slog.Logger
	serviceMetrics *Metrics
)

// Init wires the handlers to a database connection, logger and metrics.
// Must be called before NewRouter.
func Init(database *sql.DB, log *slog.Logger, m *Metrics) {
	db = database
	logger = log
	serviceMetrics = m
}

// NewRouter builds the gin engine with all analytics routes.
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	perf := r.Group("/api/performance")
	{
		perf.GET("/connectivity/summary", ConnectivitySummary)
		perf.GET("/latency", LatencyMetrics)
		perf.GET("/quality", QualityMetrics)
		perf.GET("/user-satisfaction", UserSatisfaction)
		perf.GET("/by-protocol", PerformanceByProtocol)
		perf.GET("/by-server", PerformanceByServer)
		perf.GET("/by-location", PerformanceByLocation)
	}

	r.GET("/api/usage/by-platform", UsageByPlatform)

	costs := r.Group("/api/costs")
	{
		costs.GET("/summary", CostSummary)
		costs.GET("/by-provider", CostByProvider)
		costs.GET("/by-location", CostByLocation)
		costs.GET("/top-servers", TopCostServers)
		costs.GET("/trend", CostTrend)
	}

	return r
}

// Health reports service liveness and database reachability.
func Health(c *gin.Context) {
	status := "ok"
	code := 200
	if err := db.PingContext(c.Request.Context()); err != nil {
		status = "database unreachable"
		code = 503
	}
	c.JSON(code, gin.H{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func observe(endpoint string, start time.Time) {
	if serviceMetrics != nil {
		serviceMetrics.QueryDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func mark(endpoint, status string) {
	if serviceMetrics != nil {
		serviceMetrics.Queries.WithLabelValues(endpoint, status).Inc()
	}
}
