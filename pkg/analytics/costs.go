package analytics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CostSummary returns total infrastructure spend for the window, its
// base/transfer split, efficiency ratios and a projected monthly run rate.
func CostSummary(c *gin.Context) {
	const endpoint = "cost_summary"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT COALESCE(SUM(total_cost), 0),
		       COALESCE(SUM(base_cost), 0),
		       COALESCE(SUM(transfer_cost), 0),
		       COALESCE(SUM(total_sessions), 0),
		       COALESCE(SUM(total_connection_hours), 0),
		       COUNT(DISTINCT date)
		FROM server_costs
		WHERE date >= $1 AND date <= $2`

	var totalCost, baseCost, transferCost, totalHours float64
	var totalSessions, distinctDays int64
	err = db.QueryRowContext(c.Request.Context(), query, start, end).
		Scan(&totalCost, &baseCost, &transferCost, &totalSessions, &totalHours, &distinctDays)
	if err != nil {
		logger.Error("cost summary query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute cost summary"})
		return
	}

	dailyAvg := safeDivide(totalCost, float64(distinctDays))

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":                 periodOf(start, end),
		"total_cost":             round2(totalCost),
		"base_cost":              round2(baseCost),
		"transfer_cost":          round2(transferCost),
		"base_cost_pct":          round2(percentage(baseCost, totalCost)),
		"transfer_cost_pct":      round2(percentage(transferCost, totalCost)),
		"total_sessions":         totalSessions,
		"total_connection_hours": round2(totalHours),
		"cost_per_session":       round4(safeDivide(totalCost, float64(totalSessions))),
		"cost_per_hour":          round4(safeDivide(totalCost, totalHours)),
		"avg_daily_cost":         round2(dailyAvg),
		"projected_monthly_cost": round2(dailyAvg * 30),
	})
}

// CostByProvider breaks spend down by hosting provider.
func CostByProvider(c *gin.Context) {
	const endpoint = "cost_by_provider"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT p.name,
		       COALESCE(SUM(c.total_cost), 0) AS total_cost,
		       COUNT(DISTINCT c.server_id) AS server_count,
		       COALESCE(SUM(c.total_sessions), 0) AS total_sessions,
		       COALESCE(SUM(c.total_connection_hours), 0) AS total_hours
		FROM server_costs c
		JOIN vpn_servers s ON s.id = c.server_id
		JOIN providers p ON p.id = s.provider_id
		WHERE c.date >= $1 AND c.date <= $2
		GROUP BY p.name
		ORDER BY total_cost DESC`

	rows, err := db.QueryContext(c.Request.Context(), query, start, end)
	if err != nil {
		logger.Error("cost by-provider query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute provider costs"})
		return
	}
	defer rows.Close()

	providers := make([]gin.H, 0)
	for rows.Next() {
		var name string
		var totalCost, totalHours float64
		var serverCount, totalSessions int64
		if err := rows.Scan(&name, &totalCost, &serverCount, &totalSessions, &totalHours); err != nil {
			logger.Error("cost by-provider scan failed", "error", err)
			mark(endpoint, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read provider costs"})
			return
		}
		providers = append(providers, gin.H{
			"provider":         name,
			"total_cost":       round2(totalCost),
			"server_count":     serverCount,
			"total_sessions":   totalSessions,
			"total_hours":      round2(totalHours),
			"cost_per_session": round4(safeDivide(totalCost, float64(totalSessions))),
			"cost_per_hour":    round4(safeDivide(totalCost, totalHours)),
		})
	}
	if err := rows.Err(); err != nil {
		logger.Error("cost by-provider rows failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read provider costs"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":    periodOf(start, end),
		"providers": providers,
	})
}

// CostByLocation breaks spend down by server location.
func CostByLocation(c *gin.Context) {
	const endpoint = "cost_by_location"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT s.location_country, s.location_city,
		       COALESCE(SUM(c.total_cost), 0) AS total_cost,
		       COUNT(DISTINCT c.server_id) AS server_count,
		       COALESCE(SUM(c.total_sessions), 0) AS total_sessions
		FROM server_costs c
		JOIN vpn_servers s ON s.id = c.server_id
		WHERE c.date >= $1 AND c.date <= $2
		GROUP BY s.location_country, s.location_city
		ORDER BY total_cost DESC`

	rows, err := db.QueryContext(c.Request.Context(), query, start, end)
	if err != nil {
		logger.Error("cost by-location query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute location costs"})
		return
	}
	defer rows.Close()

	locations := make([]gin.H, 0)
	for rows.Next() {
		var country, city string
		var totalCost float64
		var serverCount, totalSessions int64
		if err := rows.Scan(&country, &city, &totalCost, &serverCount, &totalSessions); err != nil {
			logger.Error("cost by-location scan failed", "error", err)
			mark(endpoint, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read location costs"})
			return
		}
		locations = append(locations, gin.H{
			"country":          country,
			"city":             city,
			"location":         city + ", " + country,
			"total_cost":       round2(totalCost),
			"server_count":     serverCount,
			"total_sessions":   totalSessions,
			"cost_per_session": round4(safeDivide(totalCost, float64(totalSessions))),
		})
	}
	if err := rows.Err(); err != nil {
		logger.Error("cost by-location rows failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read location costs"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":    periodOf(start, end),
		"locations": locations,
	})
}

// TopCostServers lists the most expensive servers over the window.
func TopCostServers(c *gin.Context) {
	const endpoint = "top_cost_servers"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit := limitParam(c, 10)

	query := `
		SELECT s.hostname, s.location_country, s.location_city, p.name AS provider,
		       COALESCE(SUM(c.total_cost), 0) AS total_cost,
		       COALESCE(SUM(c.total_sessions), 0) AS total_sessions
		FROM server_costs c
		JOIN vpn_servers s ON s.id = c.server_id
		JOIN providers p ON p.id = s.provider_id
		WHERE c.date >= $1 AND c.date <= $2
		GROUP BY s.id, s.hostname, s.location_country, s.location_city, p.name
		ORDER BY total_cost DESC
		LIMIT $3`

	rows, err := db.QueryContext(c.Request.Context(), query, start, end, limit)
	if err != nil {
		logger.Error("top cost servers query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute top cost servers"})
		return
	}
	defer rows.Close()

	servers := make([]gin.H, 0)
	for rows.Next() {
		var hostname, country, city, provider string
		var totalCost float64
		var totalSessions int64
		if err := rows.Scan(&hostname, &country, &city, &provider, &totalCost, &totalSessions); err != nil {
			logger.Error("top cost servers scan failed", "error", err)
			mark(endpoint, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read top cost servers"})
			return
		}
		servers = append(servers, gin.H{
			"hostname":         hostname,
			"location":         city + ", " + country,
			"provider":         provider,
			"total_cost":       round2(totalCost),
			"total_sessions":   totalSessions,
			"cost_per_session": round4(safeDivide(totalCost, float64(totalSessions))),
		})
	}
	if err := rows.Err(); err != nil {
		logger.Error("top cost servers rows failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read top cost servers"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":  periodOf(start, end),
		"servers": servers,
	})
}

// CostTrend returns the daily cost/usage series over the window.
func CostTrend(c *gin.Context) {
	const endpoint = "cost_trend"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT date,
		       COALESCE(SUM(total_cost), 0) AS daily_cost,
		       COALESCE(SUM(total_sessions), 0) AS daily_sessions,
		       COALESCE(SUM(total_connection_hours), 0) AS daily_hours
		FROM server_costs
		WHERE date >= $1 AND date <= $2
		GROUP BY date
		ORDER BY date`

	rows, err := db.QueryContext(c.Request.Context(), query, start, end)
	if err != nil {
		logger.Error("cost trend query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute cost trend"})
		return
	}
	defer rows.Close()

	trend := make([]gin.H, 0)
	for rows.Next() {
		var date time.Time
		var dailyCost, dailyHours float64
		var dailySessions int64
		if err := rows.Scan(&date, &dailyCost, &dailySessions, &dailyHours); err != nil {
			logger.Error("cost trend scan failed", "error", err)
			mark(endpoint, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read cost trend"})
			return
		}
		trend = append(trend, gin.H{
			"date":             date.Format(dateLayout),
			"cost":             round2(dailyCost),
			"sessions":         dailySessions,
			"hours":            round2(dailyHours),
			"cost_per_session": round4(safeDivide(dailyCost, float64(dailySessions))),
		})
	}
	if err := rows.Err(); err != nil {
		logger.Error("cost trend rows failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read cost trend"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period": periodOf(start, end),
		"trend":  trend,
	})
}
