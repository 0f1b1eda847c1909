package analytics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Period is the resolved reporting window echoed back in responses.
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func periodOf(start, end time.Time) Period {
	return Period{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
	}
}

// ConnectivitySummary returns the primary connectivity KPI: the share of
// connect intents that resulted in an established connection.
func ConnectivitySummary(c *gin.Context) {
	const endpoint = "connectivity_summary"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT COUNT(*) AS total_sessions,
		       COUNT(*) FILTER (WHERE has_connect_intent) AS intent_sessions,
		       COUNT(*) FILTER (WHERE is_connected) AS connected_sessions,
		       COUNT(*) FILTER (WHERE is_canceled) AS canceled_sessions
		FROM vpn_sessions
		WHERE created_at >= $1 AND created_at <= $2`

	var total, intent, connected, canceled int64
	err = db.QueryRowContext(c.Request.Context(), query, start, end).
		Scan(&total, &intent, &connected, &canceled)
	if err != nil {
		logger.Error("connectivity summary query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute connectivity summary"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":             periodOf(start, end),
		"total_sessions":     total,
		"intent_sessions":    intent,
		"connected_sessions": connected,
		"canceled_sessions":  canceled,
		"connectivity_rate":  round2(percentage(float64(connected), float64(intent))),
		"cancellation_rate":  round2(percentage(float64(canceled), float64(intent))),
	})
}

// LatencyMetrics returns connecting-time statistics for connected sessions.
// Median and p95 are the dashboard's documented approximations from the
// average (median ~ avg, p95 ~ avg x 1.5), not true percentiles.
func LatencyMetrics(c *gin.Context) {
	const endpoint = "latency"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT COALESCE(AVG(connecting_time_ms), 0),
		       COALESCE(MIN(connecting_time_ms), 0),
		       COALESCE(MAX(connecting_time_ms), 0)
		FROM vpn_sessions
		WHERE created_at >= $1 AND created_at <= $2
		  AND is_connected
		  AND connecting_time_ms IS NOT NULL`

	var avg float64
	var minMS, maxMS int64
	err = db.QueryRowContext(c.Request.Context(), query, start, end).
		Scan(&avg, &minMS, &maxMS)
	if err != nil {
		logger.Error("latency query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute latency metrics"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":            periodOf(start, end),
		"avg_latency_ms":    round2(avg),
		"median_latency_ms": round2(avg),
		"p95_latency_ms":    round2(avg * 1.5),
		"min_latency_ms":    minMS,
		"max_latency_ms":    maxMS,
	})
}

// QualityMetrics returns network interruption and stability KPIs.
func QualityMetrics(c *gin.Context) {
	const endpoint = "quality"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT COUNT(*) AS total_sessions,
		       COUNT(*) FILTER (WHERE nonet_event_count > 0) AS nonet_sessions,
		       COUNT(*) FILTER (WHERE is_connected) AS connected_sessions,
		       COALESCE(SUM(reconnect_event_count) FILTER (WHERE is_connected), 0) AS total_reconnects,
		       COUNT(*) FILTER (WHERE is_connected AND unexpected_disconnect) AS unexpected_disconnects
		FROM vpn_sessions
		WHERE created_at >= $1 AND created_at <= $2`

	var total, nonet, connected, reconnects, unexpected int64
	err = db.QueryRowContext(c.Request.Context(), query, start, end).
		Scan(&total, &nonet, &connected, &reconnects, &unexpected)
	if err != nil {
		logger.Error("quality query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute quality metrics"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":                     periodOf(start, end),
		"total_sessions":             total,
		"nonet_sessions":             nonet,
		"nonet_rate":                 round2(percentage(float64(nonet), float64(total))),
		"total_reconnects":           reconnects,
		"reconnects_per_session":     round4(safeDivide(float64(reconnects), float64(connected))),
		"unexpected_disconnects":     unexpected,
		"unexpected_disconnect_rate": round2(percentage(float64(unexpected), float64(connected))),
	})
}

// UserSatisfaction returns rating counts and the satisfaction rate among
// rated sessions.
func UserSatisfaction(c *gin.Context) {
	const endpoint = "user_satisfaction"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT COUNT(*) FILTER (WHERE has_user_rating) AS rated_sessions,
		       COUNT(*) FILTER (WHERE has_user_rating AND NOT is_negative_rating) AS positive_ratings,
		       COUNT(*) FILTER (WHERE has_user_rating AND is_negative_rating) AS negative_ratings
		FROM vpn_sessions
		WHERE created_at >= $1 AND created_at <= $2`

	var rated, positive, negative int64
	err = db.QueryRowContext(c.Request.Context(), query, start, end).
		Scan(&rated, &positive, &negative)
	if err != nil {
		logger.Error("user satisfaction query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute satisfaction metrics"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":            periodOf(start, end),
		"rated_sessions":    rated,
		"positive_ratings":  positive,
		"negative_ratings":  negative,
		"satisfaction_rate": round2(percentage(float64(positive), float64(rated))),
	})
}

// PerformanceByProtocol breaks latency and quality down by VPN protocol.
func PerformanceByProtocol(c *gin.Context) {
	const endpoint = "by_protocol"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT connected_protocol,
		       COUNT(*) AS session_count,
		       COALESCE(AVG(connecting_time_ms), 0) AS avg_latency,
		       COUNT(*) FILTER (WHERE nonet_event_count > 0) AS nonet_sessions,
		       COALESCE(AVG(connection_duration_seconds), 0) AS avg_duration
		FROM vpn_sessions
		WHERE created_at >= $1 AND created_at <= $2
		  AND is_connected
		  AND connected_protocol IS NOT NULL
		GROUP BY connected_protocol
		ORDER BY session_count DESC`

	rows, err := db.QueryContext(c.Request.Context(), query, start, end)
	if err != nil {
		logger.Error("by-protocol query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute protocol metrics"})
		return
	}
	defer rows.Close()

	protocols := make([]gin.H, 0)
	for rows.Next() {
		var protocol string
		var count, nonet int64
		var avgLatency, avgDuration float64
		if err := rows.Scan(&protocol, &count, &avgLatency, &nonet, &avgDuration); err != nil {
			logger.Error("by-protocol scan failed", "error", err)
			mark(endpoint, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read protocol metrics"})
			return
		}
		protocols = append(protocols, gin.H{
			"protocol":             protocol,
			"session_count":        count,
			"avg_latency_ms":       round2(avgLatency),
			"nonet_rate":           round2(percentage(float64(nonet), float64(count))),
			"avg_duration_minutes": round2(avgDuration / 60),
		})
	}
	if err := rows.Err(); err != nil {
		logger.Error("by-protocol rows failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read protocol metrics"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":    periodOf(start, end),
		"protocols": protocols,
	})
}

// PerformanceByServer lists servers ordered by average connecting time,
// fastest first.
func PerformanceByServer(c *gin.Context) {
	const endpoint = "by_server"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit := limitParam(c, 20)

	query := `
		SELECT s.hostname, s.location_city, s.location_country, p.name AS provider,
		       COUNT(*) AS session_count,
		       COALESCE(AVG(vs.connecting_time_ms), 0) AS avg_latency,
		       COUNT(*) FILTER (WHERE vs.nonet_event_count > 0) AS nonet_sessions,
		       COALESCE(SUM(vs.reconnect_event_count), 0) AS total_reconnects
		FROM vpn_sessions vs
		JOIN vpn_servers s ON s.id = vs.server_id
		JOIN providers p ON p.id = s.provider_id
		WHERE vs.created_at >= $1 AND vs.created_at <= $2
		  AND vs.is_connected
		GROUP BY s.hostname, s.location_city, s.location_country, p.name
		ORDER BY avg_latency ASC
		LIMIT $3`

	rows, err := db.QueryContext(c.Request.Context(), query, start, end, limit)
	if err != nil {
		logger.Error("by-server query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute server metrics"})
		return
	}
	defer rows.Close()

	servers := make([]gin.H, 0)
	for rows.Next() {
		var hostname, city, country, provider string
		var count, nonet, reconnects int64
		var avgLatency float64
		if err := rows.Scan(&hostname, &city, &country, &provider, &count, &avgLatency, &nonet, &reconnects); err != nil {
			logger.Error("by-server scan failed", "error", err)
			mark(endpoint, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read server metrics"})
			return
		}
		servers = append(servers, gin.H{
			"hostname":               hostname,
			"location":               city + ", " + country,
			"provider":               provider,
			"session_count":          count,
			"avg_latency_ms":         round2(avgLatency),
			"nonet_rate":             round2(percentage(float64(nonet), float64(count))),
			"reconnects_per_session": round4(safeDivide(float64(reconnects), float64(count))),
		})
	}
	if err := rows.Err(); err != nil {
		logger.Error("by-server rows failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read server metrics"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":  periodOf(start, end),
		"servers": servers,
	})
}

// PerformanceByLocation breaks latency and interruption rate down by server
// location, busiest locations first.
func PerformanceByLocation(c *gin.Context) {
	const endpoint = "by_location"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT s.location_city, s.location_country,
		       COUNT(*) AS session_count,
		       COALESCE(AVG(vs.connecting_time_ms), 0) AS avg_latency,
		       COUNT(*) FILTER (WHERE vs.nonet_event_count > 0) AS nonet_sessions
		FROM vpn_sessions vs
		JOIN vpn_servers s ON s.id = vs.server_id
		WHERE vs.created_at >= $1 AND vs.created_at <= $2
		  AND vs.is_connected
		GROUP BY s.location_city, s.location_country
		ORDER BY session_count DESC`

	rows, err := db.QueryContext(c.Request.Context(), query, start, end)
	if err != nil {
		logger.Error("by-location query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute location metrics"})
		return
	}
	defer rows.Close()

	locations := make([]gin.H, 0)
	for rows.Next() {
		var city, country string
		var count, nonet int64
		var avgLatency float64
		if err := rows.Scan(&city, &country, &count, &avgLatency, &nonet); err != nil {
			logger.Error("by-location scan failed", "error", err)
			mark(endpoint, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read location metrics"})
			return
		}
		locations = append(locations, gin.H{
			"location":       city + ", " + country,
			"city":           city,
			"country":        country,
			"session_count":  count,
			"avg_latency_ms": round2(avgLatency),
			"nonet_rate":     round2(percentage(float64(nonet), float64(count))),
		})
	}
	if err := rows.Err(); err != nil {
		logger.Error("by-location rows failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read location metrics"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":    periodOf(start, end),
		"locations": locations,
	})
}

// UsageByPlatform returns session counts grouped by client platform.
func UsageByPlatform(c *gin.Context) {
	const endpoint = "by_platform"
	defer observe(endpoint, time.Now())

	start, end, err := dateRange(c)
	if err != nil {
		mark(endpoint, "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		SELECT app_name, COUNT(*) AS session_count
		FROM vpn_sessions
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY app_name
		ORDER BY session_count DESC`

	rows, err := db.QueryContext(c.Request.Context(), query, start, end)
	if err != nil {
		logger.Error("by-platform query failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute platform usage"})
		return
	}
	defer rows.Close()

	platforms := make([]gin.H, 0)
	for rows.Next() {
		var platform string
		var count int64
		if err := rows.Scan(&platform, &count); err != nil {
			logger.Error("by-platform scan failed", "error", err)
			mark(endpoint, "error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read platform usage"})
			return
		}
		platforms = append(platforms, gin.H{
			"platform": platform,
			"sessions": count,
		})
	}
	if err := rows.Err(); err != nil {
		logger.Error("by-platform rows failed", "error", err)
		mark(endpoint, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read platform usage"})
		return
	}

	mark(endpoint, "ok")
	c.JSON(http.StatusOK, gin.H{
		"period":    periodOf(start, end),
		"platforms": platforms,
	})
}
