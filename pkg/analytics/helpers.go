package analytics

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// defaultRangeDays is the lookback window when no range params are given.
const defaultRangeDays = 30

// dateRange resolves the reporting window from query parameters. An explicit
// start_date/end_date pair wins over days; supplying only one of the two is
// an error. With neither, the last 30 days are used. The end date is
// extended to the end of its day so the whole final day is included.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	startParam := c.Query("start_date")
	endParam := c.Query("end_date")

	if (startParam != "") != (endParam != "") {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date must be given together")
	}
	if startParam != "" && endParam != "" {
		start, err := time.Parse(dateLayout, startParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %v", err)
		}
		end, err := time.Parse(dateLayout, endParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %v", err)
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date before start_date")
		}
		return start, endOfDay(end), nil
	}

	days := defaultRangeDays
	if daysParam := c.Query("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed <= 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid days: %q", daysParam)
		}
		days = parsed
	}

	end := time.Now().UTC()
	return end.AddDate(0, 0, -days), end, nil
}

// limitParam parses an optional positive limit, falling back to def.
func limitParam(c *gin.Context, def int) int {
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// safeDivide returns numerator/denominator, or 0 when the denominator is 0.
func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// percentage returns part/whole as a percentage, 0 when whole is 0.
func percentage(part, whole float64) float64 {
	return safeDivide(part, whole) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
