package analytics

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gin.SetMode(gin.TestMode)
	Init(mockDB, slog.New(slog.NewTextHandler(io.Discard, nil)), NewMetrics(prometheus.NewRegistry()))
	return mock, NewRouter()
}

func doRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestConnectivitySummary(t *testing.T) {
	mock, router := setupTest(t)

	mock.ExpectQuery("FROM vpn_sessions").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"total_sessions", "intent_sessions", "connected_sessions", "canceled_sessions"}).
			AddRow(1000, 980, 931, 49))

	w := doRequest(router, "/api/performance/connectivity/summary?days=7")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 1000, body["total_sessions"])
	assert.EqualValues(t, 980, body["intent_sessions"])
	assert.EqualValues(t, 931, body["connected_sessions"])
	assert.InDelta(t, 95.0, body["connectivity_rate"], 0.001)
	assert.InDelta(t, 5.0, body["cancellation_rate"], 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectivitySummaryBadParams(t *testing.T) {
	_, router := setupTest(t)

	w := doRequest(router, "/api/performance/connectivity/summary?days=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConnectivitySummaryQueryError(t *testing.T) {
	mock, router := setupTest(t)

	mock.ExpectQuery("FROM vpn_sessions").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(sql.ErrConnDone)

	w := doRequest(router, "/api/performance/connectivity/summary")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatencyMetrics(t *testing.T) {
	mock, router := setupTest(t)

	mock.ExpectQuery("connecting_time_ms IS NOT NULL").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "min", "max"}).
			AddRow(2000.0, 120, 10000))

	w := doRequest(router, "/api/performance/latency?days=30")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.InDelta(t, 2000.0, body["avg_latency_ms"], 0.001)
	assert.InDelta(t, 2000.0, body["median_latency_ms"], 0.001)
	assert.InDelta(t, 3000.0, body["p95_latency_ms"], 0.001)
	assert.EqualValues(t, 120, body["min_latency_ms"])
	assert.EqualValues(t, 10000, body["max_latency_ms"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSatisfaction(t *testing.T) {
	mock, router := setupTest(t)

	mock.ExpectQuery("has_user_rating").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"rated_sessions", "positive_ratings", "negative_ratings"}).
			AddRow(50, 40, 10))

	w := doRequest(router, "/api/performance/user-satisfaction")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 50, body["rated_sessions"])
	assert.InDelta(t, 80.0, body["satisfaction_rate"], 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageByPlatform(t *testing.T) {
	mock, router := setupTest(t)

	mock.ExpectQuery("GROUP BY app_name").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"app_name", "session_count"}).
			AddRow("android", 2500).
			AddRow("windows", 2400).
			AddRow("ios", 2000))

	w := doRequest(router, "/api/usage/by-platform")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	platforms, ok := body["platforms"].([]any)
	require.True(t, ok)
	require.Len(t, platforms, 3)

	first, ok := platforms[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "android", first["platform"])
	assert.EqualValues(t, 2500, first["sessions"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostSummary(t *testing.T) {
	mock, router := setupTest(t)

	mock.ExpectQuery("FROM server_costs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"total_cost", "base_cost", "transfer_cost", "total_sessions", "total_hours", "days"}).
			AddRow(900.0, 600.0, 300.0, 3000, 1500.0, 30))

	w := doRequest(router, "/api/costs/summary?days=30")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.InDelta(t, 900.0, body["total_cost"], 0.001)
	assert.InDelta(t, 66.67, body["base_cost_pct"], 0.001)
	assert.InDelta(t, 33.33, body["transfer_cost_pct"], 0.001)
	assert.InDelta(t, 0.3, body["cost_per_session"], 0.0001)
	assert.InDelta(t, 0.6, body["cost_per_hour"], 0.0001)
	assert.InDelta(t, 30.0, body["avg_daily_cost"], 0.001)
	assert.InDelta(t, 900.0, body["projected_monthly_cost"], 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostSummaryEmptyWindow(t *testing.T) {
	mock, router := setupTest(t)

	mock.ExpectQuery("FROM server_costs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"total_cost", "base_cost", "transfer_cost", "total_sessions", "total_hours", "days"}).
			AddRow(0.0, 0.0, 0.0, 0, 0.0, 0))

	w := doRequest(router, "/api/costs/summary")
	require.Equal(t, http.StatusOK, w.Code)

	// Division by zero never leaks into the response.
	body := decodeBody(t, w)
	assert.InDelta(t, 0.0, body["cost_per_session"], 0.001)
	assert.InDelta(t, 0.0, body["avg_daily_cost"], 0.001)
	assert.InDelta(t, 0.0, body["projected_monthly_cost"], 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopCostServersLimit(t *testing.T) {
	mock, router := setupTest(t)

	mock.ExpectQuery("ORDER BY total_cost DESC").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 5).
		WillReturnRows(sqlmock.NewRows(
			[]string{"hostname", "location_country", "location_city", "provider", "total_cost", "total_sessions"}).
			AddRow("us-new-000.prod.vpnlink.io", "United States", "New York", "AWS", 210.55, 4200))

	w := doRequest(router, "/api/costs/top-servers?limit=5")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	servers, ok := body["servers"].([]any)
	require.True(t, ok)
	require.Len(t, servers, 1)

	top, ok := servers[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "us-new-000.prod.vpnlink.io", top["hostname"])
	assert.Equal(t, "New York, United States", top["location"])
	assert.InDelta(t, 210.55, top["total_cost"], 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostTrend(t *testing.T) {
	mock, router := setupTest(t)

	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	mock.ExpectQuery("GROUP BY date").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"date", "daily_cost", "daily_sessions", "daily_hours"}).
			AddRow(day1, 120.5, 900, 620.0).
			AddRow(day2, 131.25, 1010, 688.5))

	w := doRequest(router, "/api/costs/trend?start_date=2025-06-01&end_date=2025-06-02")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	trend, ok := body["trend"].([]any)
	require.True(t, ok)
	require.Len(t, trend, 2)

	first, ok := trend[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2025-06-01", first["date"])
	assert.InDelta(t, 120.5, first["cost"], 0.001)
	assert.EqualValues(t, 900, first["sessions"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealth(t *testing.T) {
	mock, router := setupTest(t)
	mock.ExpectPing()

	w := doRequest(router, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}
