package generator

import (
	"math/rand/v2"
	"testing"
	"time"

	"vpn-telemetry/pkg/models"
)

func testGenerator(t *testing.T, cfg Config, seed uint64) *Generator {
	t.Helper()
	g, err := New(cfg, rand.New(rand.NewPCG(seed, 1)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func testServers(n int) []models.Server {
	servers := make([]models.Server, n)
	for i := range servers {
		servers[i] = models.Server{ID: int64(i + 1), ProviderID: 1}
	}
	return servers
}

func testConfig(sessionsPerDay int) Config {
	return Config{
		NumServers:     10,
		NumDays:        30,
		SessionsPerDay: sessionsPerDay,
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSessionsForDayEmptyPool(t *testing.T) {
	g := testGenerator(t, testConfig(100), 1)
	if _, err := g.SessionsForDay(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), nil); err != ErrEmptyServerPool {
		t.Fatalf("SessionsForDay(nil pool) error = %v, want ErrEmptyServerPool", err)
	}
}

func TestSessionLifecycleInvariants(t *testing.T) {
	cfg := testConfig(5000)
	g := testGenerator(t, cfg, 42)
	servers := testServers(10)

	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday
	sessions, err := g.SessionsForDay(day, servers)
	if err != nil {
		t.Fatalf("SessionsForDay() error = %v", err)
	}
	if len(sessions) == 0 {
		t.Fatal("SessionsForDay() returned no sessions")
	}

	dayEnd := day.AddDate(0, 0, 1)
	for i, s := range sessions {
		if s.SessionID == "" {
			t.Fatalf("session %d: empty session ID", i)
		}
		if s.CreatedAt.Before(day) || !s.CreatedAt.Before(dayEnd) {
			t.Fatalf("session %d: created_at %v outside day %v", i, s.CreatedAt, day)
		}

		if s.IsConnected && s.IsCanceled {
			t.Fatalf("session %d: both connected and canceled", i)
		}

		if !s.HasConnectIntent {
			// Absorbing state: nothing beyond the identity fields may be set.
			if s.ConnectIntentAt != nil || s.ConnectedAt != nil || s.CanceledAt != nil ||
				s.DisconnectedAt != nil || s.DisconnectIntentAt != nil {
				t.Fatalf("session %d: no intent but carries lifecycle timestamps", i)
			}
			if s.IsConnected || s.IsCanceled || s.ConnectionDurationSeconds != 0 {
				t.Fatalf("session %d: no intent but has connect outcome", i)
			}
			continue
		}

		if s.ConnectIntentAt == nil {
			t.Fatalf("session %d: has intent but connect_intent_at is nil", i)
		}
		if s.ConnectIntentAt.Before(s.CreatedAt) {
			t.Fatalf("session %d: connect_intent_at before created_at", i)
		}
		if s.ConnectIntentTrigger == "" {
			t.Fatalf("session %d: has intent but no trigger", i)
		}

		if s.IsCanceled {
			if s.CanceledAt == nil || !s.CanceledAt.After(*s.ConnectIntentAt) {
				t.Fatalf("session %d: canceled_at not after connect_intent_at", i)
			}
			if s.ConnectingTimeMS != nil || s.ConnectedAt != nil || s.ConnectionDurationSeconds != 0 {
				t.Fatalf("session %d: canceled but carries connection data", i)
			}
			continue
		}

		if !s.IsConnected {
			t.Fatalf("session %d: has intent, not canceled, not connected", i)
		}
		if s.ConnectingTimeMS == nil || *s.ConnectingTimeMS < 0 || *s.ConnectingTimeMS > 10000 {
			t.Fatalf("session %d: connecting_time_ms out of range: %v", i, s.ConnectingTimeMS)
		}
		if s.ConnectedAt == nil || s.ConnectedAt.Before(*s.ConnectIntentAt) {
			t.Fatalf("session %d: connected_at not after connect_intent_at", i)
		}
		if s.ConnectedProtocol == "" {
			t.Fatalf("session %d: connected but no protocol", i)
		}
		if s.ConnectionDurationSeconds < 300 || s.ConnectionDurationSeconds > 14400 {
			t.Fatalf("session %d: duration %ds out of [300, 14400]", i, s.ConnectionDurationSeconds)
		}
		if s.DisconnectIntentAt == nil || s.DisconnectedAt == nil {
			t.Fatalf("session %d: connected but missing disconnect timestamps", i)
		}
		if !s.DisconnectedAt.After(*s.ConnectedAt) {
			t.Fatalf("session %d: disconnected_at not after connected_at", i)
		}
		if !s.DisconnectedAt.After(*s.DisconnectIntentAt) {
			t.Fatalf("session %d: disconnected_at not after disconnect_intent_at", i)
		}
		if s.DisconnectIntentTrigger == "" {
			t.Fatalf("session %d: connected but no disconnect trigger", i)
		}
	}
}

func TestQualityEventsOnlyOnConnectedSessions(t *testing.T) {
	g := testGenerator(t, testConfig(5000), 7)
	sessions, err := g.SessionsForDay(time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), testServers(5))
	if err != nil {
		t.Fatalf("SessionsForDay() error = %v", err)
	}

	for i, s := range sessions {
		if !s.IsConnected {
			if s.NonetEventCount != 0 || s.NonetTotalDurationMS != 0 ||
				s.ReconnectEventCount != 0 || s.UnexpectedDisconnect {
				t.Fatalf("session %d: quality events on unconnected session", i)
			}
			continue
		}
		if s.NonetEventCount == 0 && s.NonetTotalDurationMS != 0 {
			t.Fatalf("session %d: nonet duration without nonet events", i)
		}
		if s.NonetEventCount != 0 && (s.NonetEventCount < 1 || s.NonetEventCount > 5) {
			t.Fatalf("session %d: nonet_event_count %d out of range", i, s.NonetEventCount)
		}
		if s.ReconnectEventCount < 0 || s.ReconnectEventCount > 3 {
			t.Fatalf("session %d: reconnect_event_count %d out of range", i, s.ReconnectEventCount)
		}
	}
}

func TestDeviceModelOnlyOnMobile(t *testing.T) {
	g := testGenerator(t, testConfig(3000), 11)
	sessions, err := g.SessionsForDay(time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), testServers(5))
	if err != nil {
		t.Fatalf("SessionsForDay() error = %v", err)
	}

	for i, s := range sessions {
		mobile := s.AppName == "ios" || s.AppName == "android"
		if mobile && s.DeviceModel == "" {
			t.Fatalf("session %d: mobile platform %s without device model", i, s.AppName)
		}
		if !mobile && s.DeviceModel != "" {
			t.Fatalf("session %d: platform %s with device model %q", i, s.AppName, s.DeviceModel)
		}
	}
}

func TestRatingFractions(t *testing.T) {
	cfg := testConfig(100000)
	g := testGenerator(t, cfg, 99)
	sessions, err := g.SessionsForDay(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), testServers(20))
	if err != nil {
		t.Fatalf("SessionsForDay() error = %v", err)
	}

	var rated, negative int
	for _, s := range sessions {
		if s.IsNegativeRating && !s.HasUserRating {
			t.Fatal("negative rating on unrated session")
		}
		if s.HasUserRating {
			rated++
			if s.IsNegativeRating {
				negative++
			}
		}
	}

	ratedFrac := float64(rated) / float64(len(sessions))
	if ratedFrac < 0.045 || ratedFrac > 0.055 {
		t.Errorf("rated fraction = %.4f, want ~0.05", ratedFrac)
	}
	negFrac := float64(negative) / float64(rated)
	if negFrac < 0.17 || negFrac > 0.23 {
		t.Errorf("negative fraction among rated = %.4f, want ~0.20", negFrac)
	}
}

func TestSessionOutcomeFractions(t *testing.T) {
	g := testGenerator(t, testConfig(100000), 123)
	sessions, err := g.SessionsForDay(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), testServers(20))
	if err != nil {
		t.Fatalf("SessionsForDay() error = %v", err)
	}

	var intents, connected, canceled int
	for _, s := range sessions {
		if s.HasConnectIntent {
			intents++
		}
		if s.IsConnected {
			connected++
		}
		if s.IsCanceled {
			canceled++
		}
	}

	total := float64(len(sessions))
	if f := float64(intents) / total; f < 0.97 || f > 0.99 {
		t.Errorf("intent fraction = %.4f, want ~0.98", f)
	}
	if f := float64(connected) / float64(intents); f < 0.94 || f > 0.96 {
		t.Errorf("connect fraction among intents = %.4f, want ~0.95", f)
	}
	if connected+canceled != intents {
		t.Errorf("connected(%d) + canceled(%d) != intents(%d)", connected, canceled, intents)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{NumServers: 1, NumDays: 1, SessionsPerDay: 1}, false},
		{"zero servers", Config{NumServers: 0, NumDays: 1, SessionsPerDay: 1}, true},
		{"zero days", Config{NumServers: 1, NumDays: 0, SessionsPerDay: 1}, true},
		{"negative sessions", Config{NumServers: 1, NumDays: 1, SessionsPerDay: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
