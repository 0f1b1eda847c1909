package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"vpn-telemetry/pkg/catalog"
	"vpn-telemetry/pkg/models"
	"vpn-telemetry/pkg/sampler"
)

// SessionsForDay generates the day's session batch against a fixed server
// pool. The batch size follows the volume model; each session is generated
// independently.
func (g *Generator) SessionsForDay(day time.Time, servers []models.Server) ([]models.Session, error) {
	if len(servers) == 0 {
		return nil, ErrEmptyServerPool
	}

	daysElapsed := int(day.Sub(g.cfg.StartDate).Hours() / 24)
	count := DailyVolume(g.rng, g.cfg.SessionsPerDay, daysElapsed, day.Weekday())

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	sessions := make([]models.Session, 0, count)
	for i := 0; i < count; i++ {
		createdAt := dayStart.
			Add(time.Duration(g.hours.Pick()) * time.Hour).
			Add(time.Duration(g.rng.IntN(60)) * time.Minute).
			Add(time.Duration(g.rng.IntN(60)) * time.Second)
		sessions = append(sessions, g.session(createdAt, servers))
	}
	return sessions, nil
}

// session runs one session through the lifecycle stages. Each stage's
// timestamps derive from the previous stage's, so ordering and flag
// invariants hold by construction. The chain has three absorbing states:
// no intent, canceled, and completed.
func (g *Generator) session(createdAt time.Time, servers []models.Server) models.Session {
	server := servers[g.rng.IntN(len(servers))]
	s := g.identity(createdAt, server.ID)

	if !g.stageIntent(&s) {
		return s
	}
	if !g.stageConnect(&s) {
		return s
	}
	g.stageDuration(&s)
	g.stageDisconnect(&s)
	g.stageQuality(&s)
	return s
}

// identity fills the context fields and the (outcome-independent) user
// rating: 5% of sessions are rated, 20% of ratings are negative.
func (g *Generator) identity(createdAt time.Time, serverID int64) models.Session {
	platform := g.platforms.Pick()

	s := models.Session{
		SessionID:   uuid.NewString(),
		ServerID:    serverID,
		AppName:     platform.Name,
		AppVersion:  g.appVersion(platform),
		UserCountry: catalog.UserCountries[g.rng.IntN(len(catalog.UserCountries))],
		CreatedAt:   createdAt,
	}

	if platform.IsMobile {
		pool := catalog.DeviceModels(platform.Name)
		s.DeviceModel = pool[g.rng.IntN(len(pool))]
	}

	if g.rng.Float64() < 0.05 {
		s.HasUserRating = true
		s.IsNegativeRating = g.rng.Float64() < 0.20
	}
	return s
}

func (g *Generator) appVersion(platform catalog.Platform) string {
	major := sampler.IntBetween(g.rng, 3, 5)
	minor := g.rng.IntN(10)
	patch := g.rng.IntN(21)
	return fmt.Sprintf("%s %d.%d.%d", platform.Name, major, minor, patch)
}

// stageIntent: 98% of sessions express a connect intent 1-5s after creation.
// Without intent the session ends here with no connect-phase timestamps.
func (g *Generator) stageIntent(s *models.Session) bool {
	if g.rng.Float64() >= 0.98 {
		return false
	}
	s.HasConnectIntent = true
	s.ConnectIntentAt = timePtr(s.CreatedAt.Add(secondsBetween(g.rng, 1, 5)))
	s.ConnectIntentTrigger = g.intentTrigger.Pick()
	return true
}

// stageConnect: 95% of intents connect. Connecting time follows
// Gamma(shape=2, scale=1000ms), capped at 10s. The other 5% cancel 10-30s
// after the intent and leave connecting time unset.
func (g *Generator) stageConnect(s *models.Session) bool {
	if g.rng.Float64() >= 0.95 {
		s.IsCanceled = true
		s.CanceledAt = timePtr(s.ConnectIntentAt.Add(secondsBetween(g.rng, 10, 30)))
		return false
	}

	s.IsConnected = true
	ms := int(sampler.Gamma(g.rng, 2, 1000))
	if ms > 10000 {
		ms = 10000
	}
	s.ConnectingTimeMS = &ms
	s.ConnectedAt = timePtr(s.ConnectIntentAt.Add(time.Duration(ms) * time.Millisecond))
	s.ConnectedProtocol = catalog.Protocols[g.rng.IntN(len(catalog.Protocols))]
	return true
}

// stageDuration: Exponential(mean=45min) + 5min floor, capped at 4 hours.
func (g *Generator) stageDuration(s *models.Session) {
	minutes := int(sampler.Exponential(g.rng, 45)) + 5
	if minutes > 240 {
		minutes = 240
	}
	s.ConnectionDurationSeconds = minutes * 60
}

// stageDisconnect: disconnect intent lands 1-5s before the duration runs out,
// the disconnect itself 1-3s after the intent.
func (g *Generator) stageDisconnect(s *models.Session) {
	lead := secondsBetween(g.rng, 1, 5)
	intentAt := s.ConnectedAt.
		Add(time.Duration(s.ConnectionDurationSeconds) * time.Second).
		Add(-lead)
	s.DisconnectIntentAt = timePtr(intentAt)
	s.DisconnectIntentTrigger = g.disconnectTrigger.Pick()
	s.DisconnectedAt = timePtr(intentAt.Add(secondsBetween(g.rng, 1, 3)))
}

// stageQuality: only connected sessions accumulate quality events.
func (g *Generator) stageQuality(s *models.Session) {
	if g.rng.Float64() < 0.10 {
		s.NonetEventCount = sampler.IntBetween(g.rng, 1, 5)
		s.NonetTotalDurationMS = s.NonetEventCount * sampler.IntBetween(g.rng, 500, 5000)
	}
	if g.rng.Float64() < 0.05 {
		s.ReconnectEventCount = sampler.IntBetween(g.rng, 1, 3)
	}
	if g.rng.Float64() < 0.02 {
		s.UnexpectedDisconnect = true
	}
}

func secondsBetween(rng *rand.Rand, lo, hi int) time.Duration {
	return time.Duration(sampler.IntBetween(rng, lo, hi)) * time.Second
}

func timePtr(t time.Time) *time.Time {
	return &t
}
