// Package generator fabricates internally consistent VPN telemetry: a server
// pool, per-day batches of session records following a staged lifecycle, and
// the matching per-server daily cost records. All randomness flows through
// the *rand.Rand passed to New, so seeded runs are reproducible and
// independent generators can work on different days in parallel.
package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"vpn-telemetry/pkg/catalog"
	"vpn-telemetry/pkg/models"
	"vpn-telemetry/pkg/sampler"
)

// Config describes one simulation run. The three scale parameters fully
// determine the volume of generated data.
type Config struct {
	NumServers     int
	NumDays        int
	SessionsPerDay int

	// StartDate is day zero of the simulated calendar. Growth and seasonal
	// factors are computed from elapsed days relative to it.
	StartDate time.Time

	// HostDomain is the suffix of generated server hostnames.
	HostDomain string
}

// Validate checks the scale parameters before any generation runs.
func (c Config) Validate() error {
	if c.NumServers <= 0 || c.NumDays <= 0 || c.SessionsPerDay <= 0 {
		return fmt.Errorf("%w: servers=%d days=%d sessions-per-day=%d",
			ErrInvalidScale, c.NumServers, c.NumDays, c.SessionsPerDay)
	}
	return nil
}

// hourWeights is the 24-bucket time-of-day distribution for session starts:
// peak during waking/working hours, trough overnight.
var hourWeights = []float64{
	0.02, 0.01, 0.01, 0.01, 0.01, 0.02, 0.03, 0.04, 0.05, 0.06,
	0.07, 0.06, 0.05, 0.05, 0.05, 0.06, 0.07, 0.08, 0.08, 0.07,
	0.06, 0.05, 0.04, 0.03,
}

var (
	intentTriggers       = []string{"user_action", "auto_connect", "quick_connect", "reconnect"}
	intentTriggerWeights = []float64{0.60, 0.20, 0.15, 0.05}

	disconnectTriggers       = []string{"user_action", "app_close", "switch_server", "network_change", "timeout"}
	disconnectTriggerWeights = []float64{0.50, 0.20, 0.15, 0.10, 0.05}
)

// Generator produces telemetry for one simulation run.
type Generator struct {
	cfg Config
	rng *rand.Rand

	platforms         *sampler.Weighted[catalog.Platform]
	hours             *sampler.Weighted[int]
	intentTrigger     *sampler.Weighted[string]
	disconnectTrigger *sampler.Weighted[string]
}

// New validates the config and catalogs and builds a generator bound to rng.
func New(cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(catalog.Platforms) == 0 {
		return nil, ErrEmptyPlatformCatalog
	}
	if len(catalog.Locations) == 0 {
		return nil, ErrEmptyLocationCatalog
	}
	if cfg.HostDomain == "" {
		cfg.HostDomain = "vpnlink.io"
	}

	platformWeights := make([]float64, len(catalog.Platforms))
	for i, p := range catalog.Platforms {
		platformWeights[i] = p.Weight
	}
	platforms, err := sampler.NewWeighted(catalog.Platforms, platformWeights, rng)
	if err != nil {
		return nil, err
	}

	hourBuckets := make([]int, len(hourWeights))
	for i := range hourBuckets {
		hourBuckets[i] = i
	}
	hours, err := sampler.NewWeighted(hourBuckets, hourWeights, rng)
	if err != nil {
		return nil, err
	}

	intent, err := sampler.NewWeighted(intentTriggers, intentTriggerWeights, rng)
	if err != nil {
		return nil, err
	}
	disconnect, err := sampler.NewWeighted(disconnectTriggers, disconnectTriggerWeights, rng)
	if err != nil {
		return nil, err
	}

	return &Generator{
		cfg:               cfg,
		rng:               rng,
		platforms:         platforms,
		hours:             hours,
		intentTrigger:     intent,
		disconnectTrigger: disconnect,
	}, nil
}

// ProviderRecords returns the provider catalog as insertable rows.
func ProviderRecords() []models.Provider {
	records := make([]models.Provider, 0, len(catalog.Providers))
	for _, p := range catalog.Providers {
		records = append(records, models.Provider{
			Name:                 p.Name,
			CostPerServerMonthly: p.CostPerServerMonthly,
			CostPerGBTransfer:    p.CostPerGBTransfer,
		})
	}
	return records
}

// PlatformRecords returns the platform catalog as insertable rows.
func PlatformRecords() []models.Platform {
	records := make([]models.Platform, 0, len(catalog.Platforms))
	for _, p := range catalog.Platforms {
		records = append(records, models.Platform{
			Name:        p.Name,
			DisplayName: p.DisplayName,
			IsMobile:    p.IsMobile,
		})
	}
	return records
}
