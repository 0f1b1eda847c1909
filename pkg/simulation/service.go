// Package simulation orchestrates a full generation run: it seeds the
// catalogs and server pool, walks the simulated calendar, and persists each
// day's sessions and cost records through the Store boundary.
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"vpn-telemetry/pkg/generator"
	"vpn-telemetry/pkg/models"
)

// progressInterval is how many completed days pass between progress logs.
const progressInterval = 30

// serverStream is the PCG stream used for server fabrication, distinct from
// every per-day stream (days use their own day number).
const serverStream = ^uint64(0)

// Config scales one simulation run.
type Config struct {
	Servers        int
	Days           int
	SessionsPerDay int

	// Seed makes the run reproducible; 0 picks a random seed.
	Seed uint64

	// Workers bounds how many days are generated concurrently. Days are
	// independent: every factor derives from absolute elapsed days and each
	// day commits in its own transaction, so completion order is irrelevant.
	Workers int

	// HostDomain is the generated server hostname suffix.
	HostDomain string
}

// Summary reports what a run produced.
type Summary struct {
	Servers     int
	Days        int
	Sessions    int64
	CostRecords int64
	TotalCost   float64
}

type Service struct {
	store  Store
	logger *slog.Logger
	cfg    Config
}

func NewService(store Store, logger *slog.Logger, cfg Config) *Service {
	return &Service{
		store:  store,
		logger: logger,
		cfg:    cfg,
	}
}

// Run executes the whole simulation. Scale parameters are validated before
// anything is written. Cancellation is checked at least once per simulated
// day; at most the in-flight days are lost, never a partial day.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	genCfg := generator.Config{
		NumServers:     s.cfg.Servers,
		NumDays:        s.cfg.Days,
		SessionsPerDay: s.cfg.SessionsPerDay,
		StartDate:      dayStart(time.Now().UTC().AddDate(0, 0, -s.cfg.Days)),
		HostDomain:     s.cfg.HostDomain,
	}
	if err := genCfg.Validate(); err != nil {
		return Summary{}, err
	}

	seed := s.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	workers := s.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	s.logger.Info("Starting VPN data generation",
		"servers", s.cfg.Servers,
		"days", s.cfg.Days,
		"sessionsPerDay", s.cfg.SessionsPerDay,
		"workers", workers,
		"seed", seed)

	providers, servers, err := s.seedInfrastructure(ctx, genCfg, seed)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Servers: len(servers), Days: s.cfg.Days}
	var mu sync.Mutex
	var completed atomic.Int64

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for dayNum := 0; dayNum < s.cfg.Days; dayNum++ {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			sessions, costs, err := s.generateDay(genCfg, seed, dayNum, providers, servers)
			if err != nil {
				return fmt.Errorf("day %d: %w", dayNum, err)
			}

			date := genCfg.StartDate.AddDate(0, 0, dayNum)
			if err := s.store.PersistDay(ctx, date, sessions, costs); err != nil {
				return fmt.Errorf("day %d: %w", dayNum, err)
			}

			mu.Lock()
			summary.Sessions += int64(len(sessions))
			summary.CostRecords += int64(len(costs))
			for _, c := range costs {
				summary.TotalCost += c.TotalCost
			}
			sessionsSoFar := summary.Sessions
			mu.Unlock()

			done := completed.Add(1)
			if done%progressInterval == 0 || done == int64(s.cfg.Days) {
				s.logger.Info("Generation progress",
					"daysDone", done,
					"daysTotal", s.cfg.Days,
					"sessions", sessionsSoFar)
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return summary, err
	}

	s.logger.Info("Data generation complete",
		"servers", summary.Servers,
		"sessions", summary.Sessions,
		"costRecords", summary.CostRecords,
		"totalCost", fmt.Sprintf("%.2f", summary.TotalCost))
	return summary, nil
}

// seedInfrastructure writes the catalogs and the fabricated server pool,
// then reads both back so later stages work with database-assigned IDs.
func (s *Service) seedInfrastructure(ctx context.Context, genCfg generator.Config, seed uint64) ([]models.Provider, []models.Server, error) {
	if _, err := s.store.InsertProviders(ctx, generator.ProviderRecords()); err != nil {
		return nil, nil, err
	}
	if _, err := s.store.InsertPlatforms(ctx, generator.PlatformRecords()); err != nil {
		return nil, nil, err
	}

	providers, err := s.store.Providers(ctx)
	if err != nil {
		return nil, nil, err
	}

	gen, err := generator.New(genCfg, rand.New(rand.NewPCG(seed, serverStream)))
	if err != nil {
		return nil, nil, err
	}
	pool, err := gen.Servers(providers)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.store.InsertServers(ctx, pool); err != nil {
		return nil, nil, err
	}

	servers, err := s.store.Servers(ctx)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Infrastructure seeded",
		"providers", len(providers),
		"servers", len(servers))
	return providers, servers, nil
}

// generateDay builds one day's batch with a day-scoped rng, so days can run
// on any worker without sharing random state.
func (s *Service) generateDay(genCfg generator.Config, seed uint64, dayNum int, providers []models.Provider, servers []models.Server) ([]models.Session, []models.ServerCost, error) {
	gen, err := generator.New(genCfg, rand.New(rand.NewPCG(seed, uint64(dayNum))))
	if err != nil {
		return nil, nil, err
	}

	date := genCfg.StartDate.AddDate(0, 0, dayNum)
	sessions, err := gen.SessionsForDay(date, servers)
	if err != nil {
		return nil, nil, err
	}

	costs, err := generator.AggregateCosts(date, servers, generator.PartitionByServer(sessions), providers)
	if err != nil {
		return nil, nil, err
	}
	return sessions, costs, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
