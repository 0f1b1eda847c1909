package simulation

import (
	"context"
	"time"

	"vpn-telemetry/pkg/models"
)

// Store is the persistence boundary the orchestrator drives. pkg/database
// implements it against Postgres; tests substitute an in-memory fake.
type Store interface {
	InsertProviders(ctx context.Context, providers []models.Provider) ([]models.Provider, error)
	InsertPlatforms(ctx context.Context, platforms []models.Platform) ([]models.Platform, error)
	InsertServers(ctx context.Context, servers []models.Server) ([]models.Server, error)

	// Read-backs after insert: session and cost generation needs the
	// database-assigned server and provider IDs.
	Providers(ctx context.Context) ([]models.Provider, error)
	Servers(ctx context.Context) ([]models.Server, error)

	// PersistDay commits one simulated day atomically.
	PersistDay(ctx context.Context, date time.Time, sessions []models.Session, costs []models.ServerCost) error
}
