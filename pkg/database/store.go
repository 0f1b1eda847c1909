package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"vpn-telemetry/pkg/models"
)

// insertChunkSize bounds the row count of a single bulk INSERT.
const insertChunkSize = 1000

// InsertProviders inserts the provider catalog and returns the rows with
// their assigned IDs.
func (db *DB) InsertProviders(ctx context.Context, providers []models.Provider) ([]models.Provider, error) {
	if len(providers) == 0 {
		return nil, nil
	}
	err := db.NewInsert().
		Model(&providers).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error inserting providers: %v", err)
	}
	return providers, nil
}

// InsertPlatforms inserts the platform catalog and returns the rows with
// their assigned IDs.
func (db *DB) InsertPlatforms(ctx context.Context, platforms []models.Platform) ([]models.Platform, error) {
	if len(platforms) == 0 {
		return nil, nil
	}
	err := db.NewInsert().
		Model(&platforms).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error inserting platforms: %v", err)
	}
	return platforms, nil
}

// InsertServers inserts the fabricated server pool and returns the rows with
// their assigned IDs.
func (db *DB) InsertServers(ctx context.Context, servers []models.Server) ([]models.Server, error) {
	if len(servers) == 0 {
		return nil, nil
	}
	err := db.NewInsert().
		Model(&servers).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error inserting servers: %v", err)
	}
	return servers, nil
}

// Providers returns all provider rows.
func (db *DB) Providers(ctx context.Context) ([]models.Provider, error) {
	var providers []models.Provider
	err := db.NewSelect().
		Model(&providers).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting providers: %v", err)
	}
	return providers, nil
}

// Servers returns all server rows.
func (db *DB) Servers(ctx context.Context) ([]models.Server, error) {
	var servers []models.Server
	err := db.NewSelect().
		Model(&servers).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting servers: %v", err)
	}
	return servers, nil
}

// PersistDay writes one simulated day's sessions and cost records in a
// single transaction. A failure rolls back the whole day, so a crashed run
// never leaves a partially written day behind.
func (db *DB) PersistDay(ctx context.Context, date time.Time, sessions []models.Session, costs []models.ServerCost) error {
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for start := 0; start < len(sessions); start += insertChunkSize {
			end := min(start+insertChunkSize, len(sessions))
			chunk := sessions[start:end]
			if _, err := tx.NewInsert().Model(&chunk).Exec(ctx); err != nil {
				return fmt.Errorf("error inserting sessions: %v", err)
			}
		}
		if len(costs) > 0 {
			if _, err := tx.NewInsert().Model(&costs).Exec(ctx); err != nil {
				return fmt.Errorf("error inserting cost records: %v", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error persisting day %s: %w", date.Format("2006-01-02"), err)
	}
	return nil
}
