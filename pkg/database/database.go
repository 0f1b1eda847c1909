package database

import (
	"context"
	"database/sql"
	"fmt"

	"vpn-telemetry/pkg/models"

	"github.com/spf13/viper"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type DB struct {
	*bun.DB
}

func NewDB() (*DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		viper.GetString("database.user"),
		viper.GetString("database.password"),
		viper.GetString("database.host"),
		viper.GetInt("database.port"),
		viper.GetString("database.dbname"),
		viper.GetString("database.sslmode"),
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	return &DB{db}, nil
}

// Std exposes the underlying *sql.DB for consumers that run raw SQL, like
// the analytics handlers.
func (db *DB) Std() *sql.DB {
	return db.DB.DB
}

// InitSchema creates all tables and indexes if they don't exist. Foreign keys
// mirror the entity relationships: server -> provider, session -> server,
// cost record -> server.
func (db *DB) InitSchema(ctx context.Context) error {
	_, err := db.NewCreateTable().
		Model((*models.Provider)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create providers table: %v", err)
	}

	_, err = db.NewCreateTable().
		Model((*models.Platform)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create platforms table: %v", err)
	}

	_, err = db.NewCreateTable().
		Model((*models.Server)(nil)).
		IfNotExists().
		ForeignKey(`("provider_id") REFERENCES providers ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create vpn_servers table: %v", err)
	}

	_, err = db.NewCreateTable().
		Model((*models.Session)(nil)).
		IfNotExists().
		ForeignKey(`("server_id") REFERENCES vpn_servers ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create vpn_sessions table: %v", err)
	}

	_, err = db.NewCreateTable().
		Model((*models.ServerCost)(nil)).
		IfNotExists().
		ForeignKey(`("server_id") REFERENCES vpn_servers ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create server_costs table: %v", err)
	}

	return db.createIndexes(ctx)
}

func (db *DB) createIndexes(ctx context.Context) error {
	indexes := []struct {
		model   interface{}
		name    string
		columns []string
	}{
		{(*models.Server)(nil), "idx_server_location", []string{"location_country", "location_city"}},
		{(*models.Server)(nil), "idx_server_provider", []string{"provider_id"}},
		{(*models.Session)(nil), "idx_session_created", []string{"created_at"}},
		{(*models.Session)(nil), "idx_session_server", []string{"server_id"}},
		{(*models.Session)(nil), "idx_session_country", []string{"user_country"}},
		{(*models.Session)(nil), "idx_session_app", []string{"app_name"}},
		{(*models.ServerCost)(nil), "idx_cost_date", []string{"date"}},
		{(*models.ServerCost)(nil), "idx_cost_server_date", []string{"server_id", "date"}},
	}

	for _, idx := range indexes {
		_, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create index %s: %v", idx.name, err)
		}
	}
	return nil
}
