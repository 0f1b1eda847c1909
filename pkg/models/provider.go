package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Provider is a hosting provider with its pricing. Reference data, written
// once at the start of a simulation run.
type Provider struct {
	bun.BaseModel `bun:"table:providers,alias:p"`

	ID                   int64   `bun:",pk,autoincrement"`
	Name                 string  `bun:",unique,notnull"`
	CostPerServerMonthly float64 `bun:"cost_per_server_monthly,notnull"`
	CostPerGBTransfer    float64 `bun:"cost_per_gb_transfer,notnull"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Platform is a client platform (app) definition.
type Platform struct {
	bun.BaseModel `bun:"table:platforms,alias:pl"`

	ID          int64  `bun:",pk,autoincrement"`
	Name        string `bun:",unique,notnull"`
	DisplayName string `bun:"display_name,notnull"`
	IsMobile    bool   `bun:"is_mobile,notnull,default:false"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
