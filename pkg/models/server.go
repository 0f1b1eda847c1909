package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Server is a VPN server. Servers are fabricated once per simulation run and
// never mutated afterwards. Hostname is derived from country, city and the
// server's ordinal index, so it is unique within a run.
type Server struct {
	bun.BaseModel `bun:"table:vpn_servers,alias:s"`

	ID         int64  `bun:",pk,autoincrement"`
	Hostname   string `bun:",unique,notnull"`
	IPAddress  string `bun:"ip_address,notnull"`
	ProviderID int64  `bun:"provider_id,notnull"`

	LocationCountry string `bun:"location_country,notnull"`
	LocationCity    string `bun:"location_city,notnull"`

	CPUModel string `bun:"cpu_model"`
	CPUCores int    `bun:"cpu_cores"`
	RAMGB    int    `bun:"ram_gb"`

	IsActive  bool      `bun:"is_active,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull"`

	Provider *Provider `bun:"rel:belongs-to,join:provider_id=id"`
}
