package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ServerCost is the daily cost record for one server. There is at most one
// row per (server, date); TotalCost is always exactly BaseCost + TransferCost.
type ServerCost struct {
	bun.BaseModel `bun:"table:server_costs,alias:c"`

	ID       int64     `bun:",pk,autoincrement"`
	ServerID int64     `bun:"server_id,notnull,unique:server_costs_server_id_date_key"`
	Date     time.Time `bun:"date,type:date,notnull,unique:server_costs_server_id_date_key"`

	BaseCost     float64 `bun:"base_cost,notnull"`
	TransferCost float64 `bun:"transfer_cost,notnull,default:0"`
	TotalCost    float64 `bun:"total_cost,notnull"`

	TotalSessions        int     `bun:"total_sessions,notnull,default:0"`
	TotalConnectionHours float64 `bun:"total_connection_hours,notnull,default:0"`
	TotalGBTransferred   float64 `bun:"total_gb_transferred,notnull,default:0"`

	Server *Server `bun:"rel:belongs-to,join:server_id=id"`
}
