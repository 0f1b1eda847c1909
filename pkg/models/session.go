package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is a single VPN session as reported by a client. It is created once
// by the generator and persisted once; the lifecycle timestamps are ordered
// when present:
//
//	created_at <= connect_intent_at <= connected_at
//	           <= disconnect_intent_at <= disconnected_at
//
// or, when the connection attempt is abandoned,
// connect_intent_at <= canceled_at. IsConnected and IsCanceled are never both
// true, and a session without connect intent carries no connect-phase
// timestamps at all.
type Session struct {
	bun.BaseModel `bun:"table:vpn_sessions,alias:vs"`

	ID        int64  `bun:",pk,autoincrement"`
	SessionID string `bun:"session_id,unique,notnull"`
	ServerID  int64  `bun:"server_id,notnull"`

	AppName     string `bun:"app_name,notnull"`
	AppVersion  string `bun:"app_version"`
	DeviceModel string `bun:"device_model,nullzero"`
	UserCountry string `bun:"user_country,notnull"`

	CreatedAt       time.Time  `bun:"created_at,notnull"`
	ConnectIntentAt *time.Time `bun:"connect_intent_at"`
	ConnectedAt     *time.Time `bun:"connected_at"`
	DisconnectedAt  *time.Time `bun:"disconnected_at"`
	CanceledAt      *time.Time `bun:"canceled_at"`

	ConnectedProtocol         string `bun:"connected_protocol,nullzero"`
	ConnectionDurationSeconds int    `bun:"connection_duration_seconds,notnull,default:0"`

	ConnectIntentTrigger string `bun:"connect_intent_trigger,nullzero"`
	ConnectingTimeMS     *int   `bun:"connecting_time_ms"`

	DisconnectIntentAt      *time.Time `bun:"disconnect_intent_at"`
	DisconnectIntentTrigger string     `bun:"disconnect_intent_trigger,nullzero"`

	HasConnectIntent bool `bun:"has_connect_intent,notnull,default:false"`
	IsConnected      bool `bun:"is_connected,notnull,default:false"`
	IsCanceled       bool `bun:"is_canceled,notnull,default:false"`

	NonetEventCount      int  `bun:"nonet_event_count,notnull,default:0"`
	NonetTotalDurationMS int  `bun:"nonet_total_duration_ms,notnull,default:0"`
	ReconnectEventCount  int  `bun:"reconnect_event_count,notnull,default:0"`
	UnexpectedDisconnect bool `bun:"unexpected_disconnect,notnull,default:false"`

	HasUserRating    bool `bun:"has_user_rating,notnull,default:false"`
	IsNegativeRating bool `bun:"is_negative_rating,notnull,default:false"`

	Server *Server `bun:"rel:belongs-to,join:server_id=id"`
}
