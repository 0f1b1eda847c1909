/*
Package models defines the persisted entities of the VPN telemetry simulator:
providers, platforms, servers, sessions and daily server cost records.

Relationships:

  - One Provider owns many Servers.
  - One Server hosts many Sessions and has at most one ServerCost per date.
  - Each Session and ServerCost belongs to exactly one Server.

Session lifecycle:

A session walks a short chain of stages, each stamped with its own timestamp.
A session may stop at any absorbing state:

	created ──> connect intent ──> connected ──> disconnect intent ──> disconnected
	    │              │
	    │              └──> canceled
	    └──> (no intent, session ends)

The outcome flags mirror the reached state: HasConnectIntent, IsConnected and
IsCanceled. IsConnected and IsCanceled are mutually exclusive, and
ConnectionDurationSeconds is positive exactly when IsConnected is true.

Quality counters (NonetEventCount, NonetTotalDurationMS, ReconnectEventCount,
UnexpectedDisconnect) are only populated for connected sessions. User ratings
(HasUserRating, IsNegativeRating) can be attached to any session.

Cost records:

ServerCost aggregates one server's day: a flat amortized share of the
provider's monthly price (BaseCost), an estimated transfer cost derived from
connected hours, and usage totals. BaseCost is present even for servers with
zero sessions that day.

The structs carry bun tags and are created through pkg/database; the generator
in pkg/generator builds them in memory without touching the database.
*/
package models
