package generator

import (
	"fmt"
	"time"

	"vpn-telemetry/pkg/models"
)

const (
	// mbPerConnectedHour is the fixed bandwidth-per-connected-hour estimate
	// used to derive transfer volume; traffic is not measured.
	mbPerConnectedHour = 50.0

	// amortizationDays spreads a server's monthly price across days.
	amortizationDays = 30.0
)

// PartitionByServer groups a day's sessions by their server ID for cost
// aggregation.
func PartitionByServer(sessions []models.Session) map[int64][]models.Session {
	byServer := make(map[int64][]models.Session)
	for _, s := range sessions {
		byServer[s.ServerID] = append(byServer[s.ServerID], s)
	}
	return byServer
}

// AggregateCosts folds one day's sessions into per-server cost records.
// Every server gets a record, including servers with zero sessions that day:
// the amortized base cost models fixed infrastructure spend. A server whose
// provider reference doesn't resolve is a data integrity violation and fails
// the whole day.
func AggregateCosts(date time.Time, servers []models.Server, sessionsByServer map[int64][]models.Session, providers []models.Provider) ([]models.ServerCost, error) {
	byID := make(map[int64]models.Provider, len(providers))
	for _, p := range providers {
		byID[p.ID] = p
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	records := make([]models.ServerCost, 0, len(servers))
	for _, srv := range servers {
		provider, ok := byID[srv.ProviderID]
		if !ok {
			return nil, fmt.Errorf("server %s references provider %d: %w",
				srv.Hostname, srv.ProviderID, ErrUnknownProvider)
		}

		sessions := sessionsByServer[srv.ID]
		var totalSeconds int
		for _, s := range sessions {
			totalSeconds += s.ConnectionDurationSeconds
		}

		baseCost := provider.CostPerServerMonthly / amortizationDays
		hours := float64(totalSeconds) / 3600.0
		gb := hours * mbPerConnectedHour / 1024.0
		transferCost := gb * provider.CostPerGBTransfer

		records = append(records, models.ServerCost{
			ServerID:             srv.ID,
			Date:                 day,
			BaseCost:             baseCost,
			TransferCost:         transferCost,
			TotalCost:            baseCost + transferCost,
			TotalSessions:        len(sessions),
			TotalConnectionHours: hours,
			TotalGBTransferred:   gb,
		})
	}
	return records, nil
}
