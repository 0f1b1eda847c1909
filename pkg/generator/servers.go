package generator

import (
	"fmt"
	"strings"

	"vpn-telemetry/pkg/catalog"
	"vpn-telemetry/pkg/models"
	"vpn-telemetry/pkg/sampler"
)

// Servers fabricates the server pool for a run. Locations and providers are
// picked uniformly; the hostname encodes country, city and the server's
// ordinal index so it never collides within a run. CreatedAt is backdated
// 30-365 days before the simulation start, modeling pre-existing
// infrastructure.
func (g *Generator) Servers(providers []models.Provider) ([]models.Server, error) {
	if len(providers) == 0 {
		return nil, ErrEmptyProviderCatalog
	}

	servers := make([]models.Server, 0, g.cfg.NumServers)
	for i := 0; i < g.cfg.NumServers; i++ {
		loc := catalog.Locations[g.rng.IntN(len(catalog.Locations))]
		provider := providers[g.rng.IntN(len(providers))]

		hostname := fmt.Sprintf("%s-%s-%03d.prod.%s",
			locationCode(loc.Country, 2), locationCode(loc.City, 3), i, g.cfg.HostDomain)

		servers = append(servers, models.Server{
			Hostname:        hostname,
			IPAddress:       g.randomIPv4(),
			ProviderID:      provider.ID,
			LocationCountry: loc.Country,
			LocationCity:    loc.City,
			CPUModel:        catalog.CPUModels[g.rng.IntN(len(catalog.CPUModels))],
			CPUCores:        catalog.CPUCoreOptions[g.rng.IntN(len(catalog.CPUCoreOptions))],
			RAMGB:           catalog.RAMGBOptions[g.rng.IntN(len(catalog.RAMGBOptions))],
			IsActive:        true,
			CreatedAt:       g.cfg.StartDate.AddDate(0, 0, -sampler.IntBetween(g.rng, 30, 365)),
		})
	}
	return servers, nil
}

// locationCode lowercases the first n runes of a location name.
func locationCode(name string, n int) string {
	runes := []rune(name)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.ToLower(string(runes))
}

func (g *Generator) randomIPv4() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		1+g.rng.IntN(222), g.rng.IntN(256), g.rng.IntN(256), 1+g.rng.IntN(254))
}
