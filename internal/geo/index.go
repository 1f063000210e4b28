// Package geo answers point-in-service-area queries over the configured
// set of zone polygons.
package geo

import (
	"github.com/adilzhan-dev/tulpar-backend/internal/domain"
)

// Index holds the configured service zones. It is populated once at startup
// and read-only afterwards, so lookups need no synchronization.
type Index struct {
	zones []domain.Zone
}

// NewIndex creates an index over the given zones, preserving their order.
// Order matters: Resolve returns the first matching zone.
func NewIndex(zones []domain.Zone) *Index {
	return &Index{zones: zones}
}

// Resolve returns the first active zone containing the point, or nil when
// the point is outside the service area. Zones are checked in configured
// order; overlapping zones are resolved by that order, deterministically.
func (i *Index) Resolve(lat, lon float64) *domain.Zone {
	for idx := range i.zones {
		z := &i.zones[idx]
		if !z.Active {
			continue
		}
		if z.Contains(lat, lon) {
			return z
		}
	}
	return nil
}

// ZonesForCity returns all active zones whose city label matches,
// case-insensitively.
func (i *Index) ZonesForCity(city string) []domain.Zone {
	var matched []domain.Zone
	for idx := range i.zones {
		z := &i.zones[idx]
		if z.Active && z.MatchesCity(city) {
			matched = append(matched, *z)
		}
	}
	return matched
}

// AllZones returns all active zones in configured order.
func (i *Index) AllZones() []domain.Zone {
	var active []domain.Zone
	for idx := range i.zones {
		if i.zones[idx].Active {
			active = append(active, i.zones[idx])
		}
	}
	return active
}
