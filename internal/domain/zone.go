package domain

import "strings"

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Zone is a named polygonal service area. Zones are immutable configuration
// loaded at process start; they are never mutated at runtime.
type Zone struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	City    string  `json:"city" yaml:"city"`
	Active  bool    `json:"active" yaml:"active"`
	Polygon []Point `json:"polygon" yaml:"polygon"`
}

// Contains reports whether the point lies inside the zone's polygon using the
// ray-casting parity test. The polygon is implicitly closed: the last vertex
// connects back to the first. Polygons with fewer than three vertices never
// contain anything.
//
// A point exactly on a polygon edge may or may not register as contained,
// depending on which side the floating-point comparison falls. This ambiguity
// is inherent to the algorithm and deliberately left as is; zone boundaries
// are drawn with margin so it does not matter in practice.
func (z *Zone) Contains(lat, lon float64) bool {
	n := len(z.Polygon)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := z.Polygon[i], z.Polygon[j]
		if (vi.Lat > lat) != (vj.Lat > lat) &&
			lon < (vj.Lon-vi.Lon)*(lat-vi.Lat)/(vj.Lat-vi.Lat)+vi.Lon {
			inside = !inside
		}
	}
	return inside
}

// MatchesCity reports whether the zone belongs to the given city,
// compared case-insensitively.
func (z *Zone) MatchesCity(city string) bool {
	return strings.EqualFold(z.City, city)
}
