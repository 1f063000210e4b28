package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adilzhan-dev/tulpar-backend/internal/domain"
)

// zonesFile mirrors the on-disk YAML layout of the service-area file.
type zonesFile struct {
	Zones []domain.Zone `yaml:"zones"`
}

// LoadZones reads the service-zone configuration file. The returned slice
// preserves file order, which determines zone matching priority; it is loaded
// once at startup and treated as immutable afterwards.
func LoadZones(path string) ([]domain.Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file %s: %w", path, err)
	}

	var file zonesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse zones file %s: %w", path, err)
	}

	for _, z := range file.Zones {
		if z.ID == "" {
			return nil, fmt.Errorf("zone without id in %s", path)
		}
		if len(z.Polygon) < 3 {
			// Degenerate polygons are allowed but never match; warn via
			// error only for the empty case that is clearly a typo.
			if len(z.Polygon) == 0 {
				return nil, fmt.Errorf("zone %s has no polygon", z.ID)
			}
		}
	}

	return file.Zones, nil
}
