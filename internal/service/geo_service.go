package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adilzhan-dev/tulpar-backend/internal/domain"
	"github.com/adilzhan-dev/tulpar-backend/internal/geo"
	"github.com/adilzhan-dev/tulpar-backend/internal/geocoder"
	"github.com/adilzhan-dev/tulpar-backend/pkg/database"
	redislib "github.com/redis/go-redis/v9"
)

// ResolvedAddress is a geocoded address together with the service zone it
// falls into, if any.
type ResolvedAddress struct {
	Location      geocoder.Result `json:"location"`
	Zone          *domain.Zone    `json:"zone,omitempty"`
	InServiceArea bool            `json:"in_service_area"`
}

// GeoService resolves addresses and service-zone queries. Geocode results
// are cached in Redis; a cache failure degrades to a direct upstream call.
type GeoService struct {
	geocoder Geocoder
	zones    *geo.Index
	redis    *database.Redis
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewGeoService creates a new geo service
func NewGeoService(gc Geocoder, zones *geo.Index, redis *database.Redis, cacheTTL time.Duration, logger *zap.Logger) *GeoService {
	return &GeoService{
		geocoder: gc,
		zones:    zones,
		redis:    redis,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ResolveZone returns the first active zone containing the point, or nil.
func (s *GeoService) ResolveZone(lat, lon float64) *domain.Zone {
	return s.zones.Resolve(lat, lon)
}

// ZonesForCity returns the active zones of a city, matched case-insensitively.
func (s *GeoService) ZonesForCity(city string) []domain.Zone {
	return s.zones.ZonesForCity(city)
}

// AllZones returns all active zones in configured order.
func (s *GeoService) AllZones() []domain.Zone {
	return s.zones.AllZones()
}

// ResolveAddress geocodes a free-text address and determines which service
// zone, if any, the resulting point falls into.
func (s *GeoService) ResolveAddress(ctx context.Context, address string) (*ResolvedAddress, error) {
	location, err := s.cachedGeocode(ctx, address)
	if err != nil {
		return nil, err
	}

	zone := s.zones.Resolve(location.Lat, location.Lon)

	return &ResolvedAddress{
		Location:      *location,
		Zone:          zone,
		InServiceArea: zone != nil,
	}, nil
}

// SuggestAddresses returns candidate locations for a free-text query.
// Suggestions are not cached: queries are too varied for a useful hit rate.
func (s *GeoService) SuggestAddresses(ctx context.Context, query string, limit int) ([]geocoder.Result, error) {
	return s.geocoder.GeocodeMultiple(ctx, query, limit)
}

func (s *GeoService) cachedGeocode(ctx context.Context, address string) (*geocoder.Result, error) {
	key := geocodeCacheKey(address)

	if cached, err := s.redis.Client.Get(ctx, key).Result(); err == nil {
		var result geocoder.Result
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
		// Unparseable cache entry: drop it and fall through to upstream.
		_ = s.redis.Client.Del(ctx, key).Err()
	} else if !errors.Is(err, redislib.Nil) {
		s.logger.Warn("geocode cache read failed", zap.Error(err))
	}

	result, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := s.redis.Client.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("geocode cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

func geocodeCacheKey(address string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(address))))
	return fmt.Sprintf("geocode:%s", hex.EncodeToString(sum[:]))
}
