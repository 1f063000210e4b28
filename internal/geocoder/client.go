// Package geocoder is a thin client for the external geocoding service.
// It resolves free-text addresses to coordinates; no retries are performed,
// a failed or slow upstream call fails the one request that made it.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adilzhan-dev/tulpar-backend/internal/config"
)

// ErrUpstream marks any failure of the external geocoding service:
// unreachable, non-200 status, or a malformed payload.
var ErrUpstream = errors.New("geocoding service failed")

// ErrNoResults is returned when the upstream resolves the query to nothing.
var ErrNoResults = errors.New("address not found")

// Result is one resolved location.
type Result struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

// Client calls a Nominatim-compatible geocoding API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	countryCode string
	language    string
}

// NewClient creates a geocoder client from configuration. The configured
// User-Agent identifies this service to the upstream, which requires it.
func NewClient(cfg config.GeocoderConfig) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout.Duration},
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		countryCode: cfg.CountryCode,
		language:    cfg.Language,
	}
}

// upstreamPlace mirrors the wire format of one upstream search hit.
// Coordinates arrive as strings.
type upstreamPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a single address to coordinates. When the upstream finds
// several candidates the first (highest ranked) one is returned.
func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	results, err := c.search(ctx, address, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return &results[0], nil
}

// GeocodeMultiple resolves a free-text query to a list of candidate
// locations, at most limit entries.
func (c *Client) GeocodeMultiple(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 5
	}
	return c.search(ctx, query, limit)
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("countrycodes", c.countryCode)
	params.Set("accept-language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request returned status %d: %w", resp.StatusCode, ErrUpstream)
	}

	var places []upstreamPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w: %w", ErrUpstream, err)
	}

	results := make([]Result, 0, len(places))
	for _, p := range places {
		lat, err := strconv.ParseFloat(p.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed latitude %q: %w", p.Lat, ErrUpstream)
		}
		lon, err := strconv.ParseFloat(p.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed longitude %q: %w", p.Lon, ErrUpstream)
		}
		results = append(results, Result{Lat: lat, Lon: lon, Label: p.DisplayName})
	}

	return results, nil
}
