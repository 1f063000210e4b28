package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/adilzhan-dev/tulpar-backend/internal/dto"
)

func (s *Suite) TestListZones() {
	resp, err := http.Get(s.BaseURL + "/api/v1/zones")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Zones []struct {
			ID   string `json:"id"`
			City string `json:"city"`
		} `json:"zones"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))

	// Inactive zones are not listed
	s.Require().Len(body.Zones, 2)
	s.Equal("almaty-center", body.Zones[0].ID)
	s.Equal("astana-center", body.Zones[1].ID)
}

func (s *Suite) TestResolveZone_InsideZone() {
	resp, err := http.Get(s.BaseURL + "/api/v1/zones/resolve?lat=43.24&lon=76.91")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		InServiceArea bool `json:"in_service_area"`
		Zone          *struct {
			ID string `json:"id"`
		} `json:"zone"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))

	s.True(body.InServiceArea)
	s.Require().NotNil(body.Zone)
	s.Equal("almaty-center", body.Zone.ID)
}

func (s *Suite) TestResolveZone_OutsideZones() {
	resp, err := http.Get(s.BaseURL + "/api/v1/zones/resolve?lat=43.65&lon=51.16")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		InServiceArea bool `json:"in_service_area"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))

	s.False(body.InServiceArea)
}

func (s *Suite) TestResolveZone_InvalidCoordinates() {
	resp, err := http.Get(s.BaseURL + "/api/v1/zones/resolve?lat=abc&lon=76.91")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestZonesByCity() {
	resp, err := http.Get(s.BaseURL + "/api/v1/zones/city/almaty")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		City  string `json:"city"`
		Zones []struct {
			ID string `json:"id"`
		} `json:"zones"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))

	s.Equal("almaty", body.City)
	s.Require().Len(body.Zones, 1)
	s.Equal("almaty-center", body.Zones[0].ID)
}

func (s *Suite) TestGeocodeAddress_InServiceArea() {
	body, _ := json.Marshal(dto.GeocodeRequest{Address: "Abay Ave 1, Almaty"})

	resp, err := http.Post(
		s.BaseURL+"/api/v1/geo/geocode",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var resolved struct {
		Location struct {
			Lat   float64 `json:"lat"`
			Lon   float64 `json:"lon"`
			Label string  `json:"label"`
		} `json:"location"`
		Zone *struct {
			ID string `json:"id"`
		} `json:"zone"`
		InServiceArea bool `json:"in_service_area"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&resolved))

	s.True(resolved.InServiceArea)
	s.Require().NotNil(resolved.Zone)
	s.Equal("almaty-center", resolved.Zone.ID)
	s.InDelta(43.24, resolved.Location.Lat, 0.001)
	s.NotEmpty(resolved.Location.Label)
}

func (s *Suite) TestGeocodeAddress_OutsideServiceArea() {
	body, _ := json.Marshal(dto.GeocodeRequest{Address: "Aktau, Mangystau Region"})

	resp, err := http.Post(
		s.BaseURL+"/api/v1/geo/geocode",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var resolved struct {
		InServiceArea bool `json:"in_service_area"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&resolved))

	s.False(resolved.InServiceArea)
}

func (s *Suite) TestGeocodeAddress_NoResults() {
	body, _ := json.Marshal(dto.GeocodeRequest{Address: "no such place anywhere"})

	resp, err := http.Post(
		s.BaseURL+"/api/v1/geo/geocode",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestGeocodeAddress_CachedResult() {
	body, _ := json.Marshal(dto.GeocodeRequest{Address: "Abay Ave 1, Almaty"})

	resp1, err := http.Post(s.BaseURL+"/api/v1/geo/geocode", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	resp1.Body.Close()
	s.Require().Equal(http.StatusOK, resp1.StatusCode)

	// The result is now cached in Redis
	keys, err := s.Redis.Client.Keys(context.Background(), "geocode:*").Result()
	s.Require().NoError(err)
	s.NotEmpty(keys)

	body, _ = json.Marshal(dto.GeocodeRequest{Address: "Abay Ave 1, Almaty"})
	resp2, err := http.Post(s.BaseURL+"/api/v1/geo/geocode", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp2.Body.Close()
	s.Equal(http.StatusOK, resp2.StatusCode)
}

func (s *Suite) TestSuggestAddresses() {
	resp, err := http.Get(s.BaseURL + "/api/v1/geo/suggest?query=" + "Abay+Ave+1%2C+Almaty")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Results []struct {
			Label string `json:"label"`
		} `json:"results"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.NotEmpty(body.Results)
}

func (s *Suite) TestSuggestAddresses_MissingQuery() {
	resp, err := http.Get(s.BaseURL + "/api/v1/geo/suggest")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
