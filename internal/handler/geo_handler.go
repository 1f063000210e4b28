package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adilzhan-dev/tulpar-backend/internal/dto"
	"github.com/adilzhan-dev/tulpar-backend/internal/geocoder"
	"github.com/adilzhan-dev/tulpar-backend/internal/service"
)

// GeoHandler handles zone and geocoding requests
type GeoHandler struct {
	geoService *service.GeoService
}

// NewGeoHandler creates a new geo handler
func NewGeoHandler(geoService *service.GeoService) *GeoHandler {
	return &GeoHandler{
		geoService: geoService,
	}
}

// ListZones returns all active service zones
func (h *GeoHandler) ListZones(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"zones": h.geoService.AllZones(),
	})
}

// ResolveZone determines which service zone contains the given point
func (h *GeoHandler) ResolveZone(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "lat must be a valid number",
		})
		return
	}

	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "lon must be a valid number",
		})
		return
	}

	zone := h.geoService.ResolveZone(lat, lon)
	if zone == nil {
		c.JSON(http.StatusOK, gin.H{
			"in_service_area": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"in_service_area": true,
		"zone":            zone,
	})
}

// ZonesByCity returns the active zones of a city
func (h *GeoHandler) ZonesByCity(c *gin.Context) {
	city := c.Param("city")

	c.JSON(http.StatusOK, gin.H{
		"city":  city,
		"zones": h.geoService.ZonesForCity(city),
	})
}

// GeocodeAddress resolves a free-text address to coordinates and the
// service zone they fall into
func (h *GeoHandler) GeocodeAddress(c *gin.Context) {
	var req dto.GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	resolved, err := h.geoService.ResolveAddress(c.Request.Context(), req.Address)
	if err != nil {
		h.geocodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolved)
}

// SuggestAddresses returns candidate locations for a free-text query
func (h *GeoHandler) SuggestAddresses(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "query is required",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	results, err := h.geoService.SuggestAddresses(c.Request.Context(), query, limit)
	if err != nil {
		h.geocodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
	})
}

func (h *GeoHandler) geocodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geocoder.ErrNoResults):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not found",
			Message: "Address could not be resolved",
		})
	case errors.Is(err, geocoder.ErrUpstream):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error:   "Upstream error",
			Message: "Geocoding service is unavailable",
		})
	default:
		internalError(c)
	}
}
