package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/geocoding"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
)

// ReverseGeocoder resolves coordinates to a place name.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

type LocationHandler struct {
	geocoder ReverseGeocoder
}

func NewLocationHandler(geocoder ReverseGeocoder) *LocationHandler {
	return &LocationHandler{geocoder: geocoder}
}

type LocationResponse struct {
	Found         bool     `json:"found"`
	Location      string   `json:"location,omitempty"`
	ManualSearch  bool     `json:"manual_search"`
	ErrorCode     string   `json:"error_code,omitempty"`
	PopularCities []string `json:"popular_cities,omitempty"`
}

// Reverse never fails the request: any problem turns into a manual search
// prompt with the popular cities.
func (h *LocationHandler) Reverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		httpresp.OK(c, manualSearch("invalid_coordinates"))
		return
	}

	name, err := h.geocoder.ReverseGeocode(c.Request.Context(), lat, lng)
	if err != nil {
		zap.L().Info("reverse geocoding fell back to manual search", zap.Error(err))
		httpresp.OK(c, manualSearch(fallbackCode(err)))
		return
	}

	httpresp.OK(c, LocationResponse{Found: true, Location: name})
}

func (h *LocationHandler) PopularCities(c *gin.Context) {
	httpresp.List(c, geocoding.PopularCities)
}

func manualSearch(code string) LocationResponse {
	return LocationResponse{
		ManualSearch:  true,
		ErrorCode:     code,
		PopularCities: geocoding.PopularCities,
	}
}

func fallbackCode(err error) string {
	if code := httperr.CodeOf(err); code != "" {
		return code
	}
	return "geocoding_failed"
}
