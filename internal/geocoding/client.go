package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
)

// PopularCities is offered whenever the caller has to search manually.
var PopularCities = []string{
	"Nairobi", "Mombasa", "Kisumu", "Nakuru", "Eldoret", "Thika",
	"Malindi", "Kitale", "Garissa", "Kakamega", "Nyeri", "Machakos",
	"Meru", "Lamu", "Isiolo", "Nanyuki", "Naivasha", "Kericho",
	"Embu", "Voi", "Kilifi", "Narok", "Kitui", "Bungoma", "Busia",
}

// Client resolves coordinates to a place name through a BigDataCloud
// compatible reverse-geocoding endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type reverseResponse struct {
	City                 string `json:"city"`
	Locality             string `json:"locality"`
	PrincipalSubdivision string `json:"principalSubdivision"`
}

func (r reverseResponse) name() string {
	for _, s := range []string{r.City, r.Locality, r.PrincipalSubdivision} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ReverseGeocode returns the city, locality or region at lat/lng, in that
// order of preference.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if !validCoordinates(lat, lng) {
		return "", httperr.InvalidInput("invalid_coordinates")
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("longitude", strconv.FormatFloat(lng, 'f', 6, 64))
	q.Set("localityLanguage", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", httperr.Upstream("geocoding_failed", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", httperr.Upstream("geocoding_failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", httperr.Upstream("geocoding_failed",
			fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body)))
	}

	var out reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", httperr.Upstream("geocoding_failed", fmt.Errorf("decode response: %w", err))
	}

	name := out.name()
	if name == "" {
		return "", httperr.NotFound("location_not_found")
	}
	return name, nil
}
