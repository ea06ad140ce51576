// Package geocode is a thin client for an OpenRouteService-compatible
// geocoding provider: free-text place search and coordinate reverse lookup,
// both constrained to one country.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"weyala/internal/config"
)

var (
	// ErrNotConfigured means no provider API key is set. Callers must not
	// surface credential details; the sentinel carries none.
	ErrNotConfigured = errors.New("geocoding provider not configured")
	// ErrNoAddress means a reverse lookup matched no place.
	ErrNoAddress = errors.New("no address found")
)

const (
	searchLimit  = 5
	reverseLimit = 1
)

// Place is a normalized geocoding candidate.
type Place struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

type Client struct {
	baseURL    string
	apiKey     string
	country    string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, country string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		country: country,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewFromEnv builds a client from ORS_BASE_URL, ORS_API_KEY and
// GEOCODE_COUNTRY (default ET).
func NewFromEnv() *Client {
	return NewClient(
		config.GetEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
		config.GetEnv("ORS_API_KEY", ""),
		config.GetEnv("GEOCODE_COUNTRY", "ET"),
	)
}

// GeoJSON feature shapes returned by the provider.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties struct {
		Name  string `json:"name"`
		Label string `json:"label"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // [lng, lat]
	} `json:"geometry"`
}

// Search returns up to five ranked candidates for a free-text query.
func (c *Client) Search(ctx context.Context, text string) ([]Place, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("size", strconv.Itoa(searchLimit))

	fc, err := c.geocode(ctx, "/geocode/search", params)
	if err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		if p, valid := toPlace(f); valid {
			places = append(places, p)
		}
	}
	return places, nil
}

// Reverse returns the best-matching place for a coordinate pair, or
// ErrNoAddress when the provider has nothing there.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	params := url.Values{}
	params.Set("point.lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("point.lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("size", strconv.Itoa(reverseLimit))

	fc, err := c.geocode(ctx, "/geocode/reverse", params)
	if err != nil {
		return Place{}, err
	}

	for _, f := range fc.Features {
		if p, valid := toPlace(f); valid {
			return p, nil
		}
	}
	return Place{}, ErrNoAddress
}

func (c *Client) geocode(ctx context.Context, path string, params url.Values) (*featureCollection, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	params.Set("api_key", c.apiKey)
	params.Set("boundary.country", c.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding provider returned status %d", resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	return &fc, nil
}

func toPlace(f feature) (Place, bool) {
	if len(f.Geometry.Coordinates) < 2 {
		return Place{}, false
	}
	name := f.Properties.Name
	if name == "" {
		name = f.Properties.Label
	}
	return Place{
		Name:  name,
		Label: f.Properties.Label,
		Lat:   f.Geometry.Coordinates[1],
		Lng:   f.Geometry.Coordinates[0],
	}, true
}
