// Package directions turns a route's ordered coordinate sequence into a
// drivable polyline using an OSRM-compatible routing service. Road results
// are cached per coordinate sequence; when the service cannot be reached the
// caller gets a straight line between the first and last point.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"golang.org/x/time/rate"

	"weyala/internal/config"
)

// maxAttempts bounds retries against the routing service before falling
// back to a straight line.
const maxAttempts = 2

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	// Courtesy limiter: the public demo server asks for low request volume.
	limiter *rate.Limiter

	mu    sync.RWMutex
	cache map[string][]Point
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		cache:   make(map[string][]Point),
	}
}

// NewFromEnv builds a client from OSRM_BASE_URL, defaulting to the public
// demo server.
func NewFromEnv() *Client {
	return NewClient(config.GetEnv("OSRM_BASE_URL", "https://router.project-osrm.org"))
}

// OSRM response shapes.
type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Geometry json.RawMessage `json:"geometry"` // GeoJSON LineString
}

// DrivingPath resolves the driving polyline through points, in order.
// The boolean reports whether the path follows the road network; false means
// the straight-line fallback between the first and last point (intermediate
// points are dropped from the fallback).
func (c *Client) DrivingPath(ctx context.Context, points []Point) ([]Point, bool) {
	if len(points) < 2 {
		return points, false
	}

	key := coordinateKey(points)

	c.mu.RLock()
	cached, hit := c.cache[key]
	c.mu.RUnlock()
	if hit {
		return cached, true
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			break
		}
		path, err := c.fetch(ctx, key)
		if err == nil {
			c.mu.Lock()
			c.cache[key] = path
			c.mu.Unlock()
			return path, true
		}
		logrus.WithError(err).Warnf("directions: routing attempt %d/%d failed", attempt, maxAttempts)
	}

	return []Point{points[0], points[len(points)-1]}, false
}

func (c *Client) fetch(ctx context.Context, coords string) ([]Point, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%s?overview=full&geometries=geojson", c.baseURL, coords)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing service returned status %d", resp.StatusCode)
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode routing response: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("no driving route found (code %q)", parsed.Code)
	}

	var g geom.T
	if err := gjson.Unmarshal(parsed.Routes[0].Geometry, &g); err != nil {
		return nil, fmt.Errorf("invalid route geometry: %w", err)
	}
	line, isLine := g.(*geom.LineString)
	if !isLine {
		return nil, fmt.Errorf("unexpected route geometry type %T", g)
	}

	// GeoJSON coordinates are [lng, lat]; the map wants lat/lng.
	coordsOut := line.Coords()
	path := make([]Point, 0, len(coordsOut))
	for _, coord := range coordsOut {
		path = append(path, Point{Lat: coord[1], Lng: coord[0]})
	}
	return path, nil
}

// coordinateKey renders points as OSRM's lng,lat;lng,lat path segment. It
// doubles as the cache key for the sequence.
func coordinateKey(points []Point) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.FormatFloat(p.Lng, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Lat, 'f', -1, 64))
	}
	return b.String()
}
