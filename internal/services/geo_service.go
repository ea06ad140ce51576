package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"weyala/internal/geocode"
)

// MinSearchLength is the shortest accepted free-text query. The client
// already gates keystrokes at this length; the server enforces it too so the
// proxy cannot be driven with single-character queries.
const MinSearchLength = 3

// GeoService wraps the geocoding client in the uniform result envelope.
type GeoService struct {
	Geocoder *geocode.Client
}

// Search forwards a free-text query to the geocoding provider.
func (g *GeoService) Search(ctx context.Context, text string) Result {
	if len(strings.TrimSpace(text)) < MinSearchLength {
		return fail(CodeValidationError, "Search query too short")
	}

	places, err := g.Geocoder.Search(ctx, text)
	if err != nil {
		return g.mapError(err, "search")
	}
	return okData(places)
}

// Reverse looks up the best-matching place for a coordinate pair.
func (g *GeoService) Reverse(ctx context.Context, lat, lng float64) Result {
	place, err := g.Geocoder.Reverse(ctx, lat, lng)
	if err != nil {
		if errors.Is(err, geocode.ErrNoAddress) {
			return fail(CodeNotFound, "No address found")
		}
		return g.mapError(err, "reverse")
	}
	return okData(place)
}

func (g *GeoService) mapError(err error, op string) Result {
	if errors.Is(err, geocode.ErrNotConfigured) {
		logrus.Warnf("geocode %s: provider not configured", op)
		return fail(CodeConfigurationError, "Location search is not configured")
	}
	logrus.WithError(err).Errorf("geocode %s failed", op)
	return fail(CodeUpstreamError, "Location lookup failed. Please try again.")
}
