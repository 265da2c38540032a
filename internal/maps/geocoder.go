package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"navette/internal/types"
)

// Geocoder resolves free-text addresses through the Google Maps API.
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a Geocoder with the given API key.
func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

// Geocode returns the coordinates for an address, or nil when the address
// cannot be resolved. An unresolved address is not an error: the scoring
// side treats missing coordinates as "distance unknown".
func (g *Geocoder) Geocode(ctx context.Context, address string) (*types.Point, error) {
	if address == "" {
		return nil, nil
	}
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  address,
		Language: "fr",
		Region:   "FR",
	})
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	loc := results[0].Geometry.Location
	return &types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
