package buildin

import (
	"context"

	"googlemaps.github.io/maps"

	"github.com/myproject/weather-agent/agent/tools"
	"github.com/myproject/weather-agent/internal/geo"
)

// Locator resolves the user's configured address.
type Locator interface {
	ResolveDefault(ctx context.Context) ([]maps.GeocodingResult, error)
}

const getUserLocationDescription = `Fetches the user's current location details using the Google Maps Geocoding API.
Takes no arguments. Returns {"status": "success", "data": [...]} where data is a list of candidates, each with:
- address_components: list of {long_name, short_name, types} (city, administrative zones, country, postal code)
- formatted_address: string
- geometry: {location: {lat, lng}, location_type, bounds, viewport}
- place_id, types
Use geometry.location of the first candidate as the coordinates for the weather tools.
On failure returns {"status": "error", "kind": ..., "error": ...}.`

// NewGetUserLocationTool takes no arguments and declares no parameter schema.
func NewGetUserLocationTool(locator Locator) tools.Tool {
	return tools.New(
		"get_user_location",
		func(ctx context.Context, _ string) (string, error) {
			results, err := locator.ResolveDefault(ctx)
			if err != nil {
				return tools.Failure(err)
			}
			data, err := geo.Encode(results)
			if err != nil {
				return tools.Failure(err)
			}
			return tools.Success(data)
		},
		tools.WithDescription(getUserLocationDescription),
	)
}
