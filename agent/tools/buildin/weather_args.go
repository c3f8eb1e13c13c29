package buildin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/myproject/weather-agent/agent/tools"
	"github.com/myproject/weather-agent/internal/upstream"
	"github.com/myproject/weather-agent/internal/weather"
)

type weatherArgs struct {
	Coordinates *struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"coordinates"`
	Days int `json:"days"`
}

func parseWeatherArgs(args string) (weather.Coordinates, int, error) {
	var input weatherArgs
	if strings.TrimSpace(args) == "" {
		args = "{}"
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return weather.Coordinates{}, 0, upstream.InvalidArgument("tool", fmt.Sprintf("parse args: %v", err))
	}
	if input.Coordinates == nil || input.Coordinates.Lat == nil || input.Coordinates.Lng == nil {
		return weather.Coordinates{}, 0, upstream.InvalidArgument("tool", "coordinates.lat and coordinates.lng are required")
	}
	coords := weather.Coordinates{Lat: *input.Coordinates.Lat, Lng: *input.Coordinates.Lng}
	return coords, input.Days, nil
}

func coordinatesSchema() map[string]any {
	return tools.ObjectProperty("Coordinates obtained from get_user_location (geometry.location).", map[string]any{
		"lat": tools.NumberProperty("Latitude in degrees."),
		"lng": tools.NumberProperty("Longitude in degrees."),
	}, "lat", "lng")
}
