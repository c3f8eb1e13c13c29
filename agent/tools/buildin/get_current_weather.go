package buildin

import (
	"context"
	"encoding/json"

	"github.com/myproject/weather-agent/agent/tools"
	"github.com/myproject/weather-agent/internal/weather"
)

// Forecaster fetches weather payloads for a coordinate pair.
type Forecaster interface {
	CurrentConditions(ctx context.Context, coords weather.Coordinates) (json.RawMessage, error)
	DailyForecast(ctx context.Context, coords weather.Coordinates, days int) (json.RawMessage, error)
}

const getCurrentWeatherDescription = `Fetches the current weather conditions for the given coordinates using the Google Weather API.
Returns temperature, feels-like temperature, humidity, wind, precipitation, a weather description and the current time at the location.
Use it for questions about the weather right now or the current time.`

func NewGetCurrentWeatherTool(forecaster Forecaster) tools.Tool {
	return tools.New(
		"get_current_weather",
		func(ctx context.Context, args string) (string, error) {
			coords, _, err := parseWeatherArgs(args)
			if err != nil {
				return tools.Failure(err)
			}
			data, err := forecaster.CurrentConditions(ctx, coords)
			if err != nil {
				return tools.Failure(err)
			}
			return tools.Success(data)
		},
		tools.WithDescription(getCurrentWeatherDescription),
		tools.WithParameters(tools.ObjectSchema(map[string]any{
			"coordinates": coordinatesSchema(),
		}, "coordinates")),
	)
}
