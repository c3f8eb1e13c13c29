package buildin

import (
	"context"
	"fmt"

	"github.com/myproject/weather-agent/agent/tools"
	"github.com/myproject/weather-agent/internal/weather"
)

var getDailyForecastDescription = fmt.Sprintf(`Fetches the daily weather forecast for the given coordinates using the Google Weather API.
Each day has daytime and nighttime forecasts, maximum and minimum temperatures, precipitation, wind, and sunrise/sunset times.
Use it for tomorrow, future days, sunrise/sunset, full day overviews and planning activities.
days defaults to %d and may be at most %d; day 1 is today.`, weather.DefaultDays, weather.MaxDays)

func NewGetDailyForecastTool(forecaster Forecaster) tools.Tool {
	return tools.New(
		"get_daily_forecast",
		func(ctx context.Context, args string) (string, error) {
			coords, days, err := parseWeatherArgs(args)
			if err != nil {
				return tools.Failure(err)
			}
			data, err := forecaster.DailyForecast(ctx, coords, days)
			if err != nil {
				return tools.Failure(err)
			}
			return tools.Success(data)
		},
		tools.WithDescription(getDailyForecastDescription),
		tools.WithParameters(tools.ObjectSchema(map[string]any{
			"coordinates": coordinatesSchema(),
			"days":        tools.IntProperty(fmt.Sprintf("Number of days to forecast, 1 to %d.", weather.MaxDays)),
		}, "coordinates")),
	)
}
