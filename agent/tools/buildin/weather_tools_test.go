package buildin

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"github.com/myproject/weather-agent/agent/tools"
	"github.com/myproject/weather-agent/internal/upstream"
	"github.com/myproject/weather-agent/internal/weather"
)

type fakeLocator struct {
	results []maps.GeocodingResult
	err     error
}

func (f *fakeLocator) ResolveDefault(context.Context) ([]maps.GeocodingResult, error) {
	return f.results, f.err
}

type fakeForecaster struct {
	current  json.RawMessage
	forecast json.RawMessage
	err      error

	gotCoords weather.Coordinates
	gotDays   int
}

func (f *fakeForecaster) CurrentConditions(_ context.Context, coords weather.Coordinates) (json.RawMessage, error) {
	f.gotCoords = coords
	return f.current, f.err
}

func (f *fakeForecaster) DailyForecast(_ context.Context, coords weather.Coordinates, days int) (json.RawMessage, error) {
	f.gotCoords = coords
	f.gotDays = days
	return f.forecast, f.err
}

func decode(t *testing.T, out string) tools.Result {
	t.Helper()
	var res tools.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

func TestGetUserLocation_Success(t *testing.T) {
	locator := &fakeLocator{results: []maps.GeocodingResult{{
		FormattedAddress: "Manchester, UK",
		Geometry: maps.AddressGeometry{
			Location:     maps.LatLng{Lat: 53.4808, Lng: -2.2426},
			LocationType: "APPROXIMATE",
		},
		AddressComponents: []maps.AddressComponent{
			{LongName: "Manchester", ShortName: "Manchester", Types: []string{"locality", "political"}},
		},
	}}}
	tool := NewGetUserLocationTool(locator)
	assert.Equal(t, "get_user_location", tool.Name)

	out, err := tool.Handler(context.Background(), "{}")
	require.NoError(t, err)

	var env struct {
		Status string `json:"status"`
		Data   []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
			AddressComponents []struct {
				LongName string `json:"long_name"`
			} `json:"address_components"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, tools.StatusSuccess, env.Status)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Manchester, UK", env.Data[0].FormattedAddress)
	assert.InDelta(t, 53.4808, env.Data[0].Geometry.Location.Lat, 1e-9)
	assert.Equal(t, "Manchester", env.Data[0].AddressComponents[0].LongName)
}

func TestGetUserLocation_OmitsAbsentFields(t *testing.T) {
	tool := NewGetUserLocationTool(&fakeLocator{results: []maps.GeocodingResult{{
		FormattedAddress: "Leeds, UK",
		Geometry:         maps.AddressGeometry{Location: maps.LatLng{Lat: 53.8, Lng: -1.55}},
	}}})
	assert.Nil(t, tool.Parameters)

	out, err := tool.Handler(context.Background(), "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","data":[{"formatted_address":"Leeds, UK","geometry":{"location":{"lat":53.8,"lng":-1.55}}}]}`, out)
	assert.NotContains(t, out, "bounds")
	assert.NotContains(t, out, "plus_code")
}

func TestGetUserLocation_NoResults(t *testing.T) {
	tool := NewGetUserLocationTool(&fakeLocator{err: upstream.NoResults("geocode", "no candidates")})
	out, err := tool.Handler(context.Background(), "")
	assert.ErrorIs(t, err, upstream.ErrNoResults)

	res := decode(t, out)
	assert.Equal(t, tools.StatusError, res.Status)
	assert.Equal(t, "no_results", res.Kind)
}

func TestGetCurrentWeather(t *testing.T) {
	f := &fakeForecaster{current: json.RawMessage(`{"temperature":{"degrees":14.2}}`)}
	tool := NewGetCurrentWeatherTool(f)
	assert.Equal(t, "get_current_weather", tool.Name)
	assert.Equal(t, []string{"coordinates"}, tool.Parameters["required"])

	out, err := tool.Handler(context.Background(), `{"coordinates":{"lat":53.4808,"lng":-2.2426}}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","data":{"temperature":{"degrees":14.2}}}`, out)
	assert.Equal(t, weather.Coordinates{Lat: 53.4808, Lng: -2.2426}, f.gotCoords)
}

func TestGetCurrentWeather_UpstreamFailure(t *testing.T) {
	f := &fakeForecaster{err: upstream.Status("weather", 503, "backend unavailable")}
	out, err := NewGetCurrentWeatherTool(f).Handler(context.Background(), `{"coordinates":{"lat":1,"lng":2}}`)
	assert.ErrorIs(t, err, upstream.ErrUpstream)
	res := decode(t, out)
	assert.Equal(t, tools.StatusError, res.Status)
	assert.Equal(t, "upstream", res.Kind)
	assert.Contains(t, res.Error, "503")
}

func TestGetCurrentWeather_BadArgs(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"not json", `lat=1`},
		{"missing coordinates", `{}`},
		{"missing lng", `{"coordinates":{"lat":1}}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeForecaster{}
			out, err := NewGetCurrentWeatherTool(f).Handler(context.Background(), tt.args)
			assert.ErrorIs(t, err, upstream.ErrInvalidArgument)
			assert.Equal(t, "invalid_argument", decode(t, out).Kind)
		})
	}
}

func TestGetCurrentWeather_ZeroCoordinatesAreValid(t *testing.T) {
	f := &fakeForecaster{current: json.RawMessage(`{}`)}
	_, err := NewGetCurrentWeatherTool(f).Handler(context.Background(), `{"coordinates":{"lat":0,"lng":0}}`)
	require.NoError(t, err)
	assert.Equal(t, weather.Coordinates{}, f.gotCoords)
}

func TestGetDailyForecast_PassesDays(t *testing.T) {
	f := &fakeForecaster{forecast: json.RawMessage(`{"forecastDays":[{"displayDate":{"year":2025,"month":6,"day":2}}]}`)}
	tool := NewGetDailyForecastTool(f)
	assert.Equal(t, "get_daily_forecast", tool.Name)

	out, err := tool.Handler(context.Background(), `{"coordinates":{"lat":53.48,"lng":-2.24},"days":5}`)
	require.NoError(t, err)
	assert.Equal(t, 5, f.gotDays)
	assert.Equal(t, tools.StatusSuccess, decode(t, out).Status)

	_, err = tool.Handler(context.Background(), `{"coordinates":{"lat":53.48,"lng":-2.24}}`)
	require.NoError(t, err)
	assert.Equal(t, 0, f.gotDays, "omitted days is left for the client to default")
}

func TestWeatherToolDescriptionsMentionUsage(t *testing.T) {
	assert.Contains(t, NewGetDailyForecastTool(&fakeForecaster{}).Description, "sunrise/sunset")
	assert.Contains(t, NewGetCurrentWeatherTool(&fakeForecaster{}).Description, "current time")
	assert.Contains(t, NewGetUserLocationTool(&fakeLocator{}).Description, "geometry")
}
