package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		want string
	}{
		{"network", Network("weather", errors.New("connection refused")), ErrNetwork, "network"},
		{"status", Status("weather", 404, "not found"), ErrUpstream, "upstream"},
		{"no results", NoResults("geocode", "nothing for address"), ErrNoResults, "no_results"},
		{"invalid", InvalidArgument("weather", "lat out of range"), ErrInvalidArgument, "invalid_argument"},
		{"wrapped", fmt.Errorf("fetch: %w", Status("weather", 500, "")), ErrUpstream, "upstream"},
		{"missing key", fmt.Errorf("init: %w", ErrMissingAPIKey), ErrMissingAPIKey, "missing_api_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.want, KindName(tt.err))
		})
	}
	assert.Equal(t, "internal", KindName(errors.New("boom")))
	assert.Equal(t, "", KindName(nil))
}

func TestErrorMessage(t *testing.T) {
	err := Status("weather", 403, "API key not valid")
	assert.Equal(t, "weather: upstream returned non-success (status 403): API key not valid", err.Error())
	assert.Equal(t, 403, StatusCode(fmt.Errorf("wrap: %w", err)))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

func TestNetworkUnwrapsCause(t *testing.T) {
	cause := &url.Error{Op: "Get", URL: "http://x", Err: errors.New("dial tcp: refused")}
	err := Network("weather", cause)
	var uerr *url.Error
	assert.ErrorAs(t, err, &uerr)
	assert.True(t, IsTransport(cause))
	assert.True(t, IsTransport(context.DeadlineExceeded))
	assert.False(t, IsTransport(errors.New("decode")))
	assert.False(t, IsTransport(nil))
}
