package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myproject/weather-agent/internal/upstream"
)

func TestNew(t *testing.T) {
	tool := New("echo",
		func(ctx context.Context, args string) (string, error) { return args, nil },
		WithDescription("Echo the arguments."),
		WithParameters(ObjectSchema(map[string]any{"text": StringProperty("Text to echo.")}, "text")),
	)
	assert.Equal(t, "echo", tool.Name)
	assert.Equal(t, ToolKindTool, tool.Kind)
	assert.Equal(t, "Echo the arguments.", tool.Description)
	assert.Equal(t, []string{"text"}, tool.Parameters["required"])

	out, err := tool.Handler(context.Background(), `{"text":"hi"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"text":"hi"}`, out)
}

func TestSchemaHelpers(t *testing.T) {
	schema := ObjectSchema(map[string]any{
		"coordinates": ObjectProperty("Latitude and longitude.", map[string]any{
			"lat": NumberProperty("Latitude."),
			"lng": NumberProperty(""),
		}, "lat", "lng"),
		"days": IntProperty("Number of days."),
	}, "coordinates")

	b, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"required": ["coordinates"],
		"properties": {
			"coordinates": {
				"type": "object",
				"description": "Latitude and longitude.",
				"required": ["lat", "lng"],
				"properties": {
					"lat": {"type": "number", "description": "Latitude."},
					"lng": {"type": "number"}
				}
			},
			"days": {"type": "integer", "description": "Number of days."}
		}
	}`, string(b))

	empty := ObjectSchema(map[string]any{})
	_, hasRequired := empty["required"]
	assert.False(t, hasRequired)
}

func TestSuccess(t *testing.T) {
	out, err := Success(map[string]any{"temperature": 14})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","data":{"temperature":14}}`, out)

	raw, err := Success(json.RawMessage(`{"a":[1,2]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","data":{"a":[1,2]}}`, raw)
}

func TestFailure(t *testing.T) {
	cause := upstream.Status("weather", 404, "not found")
	out, err := Failure(cause)
	assert.Same(t, cause, err)

	var res Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "upstream", res.Kind)
	assert.Contains(t, res.Error, "status 404")
	assert.Nil(t, res.Data)

	out, _ = Failure(errors.New("boom"))
	assert.JSONEq(t, `{"status":"error","kind":"internal","error":"boom"}`, out)
}
