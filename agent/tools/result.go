package tools

import (
	"encoding/json"
	"fmt"

	"github.com/myproject/weather-agent/internal/upstream"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the envelope every weather tool hands back to the model, so a
// failed lookup is never confused with an empty answer.
type Result struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

func Success(data any) (string, error) {
	return encode(Result{Status: StatusSuccess, Data: data})
}

// Failure renders err as an error envelope and returns err alongside it so
// the runtime can log the failure.
func Failure(err error) (string, error) {
	out, encErr := encode(Result{
		Status: StatusError,
		Kind:   upstream.KindName(err),
		Error:  err.Error(),
	})
	if encErr != nil {
		return "", encErr
	}
	return out, err
}

func encode(r Result) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(b), nil
}
