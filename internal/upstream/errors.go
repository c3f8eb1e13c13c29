// Package upstream holds the error kinds shared by the clients that talk to
// the geocoding and weather services.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

var (
	ErrNetwork         = errors.New("network failure")
	ErrUpstream        = errors.New("upstream returned non-success")
	ErrNoResults       = errors.New("no results")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrMissingAPIKey   = errors.New("API key missing")
)

// Error is returned by the service clients. Kind is one of the sentinel
// errors above and is matched by errors.Is.
type Error struct {
	Service    string
	Kind       error
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Service, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Network(service string, err error) error {
	return &Error{Service: service, Kind: ErrNetwork, Err: err}
}

func Status(service string, status int, message string) error {
	return &Error{Service: service, Kind: ErrUpstream, StatusCode: status, Message: message}
}

func NoResults(service, message string) error {
	return &Error{Service: service, Kind: ErrNoResults, Message: message}
}

func InvalidArgument(service, message string) error {
	return &Error{Service: service, Kind: ErrInvalidArgument, Message: message}
}

// IsTransport reports whether err came from the transport layer rather than
// from a response, e.g. a refused connection or an expired deadline.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr)
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// KindName maps err to the short name reported to the model.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrNoResults):
		return "no_results"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrMissingAPIKey):
		return "missing_api_key"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	}
	return "internal"
}
