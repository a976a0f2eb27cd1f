package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record exists for an identifier.
	ErrNotFound = errors.New("weather data not found")

	// ErrProviderUnavailable wraps network, status and decoding failures
	// talking to the provider.
	ErrProviderUnavailable = errors.New("weather provider unavailable")

	// ErrCircuitOpen is wrapped alongside ErrProviderUnavailable when the
	// provider's circuit breaker rejects the call without trying it.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// ValidationError reports a malformed or incomplete create request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ProviderError is a failure reported by the provider in its response body,
// e.g. an unknown location.
type ProviderError struct {
	Code int
	Type string
	Info string
}

func (e *ProviderError) Error() string {
	switch {
	case e.Info != "":
		return e.Info
	case e.Type != "":
		return e.Type
	default:
		return "weather provider rejected the request"
	}
}
