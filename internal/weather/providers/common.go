package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-records/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and circuit breaker settings.
type HTTPClientConfig struct {
	Client *http.Client

	// Breaker trips after this many consecutive failures.
	BreakerFailures uint32
	// BreakerTimeout is how long the breaker stays open before probing again.
	BreakerTimeout time.Duration
}

// DefaultHTTPClientConfig returns the settings used in production.
func DefaultHTTPClientConfig(client *http.Client) HTTPClientConfig {
	return HTTPClientConfig{
		Client:          client,
		BreakerFailures: 5,
		BreakerTimeout:  2 * time.Minute,
	}
}

var (
	errServerError  = errors.New("server error")
	errNoHTTPClient = errors.New("http client not configured")
)

// response is a fully read provider response.
type response struct {
	StatusCode int
	Body       []byte
}

func newCircuitBreaker(name string, cfg HTTPClientConfig) *gobreaker.CircuitBreaker {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	})
}

// doRequest executes a single HTTP request through the circuit breaker.
// There are no retries: any failure is returned wrapped in
// weather.ErrProviderUnavailable. A 5xx response whose body satisfies
// rejected is handed back to the caller and does not count against the breaker.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func(ctx context.Context) (*http.Request, error),
	rejected func(body []byte) bool,
) (*response, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrProviderUnavailable, errNoHTTPClient)
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", weather.ErrProviderUnavailable, err)
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("read body: %w", readErr)
		}

		if resp.StatusCode >= 500 && (rejected == nil || !rejected(body)) {
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}

		return &response{StatusCode: resp.StatusCode, Body: body}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", weather.ErrProviderUnavailable, weather.ErrCircuitOpen)
		}
		return nil, fmt.Errorf("%w: %v", weather.ErrProviderUnavailable, err)
	}

	resp, ok := result.(*response)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrProviderUnavailable)
	}
	return resp, nil
}
