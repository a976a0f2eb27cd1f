package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-records/internal/logger"
	"github.com/i474232898/weather-records/internal/observability"
	"github.com/i474232898/weather-records/internal/weather"
)

const (
	// DefaultWeatherstackURL is the public weatherstack API root.
	DefaultWeatherstackURL = "http://api.weatherstack.com"

	historicalPath = "/historical"
)

// WeatherstackProvider implements weather.Provider for weatherstack's
// historical endpoint.
type WeatherstackProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	metrics *observability.Metrics
	log     logger.Logger
}

// NewWeatherstackProvider creates a client for weatherstack's historical endpoint.
func NewWeatherstackProvider(
	cfg HTTPClientConfig,
	baseURL, apiKey string,
	metrics *observability.Metrics,
	log logger.Logger,
) *WeatherstackProvider {
	if baseURL == "" {
		baseURL = DefaultWeatherstackURL
	}

	return &WeatherstackProvider{
		name:    "weatherstack",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  cfg.Client,
		circuit: newCircuitBreaker("weatherstack", cfg),
		metrics: metrics,
		log:     log.WithField("component", "weatherstack_provider"),
	}
}

func (p *WeatherstackProvider) Name() string {
	return p.name
}

// FetchHistorical requests daily history for location on date. The body is
// returned verbatim unless it carries a top-level "error" object, which is
// turned into a *weather.ProviderError.
func (p *WeatherstackProvider) FetchHistorical(ctx context.Context, location, date string) (json.RawMessage, error) {
	start := time.Now()
	payload, err := p.fetch(ctx, location, date)
	p.metrics.ProviderDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())
	p.metrics.ProviderRequests.WithLabelValues(p.name, outcome(err)).Inc()
	return payload, err
}

func (p *WeatherstackProvider) fetch(ctx context.Context, location, date string) (json.RawMessage, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("access_key", p.apiKey)
		values.Set("query", location)
		values.Set("historical_date", date)
		values.Set("hourly", "1")
		values.Set("interval", "24")

		u := fmt.Sprintf("%s%s?%s", p.baseURL, historicalPath, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	p.log.Debugf("fetching history for %q on %s", location, date)

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest, hasErrorField)
	if err != nil {
		return nil, err
	}

	body, err := decodeObject(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", weather.ErrProviderUnavailable, err)
	}

	if raw, ok := body["error"]; ok {
		return nil, parseProviderError(raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status code %d", weather.ErrProviderUnavailable, resp.StatusCode)
	}

	return json.RawMessage(bytes.TrimSpace(resp.Body)), nil
}

// decodeObject parses a provider body, which must be a JSON object.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.New("response is not a JSON object")
	}
	return body, nil
}

func hasErrorField(data []byte) bool {
	body, err := decodeObject(data)
	if err != nil {
		return false
	}
	_, ok := body["error"]
	return ok
}

func parseProviderError(raw json.RawMessage) *weather.ProviderError {
	var e struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		// "error" was present but not an object, e.g. a bare string.
		var msg string
		if json.Unmarshal(raw, &msg) == nil {
			return &weather.ProviderError{Info: msg}
		}
		return &weather.ProviderError{}
	}
	return &weather.ProviderError{Code: e.Code, Type: e.Type, Info: e.Info}
}

func outcome(err error) string {
	var perr *weather.ProviderError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &perr):
		return "rejected"
	case errors.Is(err, weather.ErrCircuitOpen):
		return "circuit_open"
	default:
		return "error"
	}
}
