package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-records/internal/logger"
	"github.com/i474232898/weather-records/internal/observability"
	"github.com/i474232898/weather-records/internal/store"
	"github.com/i474232898/weather-records/internal/weather"
	"github.com/i474232898/weather-records/internal/weather/providers"
)

const testOrigin = "http://localhost:3000"

type stubProvider struct {
	payload json.RawMessage
	err     error
	explode bool
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) FetchHistorical(context.Context, string, string) (json.RawMessage, error) {
	if p.explode {
		panic("boom")
	}
	return p.payload, p.err
}

func newTestApp(p weather.Provider) (*fiber.App, *store.MemoryStore) {
	s := store.NewMemoryStore()
	svc := weather.NewService(s, p, observability.NewTestMetrics(), logger.Discard())
	return NewApp(svc, Options{CORSOrigin: testOrigin, Logger: logger.Discard()}), s
}

func postWeather(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/weather", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func getWeather(t *testing.T, app *fiber.App, id string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/weather/"+id, nil))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestCreateAndGetWeather(t *testing.T) {
	app, _ := newTestApp(&stubProvider{payload: json.RawMessage(`{"current":{"temperature":4}}`)})

	resp := postWeather(t, app, `{"date":"2023-01-01","location":"Paris","notes":"test"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	decode(t, resp, &created)
	require.NotEmpty(t, created.ID)

	resp = getWeather(t, app, created.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	expected := fmt.Sprintf(
		`{"id":%q,"date":"2023-01-01","location":"Paris","notes":"test","weather":{"current":{"temperature":4}}}`,
		created.ID,
	)
	assert.JSONEq(t, expected, string(body))
}

func TestCreateWeatherWithoutNotes(t *testing.T) {
	app, _ := newTestApp(&stubProvider{payload: json.RawMessage(`{}`)})

	resp := postWeather(t, app, `{"date":"2023-01-01","location":"Paris"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct{ ID string }
	decode(t, resp, &created)

	var rec map[string]interface{}
	decode(t, getWeather(t, app, created.ID), &rec)
	assert.Equal(t, "", rec["notes"])
}

func TestCreateWeatherProviderError(t *testing.T) {
	app, s := newTestApp(&stubProvider{err: &weather.ProviderError{Code: 615, Info: "Invalid location"}})

	resp := postWeather(t, app, `{"date":"2023-01-01","location":"Nowhere"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	decode(t, resp, &body)
	assert.True(t, body.Error)
	assert.Equal(t, "Invalid location", body.Detail)
	assert.Zero(t, s.Len())
}

func TestCreateWeatherValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing location", `{"date":"2023-01-01"}`},
		{"missing date", `{"location":"Paris"}`},
		{"empty strings", `{"date":"","location":""}`},
		{"wrong type", `{"date":20230101,"location":"Paris"}`},
		{"malformed json", `{"date":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, s := newTestApp(&stubProvider{payload: json.RawMessage(`{}`)})

			resp := postWeather(t, app, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body errorResponse
			decode(t, resp, &body)
			assert.NotEmpty(t, body.Detail)
			assert.Zero(t, s.Len())
		})
	}
}

func TestCreateWeatherProviderFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"transient", fmt.Errorf("%w: connection reset", weather.ErrProviderUnavailable), http.StatusBadGateway},
		{"circuit open", fmt.Errorf("%w: %w", weather.ErrProviderUnavailable, weather.ErrCircuitOpen), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, s := newTestApp(&stubProvider{err: tt.err})

			resp := postWeather(t, app, `{"date":"2023-01-01","location":"Paris"}`)
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Zero(t, s.Len())
		})
	}
}

func TestCreateWeatherPanicIsRecovered(t *testing.T) {
	app, _ := newTestApp(&stubProvider{explode: true})

	resp := postWeather(t, app, `{"date":"2023-01-01","location":"Paris"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGetWeatherNotFound(t *testing.T) {
	app, _ := newTestApp(&stubProvider{})

	resp := getWeather(t, app, "3f1c1f1e-0000-4000-8000-000000000000")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body errorResponse
	decode(t, resp, &body)
	assert.Equal(t, "Weather data not found", body.Detail)
}

func TestCORSAllowsConfiguredOriginOnly(t *testing.T) {
	app, _ := newTestApp(&stubProvider{})

	preflight := func(origin string) *http.Response {
		req := httptest.NewRequest(http.MethodOptions, "/weather", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := preflight(testOrigin)
	assert.Equal(t, testOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)

	resp = preflight("http://evil.example.com")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(&stubProvider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	decode(t, resp, &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "weather-records", health["service"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// End to end through the weatherstack client against a fake upstream.
func TestCreateWeatherThroughWeatherstack(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("query") == "Atlantis" {
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":615,"type":"request_failed","info":"Invalid location"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"current":{"temperature":4}}`))
	}))
	defer upstream.Close()

	metrics := observability.NewTestMetrics()
	p := providers.NewWeatherstackProvider(providers.DefaultHTTPClientConfig(upstream.Client()),
		upstream.URL, "test-key", metrics, logger.Discard())
	s := store.NewMemoryStore()
	svc := weather.NewService(s, p, metrics, logger.Discard())
	app := NewApp(svc, Options{CORSOrigin: testOrigin, Logger: logger.Discard()})

	resp := postWeather(t, app, `{"date":"2023-01-01","location":"Paris","notes":"test"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created struct{ ID string }
	decode(t, resp, &created)

	var rec map[string]interface{}
	decode(t, getWeather(t, app, created.ID), &rec)
	assert.Equal(t, map[string]interface{}{"current": map[string]interface{}{"temperature": float64(4)}}, rec["weather"])

	resp = postWeather(t, app, `{"date":"2023-01-01","location":"Atlantis"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body errorResponse
	decode(t, resp, &body)
	assert.Equal(t, "Invalid location", body.Detail)
	assert.Equal(t, 1, s.Len())
}
