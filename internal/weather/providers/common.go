// Package providers holds one adapter per IMD endpoint class. Adapters are
// stateless: they apply a fixed request timeout, validate the payload shape
// before extraction, and classify every failure as timeout, http_error or
// parse_error. Retries and caching live upstream in the aggregator.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

// DefaultTimeout is the fixed per-request timeout every adapter applies.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a provider response we are willing to read.
const maxBodyBytes = 4 << 20

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
)

// clientConfig bundles what every adapter needs for outbound calls.
type clientConfig struct {
	name    string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	timeout time.Duration
}

func newClientConfig(name string, client *http.Client) clientConfig {
	return clientConfig{
		name:   name,
		client: client,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		timeout: DefaultTimeout,
	}
}

// getJSON executes a single GET guarded by the circuit breaker and the fixed
// timeout, then decodes the body into v. All failures come back as
// *weather.ProviderError.
func getJSON(ctx context.Context, cfg clientConfig, url string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return httpError(cfg.name, err)
	}

	result, err := cfg.circuit.Execute(func() (interface{}, error) {
		resp, execErr := cfg.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if readErr != nil {
			return nil, readErr
		}
		return body, nil
	})
	if err != nil {
		return classifyTransport(cfg.name, err)
	}

	body, ok := result.([]byte)
	if !ok {
		return httpError(cfg.name, fmt.Errorf("unexpected result type from circuit breaker"))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return parseError(cfg.name, err)
	}
	return nil
}

// classifyTransport maps a transport-level failure onto the adapter taxonomy.
func classifyTransport(name string, err error) *weather.ProviderError {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &weather.ProviderError{Provider: name, Kind: weather.FailureTimeout, Err: err}
	}
	return httpError(name, err)
}

func httpError(name string, err error) *weather.ProviderError {
	return &weather.ProviderError{Provider: name, Kind: weather.FailureHTTPError, Err: err}
}

func parseError(name string, err error) *weather.ProviderError {
	return &weather.ProviderError{Provider: name, Kind: weather.FailureParseErr, Err: err}
}

// parseFloatField parses one of IMD's stringly-typed numeric fields.
func parseFloatField(name, field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, parseError(name, fmt.Errorf("field %s: %w", field, err))
	}
	return v, nil
}

// optionalFloatField parses a numeric field that may be absent or "NA".
func optionalFloatField(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "na") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// hasAny reports whether s contains any of the substrings, ignoring case.
func hasAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// normalizeCondition maps free-form IMD weather descriptions onto the small
// vocabulary the canonical record uses.
func normalizeCondition(text string) string {
	switch {
	case text == "":
		return ""
	case hasAny(text, "thunder", "storm"):
		return "Storm"
	case hasAny(text, "rain", "shower", "drizzle"):
		return "Rain"
	case hasAny(text, "cloud", "overcast"):
		return "Cloudy"
	case hasAny(text, "mist", "fog", "haze"):
		return "Mist"
	case hasAny(text, "clear", "sunny", "fair"):
		return "Clear"
	default:
		return text
	}
}

// haversineKM returns the great-circle distance between two coordinates.
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}
