package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thegreendrop/rainharvest/internal/recharge"
)

// FailureKind classifies why a provider call failed. The taxonomy is local
// to the adapter layer; the aggregator absorbs it into provenance.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureHTTPError FailureKind = "http_error"
	FailureParseErr  FailureKind = "parse_error"
)

// ProviderError is the explicit failure side of a provider call.
type ProviderError struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// FailureKindOf extracts the failure kind from an adapter error, defaulting
// to http_error for anything untyped.
func FailureKindOf(err error) FailureKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	return FailureHTTPError
}

// Priority orders providers for the merge step: higher value wins scalar
// conflicts. The total order, most specific source first:
// city forecast > current conditions > station nowcast > AWS observations >
// district nowcast > district rainfall > subdivision rainfall > basin QPF >
// district warnings.
type Priority int

const (
	PriorityCityForecast        Priority = 80
	PriorityCurrentConditions   Priority = 70
	PriorityStationNowcast      Priority = 60
	PriorityAWSObservations     Priority = 55
	PriorityDistrictNowcast     Priority = 50
	PriorityDistrictRainfall    Priority = 40
	PrioritySubdivisionRainfall Priority = 30
	PriorityBasinQPF            Priority = 20
	PriorityDistrictWarning     Priority = 10
)

// Report is one provider's partial view of the canonical record. Scalars are
// pointers so the merge step can tell "absent" from zero. Reports are
// ephemeral; they exist only during one aggregation pass.
type Report struct {
	Provider  string
	Priority  Priority
	FetchedAt time.Time

	AnnualRainfallMM   *float64
	MaxDailyRainfallMM *float64
	RainyDays          *int
	AvgTemperatureC    *float64
	HumidityPct        *float64
	WindSpeedKMH       *float64
	PressureHPa        *float64
	Condition          string

	Forecast []ForecastDay
}

// Empty reports contribute nothing to a merge and do not count as a success.
func (r Report) Empty() bool {
	return r.AnnualRainfallMM == nil &&
		r.MaxDailyRainfallMM == nil &&
		r.RainyDays == nil &&
		r.AvgTemperatureC == nil &&
		r.HumidityPct == nil &&
		r.WindSpeedKMH == nil &&
		r.PressureHPa == nil &&
		r.Condition == "" &&
		len(r.Forecast) == 0
}

// Provider abstracts one external weather data source. Implementations are
// stateless, apply their own request timeout, never retry (retry policy lives
// in the Aggregator), and never cache.
type Provider interface {
	Name() string
	Priority() Priority
	// Supports reports whether this provider can serve the given query
	// (city-scoped vs coordinate-scoped).
	Supports(q Query) bool
	Fetch(ctx context.Context, q Query) (Report, error)
}

// AlertProvider is an optional capability for providers that expose
// weather warnings.
type AlertProvider interface {
	FetchAlerts(ctx context.Context, q Query) ([]Alert, error)
}

// CacheEntry is the unit stored per cache key: a record plus the metrics
// derived from it. Entries are replaced wholesale, never mutated in place.
type CacheEntry struct {
	Record     Record
	Metrics    recharge.Metrics
	ComputedAt time.Time
	TTL        time.Duration
}

// Expired reports whether the entry has outlived its TTL at the given time.
func (e CacheEntry) Expired(now time.Time) bool {
	return now.After(e.ComputedAt.Add(e.TTL))
}

// Store is the contract the cache store must satisfy. The Aggregator owns
// the write path exclusively; callers read only through the Aggregator.
type Store interface {
	// Get returns a live (non-expired) entry.
	Get(key string, now time.Time) (CacheEntry, bool)
	// GetStale returns an entry regardless of expiry, for the
	// serve-stale-while-failing path.
	GetStale(key string) (CacheEntry, bool)
	Put(key string, e CacheEntry)
}
