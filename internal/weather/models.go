package weather

import (
	"fmt"
	"math"
	"time"
)

// DataSource classifies how much of a record came from live providers.
type DataSource string

const (
	// SourceLive means every required field was filled by a provider.
	SourceLive DataSource = "LIVE"
	// SourcePartial means at least one provider contributed and the
	// remaining required fields were filled from the default constants.
	SourcePartial DataSource = "PARTIAL"
	// SourceFallback means no provider succeeded and the record is synthetic.
	SourceFallback DataSource = "FALLBACK"
)

// Query identifies the location a caller wants weather for.
// CityID, when set, must resolve against the city registry.
type Query struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CityID    *int    `json:"cityId,omitempty"`
}

// Validate checks coordinate ranges.
func (q Query) Validate() error {
	if q.Latitude < -90 || q.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", q.Latitude)
	}
	if q.Longitude < -180 || q.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", q.Longitude)
	}
	return nil
}

// Key returns the cache key for this query: the coordinate rounded to the
// given bucket size in degrees, plus the city ID when present. Near-duplicate
// coordinates land in the same bucket and share one cache entry.
func (q Query) Key(bucket float64) string {
	if bucket <= 0 {
		bucket = 0.25
	}
	lat := math.Round(q.Latitude/bucket) * bucket
	lon := math.Round(q.Longitude/bucket) * bucket
	if q.CityID != nil {
		return fmt.Sprintf("%.2f:%.2f:c%d", lat, lon, *q.CityID)
	}
	return fmt.Sprintf("%.2f:%.2f", lat, lon)
}

// ForecastDay is one day of a normalized multi-day forecast.
type ForecastDay struct {
	Date       time.Time `json:"date"`
	MaxTempC   float64   `json:"maxTempC"`
	MinTempC   float64   `json:"minTempC"`
	RainfallMM float64   `json:"rainfallMm"`
	Condition  string    `json:"condition"`
}

// Record is the canonical weather view for one location, independent of
// which providers supplied it. Forecast holds 0-7 days in chronological order.
type Record struct {
	Query     Query     `json:"query"`
	FetchedAt time.Time `json:"fetchedAt"` // always UTC

	AnnualRainfallMM   float64 `json:"annualRainfallMm"`
	MaxDailyRainfallMM float64 `json:"maxDailyRainfallMm"`
	RainyDays          int     `json:"rainyDaysCount"`
	AvgTemperatureC    float64 `json:"avgTemperatureC"`
	HumidityPct        float64 `json:"humidityPercent"`
	WindSpeedKMH       float64 `json:"windSpeedKmh"`
	PressureHPa        float64 `json:"pressureHpa"`
	Condition          string  `json:"condition"`

	Forecast []ForecastDay `json:"forecastDays,omitempty"`

	Source     DataSource `json:"dataSource"`
	Provenance Provenance `json:"provenance"`
}

// Provenance records which providers contributed to a record and which
// failed during the aggregation pass that produced it.
type Provenance struct {
	PassID       string        `json:"passId"`
	Contributors []string      `json:"contributors,omitempty"`
	Failures     []FailureNote `json:"failures,omitempty"`

	// Stale is set when an expired cache entry was served because every
	// provider failed (serve-stale-while-failing).
	Stale bool `json:"stale,omitempty"`
}

// FailureNote is the kept trace of one failed provider call.
type FailureNote struct {
	Provider string      `json:"provider"`
	Kind     FailureKind `json:"kind"`
}

// Alert is a normalized weather warning for a location.
type Alert struct {
	Type     string    `json:"type"`
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
	IssuedAt time.Time `json:"issuedAt"`
}
