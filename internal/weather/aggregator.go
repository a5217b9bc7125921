package weather

import (
	"context"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thegreendrop/rainharvest/internal/recharge"
)

// RetryPolicy controls re-attempts for transient provider failures. Parse
// errors are never retried; a malformed payload will not fix itself.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Config bundles the aggregation tunables. Zero values fall back to the
// documented defaults.
type Config struct {
	// BudgetWindow bounds one whole aggregation pass; the slowest in-budget
	// adapter determines latency, not the sum of all adapters.
	BudgetWindow time.Duration
	// CacheTTL is how long a computed entry stays live.
	CacheTTL time.Duration
	// BucketDegrees is the coordinate rounding step for cache keys.
	BucketDegrees float64
	Retry         RetryPolicy
	// Soil overrides the default soil profile used by the metrics calculator.
	Soil *recharge.SoilProfile
}

func (c Config) withDefaults() Config {
	if c.BudgetWindow <= 0 {
		c.BudgetWindow = 12 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 3 * time.Hour
	}
	if c.BucketDegrees <= 0 {
		c.BucketDegrees = 0.25
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 2
	}
	if c.Retry.InitialBackoff <= 0 {
		c.Retry.InitialBackoff = 200 * time.Millisecond
	}
	if c.Retry.MaxBackoff <= 0 {
		c.Retry.MaxBackoff = 2 * time.Second
	}
	return c
}

// Aggregator orchestrates provider fan-out, merging, metric derivation,
// caching and fallback. It owns the cache write path exclusively.
type Aggregator struct {
	store     Store
	providers []Provider
	defaults  Defaults
	cfg       Config

	now func() time.Time // injectable clock for tests
}

// NewAggregator creates an Aggregator over the given providers and cache.
func NewAggregator(store Store, providers []Provider, defaults Defaults, cfg Config) *Aggregator {
	return &Aggregator{
		store:     store,
		providers: providers,
		defaults:  defaults,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
	}
}

// GetWeather is the sole public entry point. It never fails: provider
// problems degrade provenance (PARTIAL, FALLBACK, or a stale cache entry)
// instead of surfacing as errors.
func (a *Aggregator) GetWeather(ctx context.Context, q Query) (Record, recharge.Metrics) {
	key := q.Key(a.cfg.BucketDegrees)
	now := a.now()

	if entry, ok := a.store.Get(key, now); ok {
		return entry.Record, entry.Metrics
	}

	reports, failures := a.fanOut(ctx, q)

	passID := uuid.NewString()

	if len(reports) == 0 {
		// Serve-stale-while-failing: an expired entry with real data beats
		// a synthetic one.
		if entry, ok := a.store.GetStale(key); ok {
			log.Printf("INFO: all providers failed for %s; serving stale cache entry", key)
			rec := entry.Record
			rec.Provenance.Stale = true
			rec.Provenance.PassID = passID
			rec.Provenance.Failures = failures
			return rec, entry.Metrics
		}

		log.Printf("INFO: all providers failed for %s; using fallback defaults", key)
		rec := FallbackRecord(q, a.defaults, now)
		rec.Provenance = Provenance{PassID: passID, Failures: failures}
		metrics := a.computeMetrics(rec, now)
		a.store.Put(key, CacheEntry{Record: rec, Metrics: metrics, ComputedAt: now, TTL: a.cfg.CacheTTL})
		return rec, metrics
	}

	rec := MergeReports(q, reports, a.defaults, now)
	rec.Provenance.PassID = passID
	rec.Provenance.Failures = failures

	metrics := a.computeMetrics(rec, now)

	// The cache write commits only after the full merge; an abandoned
	// request can never leave a torn entry behind.
	a.store.Put(key, CacheEntry{Record: rec, Metrics: metrics, ComputedAt: now, TTL: a.cfg.CacheTTL})
	return rec, metrics
}

// GetAlerts collects warnings from every alert-capable provider serving the
// query. Failures are logged and swallowed; the result may be empty but is
// never an error.
func (a *Aggregator) GetAlerts(ctx context.Context, q Query) []Alert {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.BudgetWindow)
	defer cancel()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		alerts []Alert
	)
	for _, p := range a.providers {
		ap, ok := p.(AlertProvider)
		if !ok || !p.Supports(q) {
			continue
		}
		name := p.Name()
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := ap.FetchAlerts(ctx, q)
			if err != nil {
				log.Printf("provider %s alerts failed: %v", name, err)
				return
			}
			mu.Lock()
			alerts = append(alerts, got...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.SliceStable(alerts, func(i, j int) bool {
		if !alerts[i].IssuedAt.Equal(alerts[j].IssuedAt) {
			return alerts[i].IssuedAt.Before(alerts[j].IssuedAt)
		}
		return alerts[i].Type < alerts[j].Type
	})
	if alerts == nil {
		alerts = []Alert{}
	}
	return alerts
}

// fanOut dispatches the providers relevant to the query concurrently, each
// retried per policy within the overall budget window.
func (a *Aggregator) fanOut(ctx context.Context, q Query) ([]Report, []FailureNote) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.BudgetWindow)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		reports  []Report
		failures []FailureNote
	)
	for _, p := range a.providers {
		if !p.Supports(q) {
			continue
		}
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := a.fetchWithRetry(ctx, p, q)
			if err != nil {
				// Log and continue; partial success is the point.
				log.Printf("provider %s fetch failed for %s: %v", p.Name(), q.Key(a.cfg.BucketDegrees), err)
				mu.Lock()
				failures = append(failures, FailureNote{Provider: p.Name(), Kind: FailureKindOf(err)})
				mu.Unlock()
				return
			}
			if r.Empty() {
				return
			}
			mu.Lock()
			reports = append(reports, r)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.SliceStable(failures, func(i, j int) bool { return failures[i].Provider < failures[j].Provider })
	return reports, failures
}

// fetchWithRetry runs one provider with exponential backoff for transient
// failures. The adapter itself never retries.
func (a *Aggregator) fetchWithRetry(ctx context.Context, p Provider, q Query) (Report, error) {
	var lastErr error
	for attempt := 0; attempt < a.cfg.Retry.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			if lastErr != nil {
				return Report{}, lastErr
			}
			return Report{}, ctx.Err()
		}

		r, err := p.Fetch(ctx, q)
		if err == nil {
			return r, nil
		}
		lastErr = err

		if FailureKindOf(err) == FailureParseErr {
			break
		}
		if attempt == a.cfg.Retry.MaxAttempts-1 {
			break
		}

		delay := a.cfg.Retry.InitialBackoff * time.Duration(math.Pow(2, float64(attempt)))
		if delay > a.cfg.Retry.MaxBackoff {
			delay = a.cfg.Retry.MaxBackoff
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Report{}, lastErr
		case <-timer.C:
		}
	}
	return Report{}, lastErr
}

func (a *Aggregator) computeMetrics(rec Record, now time.Time) recharge.Metrics {
	return recharge.Compute(recharge.Input{
		AnnualRainfallMM:   rec.AnnualRainfallMM,
		MaxDailyRainfallMM: rec.MaxDailyRainfallMM,
		RainyDays:          rec.RainyDays,
		AvgTemperatureC:    rec.AvgTemperatureC,
		HumidityPct:        rec.HumidityPct,
		WindSpeedKMH:       rec.WindSpeedKMH,
	}, recharge.Options{Soil: a.cfg.Soil, Month: now.Month()})
}
