package weather

import (
	"math"
	"sort"
	"time"
)

// rainyDayExtrapolationDays scales the wet-day ratio of a short forecast up
// to an annual rainy-day estimate when no provider reports one directly.
const rainyDayExtrapolationDays = 365

// maxForecastDays caps the canonical forecast length.
const maxForecastDays = 7

// MergeReports combines provider reports into one canonical record. The
// result is deterministic for a fixed set of reports regardless of arrival
// order: reports are sorted by priority (then name), the highest-priority
// source wins scalar conflicts, and complementary fields merge. Values are
// never averaged across sources.
//
// The caller guarantees at least one non-empty report; total failure goes
// through FallbackRecord instead.
func MergeReports(q Query, reports []Report, defs Defaults, now time.Time) Record {
	merged := make([]Report, 0, len(reports))
	for _, r := range reports {
		if !r.Empty() {
			merged = append(merged, r)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Priority != merged[j].Priority {
			return merged[i].Priority > merged[j].Priority
		}
		return merged[i].Provider < merged[j].Provider
	})

	rec := Record{Query: q, FetchedAt: now.UTC()}

	var annual, maxDaily, avgTemp, humidity, wind, pressure *float64
	var rainyDays *int
	for _, r := range merged {
		annual = firstFloat(annual, r.AnnualRainfallMM)
		maxDaily = firstFloat(maxDaily, r.MaxDailyRainfallMM)
		avgTemp = firstFloat(avgTemp, r.AvgTemperatureC)
		humidity = firstFloat(humidity, r.HumidityPct)
		wind = firstFloat(wind, r.WindSpeedKMH)
		pressure = firstFloat(pressure, r.PressureHPa)
		if rainyDays == nil && r.RainyDays != nil {
			rainyDays = r.RainyDays
		}
		if rec.Condition == "" && r.Condition != "" {
			rec.Condition = r.Condition
		}
		if len(rec.Forecast) == 0 && len(r.Forecast) > 0 {
			rec.Forecast = normalizeForecast(r.Forecast)
		}
	}

	// A forecast can stand in for required scalars its source did not
	// report directly; derived values still count as live.
	if len(rec.Forecast) > 0 {
		if avgTemp == nil {
			avgTemp = ptr(forecastMeanTemp(rec.Forecast))
		}
		if maxDaily == nil {
			maxDaily = ptr(forecastMaxDaily(rec.Forecast))
		}
		if rainyDays == nil {
			d := forecastRainyDayEstimate(rec.Forecast)
			rainyDays = &d
		}
	}

	liveRequired := 0
	rec.AnnualRainfallMM, liveRequired = fillFloat(annual, defs.AnnualRainfallMM, liveRequired)
	rec.MaxDailyRainfallMM, liveRequired = fillFloat(maxDaily, defs.MaxDailyRainfallMM, liveRequired)
	rec.AvgTemperatureC, liveRequired = fillFloat(avgTemp, defs.AvgTemperatureC, liveRequired)
	if rainyDays != nil {
		rec.RainyDays = *rainyDays
		liveRequired++
	} else {
		rec.RainyDays = defs.RainyDays
	}

	rec.HumidityPct, _ = fillFloat(humidity, defs.HumidityPct, 0)
	rec.WindSpeedKMH, _ = fillFloat(wind, defs.WindSpeedKMH, 0)
	rec.PressureHPa, _ = fillFloat(pressure, defs.PressureHPa, 0)
	if rec.Condition == "" {
		rec.Condition = defs.Condition
	}

	// Invariants: a live daily maximum cannot exceed the live annual total,
	// and a year has at most 366 rainy days.
	if annual != nil && maxDaily != nil && rec.MaxDailyRainfallMM > rec.AnnualRainfallMM {
		rec.MaxDailyRainfallMM = rec.AnnualRainfallMM
	}
	if rec.RainyDays > 366 {
		rec.RainyDays = 366
	}
	if rec.RainyDays < 0 {
		rec.RainyDays = 0
	}

	if liveRequired == 4 {
		rec.Source = SourceLive
	} else {
		rec.Source = SourcePartial
	}
	for _, r := range merged {
		rec.Provenance.Contributors = append(rec.Provenance.Contributors, r.Provider)
	}
	return rec
}

// FallbackRecord synthesizes a full record from the default constants so
// downstream consumers never observe a missing record.
func FallbackRecord(q Query, defs Defaults, now time.Time) Record {
	return Record{
		Query:              q,
		FetchedAt:          now.UTC(),
		AnnualRainfallMM:   defs.AnnualRainfallMM,
		MaxDailyRainfallMM: defs.MaxDailyRainfallMM,
		RainyDays:          defs.RainyDays,
		AvgTemperatureC:    defs.AvgTemperatureC,
		HumidityPct:        defs.HumidityPct,
		WindSpeedKMH:       defs.WindSpeedKMH,
		PressureHPa:        defs.PressureHPa,
		Condition:          defs.Condition,
		Source:             SourceFallback,
	}
}

// normalizeForecast sorts days chronologically and truncates to the
// canonical maximum.
func normalizeForecast(days []ForecastDay) []ForecastDay {
	out := make([]ForecastDay, len(days))
	copy(out, days)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if len(out) > maxForecastDays {
		out = out[:maxForecastDays]
	}
	return out
}

func forecastMeanTemp(days []ForecastDay) float64 {
	var sum float64
	for _, d := range days {
		sum += (d.MaxTempC + d.MinTempC) / 2
	}
	return sum / float64(len(days))
}

func forecastMaxDaily(days []ForecastDay) float64 {
	var max float64
	for _, d := range days {
		if d.RainfallMM > max {
			max = d.RainfallMM
		}
	}
	return max
}

func forecastRainyDayEstimate(days []ForecastDay) int {
	wet := 0
	for _, d := range days {
		if d.RainfallMM > 0 {
			wet++
		}
	}
	est := float64(wet) / float64(len(days)) * rainyDayExtrapolationDays
	return int(math.Round(est))
}

func firstFloat(cur, candidate *float64) *float64 {
	if cur != nil {
		return cur
	}
	return candidate
}

func fillFloat(v *float64, def float64, live int) (float64, int) {
	if v != nil {
		return *v, live + 1
	}
	return def, live
}

func ptr(v float64) *float64 { return &v }
