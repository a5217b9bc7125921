// Package recharge derives groundwater-recharge indicators from a canonical
// weather record. Every computation is pure: same input, same output, no
// clock reads and no global state. Callers supply the evaluation month and
// optional soil composition through Options.
package recharge

import (
	"math"
	"time"
)

// Tunable constants for the derived metrics. These are the documented knobs,
// not hidden heuristics; tests pin behavior at the band boundaries.
const (
	// Evaporation: simplified Penman-style estimate.
	// evap = (T - evapBaseTempC) * (100 - RH) / evapHumidityScale * (1 + W/evapWindDamping)
	evapBaseTempC     = 10.0
	evapHumidityScale = 1000.0
	evapWindDamping   = 50.0

	// Infiltration potential factors.
	infilRainfallScaleMM = 2000.0 // annual rainfall above this saturates the volume factor
	soilWeightSand       = 0.9    // relative permeability weights per soil fraction
	soilWeightSilt       = 0.55
	soilWeightClay       = 0.2
	flashinessDamping    = 2.0 // penalty slope for max-daily/annual rainfall ratio

	// Recharge efficiency = effInfilWeight*infiltration + effEvapWeight*(1 - evap/effEvapScale).
	effInfilWeight = 0.6
	effEvapWeight  = 0.4
	effEvapScaleMM = 10.0

	// Monsoon intensity bands on annual rainfall (mm).
	monsoonModerateMM = 1000.0
	monsoonHighMM     = 1500.0
	monsoonSevereMM   = 2000.0

	// Intensity score blends annual rainfall with rainy-day density.
	scoreRainfallWeight  = 0.75
	scoreRainyDaysWeight = 0.25
	scoreRainfallScaleMM = 2500.0
	scoreRainyDaysScale  = 180.0

	// Seasonal multipliers by Indian monsoon calendar.
	factorMonsoon     = 1.5 // June-September
	factorPostMonsoon = 1.2 // October-November
	factorPreMonsoon  = 0.8 // March-May
	factorWinter      = 0.5 // December-February
)

// MonsoonLabel is an ordered intensity band.
type MonsoonLabel string

const (
	MonsoonLow      MonsoonLabel = "Low"
	MonsoonModerate MonsoonLabel = "Moderate"
	MonsoonHigh     MonsoonLabel = "High"
	MonsoonSevere   MonsoonLabel = "Severe"
)

// MonsoonIntensity classifies annual rainfall and rainy-day count.
type MonsoonIntensity struct {
	Label MonsoonLabel `json:"label"`
	Score float64      `json:"intensityScore"` // always in [0,1]
}

// SoilProfile holds clay/sand/silt percentages. They should sum to ~100;
// Compute normalizes whatever it receives.
type SoilProfile struct {
	ClayPct float64 `json:"clayPct"`
	SandPct float64 `json:"sandPct"`
	SiltPct float64 `json:"siltPct"`
}

// DefaultSoil is a conservative loam profile used when the caller supplies
// no soil composition.
var DefaultSoil = SoilProfile{ClayPct: 30, SandPct: 40, SiltPct: 30}

// Input carries the weather fields the calculator consumes. It mirrors the
// canonical record but keeps this package free of upstream dependencies.
type Input struct {
	AnnualRainfallMM   float64
	MaxDailyRainfallMM float64
	RainyDays          int
	AvgTemperatureC    float64
	HumidityPct        float64
	WindSpeedKMH       float64
}

// Options declares the caller-supplied overrides.
type Options struct {
	// Soil overrides DefaultSoil when non-nil.
	Soil *SoilProfile
	// Month is the evaluation month for the seasonal factor. Callers pass
	// time.Now().Month(); tests pass fixed months.
	Month time.Month
}

// Metrics is the full set of derived recharge indicators.
type Metrics struct {
	EvaporationRateMMDay  float64          `json:"evaporationRateMmday"`
	InfiltrationPotential float64          `json:"infiltrationPotential"`
	RechargeEfficiency    float64          `json:"rechargeEfficiency"`
	Monsoon               MonsoonIntensity `json:"monsoonIntensity"`
	SeasonalFactor        float64          `json:"seasonalFactor"`
	Season                string           `json:"season"`
}

// Compute derives all metrics from the input. It never fails; out-of-range
// inputs are clamped rather than rejected.
func Compute(in Input, opts Options) Metrics {
	soil := DefaultSoil
	if opts.Soil != nil {
		soil = *opts.Soil
	}

	evap := EvaporationRate(in.AvgTemperatureC, in.HumidityPct, in.WindSpeedKMH)
	infil := InfiltrationPotential(in.AnnualRainfallMM, in.MaxDailyRainfallMM, soil)

	season, factor := SeasonalFactor(opts.Month)

	return Metrics{
		EvaporationRateMMDay:  evap,
		InfiltrationPotential: infil,
		RechargeEfficiency:    RechargeEfficiency(infil, evap),
		Monsoon:               ClassifyMonsoon(in.AnnualRainfallMM, in.RainyDays),
		SeasonalFactor:        factor,
		Season:                season,
	}
}

// EvaporationRate estimates daily evaporation in mm from temperature,
// relative humidity and wind speed. Monotonically increasing in temperature,
// decreasing in humidity; never negative.
func EvaporationRate(tempC, humidityPct, windKMH float64) float64 {
	humidityPct = clamp(humidityPct, 0, 100)
	if windKMH < 0 {
		windKMH = 0
	}
	e := (tempC - evapBaseTempC) * (100 - humidityPct) / evapHumidityScale * (1 + windKMH/evapWindDamping)
	return math.Max(0, e)
}

// InfiltrationPotential combines rainfall volume, soil permeability and
// rainfall flashiness into a [0,1] score. A year whose max daily rainfall is
// a large share of the annual total infiltrates poorly: intense bursts run
// off before they can soak in.
func InfiltrationPotential(annualMM, maxDailyMM float64, soil SoilProfile) float64 {
	volume := clamp01(annualMM / infilRainfallScaleMM)

	total := soil.ClayPct + soil.SandPct + soil.SiltPct
	if total <= 0 {
		soil = DefaultSoil
		total = soil.ClayPct + soil.SandPct + soil.SiltPct
	}
	perm := (soilWeightSand*soil.SandPct + soilWeightSilt*soil.SiltPct + soilWeightClay*soil.ClayPct) / total

	damp := 1.0
	if annualMM > 0 && maxDailyMM > 0 {
		damp = clamp01(1 - flashinessDamping*(maxDailyMM/annualMM))
	}

	return clamp01(volume * perm * damp)
}

// RechargeEfficiency is the weighted blend of infiltration and the inverse
// normalized evaporation rate, clamped to [0,1].
func RechargeEfficiency(infiltration, evapMMDay float64) float64 {
	evapTerm := 1 - clamp01(evapMMDay/effEvapScaleMM)
	return clamp01(effInfilWeight*infiltration + effEvapWeight*evapTerm)
}

// ClassifyMonsoon maps annual rainfall into the fixed intensity bands and
// scores the position within the overall scale, nudged by rainy-day density.
// A band requires strictly more rainfall than its threshold: exactly 1000mm
// is still Low, exactly 1500mm still Moderate, exactly 2000mm still High.
func ClassifyMonsoon(annualMM float64, rainyDays int) MonsoonIntensity {
	if annualMM < 0 {
		annualMM = 0
	}
	if rainyDays < 0 {
		rainyDays = 0
	}

	var label MonsoonLabel
	switch {
	case annualMM > monsoonSevereMM:
		label = MonsoonSevere
	case annualMM > monsoonHighMM:
		label = MonsoonHigh
	case annualMM > monsoonModerateMM:
		label = MonsoonModerate
	default:
		label = MonsoonLow
	}

	score := scoreRainfallWeight*clamp01(annualMM/scoreRainfallScaleMM) +
		scoreRainyDaysWeight*clamp01(float64(rainyDays)/scoreRainyDaysScale)

	return MonsoonIntensity{Label: label, Score: clamp01(score)}
}

// SeasonalFactor maps a calendar month to the expected monsoon contribution
// multiplier and the season name.
func SeasonalFactor(m time.Month) (string, float64) {
	switch m {
	case time.June, time.July, time.August, time.September:
		return "Monsoon", factorMonsoon
	case time.October, time.November:
		return "Post-Monsoon", factorPostMonsoon
	case time.March, time.April, time.May:
		return "Pre-Monsoon", factorPreMonsoon
	default:
		return "Winter", factorWinter
	}
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
