package weather

// Defaults is the conservative typical-Indian-climate baseline used to fill
// required fields no provider supplied, and to synthesize the whole record
// when every provider fails. It is injected into the Aggregator at
// construction so tests and deployments can override it.
type Defaults struct {
	AnnualRainfallMM   float64
	MaxDailyRainfallMM float64
	RainyDays          int
	AvgTemperatureC    float64
	HumidityPct        float64
	WindSpeedKMH       float64
	PressureHPa        float64
	Condition          string
}

// DefaultClimate returns the documented baseline constants.
func DefaultClimate() Defaults {
	return Defaults{
		AnnualRainfallMM:   1200,
		MaxDailyRainfallMM: 50,
		RainyDays:          120,
		AvgTemperatureC:    25,
		HumidityPct:        70,
		WindSpeedKMH:       10,
		PressureHPa:        1013,
		Condition:          "Clear",
	}
}
