package recharge

import (
	"testing"
	"time"
)

func TestClassifyMonsoonBands(t *testing.T) {
	tests := []struct {
		name      string
		annualMM  float64
		rainyDays int
		want      MonsoonLabel
	}{
		{"zero rainfall", 0, 0, MonsoonLow},
		{"exact moderate threshold", 1000, 90, MonsoonLow},
		{"just above moderate threshold", 1000.1, 90, MonsoonModerate},
		{"typical moderate", 1200, 120, MonsoonModerate},
		{"exact high threshold", 1500, 130, MonsoonModerate},
		{"just above high threshold", 1500.1, 130, MonsoonHigh},
		{"exact severe threshold", 2000, 160, MonsoonHigh},
		{"just above severe threshold", 2000.1, 160, MonsoonSevere},
		{"extreme rainfall", 5000, 300, MonsoonSevere},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyMonsoon(tt.annualMM, tt.rainyDays)
			if got.Label != tt.want {
				t.Fatalf("ClassifyMonsoon(%v, %d).Label = %s, want %s", tt.annualMM, tt.rainyDays, got.Label, tt.want)
			}
			if got.Score < 0 || got.Score > 1 {
				t.Fatalf("intensity score %v out of [0,1]", got.Score)
			}
		})
	}
}

func TestClassifyMonsoonNegativeInputs(t *testing.T) {
	got := ClassifyMonsoon(-100, -5)
	if got.Label != MonsoonLow {
		t.Fatalf("negative rainfall should classify Low, got %s", got.Label)
	}
	if got.Score != 0 {
		t.Fatalf("negative inputs should score 0, got %v", got.Score)
	}
}

func TestEvaporationMonotonicity(t *testing.T) {
	base := EvaporationRate(25, 70, 10)
	if base <= 0 {
		t.Fatalf("typical conditions should evaporate, got %v", base)
	}

	if hotter := EvaporationRate(35, 70, 10); hotter <= base {
		t.Errorf("higher temperature should increase evaporation: %v <= %v", hotter, base)
	}
	if moister := EvaporationRate(25, 90, 10); moister >= base {
		t.Errorf("higher humidity should decrease evaporation: %v >= %v", moister, base)
	}
	if cold := EvaporationRate(-20, 70, 10); cold != 0 {
		t.Errorf("sub-baseline temperature should clamp to 0, got %v", cold)
	}
}

func TestInfiltrationSoilOrdering(t *testing.T) {
	sandy := SoilProfile{ClayPct: 10, SandPct: 80, SiltPct: 10}
	clayey := SoilProfile{ClayPct: 80, SandPct: 10, SiltPct: 10}

	s := InfiltrationPotential(1200, 50, sandy)
	c := InfiltrationPotential(1200, 50, clayey)
	if s <= c {
		t.Fatalf("sandy soil should infiltrate better than clay: %v <= %v", s, c)
	}
}

func TestInfiltrationFlashinessPenalty(t *testing.T) {
	steady := InfiltrationPotential(1200, 20, DefaultSoil)
	flashy := InfiltrationPotential(1200, 300, DefaultSoil)
	if flashy >= steady {
		t.Fatalf("flashy rainfall should infiltrate worse: %v >= %v", flashy, steady)
	}
}

func TestSeasonalFactorByMonth(t *testing.T) {
	tests := []struct {
		month  time.Month
		season string
		factor float64
	}{
		{time.January, "Winter", 0.5},
		{time.February, "Winter", 0.5},
		{time.March, "Pre-Monsoon", 0.8},
		{time.May, "Pre-Monsoon", 0.8},
		{time.June, "Monsoon", 1.5},
		{time.September, "Monsoon", 1.5},
		{time.October, "Post-Monsoon", 1.2},
		{time.November, "Post-Monsoon", 1.2},
		{time.December, "Winter", 0.5},
	}
	for _, tt := range tests {
		season, factor := SeasonalFactor(tt.month)
		if season != tt.season || factor != tt.factor {
			t.Errorf("SeasonalFactor(%s) = (%s, %v), want (%s, %v)", tt.month, season, factor, tt.season, tt.factor)
		}
	}
}

func TestComputeBounds(t *testing.T) {
	inputs := []Input{
		{},
		{AnnualRainfallMM: 1200, MaxDailyRainfallMM: 50, RainyDays: 120, AvgTemperatureC: 25, HumidityPct: 70, WindSpeedKMH: 10},
		{AnnualRainfallMM: 12000, MaxDailyRainfallMM: 800, RainyDays: 400, AvgTemperatureC: 55, HumidityPct: 0, WindSpeedKMH: 200},
		{AnnualRainfallMM: 50, MaxDailyRainfallMM: 50, RainyDays: 2, AvgTemperatureC: -30, HumidityPct: 100, WindSpeedKMH: 0},
	}

	for i, in := range inputs {
		m := Compute(in, Options{Month: time.July})
		if m.EvaporationRateMMDay < 0 {
			t.Errorf("input %d: negative evaporation %v", i, m.EvaporationRateMMDay)
		}
		if m.InfiltrationPotential < 0 || m.InfiltrationPotential > 1 {
			t.Errorf("input %d: infiltration %v out of [0,1]", i, m.InfiltrationPotential)
		}
		if m.RechargeEfficiency < 0 || m.RechargeEfficiency > 1 {
			t.Errorf("input %d: efficiency %v out of [0,1]", i, m.RechargeEfficiency)
		}
		if m.Monsoon.Score < 0 || m.Monsoon.Score > 1 {
			t.Errorf("input %d: monsoon score %v out of [0,1]", i, m.Monsoon.Score)
		}
		if m.SeasonalFactor <= 0 {
			t.Errorf("input %d: seasonal factor %v not positive", i, m.SeasonalFactor)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	in := Input{AnnualRainfallMM: 1432, MaxDailyRainfallMM: 88, RainyDays: 101, AvgTemperatureC: 27.5, HumidityPct: 64, WindSpeedKMH: 12}
	opts := Options{Month: time.August}

	a := Compute(in, opts)
	b := Compute(in, opts)
	if a != b {
		t.Fatalf("Compute is not deterministic: %+v != %+v", a, b)
	}
}

func TestComputeSoilOverride(t *testing.T) {
	in := Input{AnnualRainfallMM: 1200, MaxDailyRainfallMM: 50, RainyDays: 120, AvgTemperatureC: 25, HumidityPct: 70, WindSpeedKMH: 10}

	def := Compute(in, Options{Month: time.July})
	sandy := Compute(in, Options{Month: time.July, Soil: &SoilProfile{ClayPct: 5, SandPct: 90, SiltPct: 5}})
	if sandy.InfiltrationPotential <= def.InfiltrationPotential {
		t.Fatalf("sandier override should raise infiltration: %v <= %v", sandy.InfiltrationPotential, def.InfiltrationPotential)
	}
}
