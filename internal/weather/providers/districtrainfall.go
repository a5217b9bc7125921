package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

const districtRainfallBaseURL = "https://mausam.imd.gov.in/api/districtwise_rainfall_api.php"

// DistrictRainfall fetches cumulative district rainfall statistics and
// averages them into coordinate-scoped annual rainfall figures. This is the
// primary live source for rainfall totals when no city forecast applies.
type DistrictRainfall struct {
	cfg     clientConfig
	baseURL string
}

func NewDistrictRainfall(client *http.Client, baseURL string) *DistrictRainfall {
	if baseURL == "" {
		baseURL = districtRainfallBaseURL
	}
	return &DistrictRainfall{cfg: newClientConfig("district_rainfall", client), baseURL: baseURL}
}

func (p *DistrictRainfall) Name() string               { return p.cfg.name }
func (p *DistrictRainfall) Priority() weather.Priority { return weather.PriorityDistrictRainfall }

// Supports: every query. City queries need rainfall figures too whenever the
// city forecast is unreachable; the merge priority keeps the forecast on top
// when both succeed.
func (p *DistrictRainfall) Supports(q weather.Query) bool { return true }

type districtRainfallItem struct {
	District   string `json:"district"`
	ActualRF   string `json:"actual_rf_cumulative"`
	NormalRF   string `json:"normal_rf_cumulative"`
	MaxDailyRF string `json:"max_daily_rf"`
	RainyDays  string `json:"rainy_days"`
}

func (p *DistrictRainfall) Fetch(ctx context.Context, q weather.Query) (weather.Report, error) {
	var payload []districtRainfallItem
	if err := getJSON(ctx, p.cfg, p.baseURL, &payload); err != nil {
		return weather.Report{}, err
	}

	var (
		sumAnnual, sumMaxDaily, sumRainyDays float64
		nAnnual, nMaxDaily, nRainyDays       int
	)
	for _, item := range payload {
		if v := optionalFloatField(item.ActualRF); v != nil {
			sumAnnual += *v
			nAnnual++
		}
		if v := optionalFloatField(item.MaxDailyRF); v != nil {
			sumMaxDaily += *v
			nMaxDaily++
		}
		if v := optionalFloatField(item.RainyDays); v != nil {
			sumRainyDays += *v
			nRainyDays++
		}
	}
	if nAnnual == 0 {
		return weather.Report{}, parseError(p.cfg.name, fmt.Errorf("no districts with usable rainfall"))
	}

	report := weather.Report{
		Provider:  p.cfg.name,
		Priority:  p.Priority(),
		FetchedAt: time.Now().UTC(),
	}
	annual := sumAnnual / float64(nAnnual)
	report.AnnualRainfallMM = &annual
	if nMaxDaily > 0 {
		maxDaily := sumMaxDaily / float64(nMaxDaily)
		report.MaxDailyRainfallMM = &maxDaily
	}
	if nRainyDays > 0 {
		days := int(math.Round(sumRainyDays / float64(nRainyDays)))
		report.RainyDays = &days
	}
	return report, nil
}
