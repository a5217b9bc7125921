package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

const cityForecastBaseURL = "https://city.imd.gov.in/api/cityweather.php"

// CityForecast fetches the 7-day city forecast, the most specific source in
// the merge order. It serves city-scoped queries only.
type CityForecast struct {
	cfg     clientConfig
	baseURL string
}

// NewCityForecast creates the adapter. An empty baseURL selects the IMD
// endpoint; tests point it at a local server.
func NewCityForecast(client *http.Client, baseURL string) *CityForecast {
	if baseURL == "" {
		baseURL = cityForecastBaseURL
	}
	return &CityForecast{cfg: newClientConfig("city_forecast", client), baseURL: baseURL}
}

func (p *CityForecast) Name() string               { return p.cfg.name }
func (p *CityForecast) Priority() weather.Priority { return weather.PriorityCityForecast }
func (p *CityForecast) Supports(q weather.Query) bool {
	return q.CityID != nil
}

type cityForecastPayload struct {
	Station        string                `json:"station"`
	AnnualNormalRF string                `json:"annual_normal_rf"`
	Forecast       []cityForecastDayItem `json:"forecast"`
}

type cityForecastDayItem struct {
	Date       string `json:"forecast_date"`
	MaxTemp    string `json:"max_temp"`
	MinTemp    string `json:"min_temp"`
	RainfallMM string `json:"rainfall"`
	Condition  string `json:"weather_desc"`
}

func (p *CityForecast) Fetch(ctx context.Context, q weather.Query) (weather.Report, error) {
	url := fmt.Sprintf("%s?id=%d", p.baseURL, *q.CityID)

	var payload cityForecastPayload
	if err := getJSON(ctx, p.cfg, url, &payload); err != nil {
		return weather.Report{}, err
	}
	if len(payload.Forecast) == 0 {
		return weather.Report{}, parseError(p.cfg.name, fmt.Errorf("empty forecast for city %d", *q.CityID))
	}

	days := make([]weather.ForecastDay, 0, len(payload.Forecast))
	for _, item := range payload.Forecast {
		date, err := time.Parse("2006-01-02", item.Date)
		if err != nil {
			return weather.Report{}, parseError(p.cfg.name, fmt.Errorf("forecast date %q: %w", item.Date, err))
		}
		maxT, err := parseFloatField(p.cfg.name, "max_temp", item.MaxTemp)
		if err != nil {
			return weather.Report{}, err
		}
		minT, err := parseFloatField(p.cfg.name, "min_temp", item.MinTemp)
		if err != nil {
			return weather.Report{}, err
		}
		rain, err := parseFloatField(p.cfg.name, "rainfall", item.RainfallMM)
		if err != nil {
			return weather.Report{}, err
		}
		days = append(days, weather.ForecastDay{
			Date:       date.UTC(),
			MaxTempC:   maxT,
			MinTempC:   minT,
			RainfallMM: rain,
			Condition:  normalizeCondition(item.Condition),
		})
	}

	return weather.Report{
		Provider:         p.cfg.name,
		Priority:         p.Priority(),
		FetchedAt:        time.Now().UTC(),
		AnnualRainfallMM: optionalFloatField(payload.AnnualNormalRF),
		Forecast:         days,
	}, nil
}
