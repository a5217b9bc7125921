package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

const currentConditionsBaseURL = "https://mausam.imd.gov.in/api/current_wx_api.php"

// CurrentConditions fetches present-moment observations. It serves both
// city-scoped and coordinate-scoped queries.
type CurrentConditions struct {
	cfg     clientConfig
	baseURL string
}

func NewCurrentConditions(client *http.Client, baseURL string) *CurrentConditions {
	if baseURL == "" {
		baseURL = currentConditionsBaseURL
	}
	return &CurrentConditions{cfg: newClientConfig("current_conditions", client), baseURL: baseURL}
}

func (p *CurrentConditions) Name() string                  { return p.cfg.name }
func (p *CurrentConditions) Priority() weather.Priority    { return weather.PriorityCurrentConditions }
func (p *CurrentConditions) Supports(q weather.Query) bool { return true }

type currentConditionsPayload struct {
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	WindSpeed   string `json:"wind_speed"`
	Pressure    string `json:"pressure"`
	Condition   string `json:"weather_condition"`
}

func (p *CurrentConditions) Fetch(ctx context.Context, q weather.Query) (weather.Report, error) {
	values := url.Values{}
	if q.CityID != nil {
		values.Set("id", fmt.Sprintf("%d", *q.CityID))
	} else {
		values.Set("lat", fmt.Sprintf("%f", q.Latitude))
		values.Set("lon", fmt.Sprintf("%f", q.Longitude))
	}

	var payload currentConditionsPayload
	if err := getJSON(ctx, p.cfg, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.Report{}, err
	}

	// Temperature is the one field this source must supply.
	temp, err := parseFloatField(p.cfg.name, "temperature", payload.Temperature)
	if err != nil {
		return weather.Report{}, err
	}

	return weather.Report{
		Provider:        p.cfg.name,
		Priority:        p.Priority(),
		FetchedAt:       time.Now().UTC(),
		AvgTemperatureC: &temp,
		HumidityPct:     optionalFloatField(payload.Humidity),
		WindSpeedKMH:    optionalFloatField(payload.WindSpeed),
		PressureHPa:     optionalFloatField(payload.Pressure),
		Condition:       normalizeCondition(payload.Condition),
	}, nil
}
