package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

const stationNowcastBaseURL = "https://mausam.imd.gov.in/api/nowcastapi.php"

// StationNowcast fetches the short-term nowcast for one observing station,
// keyed by the station ID. It serves city-scoped queries only: the registry
// city IDs are IMD station IDs.
type StationNowcast struct {
	cfg     clientConfig
	baseURL string
}

func NewStationNowcast(client *http.Client, baseURL string) *StationNowcast {
	if baseURL == "" {
		baseURL = stationNowcastBaseURL
	}
	return &StationNowcast{cfg: newClientConfig("station_nowcast", client), baseURL: baseURL}
}

func (p *StationNowcast) Name() string                  { return p.cfg.name }
func (p *StationNowcast) Priority() weather.Priority    { return weather.PriorityStationNowcast }
func (p *StationNowcast) Supports(q weather.Query) bool { return q.CityID != nil }

type stationNowcastPayload struct {
	Condition   string `json:"condition"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Pressure    string `json:"pressure"`
	WindSpeed   string `json:"wind_speed"`
}

func (p *StationNowcast) Fetch(ctx context.Context, q weather.Query) (weather.Report, error) {
	url := fmt.Sprintf("%s?id=%d", p.baseURL, *q.CityID)

	var payload stationNowcastPayload
	if err := getJSON(ctx, p.cfg, url, &payload); err != nil {
		return weather.Report{}, err
	}

	report := weather.Report{
		Provider:        p.cfg.name,
		Priority:        p.Priority(),
		FetchedAt:       time.Now().UTC(),
		AvgTemperatureC: optionalFloatField(payload.Temperature),
		HumidityPct:     optionalFloatField(payload.Humidity),
		PressureHPa:     optionalFloatField(payload.Pressure),
		WindSpeedKMH:    optionalFloatField(payload.WindSpeed),
		Condition:       normalizeCondition(payload.Condition),
	}
	if report.Empty() {
		return weather.Report{}, parseError(p.cfg.name, fmt.Errorf("empty nowcast for station %d", *q.CityID))
	}
	return report, nil
}
