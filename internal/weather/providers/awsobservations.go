package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

const awsObservationsBaseURL = "https://city.imd.gov.in/api/aws_data_api.php"

// maxStationDistanceKM bounds how far an automatic weather station may be
// from the query coordinate before its readings are rejected as
// unrepresentative.
const maxStationDistanceKM = 150.0

// AWSObservations fetches automatic-weather-station readings and picks the
// station nearest to the query coordinate.
type AWSObservations struct {
	cfg     clientConfig
	baseURL string
}

func NewAWSObservations(client *http.Client, baseURL string) *AWSObservations {
	if baseURL == "" {
		baseURL = awsObservationsBaseURL
	}
	return &AWSObservations{cfg: newClientConfig("aws_observations", client), baseURL: baseURL}
}

func (p *AWSObservations) Name() string                  { return p.cfg.name }
func (p *AWSObservations) Priority() weather.Priority    { return weather.PriorityAWSObservations }
func (p *AWSObservations) Supports(q weather.Query) bool { return true }

type awsStationItem struct {
	Station     string `json:"station"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	WindSpeed   string `json:"wind_speed"`
	Pressure    string `json:"pressure"`
}

func (p *AWSObservations) Fetch(ctx context.Context, q weather.Query) (weather.Report, error) {
	var payload []awsStationItem
	if err := getJSON(ctx, p.cfg, p.baseURL, &payload); err != nil {
		return weather.Report{}, err
	}
	if len(payload) == 0 {
		return weather.Report{}, parseError(p.cfg.name, fmt.Errorf("empty station list"))
	}

	nearest, dist, err := p.nearest(payload, q)
	if err != nil {
		return weather.Report{}, err
	}
	if dist > maxStationDistanceKM {
		return weather.Report{}, parseError(p.cfg.name,
			fmt.Errorf("nearest station %s is %.0fkm away", nearest.Station, dist))
	}

	temp, err := parseFloatField(p.cfg.name, "temperature", nearest.Temperature)
	if err != nil {
		return weather.Report{}, err
	}

	return weather.Report{
		Provider:        p.cfg.name,
		Priority:        p.Priority(),
		FetchedAt:       time.Now().UTC(),
		AvgTemperatureC: &temp,
		HumidityPct:     optionalFloatField(nearest.Humidity),
		WindSpeedKMH:    optionalFloatField(nearest.WindSpeed),
		PressureHPa:     optionalFloatField(nearest.Pressure),
	}, nil
}

func (p *AWSObservations) nearest(stations []awsStationItem, q weather.Query) (awsStationItem, float64, error) {
	best := -1
	bestDist := 0.0
	for i, s := range stations {
		lat := optionalFloatField(s.Lat)
		lon := optionalFloatField(s.Lon)
		if lat == nil || lon == nil {
			continue
		}
		d := haversineKM(q.Latitude, q.Longitude, *lat, *lon)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best == -1 {
		return awsStationItem{}, 0, parseError(p.cfg.name, fmt.Errorf("no station with usable coordinates"))
	}
	return stations[best], bestDist, nil
}
