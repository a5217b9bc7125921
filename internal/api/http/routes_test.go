package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/thegreendrop/rainharvest/internal/recharge"
	"github.com/thegreendrop/rainharvest/internal/weather"
)

type stubService struct {
	lastQuery weather.Query
	record    weather.Record
	metrics   recharge.Metrics
	alerts    []weather.Alert
}

func (s *stubService) GetWeather(ctx context.Context, q weather.Query) (weather.Record, recharge.Metrics) {
	s.lastQuery = q
	rec := s.record
	rec.Query = q
	return rec, s.metrics
}

func (s *stubService) GetAlerts(ctx context.Context, q weather.Query) []weather.Alert {
	if s.alerts == nil {
		return []weather.Alert{}
	}
	return s.alerts
}

func newTestApp(svc WeatherService) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, svc)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, 2000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestWeatherEndpointWithCoordinates(t *testing.T) {
	svc := &stubService{
		record: weather.Record{
			AnnualRainfallMM: 1240,
			Source:           weather.SourceLive,
		},
		metrics: recharge.Metrics{RechargeEfficiency: 0.62},
	}
	app := newTestApp(svc)

	resp := doRequest(t, app, "/api/v1/weather?lat=28.61&lon=77.21")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Record  weather.Record   `json:"record"`
		Metrics recharge.Metrics `json:"metrics"`
	}
	decodeBody(t, resp, &body)
	if body.Record.AnnualRainfallMM != 1240 || body.Record.Source != weather.SourceLive {
		t.Fatalf("record = %+v", body.Record)
	}
	if body.Metrics.RechargeEfficiency != 0.62 {
		t.Fatalf("metrics = %+v", body.Metrics)
	}
	if svc.lastQuery.Latitude != 28.61 || svc.lastQuery.Longitude != 77.21 {
		t.Fatalf("query = %+v", svc.lastQuery)
	}
}

func TestWeatherEndpointWithCityID(t *testing.T) {
	svc := &stubService{}
	app := newTestApp(svc)

	resp := doRequest(t, app, "/api/v1/weather?city_id=43003")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	if svc.lastQuery.CityID == nil || *svc.lastQuery.CityID != 43003 {
		t.Fatalf("city ID not threaded through: %+v", svc.lastQuery)
	}
	// The registry's canonical coordinate for Mumbai backs the city query.
	if svc.lastQuery.Latitude != 19.0760 {
		t.Fatalf("canonical coordinate not applied: %+v", svc.lastQuery)
	}
}

func TestWeatherEndpointValidation(t *testing.T) {
	app := newTestApp(&stubService{})

	tests := []struct {
		name string
		path string
	}{
		{"no parameters", "/api/v1/weather"},
		{"latitude out of range", "/api/v1/weather?lat=99&lon=77"},
		{"longitude out of range", "/api/v1/weather?lat=28&lon=191"},
		{"lat without lon", "/api/v1/weather?lat=28.61"},
		{"non-numeric lat", "/api/v1/weather?lat=abc&lon=77"},
		{"unknown city", "/api/v1/weather?city_id=12345"},
		{"non-integer city", "/api/v1/weather?city_id=delhi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, tt.path)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestForecastEndpoint(t *testing.T) {
	svc := &stubService{
		record: weather.Record{
			Source: weather.SourceLive,
			Forecast: []weather.ForecastDay{
				{Date: time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC), MaxTempC: 35},
				{Date: time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), MaxTempC: 36},
			},
		},
	}
	app := newTestApp(svc)

	resp := doRequest(t, app, "/api/v1/weather/forecast?lat=28.61&lon=77.21")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		ForecastPeriodDays int                   `json:"forecastPeriodDays"`
		ForecastDays       []weather.ForecastDay `json:"forecastDays"`
	}
	decodeBody(t, resp, &body)
	if body.ForecastPeriodDays != 2 || len(body.ForecastDays) != 2 {
		t.Fatalf("body = %+v", body)
	}
}

func TestRechargeMetricsEndpoint(t *testing.T) {
	svc := &stubService{
		record:  weather.Record{AnnualRainfallMM: 980, RainyDays: 101, Source: weather.SourcePartial},
		metrics: recharge.Metrics{InfiltrationPotential: 0.4, Season: "Monsoon"},
	}
	app := newTestApp(svc)

	resp := doRequest(t, app, "/api/v1/weather/recharge-metrics?lat=12.97&lon=77.59")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		AnnualRainfallMM float64            `json:"annualRainfallMm"`
		RainyDaysCount   int                `json:"rainyDaysCount"`
		DataSource       weather.DataSource `json:"dataSource"`
		Metrics          recharge.Metrics   `json:"metrics"`
	}
	decodeBody(t, resp, &body)
	if body.AnnualRainfallMM != 980 || body.DataSource != weather.SourcePartial {
		t.Fatalf("body = %+v", body)
	}
	if body.Metrics.Season != "Monsoon" {
		t.Fatalf("metrics = %+v", body.Metrics)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	svc := &stubService{
		alerts: []weather.Alert{{Type: "Heavy Rain", Severity: "Red"}},
	}
	app := newTestApp(svc)

	resp := doRequest(t, app, "/api/v1/weather/alerts?lat=28.61&lon=77.21")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Count  int             `json:"count"`
		Alerts []weather.Alert `json:"alerts"`
	}
	decodeBody(t, resp, &body)
	if body.Count != 1 || body.Alerts[0].Type != "Heavy Rain" {
		t.Fatalf("body = %+v", body)
	}
}

func TestCitiesEndpoint(t *testing.T) {
	app := newTestApp(&stubService{})

	resp := doRequest(t, app, "/api/v1/cities")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Count int `json:"count"`
		Cities []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"cities"`
	}
	decodeBody(t, resp, &body)
	if body.Count != 10 || len(body.Cities) != 10 {
		t.Fatalf("body = %+v", body)
	}
	if body.Cities[0].Name != "Ahmedabad" {
		t.Fatalf("cities should be alphabetical, first = %s", body.Cities[0].Name)
	}
}
