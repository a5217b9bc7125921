package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/thegreendrop/rainharvest/internal/recharge"
	"github.com/thegreendrop/rainharvest/internal/registry"
	"github.com/thegreendrop/rainharvest/internal/weather"
)

var validate = validator.New()

// WeatherService is what the routes need from the aggregator.
type WeatherService interface {
	GetWeather(ctx context.Context, q weather.Query) (weather.Record, recharge.Metrics)
	GetAlerts(ctx context.Context, q weather.Query) []weather.Alert
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service WeatherService) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		record, metrics := service.GetWeather(c.Context(), q)
		return c.JSON(fiber.Map{
			"record":  record,
			"metrics": metrics,
		})
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		record, _ := service.GetWeather(c.Context(), q)
		return c.JSON(fiber.Map{
			"forecastDays":       record.Forecast,
			"forecastPeriodDays": len(record.Forecast),
			"dataSource":         record.Source,
		})
	})

	v1.Get("/weather/recharge-metrics", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		record, metrics := service.GetWeather(c.Context(), q)
		return c.JSON(fiber.Map{
			"metrics":          metrics,
			"annualRainfallMm": record.AnnualRainfallMM,
			"rainyDaysCount":   record.RainyDays,
			"dataSource":       record.Source,
		})
	})

	v1.Get("/weather/alerts", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		alerts := service.GetAlerts(c.Context(), q)
		return c.JSON(fiber.Map{
			"alerts": alerts,
			"count":  len(alerts),
		})
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		cities := registry.List()
		return c.JSON(fiber.Map{
			"cities": cities,
			"count":  len(cities),
		})
	})
}

// weatherQuery holds the validated query parameters for weather endpoints.
type weatherQuery struct {
	Latitude  float64 `validate:"min=-90,max=90"`
	Longitude float64 `validate:"min=-180,max=180"`
}

// parseWeatherQuery accepts either a coordinate pair or a registry city ID;
// a city ID supplies its canonical coordinate when lat/lon are absent.
func parseWeatherQuery(c *fiber.Ctx) (weather.Query, error) {
	var q weather.Query

	cityStr := c.Query("city_id")
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if cityStr != "" {
		id, err := strconv.Atoi(cityStr)
		if err != nil {
			return q, errors.New("city_id must be an integer")
		}
		city, ok := registry.Lookup(id)
		if !ok {
			return q, errors.New("unknown city_id")
		}
		q.CityID = &id
		q.Latitude = city.Latitude
		q.Longitude = city.Longitude
	}

	if latStr != "" || lonStr != "" {
		if latStr == "" || lonStr == "" {
			return q, errors.New("lat and lon must be provided together")
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return q, errors.New("lat must be a number")
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return q, errors.New("lon must be a number")
		}
		q.Latitude = lat
		q.Longitude = lon
	} else if cityStr == "" {
		return q, errors.New("lat and lon (or city_id) are required")
	}

	if err := validate.Struct(weatherQuery{Latitude: q.Latitude, Longitude: q.Longitude}); err != nil {
		return q, err
	}
	return q, nil
}
