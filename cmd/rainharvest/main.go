package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/thegreendrop/rainharvest/internal/api/http"
	"github.com/thegreendrop/rainharvest/internal/config"
	"github.com/thegreendrop/rainharvest/internal/scheduler"
	"github.com/thegreendrop/rainharvest/internal/store"
	"github.com/thegreendrop/rainharvest/internal/weather"
	"github.com/thegreendrop/rainharvest/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	cache := store.NewMemory()

	// One adapter per IMD endpoint class; default base URLs.
	provs := []weather.Provider{
		providers.NewCityForecast(httpClient, ""),
		providers.NewCurrentConditions(httpClient, ""),
		providers.NewStationNowcast(httpClient, ""),
		providers.NewAWSObservations(httpClient, ""),
		providers.NewDistrictNowcast(httpClient, ""),
		providers.NewDistrictRainfall(httpClient, ""),
		providers.NewSubdivisionRainfall(httpClient, ""),
		providers.NewBasinQPF(httpClient, ""),
		providers.NewDistrictWarning(httpClient, ""),
	}

	// Core aggregation engine.
	aggregator := weather.NewAggregator(cache, provs, cfg.Defaults, weather.Config{
		BudgetWindow:  cfg.BudgetWindow,
		CacheTTL:      cfg.CacheTTL,
		BucketDegrees: cfg.BucketDegrees,
		Retry:         cfg.Retry,
		Soil:          cfg.Soil,
	})

	// Cache-warming scheduler for registry cities.
	sched := scheduler.New(cfg.RefreshInterval, aggregator)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "rainharvest",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "rainharvest",
		})
	})

	httpapi.RegisterRoutes(app, aggregator)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
