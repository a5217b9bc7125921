package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/thegreendrop/rainharvest/internal/registry"
	"github.com/thegreendrop/rainharvest/internal/weather"
)

// Scheduler periodically warms the weather cache for every registry city so
// interactive queries for the major cities rarely pay provider latency.
// Warming goes through the aggregator's normal entry point: entries still
// inside their TTL are cheap cache hits, expired ones trigger a refresh.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	aggregator *weather.Aggregator
	interval   time.Duration
}

// New creates a Scheduler over the aggregator.
func New(interval time.Duration, aggregator *weather.Aggregator) *Scheduler {
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		aggregator: aggregator,
		interval:   interval,
	}
}

// Start schedules the periodic warm-up job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: warming weather cache for registry cities")

		var wg sync.WaitGroup
		for _, city := range registry.List() {
			city := city
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				id := city.ID
				q := weather.Query{Latitude: city.Latitude, Longitude: city.Longitude, CityID: &id}
				rec, _ := s.aggregator.GetWeather(ctx, q)
				if rec.Source == weather.SourceFallback {
					log.Printf("scheduler: warm-up for %s served fallback data", city.Name)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed cache warm-up")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
