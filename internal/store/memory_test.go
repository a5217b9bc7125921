package store

import (
	"sync"
	"testing"
	"time"

	"github.com/thegreendrop/rainharvest/internal/weather"
)

func entryAt(computed time.Time, ttl time.Duration, annual float64) weather.CacheEntry {
	return weather.CacheEntry{
		Record:     weather.Record{AnnualRainfallMM: annual, Source: weather.SourceLive},
		ComputedAt: computed,
		TTL:        ttl,
	}
}

func TestMemoryGetRespectsTTL(t *testing.T) {
	s := NewMemory()
	now := time.Now()
	s.Put("28.50:77.25", entryAt(now, time.Hour, 1200))

	if _, ok := s.Get("28.50:77.25", now.Add(30*time.Minute)); !ok {
		t.Fatal("entry within TTL should be live")
	}
	if _, ok := s.Get("28.50:77.25", now.Add(2*time.Hour)); ok {
		t.Fatal("expired entry should not be returned by Get")
	}
	if _, ok := s.Get("missing", now); ok {
		t.Fatal("unknown key should miss")
	}
}

func TestMemoryGetStaleIgnoresTTL(t *testing.T) {
	s := NewMemory()
	now := time.Now()
	s.Put("19.00:72.75", entryAt(now.Add(-5*time.Hour), time.Hour, 1880))

	entry, ok := s.GetStale("19.00:72.75")
	if !ok {
		t.Fatal("stale entry should still be retrievable")
	}
	if entry.Record.AnnualRainfallMM != 1880 {
		t.Fatalf("stale entry data = %v", entry.Record.AnnualRainfallMM)
	}
	if _, ok := s.GetStale("missing"); ok {
		t.Fatal("unknown key should miss even for stale reads")
	}
}

func TestMemoryPutReplacesWholesale(t *testing.T) {
	s := NewMemory()
	now := time.Now()
	s.Put("12.25:77.00", entryAt(now.Add(-time.Hour), time.Minute, 900))
	s.Put("12.25:77.00", entryAt(now, time.Hour, 970))

	entry, ok := s.Get("12.25:77.00", now)
	if !ok || entry.Record.AnnualRainfallMM != 970 {
		t.Fatalf("Put should replace the previous entry, got %+v ok=%v", entry.Record.AnnualRainfallMM, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	s := NewMemory()
	now := time.Now()

	var wg sync.WaitGroup
	for n := 0; n < 16; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				s.Put("shared", entryAt(now, time.Hour, float64(k)))
				s.Get("shared", now)
				s.GetStale("shared")
			}
		}()
	}
	wg.Wait()

	if _, ok := s.Get("shared", now); !ok {
		t.Fatal("entry should exist after concurrent writes")
	}
}
