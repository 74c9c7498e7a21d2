package main

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"teetime-tracker/history"
	"teetime-tracker/platforms"
	"teetime-tracker/storage"
)

var errScanInProgress = errors.New("a scan is already running")

const (
	defaultPlayers = 4
	defaultHoles   = 18
)

// Scanner fans one fetch task per course out to the matching adapter
// under a bounded worker pool, records prices per course as results
// come back, and hands the combined slot list to the aggregator. One
// course's failure never aborts a scan.
type Scanner struct {
	catalog    *Catalog
	registry   *platforms.Registry
	history    *history.Store
	resultPath string
	workers    int

	running atomic.Bool
}

func NewScanner(catalog *Catalog, registry *platforms.Registry, hist *history.Store, resultPath string, workers int) *Scanner {
	if workers <= 0 {
		workers = 15
	}
	return &Scanner{
		catalog:    catalog,
		registry:   registry,
		history:    hist,
		resultPath: resultPath,
		workers:    workers,
	}
}

// Running reports whether a scan is currently in flight.
func (s *Scanner) Running() bool {
	return s.running.Load()
}

// ScanStats summarizes one full scan. Errors counts only the primary
// date's failed courses; the day-two pass tolerates failures silently.
type ScanStats struct {
	Courses    int
	WithTimes  int
	Errors     int
	TotalTimes int
}

// Run executes a full scan for targetDate (tomorrow when empty) and
// the following day, then writes the aggregated snapshot. Overlapping
// runs are refused so two scans never interleave writes to the same
// documents.
func (s *Scanner) Run(targetDate string) (ScanStats, error) {
	if !s.running.CompareAndSwap(false, true) {
		return ScanStats{}, errScanInProgress
	}
	defer s.running.Store(false)

	if targetDate == "" {
		targetDate = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	}

	courses, err := s.catalog.Load()
	if err != nil {
		return ScanStats{}, fmt.Errorf("scan: %w", err)
	}

	stats := ScanStats{Courses: len(courses)}
	log.Printf("[scan] scanning %d courses for %s", len(courses), targetDate)

	all := s.scanDate(courses, targetDate, &stats)

	// Second pass for the following day; failures here are tolerated
	// without counting.
	dayTwo := nextDate(targetDate)
	log.Printf("[scan] scanning %d courses for %s", len(courses), dayTwo)
	all = append(all, s.scanDate(courses, dayTwo, nil)...)

	stats.TotalTimes = len(all)

	snapshot := buildSnapshot(all, targetDate, s.history, time.Now())
	if err := storage.WriteJSON(s.resultPath, snapshot); err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}

	log.Printf("[scan] complete: %d courses with times, %d errors, %d tee times", stats.WithTimes, stats.Errors, stats.TotalTimes)
	return stats, nil
}

// scanDate runs one dispatch wave for a single date. A nil stats makes
// the wave silent: failures are still logged but not counted.
func (s *Scanner) scanDate(courses []platforms.Course, date string, stats *ScanStats) []platforms.TeeTime {
	type fetchResult struct {
		course platforms.Course
		slots  []platforms.TeeTime
		err    error
	}

	results := make(chan fetchResult, len(courses))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for _, course := range courses {
		adapter, ok := s.registry.AdapterFor(course.Platform)
		if !ok {
			// Expected steady state for venues pending adapter
			// support, not an error.
			continue
		}

		wg.Add(1)
		go func(c platforms.Course, a platforms.Adapter) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			slots, err := a.Fetch(c, date, defaultPlayers, defaultHoles)
			results <- fetchResult{course: c, slots: slots, err: err}
		}(course, adapter)
	}

	wg.Wait()
	close(results)

	var all []platforms.TeeTime
	for r := range results {
		if r.err != nil {
			log.Printf("[scan] %s (%s): %v", r.course.Name, date, r.err)
			if stats != nil {
				stats.Errors++
			}
			continue
		}
		if len(r.slots) == 0 {
			continue
		}

		for i := range r.slots {
			r.slots[i].Decorate(r.course)
		}
		all = append(all, r.slots...)
		if stats != nil {
			stats.WithTimes++
		}

		if err := s.history.Record(r.course.Name, date, r.slots); err != nil {
			log.Printf("[history] %s: %v", r.course.Name, err)
		}
	}
	return all
}

func nextDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, 1).Format("2006-01-02")
}
