// Package history keeps a rolling log of per-course, per-date price
// snapshots so the alert detector can compare current pricing against
// a historical baseline.
package history

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"teetime-tracker/platforms"
	"teetime-tracker/storage"
)

const (
	// maxSnapshots bounds each (course, date) log; the oldest entry is
	// evicted when a new snapshot would exceed it.
	maxSnapshots = 48

	// retentionDays keys off the tee date, not the observation time: a
	// history for a date more than this many days in the past is
	// purged wholesale on the next write.
	retentionDays = 30
)

// Snapshot is one immutable price observation for a (course, date)
// pair.
type Snapshot struct {
	Timestamp string  `json:"timestamp"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	AvgPrice  float64 `json:"avg_price"`
	NumTimes  int     `json:"num_times"`
	NumPriced int     `json:"num_priced"`
}

// CourseDay is the retained snapshot sequence for one (course, date)
// key.
type CourseDay struct {
	Course    string     `json:"course"`
	Date      string     `json:"date"`
	Snapshots []Snapshot `json:"snapshots"`
}

// Store persists histories as one JSON document keyed by
// "{course}:{date}". The mutex serializes writers; readers go through
// the document store's atomic-replace semantics.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) load() (map[string]CourseDay, error) {
	hist := map[string]CourseDay{}
	err := storage.ReadJSON(s.path, &hist)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return hist, nil
}

func key(course, date string) string {
	return course + ":" + date
}

// Record appends a snapshot for the course and tee date computed over
// the slots with a positive total price; when none are priced no
// snapshot is appended. Every call also sweeps out histories whose tee
// date fell outside the retention window, regardless of which course
// the call targeted.
func (s *Store) Record(courseName, date string, slots []platforms.TeeTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hist, err := s.load()
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	var prices []float64
	for _, slot := range slots {
		if slot.TotalPerPlayer > 0 {
			prices = append(prices, slot.TotalPerPlayer)
		}
	}

	if len(prices) > 0 {
		min, max, sum := prices[0], prices[0], 0.0
		for _, p := range prices {
			if p < min {
				min = p
			}
			if p > max {
				max = p
			}
			sum += p
		}

		k := key(courseName, date)
		day, ok := hist[k]
		if !ok {
			day = CourseDay{Course: courseName, Date: date}
		}
		day.Snapshots = append(day.Snapshots, Snapshot{
			Timestamp: s.now().Format(time.RFC3339),
			MinPrice:  min,
			MaxPrice:  max,
			AvgPrice:  round2(sum / float64(len(prices))),
			NumTimes:  len(slots),
			NumPriced: len(prices),
		})
		if len(day.Snapshots) > maxSnapshots {
			day.Snapshots = day.Snapshots[len(day.Snapshots)-maxSnapshots:]
		}
		hist[k] = day
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays).Format("2006-01-02")
	for k, day := range hist {
		if day.Date < cutoff {
			delete(hist, k)
		}
	}

	if err := storage.WriteJSON(s.path, hist); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// Trends returns the history for (course, date), or every tracked
// date for the course when date is empty.
func (s *Store) Trends(courseName, date string) (map[string]CourseDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hist, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	out := map[string]CourseDay{}
	if date != "" {
		k := key(courseName, date)
		if day, ok := hist[k]; ok {
			out[k] = day
		}
		return out, nil
	}
	for k, day := range hist {
		if day.Course == courseName {
			out[k] = day
		}
	}
	return out, nil
}

// HistoricalAverage is the arithmetic mean of every snapshot's average
// price recorded for the course across all tracked dates. Zero means
// no history exists (cold start).
func (s *Store) HistoricalAverage(courseName string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	hist, err := s.load()
	if err != nil {
		return 0
	}

	sum, n := 0.0, 0
	for _, day := range hist {
		if day.Course != courseName {
			continue
		}
		for _, snap := range day.Snapshots {
			sum += snap.AvgPrice
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
