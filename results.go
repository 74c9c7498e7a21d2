package main

import (
	"math"
	"sort"
	"time"

	"teetime-tracker/history"
	"teetime-tracker/platforms"
)

// maxStoredTeeTimes caps the raw slot list kept in the persisted
// snapshot; summaries and alerts are computed over the full list
// first.
const maxStoredTeeTimes = 500

// noPriceSentinel sorts courses without a priced slot after every
// priced course.
const noPriceSentinel = 999999.0

type CourseSummary struct {
	CourseName string  `json:"course_name"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Type       string  `json:"type"`
	Rating     float64 `json:"rating"`
	Par        int     `json:"par"`
	Holes      int     `json:"holes"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
	AvgPrice   float64 `json:"avg_price"`
	NumTimes   int     `json:"num_times"`
}

// ScanResult is the durable output of one full scan, replaced
// wholesale each time.
type ScanResult struct {
	LastUpdated     string              `json:"lastUpdated"`
	ScanDate        string              `json:"scanDate"`
	TotalTimes      int                 `json:"totalTimes"`
	TotalCourses    int                 `json:"totalCourses"`
	CourseSummaries []CourseSummary     `json:"courseSummaries"`
	TeeTimes        []platforms.TeeTime `json:"teeTimes"`
	PriceAlerts     []PriceAlert        `json:"priceAlerts"`
}

// buildSnapshot folds a scan's slots into per-course summaries sorted
// cheapest first, caps the raw slot list, and embeds discount alerts.
func buildSnapshot(slots []platforms.TeeTime, scanDate string, hist *history.Store, now time.Time) ScanResult {
	byCourse := map[string][]platforms.TeeTime{}
	var order []string
	for _, slot := range slots {
		name := slot.CourseName
		if _, seen := byCourse[name]; !seen {
			order = append(order, name)
		}
		byCourse[name] = append(byCourse[name], slot)
	}

	summaries := make([]CourseSummary, 0, len(order))
	for _, name := range order {
		courseSlots := byCourse[name]
		first := courseSlots[0]
		summary := CourseSummary{
			CourseName: name,
			City:       first.CourseCity,
			State:      first.CourseState,
			Type:       first.CourseType,
			Rating:     first.CourseRating,
			Par:        first.CoursePar,
			Holes:      first.CourseHoles,
			Lat:        first.Lat,
			Lng:        first.Lng,
			NumTimes:   len(courseSlots),
		}

		sum, n := 0.0, 0
		for _, slot := range courseSlots {
			p := slot.TotalPerPlayer
			if p <= 0 {
				continue
			}
			if n == 0 || p < summary.MinPrice {
				summary.MinPrice = p
			}
			if p > summary.MaxPrice {
				summary.MaxPrice = p
			}
			sum += p
			n++
		}
		if n > 0 {
			summary.AvgPrice = math.Round(sum/float64(n)*100) / 100
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return sortPrice(summaries[i]) < sortPrice(summaries[j])
	})

	capped := slots
	if len(capped) > maxStoredTeeTimes {
		capped = capped[:maxStoredTeeTimes]
	}

	return ScanResult{
		LastUpdated:     now.Format(time.RFC3339),
		ScanDate:        scanDate,
		TotalTimes:      len(slots),
		TotalCourses:    len(byCourse),
		CourseSummaries: summaries,
		TeeTimes:        capped,
		PriceAlerts:     detectPriceDrops(slots, hist),
	}
}

func sortPrice(s CourseSummary) float64 {
	if s.MinPrice <= 0 {
		return noPriceSentinel
	}
	return s.MinPrice
}
