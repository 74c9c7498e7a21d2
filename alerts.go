package main

import (
	"fmt"
	"math"
	"sort"

	"teetime-tracker/history"
	"teetime-tracker/platforms"
)

// discountThresholdPct is the minimum drop below a course's historical
// average worth surfacing.
const discountThresholdPct = 15.0

// PriceAlert is derived per scan and embedded in the result snapshot,
// never persisted on its own.
type PriceAlert struct {
	Course        string  `json:"course"`
	CurrentLow    float64 `json:"current_low"`
	HistoricalAvg float64 `json:"historical_avg"`
	DiscountPct   float64 `json:"discount_pct"`
	Message       string  `json:"message"`
}

// detectPriceDrops compares each scanned course's current minimum
// price against its historical average across every tracked date. A
// course with no history emits nothing (cold start).
func detectPriceDrops(slots []platforms.TeeTime, hist *history.Store) []PriceAlert {
	currentMin := map[string]float64{}
	for _, slot := range slots {
		if slot.TotalPerPlayer <= 0 {
			continue
		}
		low, seen := currentMin[slot.CourseName]
		if !seen || slot.TotalPerPlayer < low {
			currentMin[slot.CourseName] = slot.TotalPerPlayer
		}
	}

	var alerts []PriceAlert
	for course, low := range currentMin {
		avg := hist.HistoricalAverage(course)
		if avg <= 0 {
			continue
		}

		discount := (avg - low) / avg * 100
		if discount < discountThresholdPct {
			continue
		}

		alerts = append(alerts, PriceAlert{
			Course:        course,
			CurrentLow:    low,
			HistoricalAvg: math.Round(avg*100) / 100,
			DiscountPct:   math.Round(discount*10) / 10,
			Message:       fmt.Sprintf("$%.0f vs $%.0f avg (%.0f%% below average)", low, avg, discount),
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].DiscountPct > alerts[j].DiscountPct
	})
	return alerts
}
