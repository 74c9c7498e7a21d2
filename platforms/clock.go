package platforms

import (
	"strings"
	"time"
)

// clockLayouts covers the time shapes seen across upstream payloads:
// full timestamps, bare 24-hour clocks, and AM/PM strings in a few
// spellings.
var clockLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3:04 pm",
}

// normalizeClock reduces a source time string to a zero-padded
// 24-hour "HH:MM" clock. Returns false when nothing parseable is
// found.
func normalizeClock(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.Format("15:04"), true
		}
	}
	// Lowercase meridians sneak through some deployments.
	upper := strings.ToUpper(raw)
	if upper != raw {
		for _, layout := range []string{"3:04 PM", "3:04PM"} {
			t, err := time.Parse(layout, upper)
			if err == nil {
				return t.Format("15:04"), true
			}
		}
	}
	return "", false
}

// slotDateTime builds the canonical full timestamp for a slot.
func slotDateTime(date, clock string) string {
	return date + "T" + clock + ":00"
}
