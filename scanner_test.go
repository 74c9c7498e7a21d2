package main

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teetime-tracker/history"
	"teetime-tracker/platforms"
	"teetime-tracker/storage"
)

// stubAdapter routes each fetch through a per-course function so tests
// can mix healthy, empty, and failing courses behind one platform tag.
type stubAdapter struct {
	calls atomic.Int32
	fetch func(course platforms.Course, date string) ([]platforms.TeeTime, error)
}

func (s *stubAdapter) Fetch(course platforms.Course, date string, players, holes int) ([]platforms.TeeTime, error) {
	s.calls.Add(1)
	return s.fetch(course, date)
}

func slotAt(total float64) []platforms.TeeTime {
	return []platforms.TeeTime{{
		Time:           "09:00",
		TotalPerPlayer: total,
		GreenFee:       total,
		Source:         "stub",
	}}
}

type scanFixture struct {
	scanner    *Scanner
	resultPath string
	history    *history.Store
}

func newScanFixture(t *testing.T, courses []platforms.Course, adapters map[string]platforms.Adapter) scanFixture {
	t.Helper()
	dir := t.TempDir()

	catalog := NewCatalog(filepath.Join(dir, "courses.json"))
	require.NoError(t, catalog.Save(courses))

	hist := history.New(filepath.Join(dir, "price_history.json"))
	resultPath := filepath.Join(dir, "tee_time_data.json")

	registry := platforms.NewRegistryWith(adapters)
	return scanFixture{
		scanner:    NewScanner(catalog, registry, hist, resultPath, 4),
		resultPath: resultPath,
		history:    hist,
	}
}

func TestScanSkipsUnsupportedPlatformsSilently(t *testing.T) {
	courses := []platforms.Course{
		{Name: "Dyker Beach Golf Course", Platform: "nycparks"},
		{Name: "Pine Hill", Platform: "stub"},
	}
	stub := &stubAdapter{fetch: func(c platforms.Course, date string) ([]platforms.TeeTime, error) {
		return slotAt(50), nil
	}}

	fx := newScanFixture(t, courses, map[string]platforms.Adapter{"stub": stub})

	stats, err := fx.scanner.Run("2026-05-01")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Courses, "unsupported courses stay in the catalog count")
	assert.Equal(t, 0, stats.Errors, "an unsupported platform is not an error")
	assert.Equal(t, 2, stats.TotalTimes, "one slot per pass from the supported course")
	assert.Equal(t, int32(2), stub.calls.Load(), "adapter is invoked once per date pass")
}

func TestScanToleratesPerCourseFailures(t *testing.T) {
	var courses []platforms.Course
	for i := 0; i < 20; i++ {
		courses = append(courses, platforms.Course{
			Name:     fmt.Sprintf("Course %02d", i),
			Platform: "stub",
		})
	}
	stub := &stubAdapter{fetch: func(c platforms.Course, date string) ([]platforms.TeeTime, error) {
		switch c.Name {
		case "Course 03", "Course 07", "Course 11":
			return nil, fmt.Errorf("upstream exploded")
		default:
			return slotAt(60), nil
		}
	}}

	fx := newScanFixture(t, courses, map[string]platforms.Adapter{"stub": stub})

	stats, err := fx.scanner.Run("2026-05-01")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Errors, "failures are counted only on the primary pass")
	assert.Equal(t, 17, stats.WithTimes)
	assert.Equal(t, 34, stats.TotalTimes, "17 healthy courses over two date passes")

	var result ScanResult
	require.NoError(t, storage.ReadJSON(fx.resultPath, &result),
		"the snapshot is written despite per-course failures")
	assert.Equal(t, 34, result.TotalTimes)
	assert.Equal(t, 17, result.TotalCourses)
}

func TestScanDecoratesSlotsAndRecordsHistory(t *testing.T) {
	courses := []platforms.Course{{
		Name: "Pine Hill", City: "Yonkers", State: "NY",
		Type: "public", Par: 71, Rating: 4.2, Holes: 18,
		Lat: 40.9, Lng: -73.8, Platform: "stub",
	}}
	stub := &stubAdapter{fetch: func(c platforms.Course, date string) ([]platforms.TeeTime, error) {
		return slotAt(75), nil
	}}

	fx := newScanFixture(t, courses, map[string]platforms.Adapter{"stub": stub})

	_, err := fx.scanner.Run("2026-05-01")
	require.NoError(t, err)

	var result ScanResult
	require.NoError(t, storage.ReadJSON(fx.resultPath, &result))
	require.NotEmpty(t, result.TeeTimes)

	slot := result.TeeTimes[0]
	assert.Equal(t, "Pine Hill", slot.CourseName)
	assert.Equal(t, "Yonkers", slot.CourseCity)
	assert.Equal(t, "NY", slot.CourseState)
	assert.Equal(t, 71, slot.CoursePar)

	trends, err := fx.history.Trends("Pine Hill", "2026-05-01")
	require.NoError(t, err)
	assert.Len(t, trends, 1, "primary-pass results are recorded into history")

	trends, err = fx.history.Trends("Pine Hill", "2026-05-02")
	require.NoError(t, err)
	assert.Len(t, trends, 1, "day-two results are recorded under their own date")
}

func TestScanRefusesOverlappingRuns(t *testing.T) {
	fx := newScanFixture(t, nil, map[string]platforms.Adapter{})

	fx.scanner.running.Store(true)
	_, err := fx.scanner.Run("2026-05-01")
	assert.ErrorIs(t, err, errScanInProgress)

	fx.scanner.running.Store(false)
	assert.False(t, fx.scanner.Running())
}

func TestScanEmptyResultFromAdapterIsNotAnError(t *testing.T) {
	courses := []platforms.Course{{Name: "Closed Course", Platform: "stub"}}
	stub := &stubAdapter{fetch: func(c platforms.Course, date string) ([]platforms.TeeTime, error) {
		return nil, nil
	}}

	fx := newScanFixture(t, courses, map[string]platforms.Adapter{"stub": stub})

	stats, err := fx.scanner.Run("2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, 0, stats.WithTimes)
	assert.Equal(t, 0, stats.TotalTimes)
}

func TestNextDate(t *testing.T) {
	assert.Equal(t, "2026-05-02", nextDate("2026-05-01"))
	assert.Equal(t, "2027-01-01", nextDate("2026-12-31"))
	assert.Equal(t, "garbage", nextDate("garbage"))
}

func TestRunDefaultsToTomorrow(t *testing.T) {
	var seenDates []string
	courses := []platforms.Course{{Name: "Pine Hill", Platform: "stub"}}
	stub := &stubAdapter{fetch: func(c platforms.Course, date string) ([]platforms.TeeTime, error) {
		seenDates = append(seenDates, date)
		return nil, nil
	}}

	fx := newScanFixture(t, courses, map[string]platforms.Adapter{"stub": stub})
	_, err := fx.scanner.Run("")
	require.NoError(t, err)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	require.Len(t, seenDates, 2)
	assert.Equal(t, tomorrow, seenDates[0])
	assert.Equal(t, nextDate(tomorrow), seenDates[1])
}
