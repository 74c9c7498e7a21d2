package platforms

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGolfNowFixture(t *testing.T, summaryBody string, summaryStatus int, detailBody string) (*GolfNow, *atomic.Int32, *atomic.Int32) {
	t.Helper()

	var summaryHits, detailHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/facilities/", func(w http.ResponseWriter, r *http.Request) {
		summaryHits.Add(1)
		w.WriteHeader(summaryStatus)
		fmt.Fprint(w, summaryBody)
	})
	mux.HandleFunc("/api/tee-times/tee-time-results", func(w http.ResponseWriter, r *http.Request) {
		detailHits.Add(1)
		fmt.Fprint(w, detailBody)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	g := NewGolfNow()
	g.WebBase = srv.URL
	return g, &summaryHits, &detailHits
}

func golfNowCourse() Course {
	return Course{
		Name:      "Harbor Links Golf Course",
		Platform:  "golfnow",
		GolfNowID: "8912",
	}
}

func TestGolfNowSkipsCourseMissingIdentifier(t *testing.T) {
	g, summaryHits, _ := newGolfNowFixture(t, `{}`, http.StatusOK, `[]`)

	course := golfNowCourse()
	course.GolfNowID = ""

	slots, err := g.Fetch(course, "2026-05-01", 4, 18)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Equal(t, int32(0), summaryHits.Load())
}

func TestGolfNowZeroSummaryStopsEarly(t *testing.T) {
	g, summaryHits, detailHits := newGolfNowFixture(t,
		`{"numberOfTeeTimesAvailable": 0, "minPrice": 0, "maxPrice": 0}`, http.StatusOK, `[]`)

	slots, err := g.Fetch(golfNowCourse(), "2026-05-01", 4, 18)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Equal(t, int32(1), summaryHits.Load())
	assert.Equal(t, int32(0), detailHits.Load(), "zero availability must not trigger a detail fetch")
}

func TestGolfNowSummaryFailureIsAnError(t *testing.T) {
	g, _, detailHits := newGolfNowFixture(t, `oops`, http.StatusInternalServerError, `[]`)

	slots, err := g.Fetch(golfNowCourse(), "2026-05-01", 4, 18)
	assert.Error(t, err)
	assert.Empty(t, slots)
	assert.Equal(t, int32(0), detailHits.Load())
}

func TestGolfNowDetailFieldVariants(t *testing.T) {
	detail := `{"ttResults": {"teeTimes": [
		{"formattedTime": "7:30", "formattedTimeMeridian": "AM", "displayRate": 89, "maxPlayers": 4, "holeCount": 18},
		{"teeTime": "2026-05-01T13:05:00.000Z", "price": 45.5, "cart_fee": 18, "playerCount": 2, "holes": 9, "hotDeal": true},
		{"time": "2:10 PM", "greenFee": 60, "cartFee": 0, "rateName": "twilight"},
		{"time": "", "price": 10},
		{"time": "3:00 PM", "price": "cheap"}
	]}}`
	g, _, _ := newGolfNowFixture(t,
		`{"numberOfTeeTimesAvailable": 5, "minPrice": 45.5, "maxPrice": 89}`, http.StatusOK, detail)

	slots, err := g.Fetch(golfNowCourse(), "2026-05-01", 4, 18)
	require.NoError(t, err)
	require.Len(t, slots, 3, "slots with no time or malformed prices are discarded individually")

	assert.Equal(t, "07:30", slots[0].Time)
	assert.Equal(t, 89.0, slots[0].TotalPerPlayer)
	assert.Equal(t, 4, slots[0].PlayersAvailable)
	assert.Equal(t, 18, slots[0].Holes)
	assert.Equal(t, "golfnow", slots[0].Source)

	assert.Equal(t, "13:05", slots[1].Time)
	assert.Equal(t, 45.5, slots[1].GreenFee)
	assert.Equal(t, 18.0, slots[1].CartFee)
	assert.Equal(t, 63.5, slots[1].TotalPerPlayer)
	assert.Equal(t, 9, slots[1].Holes)
	assert.True(t, slots[1].HasSpecial)
	assert.Equal(t, "hot_deal", slots[1].RateType)

	assert.Equal(t, "14:10", slots[2].Time)
	assert.Equal(t, "twilight", slots[2].RateType)
	assert.Equal(t, 60.0, slots[2].TotalPerPlayer)
}

func TestGolfNowSynthesisFallback(t *testing.T) {
	g, _, detailHits := newGolfNowFixture(t,
		`{"numberOfTeeTimesAvailable": 3, "minPrice": 42, "maxPrice": 95}`, http.StatusOK, `[]`)

	slots, err := g.Fetch(golfNowCourse(), "2026-05-01", 4, 18)
	require.NoError(t, err)
	assert.Equal(t, int32(1), detailHits.Load())
	require.Len(t, slots, 3, "synthesis mirrors the summary's reported count")

	seen := map[string]bool{}
	for _, slot := range slots {
		assert.Equal(t, 42.0, slot.TotalPerPlayer, "placeholder price is the summary minimum")
		assert.Equal(t, "golfnow_estimate", slot.Source, "estimates must be labeled")
		assert.Equal(t, "estimated", slot.RateType)
		assert.False(t, seen[slot.Time], "placeholder times are spread out")
		seen[slot.Time] = true
	}
}

func TestGolfNowSynthesisCap(t *testing.T) {
	g, _, _ := newGolfNowFixture(t,
		`{"numberOfTeeTimesAvailable": 40, "minPrice": 55, "maxPrice": 120}`, http.StatusOK, `not json`)

	slots, err := g.Fetch(golfNowCourse(), "2026-05-01", 4, 18)
	require.NoError(t, err)
	assert.Len(t, slots, maxSynthesizedSlots)
}

func TestGolfNowBotBlockDetected(t *testing.T) {
	g, _, _ := newGolfNowFixture(t, `<html>challenge</html>`, http.StatusOK, `[]`)

	_, err := g.Fetch(golfNowCourse(), "2026-05-01", 4, 18)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot protection")
}

func TestGolfNowSearchNearbyWeb(t *testing.T) {
	html := `<html><body>
		<div class="course-card" data-course-id="4508"><h3 class="course-name">Skyway Golf Course</h3></div>
		<div class="facility-card" data-course-id="4523"><h2>Galloping Hill</h2></div>
		<div class="course-card"></div>
	</body></html>`

	mux := http.NewServeMux()
	mux.HandleFunc("/tee-times/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, html)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	g := NewGolfNow()
	g.WebBase = srv.URL

	courses, err := g.SearchNearby(40.71, -74.0, 30, "2026-05-01")
	require.NoError(t, err)
	require.Len(t, courses, 2, "nameless cards are skipped")
	assert.Equal(t, "Skyway Golf Course", courses[0].Name)
	assert.Equal(t, "4508", courses[0].GolfNowID)
	assert.Equal(t, "golfnow", courses[0].Platform)
}

func TestGolfNowSearchNearbyPartnerAPI(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/channel/ch-1/facilities", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("UserName") != "user" || r.Header.Get("Password") != "pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"Facilities": [{"FacilityName": "Richter Park", "FacilityID": 11042, "City": "Danbury", "State": "CT", "Latitude": 41.39, "Longitude": -73.45}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	g := NewGolfNow()
	g.APIBase = srv.URL
	g.Username = "user"
	g.Password = "pass"
	g.ChannelID = "ch-1"

	courses, err := g.SearchNearby(41.39, -73.45, 30, "2026-05-01")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Richter Park", courses[0].Name)
	assert.Equal(t, "11042", courses[0].GolfNowID)
	assert.Equal(t, "CT", courses[0].State)
}

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"7:30 AM", "07:30", true},
		{"7:30 PM", "19:30", true},
		{"12:05 AM", "00:05", true},
		{"12:15 PM", "12:15", true},
		{"7:30pm", "19:30", true},
		{"13:45", "13:45", true},
		{"2026-05-01 08:12", "08:12", true},
		{"2026-05-01T08:12:00.000Z", "08:12", true},
		{"", "", false},
		{"noon-ish", "", false},
	}
	for _, tc := range cases {
		got, ok := normalizeClock(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestDecorateCopiesCourseMetadata(t *testing.T) {
	course := Course{
		Name: "Lido Golf Club", City: "Lido Beach", State: "NY",
		Type: "public", Rating: 4.0, Par: 72, Holes: 18,
		Lat: 40.588, Lng: -73.621,
	}
	slot := TeeTime{Time: "09:00"}
	slot.Decorate(course)

	assert.Equal(t, "Lido Golf Club", slot.CourseName)
	assert.Equal(t, "Lido Beach", slot.CourseCity)
	assert.Equal(t, "NY", slot.CourseState)
	assert.Equal(t, 72, slot.CoursePar)
	assert.Equal(t, 4.0, slot.CourseRating)
	assert.Equal(t, 40.588, slot.Lat)
}

func TestRegistryUnknownPlatform(t *testing.T) {
	r := NewRegistry()
	_, ok := r.AdapterFor("nycparks")
	assert.False(t, ok)
	_, ok = r.AdapterFor("foreup")
	assert.True(t, ok)
}
