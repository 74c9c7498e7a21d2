package platforms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxSynthesizedSlots caps the placeholder slots fabricated when the
// summary reports availability but the detail endpoint yields nothing.
const maxSynthesizedSlots = 5

// GolfNow fetches tee times from the GolfNow marketplace. Per course
// the flow is three tiers: a cheap per-day summary (zero availability
// stops the call chain), a slot-level detail fetch tolerant of the
// field-naming drift between deployments, and a synthesis fallback
// that fabricates representative slots from the summary alone. The
// geo-radius search is a separate discovery entry point, not part of
// the per-course scan path.
type GolfNow struct {
	WebBase string
	APIBase string

	// Partner API credentials; SearchNearby scrapes the public search
	// page when these are unset.
	Username  string
	Password  string
	ChannelID string

	client *http.Client
}

func NewGolfNow() *GolfNow {
	return &GolfNow{
		WebBase: "https://www.golfnow.com",
		APIBase: "https://api.gnsvc.com/rest",
		client:  &http.Client{Timeout: PlatformTimeout},
	}
}

type golfNowSummary struct {
	NumberOfTeeTimesAvailable int         `json:"numberOfTeeTimesAvailable"`
	MinPrice                  json.Number `json:"minPrice"`
	MaxPrice                  json.Number `json:"maxPrice"`
}

// golfNowDetailSlot carries every naming variant seen for each logical
// field; pickers below take the first populated one.
type golfNowDetailSlot struct {
	Time                  string `json:"time"`
	TeeTime               string `json:"teeTime"`
	FormattedTime         string `json:"formattedTime"`
	FormattedTimeMeridian string `json:"formattedTimeMeridian"`

	Price       json.Number `json:"price"`
	DisplayRate json.Number `json:"displayRate"`
	GreenFee    json.Number `json:"greenFee"`

	CartFee      json.Number `json:"cartFee"`
	CartFeeSnake json.Number `json:"cart_fee"`

	MaxPlayers  json.Number `json:"maxPlayers"`
	PlayerCount json.Number `json:"playerCount"`

	Holes     json.Number `json:"holes"`
	HoleCount json.Number `json:"holeCount"`

	IsHotDeal bool `json:"isHotDeal"`
	HotDeal   bool `json:"hotDeal"`

	RateType string `json:"rateType"`
	RateName string `json:"rateName"`
}

type golfNowDetailResponse struct {
	TTResults struct {
		TeeTimes []json.RawMessage `json:"teeTimes"`
	} `json:"ttResults"`
	TeeTimes []json.RawMessage `json:"teeTimes"`
}

// Fetch runs the three-tier flow for one course.
func (g *GolfNow) Fetch(course Course, date string, players int, holes int) ([]TeeTime, error) {
	if course.GolfNowID == "" {
		return nil, nil
	}

	summary, err := g.fetchSummary(course.GolfNowID, date)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	if summary.NumberOfTeeTimesAvailable <= 0 {
		return nil, nil
	}

	slots, err := g.fetchDetail(course, date, players, holes)
	if err != nil {
		log.Printf("[golfnow] %s: detail fetch failed: %v", course.Name, err)
	}
	if len(slots) > 0 {
		return slots, nil
	}

	// Summary says times exist but detail gave us nothing usable.
	// Fabricate representative slots from the summary so the scan
	// still reflects the availability; the source tag marks them as
	// estimates, not observed times.
	return g.synthesize(course, date, summary, holes), nil
}

func (g *GolfNow) bookingURL(course Course) string {
	if course.BookingURL != "" {
		return course.BookingURL
	}
	return fmt.Sprintf("%s/tee-times/facility/%s/search", g.WebBase, course.GolfNowID)
}

func (g *GolfNow) fetchSummary(facilityID, date string) (golfNowSummary, error) {
	var summary golfNowSummary

	var summaryURL string = fmt.Sprintf("%s/api/facilities/%s/summary?date=%s&dateMax=%s", g.WebBase, facilityID, date, date)
	var req *http.Request
	var err error
	req, err = http.NewRequest("GET", summaryURL, nil)
	if err != nil {
		return summary, err
	}
	applyBrowserHeaders(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	var resp *http.Response
	resp, err = g.client.Do(req)
	if err != nil {
		return summary, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return summary, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body []byte
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return summary, err
	}
	if blocked(body) {
		return summary, fmt.Errorf("blocked by bot protection")
	}
	if err = json.Unmarshal(body, &summary); err != nil {
		return summary, err
	}
	return summary, nil
}

type golfNowDetailRequest struct {
	FacilityID int    `json:"FacilityId"`
	Date       string `json:"Date"`
	Players    string `json:"Players"`
	Holes      string `json:"Holes"`
	SortBy     string `json:"SortBy"`
	View       string `json:"View"`
}

func (g *GolfNow) fetchDetail(course Course, date string, players int, holes int) ([]TeeTime, error) {
	var facilityID int
	fmt.Sscanf(course.GolfNowID, "%d", &facilityID)

	var reqBody golfNowDetailRequest = golfNowDetailRequest{
		FacilityID: facilityID,
		Date:       date,
		Players:    fmt.Sprintf("%d", players),
		Holes:      fmt.Sprintf("%d", holes),
		SortBy:     "Date",
		View:       "List",
	}

	var jsonData []byte
	var err error
	jsonData, err = json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	var req *http.Request
	req, err = http.NewRequest("POST", g.WebBase+"/api/tee-times/tee-time-results", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	applyBrowserHeaders(req)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Origin", g.WebBase)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	var resp *http.Response
	resp, err = g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body []byte
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if blocked(body) {
		return nil, fmt.Errorf("blocked by bot protection")
	}

	raws, err := splitDetailSlots(body)
	if err != nil {
		return nil, err
	}

	return g.parseDetailSlots(raws, course, date), nil
}

// splitDetailSlots accepts the envelopes different deployments use: a
// bare array, a top-level teeTimes array, or the ttResults wrapper.
func splitDetailSlots(body []byte) ([]json.RawMessage, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err == nil {
		return raws, nil
	}

	var envelope golfNowDetailResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unrecognized payload: %w", err)
	}
	if envelope.TTResults.TeeTimes != nil {
		return envelope.TTResults.TeeTimes, nil
	}
	return envelope.TeeTimes, nil
}

func (g *GolfNow) parseDetailSlots(raws []json.RawMessage, course Course, date string) []TeeTime {
	var results []TeeTime
	for _, raw := range raws {
		var slot golfNowDetailSlot
		if err := json.Unmarshal(raw, &slot); err != nil {
			continue
		}

		var timeStr string = firstNonEmpty(slot.Time, slot.TeeTime, slot.FormattedTime)
		if slot.FormattedTime != "" && slot.FormattedTimeMeridian != "" {
			timeStr = slot.FormattedTime + " " + slot.FormattedTimeMeridian
		}
		clock, ok := normalizeClock(timeStr)
		if !ok {
			continue
		}

		price, err := firstNumber(0, slot.Price, slot.DisplayRate, slot.GreenFee)
		if err != nil {
			continue
		}
		cartFee, err := firstNumber(0, slot.CartFee, slot.CartFeeSnake)
		if err != nil {
			continue
		}

		players := int(mustFirstNumber(4, slot.MaxPlayers, slot.PlayerCount))
		slotHoles := int(mustFirstNumber(18, slot.Holes, slot.HoleCount))
		hotDeal := slot.IsHotDeal || slot.HotDeal

		rateType := firstNonEmpty(slot.RateType, slot.RateName)
		if rateType == "" {
			rateType = "standard"
		}
		if hotDeal {
			rateType = "hot_deal"
		}

		// The marketplace reports one aggregate rate; a separate cart
		// fee only appears on some deployments.
		total := price + cartFee
		if cartFee == 0 {
			total = price
		}

		results = append(results, TeeTime{
			Time:             clock,
			DateTime:         slotDateTime(date, clock),
			Holes:            slotHoles,
			PlayersAvailable: players,
			GreenFee:         price,
			CartFee:          cartFee,
			TotalPerPlayer:   total,
			RateType:         rateType,
			HasSpecial:       hotDeal,
			Source:           "golfnow",
			BookingURL:       g.bookingURL(course),
		})
	}
	return results
}

// synthesize fabricates evenly spaced placeholder slots priced at the
// summary minimum, capped at the reported count and the fixed maximum.
func (g *GolfNow) synthesize(course Course, date string, summary golfNowSummary, holes int) []TeeTime {
	count := summary.NumberOfTeeTimesAvailable
	if count > maxSynthesizedSlots {
		count = maxSynthesizedSlots
	}

	minPrice, err := numberOr(summary.MinPrice, 0)
	if err != nil {
		minPrice = 0
	}

	// Spread placeholders across the prime daylight window.
	const startMinutes = 8 * 60
	const endMinutes = 16 * 60
	step := (endMinutes - startMinutes) / count

	var results []TeeTime
	for i := 0; i < count; i++ {
		mins := startMinutes + i*step
		clock := fmt.Sprintf("%02d:%02d", mins/60, mins%60)
		results = append(results, TeeTime{
			Time:             clock,
			DateTime:         slotDateTime(date, clock),
			Holes:            holes,
			PlayersAvailable: 4,
			GreenFee:         minPrice,
			CartFee:          0,
			TotalPerPlayer:   minPrice,
			RateType:         "estimated",
			Source:           "golfnow_estimate",
			BookingURL:       g.bookingURL(course),
		})
	}
	return results
}

// SearchNearby finds facilities with availability near a coordinate.
// It is used by the discovery tooling to surface unlisted courses, not
// by the per-course scan. With partner credentials configured it calls
// the partner API; otherwise it scrapes the public search page.
func (g *GolfNow) SearchNearby(lat, lng float64, radiusMiles int, date string) ([]Course, error) {
	if g.Username != "" && g.Password != "" && g.ChannelID != "" {
		return g.searchViaAPI(lat, lng, radiusMiles, date)
	}
	return g.searchViaWeb(lat, lng, radiusMiles, date)
}

type golfNowFacility struct {
	FacilityName string      `json:"FacilityName"`
	FacilityID   json.Number `json:"FacilityID"`
	City         string      `json:"City"`
	State        string      `json:"State"`
	Latitude     float64     `json:"Latitude"`
	Longitude    float64     `json:"Longitude"`
}

type golfNowFacilitiesResponse struct {
	Facilities []golfNowFacility `json:"Facilities"`
}

func (g *GolfNow) searchViaAPI(lat, lng float64, radiusMiles int, date string) ([]Course, error) {
	var params url.Values = url.Values{}
	params.Set("q", "geo-location")
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lng))
	params.Set("proximity", fmt.Sprintf("%d", radiusMiles))
	params.Set("date", date)
	params.Set("expand", "FacilityDetail.Ratesets")

	var searchURL string = fmt.Sprintf("%s/channel/%s/facilities?%s", g.APIBase, g.ChannelID, params.Encode())
	var req *http.Request
	var err error
	req, err = http.NewRequest("GET", searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("UserName", g.Username)
	req.Header.Set("Password", g.Password)
	req.Header.Set("Accept", "application/json")

	var resp *http.Response
	resp, err = g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body []byte
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var facilities []golfNowFacility
	var envelope golfNowFacilitiesResponse
	if err = json.Unmarshal(body, &envelope); err == nil && envelope.Facilities != nil {
		facilities = envelope.Facilities
	} else if err = json.Unmarshal(body, &facilities); err != nil {
		return nil, fmt.Errorf("unrecognized payload: %w", err)
	}

	var courses []Course
	for _, fac := range facilities {
		if fac.FacilityName == "" {
			continue
		}
		courses = append(courses, Course{
			Name:      fac.FacilityName,
			City:      fac.City,
			State:     fac.State,
			Lat:       fac.Latitude,
			Lng:       fac.Longitude,
			Platform:  "golfnow",
			GolfNowID: fac.FacilityID.String(),
			Holes:     18,
			Type:      "public",
		})
	}
	return courses, nil
}

func (g *GolfNow) searchViaWeb(lat, lng float64, radiusMiles int, date string) ([]Course, error) {
	var params url.Values = url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lng))
	params.Set("radius", fmt.Sprintf("%d", radiusMiles))
	params.Set("date", date)

	var searchURL string = g.WebBase + "/tee-times/search?" + params.Encode()
	var req *http.Request
	var err error
	req, err = http.NewRequest("GET", searchURL, nil)
	if err != nil {
		return nil, err
	}
	applyBrowserHeaders(req)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	var resp *http.Response
	resp, err = g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var courses []Course
	doc.Find(".course-card, [data-course-id], .facility-card").Each(func(i int, card *goquery.Selection) {
		var name string = strings.TrimSpace(card.Find(".course-name, .facility-name, h3, h2").First().Text())
		if name == "" {
			return
		}
		courses = append(courses, Course{
			Name:      name,
			Platform:  "golfnow",
			GolfNowID: card.AttrOr("data-course-id", ""),
			Holes:     18,
			Type:      "public",
		})
	})
	return courses, nil
}

// blocked detects the HTML challenge page the marketplace serves in
// place of JSON when a request trips bot protection.
func blocked(body []byte) bool {
	return len(body) > 0 && body[0] == '<'
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// firstNumber returns the first populated json.Number, or the default
// when all are absent. A populated but malformed value is an error so
// the slot can be dropped.
func firstNumber(def float64, nums ...json.Number) (float64, error) {
	for _, n := range nums {
		if n.String() != "" {
			return n.Float64()
		}
	}
	return def, nil
}

func mustFirstNumber(def float64, nums ...json.Number) float64 {
	v, err := firstNumber(def, nums...)
	if err != nil {
		return def
	}
	return v
}
