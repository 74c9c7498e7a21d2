package platforms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ForeUp fetches tee times from ForeUp booking engines. The booking
// widget drives an XHR endpoint; we call it directly and fall back to
// scraping the booking page when the endpoint fails or yields nothing
// usable.
type ForeUp struct {
	BaseURL string
	client  *http.Client
}

func NewForeUp() *ForeUp {
	return &ForeUp{
		BaseURL: "https://foreupsoftware.com",
		client:  &http.Client{Timeout: PlatformTimeout},
	}
}

type foreUpSlot struct {
	Time            string      `json:"time"`
	AvailableSpots  json.Number `json:"available_spots"`
	Available       json.Number `json:"available"`
	GreenFee        json.Number `json:"green_fee"`
	CartFee         json.Number `json:"cart_fee"`
	Holes           json.Number `json:"holes"`
	TeeSheetHoles   json.Number `json:"teesheet_holes"`
	RateType        string      `json:"rate_type"`
	HasSpecial      bool        `json:"has_special"`
	SpecialDiscount json.Number `json:"special_discount_percentage"`
}

type foreUpWrapper struct {
	Times []json.RawMessage `json:"times"`
	Slots []json.RawMessage `json:"slots"`
}

// Fetch tries the booking API first, then the booking page HTML. A
// course missing either id is skipped before any network call. The
// API's "not open for booking" sentinel is a defined empty result and
// does not trigger the HTML fallback.
func (f *ForeUp) Fetch(course Course, date string, players int, holes int) ([]TeeTime, error) {
	if course.PlatformID == "" || course.ScheduleID == "" {
		return nil, nil
	}

	slots, closed, err := f.fetchAPI(course, date, players, holes)
	if closed {
		return nil, nil
	}
	if err != nil {
		log.Printf("[foreup] %s: api fetch failed: %v", course.Name, err)
	} else if len(slots) > 0 {
		return slots, nil
	}

	return f.fetchHTML(course, date, players, holes)
}

func (f *ForeUp) bookingURL(course Course, date string) string {
	return fmt.Sprintf("%s/index.php/booking/%s/%s#date=%s", f.BaseURL, course.PlatformID, course.ScheduleID, date)
}

func (f *ForeUp) fetchAPI(course Course, date string, players int, holes int) ([]TeeTime, bool, error) {
	var params url.Values = url.Values{}
	params.Set("course_id", course.PlatformID)
	params.Set("date", date)
	params.Set("time", "all")
	params.Set("holes", fmt.Sprintf("%d", holes))
	params.Set("players", fmt.Sprintf("%d", players))
	params.Set("booking_class", "")
	params.Set("schedule_id", course.ScheduleID)
	params.Set("specials_only", "0")
	params.Set("api_key", "no_limits")

	var apiURL string = f.BaseURL + "/index.php/api/booking/times?" + params.Encode()

	var req *http.Request
	var err error
	req, err = http.NewRequest("GET", apiURL, nil)
	if err != nil {
		return nil, false, err
	}
	applyBrowserHeaders(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", f.BaseURL+"/index.php/booking/"+course.PlatformID)

	var resp *http.Response
	resp, err = f.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body []byte
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}

	// A schedule not yet open for booking answers with a bare false or
	// null body instead of a slot list.
	var trimmed []byte = bytes.TrimSpace(body)
	if bytes.Equal(trimmed, []byte("false")) || bytes.Equal(trimmed, []byte("null")) {
		return nil, true, nil
	}

	var raws []json.RawMessage
	raws, err = splitForeUpSlots(trimmed)
	if err != nil {
		return nil, false, err
	}

	return f.parseAPISlots(raws, course, date), false, nil
}

// splitForeUpSlots handles the two response envelopes seen in the
// wild: a bare array of slot objects, or an object wrapping the array
// under "times" or "slots".
func splitForeUpSlots(body []byte) ([]json.RawMessage, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err == nil {
		return raws, nil
	}

	var wrapper foreUpWrapper
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("unrecognized payload: %w", err)
	}
	if wrapper.Times != nil {
		return wrapper.Times, nil
	}
	return wrapper.Slots, nil
}

func (f *ForeUp) parseAPISlots(raws []json.RawMessage, course Course, date string) []TeeTime {
	var results []TeeTime
	for _, raw := range raws {
		var slot foreUpSlot
		if err := json.Unmarshal(raw, &slot); err != nil {
			continue
		}

		clock, ok := normalizeClock(slot.Time)
		if !ok {
			continue
		}

		greenFee, err := numberOr(slot.GreenFee, 0)
		if err != nil {
			continue
		}
		cartFee, err := numberOr(slot.CartFee, 0)
		if err != nil {
			continue
		}

		available := intOr(slot.AvailableSpots, intOr(slot.Available, 4))
		slotHoles := intOr(slot.Holes, intOr(slot.TeeSheetHoles, 18))

		rateType := slot.RateType
		if rateType == "" {
			rateType = "standard"
		}
		discount, _ := numberOr(slot.SpecialDiscount, 0)

		results = append(results, TeeTime{
			Time:             clock,
			DateTime:         slotDateTime(date, clock),
			Holes:            slotHoles,
			PlayersAvailable: available,
			GreenFee:         greenFee,
			CartFee:          cartFee,
			TotalPerPlayer:   greenFee + cartFee,
			RateType:         rateType,
			HasSpecial:       slot.HasSpecial,
			SpecialDiscount:  discount,
			Source:           "foreup",
			BookingURL:       f.bookingURL(course, date),
		})
	}
	return results
}

var pricere = regexp.MustCompile(`\$?(\d+(?:\.\d+)?)`)

// fetchHTML scrapes the booking page for time/price pairs. The page
// only shows an aggregate price, so the total carries it and the fee
// components stay zero.
func (f *ForeUp) fetchHTML(course Course, date string, players int, holes int) ([]TeeTime, error) {
	var pageURL string = f.bookingURL(course, date)

	var req *http.Request
	var err error
	req, err = http.NewRequest("GET", pageURL, nil)
	if err != nil {
		return nil, err
	}
	applyBrowserHeaders(req)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	var resp *http.Response
	resp, err = f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("booking page: status %d", resp.StatusCode)
	}

	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("booking page: %w", err)
	}

	var results []TeeTime
	doc.Find(".time-slot, .tee-time, [data-time], .booking-time").Each(func(i int, sel *goquery.Selection) {
		var timeStr string = sel.AttrOr("data-time", "")
		if timeStr == "" {
			timeStr = strings.TrimSpace(sel.Find(".time").First().Text())
		}
		clock, ok := normalizeClock(timeStr)
		if !ok {
			return
		}

		var price float64
		var priceSel *goquery.Selection = sel.Find(".price, .green-fee, [data-price]").First()
		if priceSel.Length() > 0 {
			var priceText string = priceSel.AttrOr("data-price", "")
			if priceText == "" {
				priceText = strings.TrimSpace(priceSel.Text())
			}
			if m := pricere.FindStringSubmatch(priceText); m != nil {
				fmt.Sscanf(m[1], "%f", &price)
			}
		}

		results = append(results, TeeTime{
			Time:             clock,
			DateTime:         slotDateTime(date, clock),
			Holes:            holes,
			PlayersAvailable: players,
			GreenFee:         price,
			CartFee:          0,
			TotalPerPlayer:   price,
			RateType:         "standard",
			Source:           "foreup_html",
			BookingURL:       pageURL,
		})
	})

	return results, nil
}

// numberOr converts a json.Number, treating an absent value as the
// default and a malformed one as an error so the slot can be dropped.
func numberOr(n json.Number, def float64) (float64, error) {
	if n.String() == "" {
		return def, nil
	}
	return n.Float64()
}

func intOr(n json.Number, def int) int {
	if n.String() == "" {
		return def
	}
	v, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return def
		}
		return int(f)
	}
	return int(v)
}
