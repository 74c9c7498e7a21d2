package platforms

import "time"

const PlatformTimeout = 15 * time.Second

// Course identifies one venue in the catalog. The id fields are
// platform-specific: ForeUp courses carry a facility id plus a
// schedule id (one tee sheet per schedule), GolfNow courses carry a
// single facility id. A course whose platform has no adapter stays in
// the catalog and is skipped by the scanner.
type Course struct {
	Name       string  `json:"name"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Platform   string  `json:"platform"`
	PlatformID string  `json:"platform_id,omitempty"`
	ScheduleID string  `json:"schedule_id,omitempty"`
	GolfNowID  string  `json:"golfnow_id,omitempty"`
	BookingURL string  `json:"booking_url,omitempty"`
	Holes      int     `json:"holes"`
	Type       string  `json:"type"`
	Par        int     `json:"par"`
	Rating     float64 `json:"rating"`
}

// TeeTime is one bookable slot normalized to the shape every adapter
// must produce. When a source only reports an aggregate total the fee
// components default to zero and TotalPerPlayer carries the total;
// otherwise TotalPerPlayer is always GreenFee + CartFee. The Course*
// fields are filled in by the scanner after a fetch, never by the
// adapters themselves.
type TeeTime struct {
	Time             string  `json:"time"`
	DateTime         string  `json:"datetime"`
	Holes            int     `json:"holes"`
	PlayersAvailable int     `json:"players_available"`
	GreenFee         float64 `json:"green_fee"`
	CartFee          float64 `json:"cart_fee"`
	TotalPerPlayer   float64 `json:"total_per_player"`
	RateType         string  `json:"rate_type"`
	HasSpecial       bool    `json:"has_special"`
	SpecialDiscount  float64 `json:"special_discount"`
	Source           string  `json:"source"`
	BookingURL       string  `json:"booking_url"`

	CourseName   string  `json:"course_name,omitempty"`
	CourseCity   string  `json:"course_city,omitempty"`
	CourseState  string  `json:"course_state,omitempty"`
	CourseType   string  `json:"course_type,omitempty"`
	CourseRating float64 `json:"course_rating,omitempty"`
	CoursePar    int     `json:"course_par,omitempty"`
	CourseHoles  int     `json:"course_holes,omitempty"`
	Lat          float64 `json:"lat,omitempty"`
	Lng          float64 `json:"lng,omitempty"`
}

// Decorate copies the course's static metadata onto the slot.
func (t *TeeTime) Decorate(c Course) {
	t.CourseName = c.Name
	t.CourseCity = c.City
	t.CourseState = c.State
	t.CourseType = c.Type
	t.CourseRating = c.Rating
	t.CoursePar = c.Par
	t.CourseHoles = c.Holes
	t.Lat = c.Lat
	t.Lng = c.Lng
}

// Adapter turns a course and a target date (YYYY-MM-DD) into zero or
// more tee times. A (nil, nil) return means the platform answered and
// nothing is bookable; a non-nil error means availability could not be
// determined. Adapters never panic past this boundary.
type Adapter interface {
	Fetch(course Course, date string, players int, holes int) ([]TeeTime, error)
}

// Registry holds the adapter instance for each supported platform tag.
// Tags without an adapter are a legal steady state, not an error: the
// scanner skips those courses silently.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Adapter{
		"foreup":  NewForeUp(),
		"golfnow": NewGolfNow(),
	}}
}

// NewRegistryWith builds a registry from explicit adapter instances.
func NewRegistryWith(adapters map[string]Adapter) *Registry {
	return &Registry{adapters: adapters}
}

func (r *Registry) AdapterFor(platform string) (Adapter, bool) {
	a, ok := r.adapters[platform]
	return a, ok
}
