package main

import (
	"fmt"
	"os"

	"teetime-tracker/platforms"
	"teetime-tracker/storage"
)

// Catalog is the course database. It is read once per scan and only
// mutated through admin operations; when the document is missing or
// empty it is seeded from the built-in default list.
type Catalog struct {
	path string
}

func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

func (c *Catalog) Load() ([]platforms.Course, error) {
	var courses []platforms.Course
	err := storage.ReadJSON(c.path, &courses)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading courses: %w", err)
	}
	if len(courses) == 0 {
		courses = seedCourses()
		if err := c.Save(courses); err != nil {
			return nil, err
		}
	}
	return courses, nil
}

func (c *Catalog) Save(courses []platforms.Course) error {
	if err := storage.WriteJSON(c.path, courses); err != nil {
		return fmt.Errorf("saving courses: %w", err)
	}
	return nil
}

// Reset restores the built-in seed list.
func (c *Catalog) Reset() ([]platforms.Course, error) {
	courses := seedCourses()
	if err := c.Save(courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// seedCourses is the default NYC-area catalog. ForeUp ids are verified
// against the booking widget; the NYC Parks, Nassau and Westchester
// venues use county reservation systems with no adapter yet, so they
// stay in the catalog and are skipped by the scanner.
func seedCourses() []platforms.Course {
	return []platforms.Course{
		// Bethpage State Park: all five courses share one facility id,
		// the schedule id picks the tee sheet.
		{Name: "Bethpage State Park - Blue", City: "Farmingdale", State: "NY", Lat: 40.7448, Lng: -73.4540, Platform: "foreup", PlatformID: "19765", ScheduleID: "2431", Holes: 18, Type: "public", Par: 72, Rating: 4.3},
		{Name: "Bethpage State Park - Black", City: "Farmingdale", State: "NY", Lat: 40.7448, Lng: -73.4540, Platform: "foreup", PlatformID: "19765", ScheduleID: "2432", Holes: 18, Type: "public", Par: 71, Rating: 4.8},
		{Name: "Bethpage State Park - Red", City: "Farmingdale", State: "NY", Lat: 40.7448, Lng: -73.4540, Platform: "foreup", PlatformID: "19765", ScheduleID: "2433", Holes: 18, Type: "public", Par: 70, Rating: 4.5},
		{Name: "Bethpage State Park - Green", City: "Farmingdale", State: "NY", Lat: 40.7448, Lng: -73.4540, Platform: "foreup", PlatformID: "19765", ScheduleID: "2434", Holes: 18, Type: "public", Par: 71, Rating: 4.1},
		{Name: "Bethpage State Park - Yellow", City: "Farmingdale", State: "NY", Lat: 40.7448, Lng: -73.4540, Platform: "foreup", PlatformID: "19765", ScheduleID: "2435", Holes: 18, Type: "public", Par: 71, Rating: 4.0},
		{Name: "Montauk Downs Golf Course", City: "Montauk", State: "NY", Lat: 41.0290, Lng: -71.9270, Platform: "foreup", PlatformID: "19766", ScheduleID: "2437", Holes: 18, Type: "public", Par: 72, Rating: 4.2},

		// NYC Parks reservation system, no adapter yet.
		{Name: "Dyker Beach Golf Course", City: "Brooklyn", State: "NY", Lat: 40.6137, Lng: -74.0095, Platform: "nycparks", BookingURL: "https://www.nycgovparks.org/facility/golf/reservations", Holes: 18, Type: "public", Par: 72, Rating: 3.8},
		{Name: "Marine Park Golf Course", City: "Brooklyn", State: "NY", Lat: 40.5932, Lng: -73.9185, Platform: "nycparks", BookingURL: "https://www.nycgovparks.org/facility/golf/reservations", Holes: 18, Type: "public", Par: 72, Rating: 3.6},
		{Name: "Pelham Bay / Split Rock Golf Course", City: "Bronx", State: "NY", Lat: 40.8700, Lng: -73.8064, Platform: "nycparks", BookingURL: "https://www.nycgovparks.org/facility/golf/reservations", Holes: 18, Type: "public", Par: 71, Rating: 3.7},
		{Name: "Van Cortlandt Park Golf Course", City: "Bronx", State: "NY", Lat: 40.8932, Lng: -73.8886, Platform: "nycparks", BookingURL: "https://www.nycgovparks.org/facility/golf/reservations", Holes: 18, Type: "public", Par: 70, Rating: 3.5},
		{Name: "Kissena Golf Course", City: "Queens", State: "NY", Lat: 40.7500, Lng: -73.8100, Platform: "nycparks", BookingURL: "https://www.nycgovparks.org/facility/golf/reservations", Holes: 18, Type: "public", Par: 64, Rating: 3.4},
		{Name: "Clearview Park Golf Course", City: "Queens", State: "NY", Lat: 40.7758, Lng: -73.8025, Platform: "nycparks", BookingURL: "https://www.nycgovparks.org/facility/golf/reservations", Holes: 18, Type: "public", Par: 70, Rating: 3.6},
		{Name: "Forest Park Golf Course", City: "Queens", State: "NY", Lat: 40.7033, Lng: -73.8541, Platform: "nycparks", BookingURL: "https://www.nycgovparks.org/facility/golf/reservations", Holes: 9, Type: "public", Par: 35, Rating: 3.3},
		{Name: "Silver Lake Golf Course", City: "Staten Island", State: "NY", Lat: 40.6350, Lng: -74.0950, Platform: "nycparks", BookingURL: "https://www.nycgovparks.org/facility/golf/reservations", Holes: 18, Type: "public", Par: 69, Rating: 3.5},
		{Name: "La Tourette Golf Course", City: "Staten Island", State: "NY", Lat: 40.5800, Lng: -74.1500, Platform: "nycparks", BookingURL: "https://www.nycgovparks.org/facility/golf/reservations", Holes: 18, Type: "public", Par: 72, Rating: 3.9},

		// Nassau County system, no adapter yet.
		{Name: "Eisenhower Park Golf - Red", City: "East Meadow", State: "NY", Lat: 40.7290, Lng: -73.5530, Platform: "nassau_golf", BookingURL: "https://golf.nassaucountyny.gov", Holes: 18, Type: "public", Par: 72, Rating: 3.9},
		{Name: "Eisenhower Park Golf - White", City: "East Meadow", State: "NY", Lat: 40.7290, Lng: -73.5530, Platform: "nassau_golf", BookingURL: "https://golf.nassaucountyny.gov", Holes: 18, Type: "public", Par: 72, Rating: 3.7},
		{Name: "Eisenhower Park Golf - Blue", City: "East Meadow", State: "NY", Lat: 40.7290, Lng: -73.5530, Platform: "nassau_golf", BookingURL: "https://golf.nassaucountyny.gov", Holes: 18, Type: "public", Par: 72, Rating: 3.6},

		// Westchester County E-Z Reserve, no adapter yet.
		{Name: "Maple Moor Golf Course", City: "White Plains", State: "NY", Lat: 41.0620, Lng: -73.7830, Platform: "westchester_golf", BookingURL: "https://golf.westchestergov.com", Holes: 18, Type: "public", Par: 71, Rating: 3.8},
		{Name: "Dunwoodie Golf Course", City: "Yonkers", State: "NY", Lat: 40.9420, Lng: -73.8670, Platform: "westchester_golf", BookingURL: "https://golf.westchestergov.com", Holes: 18, Type: "public", Par: 70, Rating: 3.6},
		{Name: "Sprain Lake Golf Course", City: "Yonkers", State: "NY", Lat: 40.9890, Lng: -73.8350, Platform: "westchester_golf", BookingURL: "https://golf.westchestergov.com", Holes: 18, Type: "public", Par: 70, Rating: 3.7},
		{Name: "Saxon Woods Golf Course", City: "Scarsdale", State: "NY", Lat: 40.9870, Lng: -73.7940, Platform: "westchester_golf", BookingURL: "https://golf.westchestergov.com", Holes: 18, Type: "public", Par: 71, Rating: 3.9},
		{Name: "Mohansic Golf Course", City: "Yorktown Heights", State: "NY", Lat: 41.2650, Lng: -73.7920, Platform: "westchester_golf", BookingURL: "https://golf.westchestergov.com", Holes: 18, Type: "public", Par: 70, Rating: 3.8},
		{Name: "Hudson Hills Golf Course", City: "Ossining", State: "NY", Lat: 41.1600, Lng: -73.8580, Platform: "westchester_golf", BookingURL: "https://golf.westchestergov.com", Holes: 18, Type: "public", Par: 72, Rating: 4.1},

		// GolfNow-listed NJ/CT courses.
		{Name: "Skyway Golf Course", City: "Jersey City", State: "NJ", Lat: 40.7360, Lng: -74.0690, Platform: "golfnow", GolfNowID: "4508", Holes: 18, Type: "public", Par: 71, Rating: 3.7},
		{Name: "Galloping Hill Golf Course", City: "Kenilworth", State: "NJ", Lat: 40.6810, Lng: -74.2890, Platform: "golfnow", GolfNowID: "4523", Holes: 27, Type: "public", Par: 72, Rating: 4.1},
		{Name: "Crystal Springs Golf Club", City: "Hamburg", State: "NJ", Lat: 41.1540, Lng: -74.5750, Platform: "golfnow", GolfNowID: "4521", Holes: 18, Type: "resort", Par: 72, Rating: 4.5},
		{Name: "Ballyowen Golf Club", City: "Hamburg", State: "NJ", Lat: 41.1380, Lng: -74.5680, Platform: "golfnow", GolfNowID: "4522", Holes: 18, Type: "resort", Par: 72, Rating: 4.6},
		{Name: "Richter Park Golf Course", City: "Danbury", State: "CT", Lat: 41.3920, Lng: -73.4540, Platform: "golfnow", GolfNowID: "11042", Holes: 18, Type: "public", Par: 72, Rating: 4.4},

		// GolfNow-listed Long Island courses.
		{Name: "Harbor Links Golf Course", City: "Port Washington", State: "NY", Lat: 40.8310, Lng: -73.6920, Platform: "golfnow", GolfNowID: "8912", Holes: 18, Type: "public", Par: 72, Rating: 4.2},
		{Name: "Lido Golf Club", City: "Lido Beach", State: "NY", Lat: 40.5880, Lng: -73.6210, Platform: "golfnow", GolfNowID: "8913", Holes: 18, Type: "public", Par: 72, Rating: 4.0},
	}
}
