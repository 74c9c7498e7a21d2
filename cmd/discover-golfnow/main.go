// Command discover-golfnow searches the GolfNow marketplace for
// facilities near a coordinate and prints catalog-ready course entries
// as JSON. It is a discovery tool for finding unlisted courses, not
// part of the scan path.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"teetime-tracker/platforms"
)

func main() {
	lat := flag.Float64("lat", 40.7128, "search latitude")
	lng := flag.Float64("lng", -74.0060, "search longitude")
	radius := flag.Int("radius", 30, "search radius in miles")
	date := flag.String("date", "", "target date YYYY-MM-DD (default tomorrow)")
	flag.Parse()

	if *date == "" {
		*date = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	}

	golfnow := platforms.NewGolfNow()
	golfnow.Username = os.Getenv("GOLFNOW_API_USERNAME")
	golfnow.Password = os.Getenv("GOLFNOW_API_PASSWORD")
	golfnow.ChannelID = os.Getenv("GOLFNOW_CHANNEL_ID")

	courses, err := golfnow.SearchNearby(*lat, *lng, *radius, *date)
	if err != nil {
		fmt.Fprintln(os.Stderr, "search failed:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "found %d facilities within %d miles of %.4f,%.4f\n", len(courses), *radius, *lat, *lng)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(courses)
}
