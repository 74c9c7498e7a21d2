package main

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port                int
	DataDir             string
	ScanIntervalMinutes int
	ScanWorkers         int
	AdminPassword       string

	DefaultLat         float64
	DefaultLng         float64
	DefaultRadiusMiles int

	GolfNowUsername  string
	GolfNowPassword  string
	GolfNowChannelID string
}

func loadConfig() Config {
	return Config{
		Port:                envInt("PORT", 8080),
		DataDir:             envStr("DATA_DIR", "data"),
		ScanIntervalMinutes: envInt("SCAN_INTERVAL", 30),
		ScanWorkers:         envInt("SCAN_WORKERS", 15),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		DefaultLat:          envFloat("DEFAULT_LAT", 40.7128),
		DefaultLng:          envFloat("DEFAULT_LNG", -74.0060),
		DefaultRadiusMiles:  envInt("DEFAULT_RADIUS", 30),
		GolfNowUsername:     os.Getenv("GOLFNOW_API_USERNAME"),
		GolfNowPassword:     os.Getenv("GOLFNOW_API_PASSWORD"),
		GolfNowChannelID:    os.Getenv("GOLFNOW_CHANNEL_ID"),
	}
}

func (c Config) coursesPath() string {
	return filepath.Join(c.DataDir, "courses.json")
}

func (c Config) historyPath() string {
	return filepath.Join(c.DataDir, "price_history.json")
}

func (c Config) resultPath() string {
	return filepath.Join(c.DataDir, "tee_time_data.json")
}

func envStr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(name string, def float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
