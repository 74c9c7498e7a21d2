package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"teetime-tracker/history"
	"teetime-tracker/platforms"
)

func main() {
	cfg := loadConfig()

	catalog := NewCatalog(cfg.coursesPath())
	hist := history.New(cfg.historyPath())

	golfnow := platforms.NewGolfNow()
	golfnow.Username = cfg.GolfNowUsername
	golfnow.Password = cfg.GolfNowPassword
	golfnow.ChannelID = cfg.GolfNowChannelID

	registry := platforms.NewRegistryWith(map[string]platforms.Adapter{
		"foreup":  platforms.NewForeUp(),
		"golfnow": golfnow,
	})

	scanner := NewScanner(catalog, registry, hist, cfg.resultPath(), cfg.ScanWorkers)
	server := NewServer(cfg, catalog, hist, scanner)

	r := newRouter(server)

	go runScheduler(scanner, cfg.ScanIntervalMinutes)

	// First scan on startup so the snapshot exists before the first
	// scheduled firing.
	go func() {
		if _, err := scanner.Run(""); err != nil {
			log.Printf("[scan] startup scan: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("tee time tracker listening on %s (scan every %d min)", addr, cfg.ScanIntervalMinutes)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func newRouter(server *Server) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Admin-Password"},
		MaxAge:         300,
	}))

	r.Get("/api/tee-times", server.handleTeeTimes)
	r.Get("/api/courses", server.handleCourses)
	r.Get("/api/price-history/{course}", server.handlePriceHistory)
	r.Get("/api/price-alerts", server.handlePriceAlerts)
	r.Get("/api/status", server.handleStatus)
	r.Post("/api/scan", server.handleScan)
	r.Post("/api/courses/reset", server.handleResetCourses)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return r
}

// runScheduler fires a full scan for tomorrow on a fixed interval. A
// firing that overlaps a slow prior scan is refused by the scanner's
// in-flight guard rather than queued.
func runScheduler(scanner *Scanner, intervalMinutes int) {
	ticker := time.NewTicker(time.Duration(intervalMinutes) * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := scanner.Run(""); err != nil {
			if err == errScanInProgress {
				log.Printf("[scan] previous scan still running, skipping interval")
				continue
			}
			log.Printf("[scan] scheduled scan: %v", err)
		}
	}
}
