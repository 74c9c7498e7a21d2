package main

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"teetime-tracker/history"
	"teetime-tracker/platforms"
	"teetime-tracker/storage"
)

// Server holds the serving layer's collaborators. It only ever reads
// the scan result document; the scanner is the single writer.
type Server struct {
	cfg     Config
	catalog *Catalog
	history *history.Store
	scanner *Scanner
}

func NewServer(cfg Config, catalog *Catalog, hist *history.Store, scanner *Scanner) *Server {
	return &Server{cfg: cfg, catalog: catalog, history: hist, scanner: scanner}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) loadResult() ScanResult {
	var result ScanResult
	err := storage.ReadJSON(s.cfg.resultPath(), &result)
	if err != nil && !os.IsNotExist(err) {
		log.Printf("[api] reading scan result: %v", err)
	}
	return result
}

// handleTeeTimes serves the latest snapshot, optionally filtered by
// max price, course-name substring, and date substring.
func (s *Server) handleTeeTimes(w http.ResponseWriter, r *http.Request) {
	result := s.loadResult()

	q := r.URL.Query()
	maxPrice, _ := strconv.ParseFloat(q.Get("max_price"), 64)
	course := strings.ToLower(q.Get("course"))
	date := q.Get("date")

	if maxPrice > 0 || course != "" || date != "" {
		filtered := make([]platforms.TeeTime, 0, len(result.TeeTimes))
		for _, tt := range result.TeeTimes {
			if maxPrice > 0 && tt.TotalPerPlayer > maxPrice {
				continue
			}
			if course != "" && !strings.Contains(strings.ToLower(tt.CourseName), course) {
				continue
			}
			if date != "" && !strings.Contains(tt.DateTime, date) {
				continue
			}
			filtered = append(filtered, tt)
		}
		result.TeeTimes = filtered
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.catalog.Load()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": courses, "count": len(courses)})
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	course := chi.URLParam(r, "course")
	if unescaped, err := url.PathUnescape(course); err == nil {
		course = unescaped
	}

	trends, err := s.history.Trends(course, r.URL.Query().Get("date"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (s *Server) handlePriceAlerts(w http.ResponseWriter, r *http.Request) {
	result := s.loadResult()
	alerts := result.PriceAlerts
	if alerts == nil {
		alerts = []PriceAlert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	result := s.loadResult()
	courses, _ := s.catalog.Load()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "ok",
		"lastUpdated":         result.LastUpdated,
		"totalCourses":        len(courses),
		"totalTimes":          result.TotalTimes,
		"scanInProgress":      s.scanner.Running(),
		"scanIntervalMinutes": s.cfg.ScanIntervalMinutes,
	})
}

// handleScan triggers a manual scan in the background and acknowledges
// immediately. Admin only.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var payload struct {
		Date string `json:"date"`
	}
	json.NewDecoder(r.Body).Decode(&payload)

	if s.scanner.Running() {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "scan_in_progress"})
		return
	}

	go func(date string) {
		if _, err := s.scanner.Run(date); err != nil {
			log.Printf("[scan] manual scan failed: %v", err)
		}
	}(payload.Date)

	courses, _ := s.catalog.Load()
	writeJSON(w, http.StatusOK, map[string]any{"status": "scan_started", "courses": len(courses)})
}

// handleResetCourses restores the built-in seed catalog. Admin only.
func (s *Server) handleResetCourses(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	courses, err := s.catalog.Reset()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset", "count": len(courses)})
}

func (s *Server) isAdmin(r *http.Request) bool {
	if s.cfg.AdminPassword == "" {
		return false
	}
	supplied := r.Header.Get("X-Admin-Password")
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(s.cfg.AdminPassword)) == 1
}
