// Package api exposes the session/shot JSON API and the debug chart
// endpoints. It owns no analysis state: every posted shot runs through
// a fresh engine instance and the result is handed to storage.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/lanetrax/shotmetrics/internal/color"
	"github.com/lanetrax/shotmetrics/internal/config"
	"github.com/lanetrax/shotmetrics/internal/engine"
	"github.com/lanetrax/shotmetrics/internal/monitoring"
	"github.com/lanetrax/shotmetrics/internal/session"
	"github.com/lanetrax/shotmetrics/internal/shotdb"
	"github.com/lanetrax/shotmetrics/internal/track"
	"github.com/lanetrax/shotmetrics/internal/units"
	"github.com/lanetrax/shotmetrics/internal/version"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db     *shotdb.ShotDB
	tuning *config.TuningConfig
	units  string
}

func NewServer(db *shotdb.ShotDB, tuning *config.TuningConfig, speedUnits string) *Server {
	return &Server{
		db:     db,
		tuning: tuning,
		units:  speedUnits,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/session_stats", s.showSessionStats)
	mux.HandleFunc("/api/shots", s.handleShots)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/api/ball_match", s.matchBallColor)
	mux.HandleFunc("/debug/shot-chart", s.showShotChart)
	mux.HandleFunc("/debug/speed-chart", s.showSpeedChart)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		s.listSessions(w)
	case http.MethodPost:
		s.createSession(w, r)
	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listSessions(w http.ResponseWriter) {
	sessions, err := s.db.Sessions()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve sessions: %v", err))
		return
	}
	if sessions == nil {
		sessions = []shotdb.Session{}
	}
	json.NewEncoder(w).Encode(sessions)
}

type createSessionRequest struct {
	Lane   int    `json:"lane"`
	Bowler string `json:"bowler"`
	Notes  string `json:"notes"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid session body")
		return
	}

	sess, err := s.db.CreateSession(req.Lane, req.Bowler, req.Notes)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to create session: %v", err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sess)
}

func (s *Server) handleShots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		s.listShots(w, r)
	case http.MethodPost:
		s.ingestShot(w, r)
	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listShots(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'session_id' parameter")
		return
	}

	shots, err := s.db.Shots(sessionID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve shots: %v", err))
		return
	}
	if shots == nil {
		shots = []shotdb.Shot{}
	}

	for i := range shots {
		shots[i].LaunchSpeedMPH = units.ConvertSpeed(shots[i].LaunchSpeedMPH, s.units)
		shots[i].ImpactSpeedMPH = units.ConvertSpeed(shots[i].ImpactSpeedMPH, s.units)
		// the raw trajectory is heavy; list responses skip it
		shots[i].SamplesJSON = ""
	}
	json.NewEncoder(w).Encode(shots)
}

type ingestShotRequest struct {
	SessionID  string                   `json:"session_id"`
	Samples    []track.Sample           `json:"samples"`
	Visibility []track.VisibilitySample `json:"visibility"`
}

// ingestShot runs a complete posted shot through a fresh engine
// instance, stores the record, and returns the full result.
func (s *Server) ingestShot(w http.ResponseWriter, r *http.Request) {
	var req ingestShotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid shot body")
		return
	}
	if req.SessionID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'session_id' field")
		return
	}

	if _, err := s.db.SessionByID(req.SessionID); err != nil {
		s.writeJSONError(w, http.StatusNotFound,
			fmt.Sprintf("Unknown session %s", req.SessionID))
		return
	}

	tracker := engine.NewShotTracker(engine.ConfigFromTuning(s.tuning))
	for _, sample := range req.Samples {
		tracker.ObserveSample(sample)
	}
	for _, v := range req.Visibility {
		tracker.ObserveMarker(v)
	}
	result := tracker.Finish()

	shot, err := shotdb.ShotFromResult(req.SessionID, result, req.Samples, time.Now())
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to encode shot: %v", err))
		return
	}
	if err := s.db.RecordShot(shot); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to store shot: %v", err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

type sessionStatsResponse struct {
	Rollup shotdb.SessionRollup `json:"rollup"`
	Stats  session.Stats        `json:"stats"`
}

func (s *Server) showSessionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'session_id' parameter")
		return
	}

	rollup, err := s.db.Rollup(sessionID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to roll up session: %v", err))
		return
	}

	shots, err := s.db.Shots(sessionID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve shots: %v", err))
		return
	}

	metrics := make([]session.ShotMetrics, 0, len(shots))
	for _, shot := range shots {
		if !shot.Sufficient {
			continue
		}
		metrics = append(metrics, session.ShotMetrics{
			LaunchSpeedMPH:    units.ConvertSpeed(shot.LaunchSpeedMPH, s.units),
			ImpactSpeedMPH:    units.ConvertSpeed(shot.ImpactSpeedMPH, s.units),
			EntryAngleDegrees: shot.EntryAngleDegrees,
			RevRateRPM:        float64(shot.RevRateRPM),
			StrikeProbability: shot.StrikeProbability,
		})
	}

	resp := sessionStatsResponse{
		Rollup: rollup,
		Stats:  session.Compute(metrics),
	}
	resp.Rollup.AvgLaunchSpeedMPH = units.ConvertSpeed(resp.Rollup.AvgLaunchSpeedMPH, s.units)
	resp.Rollup.MaxLaunchSpeedMPH = units.ConvertSpeed(resp.Rollup.MaxLaunchSpeedMPH, s.units)

	json.NewEncoder(w).Encode(resp)
}

type ballMatchRequest struct {
	Color  color.RGB `json:"color"`
	Target color.RGB `json:"target"`
}

type ballMatchResponse struct {
	ColorHSV  color.HSV       `json:"color_hsv"`
	TargetHSV color.HSV       `json:"target_hsv"`
	Tolerance color.Tolerance `json:"tolerance"`
	Match     bool            `json:"match"`
}

// matchBallColor is a calibration helper: it converts both colours to
// HSV and applies the tuned ball tolerance, so the capture side can
// verify a picked target before a session starts.
func (s *Server) matchBallColor(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ballMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid colour body")
		return
	}

	tol := color.ToleranceFromTuning(s.tuning)
	resp := ballMatchResponse{
		ColorHSV:  color.RGBToHSV(req.Color),
		TargetHSV: color.RGBToHSV(req.Target),
		Tolerance: tol,
	}
	resp.Match = color.Matches(resp.ColorHSV, resp.TargetHSV, tol)

	json.NewEncoder(w).Encode(resp)
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	cfg := map[string]interface{}{
		"version":                version.Version,
		"units":                  s.units,
		"sample_rate":            s.tuning.GetSampleRate(),
		"buffer_capacity":        s.tuning.GetBufferCapacity(),
		"right_handed":           s.tuning.GetRightHanded(),
		"pocket_board":           s.tuning.GetPocketBoard(),
		"min_trajectory_samples": s.tuning.GetMinTrajectorySamples(),
	}

	if err := json.NewEncoder(w).Encode(cfg); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write config")
		return
	}
}
