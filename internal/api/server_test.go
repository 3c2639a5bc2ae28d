package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanetrax/shotmetrics/internal/color"
	"github.com/lanetrax/shotmetrics/internal/config"
	"github.com/lanetrax/shotmetrics/internal/engine"
	"github.com/lanetrax/shotmetrics/internal/shotdb"
	"github.com/lanetrax/shotmetrics/internal/track"
	"github.com/lanetrax/shotmetrics/internal/units"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := shotdb.NewShotDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewServer(db, config.EmptyTuningConfig(), units.MPH)
}

func createTestSession(t *testing.T, s *Server) shotdb.Session {
	t.Helper()

	body, _ := json.Marshal(createSessionRequest{Lane: 9, Bowler: "drew"})
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sess shotdb.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	return sess
}

// hookShotRequest builds a full posted shot: 30 positioned frames and
// a marker stream with two rotations.
func hookShotRequest(sessionID string) ingestShotRequest {
	req := ingestShotRequest{SessionID: sessionID}
	for i := 0; i < 30; i++ {
		board := 10 + 0.5*float64(i)
		if i > 15 {
			board = 17.5 - 0.05*float64(i-15)
		}
		req.Samples = append(req.Samples, track.Sample{
			FrameIndex: int64(i),
			Detected:   true,
			Lane:       &track.LanePosition{Board: board, DistanceFeet: 2 * float64(i)},
		})
		req.Visibility = append(req.Visibility, track.VisibilitySample{
			FrameIndex: int64(i),
			Visible:    i%15 >= 7,
		})
	}
	return req
}

func postShot(t *testing.T, s *Server, sessionID string) engine.ShotResult {
	t.Helper()

	body, _ := json.Marshal(hookShotRequest(sessionID))
	req := httptest.NewRequest(http.MethodPost, "/api/shots", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result engine.ShotResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestCreateAndListSessions(t *testing.T) {
	s := newTestServer(t)

	sess := createTestSession(t, s)
	assert.Contains(t, sess.ID, "sess_")
	assert.Equal(t, 9, sess.Lane)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var sessions []shotdb.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "drew", sessions[0].Bowler)
}

func TestIngestShot(t *testing.T) {
	s := newTestServer(t)
	sess := createTestSession(t, s)

	result := postShot(t, s, sess.ID)

	assert.Contains(t, result.ShotID, "shot_")
	assert.True(t, result.Trajectory.Sufficient)
	assert.True(t, result.Trajectory.BreakpointFound)
	assert.True(t, result.RevRate.Sufficient)
	assert.NotEmpty(t, result.Strike.Suggestion)

	// The stored record matches the returned result.
	req := httptest.NewRequest(http.MethodGet, "/api/shots?session_id="+sess.ID, nil)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var shots []shotdb.Shot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shots))
	require.Len(t, shots, 1)
	assert.Equal(t, result.ShotID, shots[0].ID)
	assert.InDelta(t, result.Trajectory.LaunchSpeedMPH, shots[0].LaunchSpeedMPH, 1e-9)
	assert.Empty(t, shots[0].SamplesJSON)
}

func TestIngestShotUnknownSession(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(hookShotRequest("sess_missing"))
	req := httptest.NewRequest(http.MethodPost, "/api/shots", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIngestShotMissingSessionID(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(ingestShotRequest{})
	req := httptest.NewRequest(http.MethodPost, "/api/shots", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListShotsRequiresSessionID(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/shots", nil)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionStats(t *testing.T) {
	s := newTestServer(t)
	sess := createTestSession(t, s)

	for i := 0; i < 3; i++ {
		postShot(t, s, sess.ID)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/session_stats?session_id="+sess.ID, nil)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 3, resp.Rollup.ShotCount)
	assert.Equal(t, 3, resp.Stats.Shots)
	// Identical shots: zero spread, mean equals max.
	assert.Zero(t, resp.Stats.LaunchSpeed.StdDev)
	assert.InDelta(t, resp.Rollup.MaxLaunchSpeedMPH, resp.Stats.LaunchSpeed.Mean, 1e-9)
}

func TestShowConfig(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "dev", cfg["version"])
	assert.Equal(t, "mph", cfg["units"])
	assert.Equal(t, 120.0, cfg["sample_rate"])
	assert.Equal(t, true, cfg["right_handed"])
}

func TestBallMatch(t *testing.T) {
	s := newTestServer(t)

	post := func(t *testing.T, reqBody ballMatchRequest) ballMatchResponse {
		t.Helper()
		body, err := json.Marshal(reqBody)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/ball_match", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		s.ServeMux().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp ballMatchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	red := color.RGB{R: 255}
	offRed := color.RGB{R: 250, G: 10, B: 10}
	green := color.RGB{G: 255}

	resp := post(t, ballMatchRequest{Color: offRed, Target: red})
	assert.True(t, resp.Match)
	assert.Equal(t, color.DefaultBallTolerance(), resp.Tolerance)
	assert.Equal(t, 100.0, resp.TargetHSV.S)

	resp = post(t, ballMatchRequest{Color: green, Target: red})
	assert.False(t, resp.Match)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/sessions", "/api/shots", "/api/config", "/api/session_stats", "/api/ball_match"} {
		req := httptest.NewRequest(http.MethodDelete, path, nil)
		rec := httptest.NewRecorder()
		s.ServeMux().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestSpeedUnitConversion(t *testing.T) {
	db, err := shotdb.NewShotDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mph := NewServer(db, config.EmptyTuningConfig(), units.MPH)
	kph := NewServer(db, config.EmptyTuningConfig(), units.KPH)

	sess := createTestSession(t, mph)
	result := postShot(t, mph, sess.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/shots?session_id="+sess.ID, nil)
	rec := httptest.NewRecorder()
	kph.ServeMux().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var shots []shotdb.Shot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shots))
	require.Len(t, shots, 1)
	assert.InDelta(t, result.Trajectory.LaunchSpeedMPH*1.609344, shots[0].LaunchSpeedMPH, 1e-6)
}

func TestLoggingMiddleware(t *testing.T) {
	s := newTestServer(t)

	handler := LoggingMiddleware(s.ServeMux())
	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
