package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShotChart(t *testing.T) {
	s := newTestServer(t)
	sess := createTestSession(t, s)
	result := postShot(t, s, sess.ID)

	req := httptest.NewRequest(http.MethodGet, "/debug/shot-chart?shot_id="+result.ShotID, nil)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Shot Trajectory")
}

func TestShotChartUnknownShot(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/debug/shot-chart?shot_id=shot_missing", nil)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShotChartMissingParam(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/debug/shot-chart", nil)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// Chart handlers only switch to text/html on success; error bodies
	// are JSON and must say so.
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestSpeedChart(t *testing.T) {
	s := newTestServer(t)
	sess := createTestSession(t, s)
	postShot(t, s, sess.ID)
	postShot(t, s, sess.ID)

	req := httptest.NewRequest(http.MethodGet, "/debug/speed-chart?session_id="+sess.ID, nil)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Ball Speed by Shot")
}

func TestSpeedChartEmptySession(t *testing.T) {
	s := newTestServer(t)
	sess := createTestSession(t, s)

	req := httptest.NewRequest(http.MethodGet, "/debug/speed-chart?session_id="+sess.ID, nil)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
