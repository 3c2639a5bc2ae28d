package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lanetrax/shotmetrics/internal/units"
)

// showShotChart renders an HTML line chart of a stored shot's lateral
// path (board vs downlane feet) with the breakpoint marked. Debugging
// endpoint, no auth; the Svelte UI draws its own lane view.
func (s *Server) showShotChart(w http.ResponseWriter, r *http.Request) {
	shotID := r.URL.Query().Get("shot_id")
	if shotID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'shot_id' parameter")
		return
	}

	shot, err := s.db.ShotByID(shotID)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound,
			fmt.Sprintf("Unknown shot %s", shotID))
		return
	}

	samples, err := shot.TrajectorySamples()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to decode trajectory: %v", err))
		return
	}

	xAxis := make([]string, 0, len(samples))
	lineData := make([]opts.LineData, 0, len(samples))
	for _, sample := range samples {
		lane, ok := sample.Positioned()
		if !ok {
			continue
		}
		xAxis = append(xAxis, fmt.Sprintf("%.1f", lane.DistanceFeet))
		lineData = append(lineData, opts.LineData{Value: lane.Board})
	}
	if len(lineData) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "Shot has no positioned samples")
		return
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Shot Trajectory", Theme: "dark", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title: "Shot Trajectory",
			Subtitle: fmt.Sprintf("shot=%s entry=%.1f° pocket offset=%.2f boards",
				shot.ID, shot.EntryAngleDegrees, shot.PocketOffsetBoards),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Downlane (ft)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: units.BoardsPerLane, Name: "Board", NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("board", lineData, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	if shot.BreakpointFound {
		line.SetSeriesOptions(charts.WithMarkPointNameCoordItemOpts(opts.MarkPointNameCoordItem{
			Name:       "breakpoint",
			Coordinate: []interface{}{fmt.Sprintf("%.1f", shot.BreakpointDistanceFeet), shot.BreakpointBoard},
		}))
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// showSpeedChart renders an HTML bar chart of launch and impact speeds
// across a session's shots.
func (s *Server) showSpeedChart(w http.ResponseWriter, r *http.Request) {
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
	if len(shots) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "Session has no shots")
		return
	}

	xAxis := make([]string, 0, len(shots))
	launch := make([]opts.BarData, 0, len(shots))
	impact := make([]opts.BarData, 0, len(shots))
	for i, shot := range shots {
		xAxis = append(xAxis, fmt.Sprintf("#%d", i+1))
		launch = append(launch, opts.BarData{Value: units.ConvertSpeed(shot.LaunchSpeedMPH, s.units)})
		impact = append(impact, opts.BarData{Value: units.ConvertSpeed(shot.ImpactSpeedMPH, s.units)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Session Speeds", Theme: "dark", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Ball Speed by Shot",
			Subtitle: fmt.Sprintf("session=%s units=%s", sessionID, s.units),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: fmt.Sprintf("Speed (%s)", s.units), NameLocation: "middle", NameGap: 35}),
	)
	bar.SetXAxis(xAxis)
	bar.AddSeries("launch", launch)
	bar.AddSeries("impact", impact)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
