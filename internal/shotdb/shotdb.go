// Package shotdb persists sessions and per-shot metrics records to
// sqlite. It takes custody of results once a shot ends; the live
// engine itself stores nothing across shots.
package shotdb

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lanetrax/shotmetrics/internal/engine"
	"github.com/lanetrax/shotmetrics/internal/track"
)

type ShotDB struct {
	*sql.DB
}

// schema.sql defines the sessions and shots tables. Applied on open;
// every statement is idempotent.
//
//go:embed schema.sql
var schemaSQL string

// NewShotDB opens (creating if needed) the database at path and
// applies the embedded schema.
func NewShotDB(path string) (*ShotDB, error) {
	db, err := OpenShotDB(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}

// OpenShotDB opens the database without touching the schema. Used by
// the migrate subcommand, which manages the schema itself.
func OpenShotDB(path string) (*ShotDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &ShotDB{db}, nil
}

// Session is one practice session on one lane.
type Session struct {
	ID        string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
	Lane      int       `json:"lane"`
	Bowler    string    `json:"bowler"`
	Notes     string    `json:"notes"`
}

// Shot is the stored form of one finished shot's full record.
type Shot struct {
	ID         string    `json:"shot_id"`
	SessionID  string    `json:"session_id"`
	RecordedAt time.Time `json:"recorded_at"`

	Sufficient bool `json:"sufficient"`

	LaunchSpeedMPH float64 `json:"launch_speed_mph"`
	ImpactSpeedMPH float64 `json:"impact_speed_mph"`

	FoulLineBoard float64 `json:"foul_line_board"`
	ArrowBoard    float64 `json:"arrow_board"`

	BreakpointFound        bool    `json:"breakpoint_found"`
	BreakpointBoard        float64 `json:"breakpoint_board"`
	BreakpointDistanceFeet float64 `json:"breakpoint_distance_feet"`

	EntryAngleDegrees  float64 `json:"entry_angle_degrees"`
	PocketBoard        float64 `json:"pocket_board"`
	PocketOffsetBoards float64 `json:"pocket_offset_boards"`

	RevRateRPM        int     `json:"rev_rate_rpm"`
	RevRateCategory   string  `json:"rev_rate_category"`
	RevRateConfidence float64 `json:"rev_rate_confidence"`

	StrikeProbability float64 `json:"strike_probability"`
	PredictedLeave    string  `json:"predicted_leave"`
	Suggestion        string  `json:"suggestion"`

	SamplesJSON string `json:"samples_json,omitempty"`
}

// ShotFromResult flattens an engine result into a storable Shot. The
// raw trajectory travels along as JSON so shots can be re-plotted
// later.
func ShotFromResult(sessionID string, r engine.ShotResult, samples []track.Sample, recordedAt time.Time) (Shot, error) {
	samplesJSON, err := json.Marshal(samples)
	if err != nil {
		return Shot{}, fmt.Errorf("failed to marshal samples: %w", err)
	}

	return Shot{
		ID:         r.ShotID,
		SessionID:  sessionID,
		RecordedAt: recordedAt,

		Sufficient: r.Trajectory.Sufficient,

		LaunchSpeedMPH: r.Trajectory.LaunchSpeedMPH,
		ImpactSpeedMPH: r.Trajectory.ImpactSpeedMPH,

		FoulLineBoard: r.Trajectory.FoulLineBoard,
		ArrowBoard:    r.Trajectory.ArrowBoard,

		BreakpointFound:        r.Trajectory.BreakpointFound,
		BreakpointBoard:        r.Trajectory.BreakpointBoard,
		BreakpointDistanceFeet: r.Trajectory.BreakpointDistanceFeet,

		EntryAngleDegrees:  r.Trajectory.EntryAngleDegrees,
		PocketBoard:        r.Trajectory.PocketBoard,
		PocketOffsetBoards: r.Trajectory.PocketOffsetBoards,

		RevRateRPM:        r.RevRate.RPM,
		RevRateCategory:   string(r.RevRate.Category),
		RevRateConfidence: r.RevRate.Confidence,

		StrikeProbability: r.Strike.Probability,
		PredictedLeave:    string(r.Strike.Leave),
		Suggestion:        r.Strike.Suggestion,

		SamplesJSON: string(samplesJSON),
	}, nil
}

// CreateSession inserts a new session and returns it with a minted ID
// and start time.
func (db *ShotDB) CreateSession(lane int, bowler, notes string) (Session, error) {
	s := Session{
		ID:        fmt.Sprintf("sess_%s", uuid.New().String()),
		StartedAt: time.Now(),
		Lane:      lane,
		Bowler:    bowler,
		Notes:     notes,
	}

	_, err := db.Exec(
		`INSERT INTO sessions (session_id, started_unix_nanos, lane, bowler, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.StartedAt.UnixNano(), s.Lane, s.Bowler, s.Notes,
	)
	if err != nil {
		return Session{}, fmt.Errorf("failed to insert session: %w", err)
	}
	return s, nil
}

// Sessions returns the most recent sessions, newest first.
func (db *ShotDB) Sessions() ([]Session, error) {
	rows, err := db.Query(
		`SELECT session_id, started_unix_nanos, lane, bowler, notes
		 FROM sessions ORDER BY started_unix_nanos DESC LIMIT 100`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			s           Session
			startedNano int64
		)
		if err := rows.Scan(&s.ID, &startedNano, &s.Lane, &s.Bowler, &s.Notes); err != nil {
			return nil, err
		}
		s.StartedAt = time.Unix(0, startedNano)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionByID returns one session, or sql.ErrNoRows if absent.
func (db *ShotDB) SessionByID(id string) (Session, error) {
	var (
		s           Session
		startedNano int64
	)
	err := db.QueryRow(
		`SELECT session_id, started_unix_nanos, lane, bowler, notes
		 FROM sessions WHERE session_id = ?`, id,
	).Scan(&s.ID, &startedNano, &s.Lane, &s.Bowler, &s.Notes)
	if err != nil {
		return Session{}, err
	}
	s.StartedAt = time.Unix(0, startedNano)
	return s, nil
}

// RecordShot inserts one shot record.
func (db *ShotDB) RecordShot(s Shot) error {
	_, err := db.Exec(
		`INSERT INTO shots (
			shot_id, session_id, recorded_unix_nanos, sufficient,
			launch_speed_mph, impact_speed_mph, foul_line_board, arrow_board,
			breakpoint_found, breakpoint_board, breakpoint_distance_feet,
			entry_angle_degrees, pocket_board, pocket_offset_boards,
			rev_rate_rpm, rev_rate_category, rev_rate_confidence,
			strike_probability, predicted_leave, suggestion, samples_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.SessionID, s.RecordedAt.UnixNano(), s.Sufficient,
		s.LaunchSpeedMPH, s.ImpactSpeedMPH, s.FoulLineBoard, s.ArrowBoard,
		s.BreakpointFound, s.BreakpointBoard, s.BreakpointDistanceFeet,
		s.EntryAngleDegrees, s.PocketBoard, s.PocketOffsetBoards,
		s.RevRateRPM, s.RevRateCategory, s.RevRateConfidence,
		s.StrikeProbability, s.PredictedLeave, s.Suggestion, s.SamplesJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shot: %w", err)
	}
	return nil
}

// Shots returns a session's shots in recording order.
func (db *ShotDB) Shots(sessionID string) ([]Shot, error) {
	rows, err := db.Query(
		`SELECT shot_id, session_id, recorded_unix_nanos, sufficient,
			launch_speed_mph, impact_speed_mph, foul_line_board, arrow_board,
			breakpoint_found, breakpoint_board, breakpoint_distance_feet,
			entry_angle_degrees, pocket_board, pocket_offset_boards,
			rev_rate_rpm, rev_rate_category, rev_rate_confidence,
			strike_probability, predicted_leave, suggestion, samples_json
		 FROM shots WHERE session_id = ? ORDER BY recorded_unix_nanos ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shots []Shot
	for rows.Next() {
		var (
			s            Shot
			recordedNano int64
		)
		if err := rows.Scan(
			&s.ID, &s.SessionID, &recordedNano, &s.Sufficient,
			&s.LaunchSpeedMPH, &s.ImpactSpeedMPH, &s.FoulLineBoard, &s.ArrowBoard,
			&s.BreakpointFound, &s.BreakpointBoard, &s.BreakpointDistanceFeet,
			&s.EntryAngleDegrees, &s.PocketBoard, &s.PocketOffsetBoards,
			&s.RevRateRPM, &s.RevRateCategory, &s.RevRateConfidence,
			&s.StrikeProbability, &s.PredictedLeave, &s.Suggestion, &s.SamplesJSON,
		); err != nil {
			return nil, err
		}
		s.RecordedAt = time.Unix(0, recordedNano)
		shots = append(shots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shots, nil
}

// ShotByID returns one shot, or sql.ErrNoRows if absent.
func (db *ShotDB) ShotByID(id string) (Shot, error) {
	var (
		s            Shot
		recordedNano int64
	)
	err := db.QueryRow(
		`SELECT shot_id, session_id, recorded_unix_nanos, sufficient,
			launch_speed_mph, impact_speed_mph, foul_line_board, arrow_board,
			breakpoint_found, breakpoint_board, breakpoint_distance_feet,
			entry_angle_degrees, pocket_board, pocket_offset_boards,
			rev_rate_rpm, rev_rate_category, rev_rate_confidence,
			strike_probability, predicted_leave, suggestion, samples_json
		 FROM shots WHERE shot_id = ?`, id,
	).Scan(
		&s.ID, &s.SessionID, &recordedNano, &s.Sufficient,
		&s.LaunchSpeedMPH, &s.ImpactSpeedMPH, &s.FoulLineBoard, &s.ArrowBoard,
		&s.BreakpointFound, &s.BreakpointBoard, &s.BreakpointDistanceFeet,
		&s.EntryAngleDegrees, &s.PocketBoard, &s.PocketOffsetBoards,
		&s.RevRateRPM, &s.RevRateCategory, &s.RevRateConfidence,
		&s.StrikeProbability, &s.PredictedLeave, &s.Suggestion, &s.SamplesJSON,
	)
	if err != nil {
		return Shot{}, err
	}
	s.RecordedAt = time.Unix(0, recordedNano)
	return s, nil
}

// TrajectorySamples decodes the shot's stored raw trajectory.
func (s Shot) TrajectorySamples() ([]track.Sample, error) {
	if s.SamplesJSON == "" {
		return nil, nil
	}
	var samples []track.Sample
	if err := json.Unmarshal([]byte(s.SamplesJSON), &samples); err != nil {
		return nil, fmt.Errorf("failed to decode samples: %w", err)
	}
	return samples, nil
}

// SessionRollup is the SQL-side session summary.
type SessionRollup struct {
	SessionID string `json:"session_id"`
	ShotCount int    `json:"shot_count"`

	AvgLaunchSpeedMPH    float64 `json:"avg_launch_speed_mph"`
	MaxLaunchSpeedMPH    float64 `json:"max_launch_speed_mph"`
	AvgEntryAngleDegrees float64 `json:"avg_entry_angle_degrees"`
	AvgRevRateRPM        float64 `json:"avg_rev_rate_rpm"`
	AvgStrikeProbability float64 `json:"avg_strike_probability"`

	// Shots with strike probability at or above 0.8.
	LikelyStrikes int `json:"likely_strikes"`
}

// Rollup aggregates a session's sufficient shots in SQL.
func (db *ShotDB) Rollup(sessionID string) (SessionRollup, error) {
	r := SessionRollup{SessionID: sessionID}

	err := db.QueryRow(
		`SELECT COUNT(*),
			COALESCE(AVG(launch_speed_mph), 0),
			COALESCE(MAX(launch_speed_mph), 0),
			COALESCE(AVG(entry_angle_degrees), 0),
			COALESCE(AVG(rev_rate_rpm), 0),
			COALESCE(AVG(strike_probability), 0),
			COALESCE(SUM(CASE WHEN strike_probability >= 0.8 THEN 1 ELSE 0 END), 0)
		 FROM shots WHERE session_id = ? AND sufficient = 1`,
		sessionID,
	).Scan(
		&r.ShotCount,
		&r.AvgLaunchSpeedMPH,
		&r.MaxLaunchSpeedMPH,
		&r.AvgEntryAngleDegrees,
		&r.AvgRevRateRPM,
		&r.AvgStrikeProbability,
		&r.LikelyStrikes,
	)
	if err != nil {
		return SessionRollup{}, fmt.Errorf("failed to roll up session %s: %w", sessionID, err)
	}
	return r, nil
}
