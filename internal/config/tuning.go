package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
// All fields are optional pointers so a partial JSON file only overrides
// what it names; the Get* methods supply fallback defaults. Values are
// not clamped: a nonsensical value (negative tolerance, zero sample
// rate) is the caller's misconfiguration and Validate reports the cases
// it can, rather than the engine silently papering over them.
type TuningConfig struct {
	// Capture params
	BufferCapacity *int     `json:"buffer_capacity,omitempty"`
	SampleRate     *float64 `json:"sample_rate,omitempty"`

	// Bowler params
	RightHanded      *bool    `json:"right_handed,omitempty"`
	PocketBoardRight *float64 `json:"pocket_board_right,omitempty"`
	PocketBoardLeft  *float64 `json:"pocket_board_left,omitempty"`

	// Ball colour matching tolerance
	BallHueTolerance        *float64 `json:"ball_hue_tolerance,omitempty"`
	BallSaturationTolerance *float64 `json:"ball_saturation_tolerance,omitempty"`
	BallValueTolerance      *float64 `json:"ball_value_tolerance,omitempty"`

	// Trajectory analysis params
	MinTrajectorySamples *int     `json:"min_trajectory_samples,omitempty"`
	ArrowsToleranceFeet  *float64 `json:"arrows_tolerance_feet,omitempty"`

	// Rev-rate category bounds. The stroker/cranker bounds may overlap;
	// the classifier resolves the 350–400 band by rule order.
	StrokerMaxRPM *float64 `json:"stroker_max_rpm,omitempty"`
	CrankerMinRPM *float64 `json:"cranker_min_rpm,omitempty"`

	// Strike model params
	OptimalAngleMinDeg    *float64 `json:"optimal_angle_min_deg,omitempty"`
	OptimalAngleMaxDeg    *float64 `json:"optimal_angle_max_deg,omitempty"`
	LowAngleDivisor       *float64 `json:"low_angle_divisor,omitempty"`
	HighAngleDivisor      *float64 `json:"high_angle_divisor,omitempty"`
	MaxPocketOffsetBoards *float64 `json:"max_pocket_offset_boards,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under
// the max file size. Fields omitted from the JSON file retain their
// default values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath. It searches for the file in the current directory
// and common parent directories. Panics if the file cannot be loaded,
// intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/<pkg>/
		"../../../" + DefaultConfigPath, // from cmd/tools/<pkg>/
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.BufferCapacity != nil && *c.BufferCapacity < 1 {
		return fmt.Errorf("buffer_capacity must be at least 1, got %d", *c.BufferCapacity)
	}

	if c.SampleRate != nil && *c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %f", *c.SampleRate)
	}

	// The analyzer's speed windows reach six positioned samples deep.
	if c.MinTrajectorySamples != nil && *c.MinTrajectorySamples < 6 {
		return fmt.Errorf("min_trajectory_samples must be at least 6, got %d", *c.MinTrajectorySamples)
	}

	if c.OptimalAngleMinDeg != nil && c.OptimalAngleMaxDeg != nil {
		if *c.OptimalAngleMinDeg >= *c.OptimalAngleMaxDeg {
			return fmt.Errorf("optimal_angle_min_deg (%f) must be below optimal_angle_max_deg (%f)",
				*c.OptimalAngleMinDeg, *c.OptimalAngleMaxDeg)
		}
	}

	if c.LowAngleDivisor != nil && *c.LowAngleDivisor <= 0 {
		return fmt.Errorf("low_angle_divisor must be positive, got %f", *c.LowAngleDivisor)
	}
	if c.HighAngleDivisor != nil && *c.HighAngleDivisor <= 0 {
		return fmt.Errorf("high_angle_divisor must be positive, got %f", *c.HighAngleDivisor)
	}

	if c.MaxPocketOffsetBoards != nil && *c.MaxPocketOffsetBoards <= 0 {
		return fmt.Errorf("max_pocket_offset_boards must be positive, got %f", *c.MaxPocketOffsetBoards)
	}

	return nil
}

// GetBufferCapacity returns the buffer_capacity value or the default.
func (c *TuningConfig) GetBufferCapacity() int {
	if c.BufferCapacity == nil {
		return 120 // one second at the default capture rate
	}
	return *c.BufferCapacity
}

// GetSampleRate returns the sample_rate value or the default.
func (c *TuningConfig) GetSampleRate() float64 {
	if c.SampleRate == nil {
		return 120.0
	}
	return *c.SampleRate
}

// GetRightHanded returns the right_handed value or the default.
func (c *TuningConfig) GetRightHanded() bool {
	if c.RightHanded == nil {
		return true
	}
	return *c.RightHanded
}

// GetPocketBoardRight returns the pocket_board_right value or the default.
func (c *TuningConfig) GetPocketBoardRight() float64 {
	if c.PocketBoardRight == nil {
		return 17.5
	}
	return *c.PocketBoardRight
}

// GetPocketBoardLeft returns the pocket_board_left value or the default.
func (c *TuningConfig) GetPocketBoardLeft() float64 {
	if c.PocketBoardLeft == nil {
		return 22.5
	}
	return *c.PocketBoardLeft
}

// GetBallHueTolerance returns the ball_hue_tolerance value or the default.
func (c *TuningConfig) GetBallHueTolerance() float64 {
	if c.BallHueTolerance == nil {
		return 15
	}
	return *c.BallHueTolerance
}

// GetBallSaturationTolerance returns the ball_saturation_tolerance value or the default.
func (c *TuningConfig) GetBallSaturationTolerance() float64 {
	if c.BallSaturationTolerance == nil {
		return 30
	}
	return *c.BallSaturationTolerance
}

// GetBallValueTolerance returns the ball_value_tolerance value or the default.
func (c *TuningConfig) GetBallValueTolerance() float64 {
	if c.BallValueTolerance == nil {
		return 30
	}
	return *c.BallValueTolerance
}

// GetMinTrajectorySamples returns the min_trajectory_samples value or the default.
func (c *TuningConfig) GetMinTrajectorySamples() int {
	if c.MinTrajectorySamples == nil {
		return 20
	}
	return *c.MinTrajectorySamples
}

// GetArrowsToleranceFeet returns the arrows_tolerance_feet value or the default.
func (c *TuningConfig) GetArrowsToleranceFeet() float64 {
	if c.ArrowsToleranceFeet == nil {
		return 0.5
	}
	return *c.ArrowsToleranceFeet
}

// GetStrokerMaxRPM returns the stroker_max_rpm value or the default.
func (c *TuningConfig) GetStrokerMaxRPM() float64 {
	if c.StrokerMaxRPM == nil {
		return 350
	}
	return *c.StrokerMaxRPM
}

// GetCrankerMinRPM returns the cranker_min_rpm value or the default.
func (c *TuningConfig) GetCrankerMinRPM() float64 {
	if c.CrankerMinRPM == nil {
		return 400
	}
	return *c.CrankerMinRPM
}

// GetOptimalAngleMinDeg returns the optimal_angle_min_deg value or the default.
func (c *TuningConfig) GetOptimalAngleMinDeg() float64 {
	if c.OptimalAngleMinDeg == nil {
		return 4
	}
	return *c.OptimalAngleMinDeg
}

// GetOptimalAngleMaxDeg returns the optimal_angle_max_deg value or the default.
func (c *TuningConfig) GetOptimalAngleMaxDeg() float64 {
	if c.OptimalAngleMaxDeg == nil {
		return 7
	}
	return *c.OptimalAngleMaxDeg
}

// GetLowAngleDivisor returns the low_angle_divisor value or the default.
func (c *TuningConfig) GetLowAngleDivisor() float64 {
	if c.LowAngleDivisor == nil {
		return 4
	}
	return *c.LowAngleDivisor
}

// GetHighAngleDivisor returns the high_angle_divisor value or the default.
func (c *TuningConfig) GetHighAngleDivisor() float64 {
	if c.HighAngleDivisor == nil {
		return 3
	}
	return *c.HighAngleDivisor
}

// GetMaxPocketOffsetBoards returns the max_pocket_offset_boards value or the default.
func (c *TuningConfig) GetMaxPocketOffsetBoards() float64 {
	if c.MaxPocketOffsetBoards == nil {
		return 1.5
	}
	return *c.MaxPocketOffsetBoards
}

// GetPocketBoard returns the ideal pocket board for the configured
// handedness.
func (c *TuningConfig) GetPocketBoard() float64 {
	if c.GetRightHanded() {
		return c.GetPocketBoardRight()
	}
	return c.GetPocketBoardLeft()
}
