package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanetrax/shotmetrics/internal/analysis"
	"github.com/lanetrax/shotmetrics/internal/revrate"
	"github.com/lanetrax/shotmetrics/internal/strike"
	"github.com/lanetrax/shotmetrics/internal/track"
)

func testEngineConfig() Config {
	return Config{
		BufferCapacity: 240,
		Analyzer: analysis.AnalyzerConfig{
			SampleRate:           120,
			MinTrajectorySamples: 20,
			ArrowsToleranceFeet:  0.5,
			PocketBoard:          17.5,
		},
		RevRate: revrate.Config{SampleRate: 120, StrokerMaxRPM: 350, CrankerMinRPM: 400},
		Strike: strike.Config{
			OptimalAngleMinDeg: 4,
			OptimalAngleMaxDeg: 7,
			LowAngleDivisor:    4,
			HighAngleDivisor:   3,
			MaxOffsetBoards:    1.5,
			RightHanded:        true,
		},
	}
}

// feedShot drives a full hooking shot through the tracker: 30 frames
// of positioned samples plus a marker stream with two rotations.
func feedShot(t *ShotTracker) {
	for i := 0; i < 30; i++ {
		board := 10 + 0.5*float64(i)
		if i > 15 {
			board = 17.5 - 0.05*float64(i-15)
		}
		t.ObserveSample(track.Sample{
			FrameIndex: int64(i),
			Detected:   true,
			Lane:       &track.LanePosition{Board: board, DistanceFeet: 2 * float64(i)},
		})
		t.ObserveMarker(track.VisibilitySample{
			FrameIndex: int64(i),
			Visible:    i%15 >= 7,
		})
	}
}

func TestShotTrackerFullShot(t *testing.T) {
	tracker := NewShotTracker(testEngineConfig())
	feedShot(tracker)

	r := tracker.Finish()

	assert.Equal(t, tracker.ShotID(), r.ShotID)
	assert.True(t, strings.HasPrefix(r.ShotID, "shot_"))

	require.True(t, r.Trajectory.Sufficient)
	assert.True(t, r.Trajectory.BreakpointFound)

	require.True(t, r.RevRate.Sufficient)
	assert.Equal(t, 2, r.RevRate.Rotations)

	assert.NotEmpty(t, r.Strike.Suggestion)
	assert.Equal(t, r.Trajectory.PocketOffsetBoards, r.Strike.PocketOffsetBoards)
}

func TestShotTrackerInsufficientShot(t *testing.T) {
	tracker := NewShotTracker(testEngineConfig())

	for i := 0; i < 5; i++ {
		tracker.ObserveSample(track.Sample{FrameIndex: int64(i), Detected: true})
		tracker.ObserveMarker(track.VisibilitySample{FrameIndex: int64(i), Visible: i%2 == 0})
	}

	r := tracker.Finish()
	assert.False(t, r.Trajectory.Sufficient)
	assert.False(t, r.RevRate.Sufficient)
	assert.Empty(t, r.Strike.Suggestion)
	assert.Zero(t, r.Strike.Probability)
}

func TestShotTrackerReset(t *testing.T) {
	tracker := NewShotTracker(testEngineConfig())
	feedShot(tracker)

	first := tracker.ShotID()
	tracker.Reset()

	assert.NotEqual(t, first, tracker.ShotID())

	r := tracker.Finish()
	assert.False(t, r.Trajectory.Sufficient)
	assert.Equal(t, 0, r.Trajectory.PositionedSamples)
	assert.False(t, r.RevRate.Sufficient)
}

func TestShotTrackersAreIndependent(t *testing.T) {
	a := NewShotTracker(testEngineConfig())
	b := NewShotTracker(testEngineConfig())

	feedShot(a)

	assert.NotEqual(t, a.ShotID(), b.ShotID())
	assert.True(t, a.Finish().Trajectory.Sufficient)
	assert.False(t, b.Finish().Trajectory.Sufficient)
}

func TestShotTrackerBufferEviction(t *testing.T) {
	cfg := testEngineConfig()
	cfg.BufferCapacity = 10
	tracker := NewShotTracker(cfg)

	for i := 0; i < 50; i++ {
		tracker.ObserveSample(track.Sample{
			FrameIndex: int64(i),
			Detected:   true,
			Lane:       &track.LanePosition{Board: 10, DistanceFeet: float64(i)},
		})
	}

	// Only the last 10 frames survive, below the analysis minimum.
	r := tracker.Finish()
	assert.False(t, r.Trajectory.Sufficient)
	assert.Equal(t, 10, r.Trajectory.PositionedSamples)
}
