package revrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanetrax/shotmetrics/internal/track"
)

func testConfig() Config {
	return Config{SampleRate: 120, StrokerMaxRPM: 350, CrankerMinRPM: 400}
}

// visibilityStream builds n samples where the marker is visible for
// the second half of each period.
func visibilityStream(n, period int) []track.VisibilitySample {
	samples := make([]track.VisibilitySample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, track.VisibilitySample{
			FrameIndex: int64(i),
			Visible:    i%period >= period/2,
		})
	}
	return samples
}

func TestEstimateCountsRisingEdges(t *testing.T) {
	e := NewEstimator(testConfig())

	// 120 samples at 120/sec with a 30-frame period: four full
	// invisible-then-visible cycles in one second.
	r := e.Estimate(visibilityStream(120, 30))

	require.True(t, r.Sufficient)
	assert.Equal(t, 4, r.Rotations)
	assert.Equal(t, 1.0, r.DurationSeconds)
	assert.Equal(t, 240, r.RPM)
	assert.Equal(t, 1.0, r.Confidence)
	assert.Equal(t, CategoryStroker, r.Category)
}

func TestEstimateTwoRotationsPerSecond(t *testing.T) {
	e := NewEstimator(testConfig())

	r := e.Estimate(visibilityStream(120, 60))

	require.True(t, r.Sufficient)
	assert.Equal(t, 2, r.Rotations)
	assert.Equal(t, 120, r.RPM)
}

func TestEstimateInsufficientSamples(t *testing.T) {
	e := NewEstimator(testConfig())

	r := e.Estimate(visibilityStream(9, 4))
	assert.False(t, r.Sufficient)
	assert.Zero(t, r.RPM)
	assert.Zero(t, r.Confidence)
}

func TestEstimateZeroSampleRate(t *testing.T) {
	e := NewEstimator(Config{SampleRate: 0, StrokerMaxRPM: 350, CrankerMinRPM: 400})

	r := e.Estimate(visibilityStream(120, 30))
	assert.False(t, r.Sufficient)
}

func TestEstimateConfidenceScaling(t *testing.T) {
	e := NewEstimator(testConfig())

	// 30 samples is a quarter second: both factors below saturation.
	r := e.Estimate(visibilityStream(30, 10))
	require.True(t, r.Sufficient)
	assert.InDelta(t, (30.0/60)*(30.0/120), r.Confidence, 1e-9)

	// 240 samples is two seconds: both factors saturate at 1.
	r = e.Estimate(visibilityStream(240, 30))
	require.True(t, r.Sufficient)
	assert.Equal(t, 1.0, r.Confidence)
}

func TestClassifierOrderedRules(t *testing.T) {
	c := NewClassifier(350, 400)

	tests := []struct {
		rpm  int
		want Category
	}{
		{0, CategoryStroker},
		{349, CategoryStroker},
		{350, CategoryTweener},
		{399, CategoryTweener},
		{400, CategoryCranker},
		{550, CategoryCranker},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.rpm), "rpm %d", tt.rpm)
	}
}

func TestClassifierOverlappingBounds(t *testing.T) {
	// A stroker bound above the cranker bound: the first matching
	// rule wins, so the stroker rule claims the overlap.
	c := NewClassifier(450, 400)

	assert.Equal(t, CategoryStroker, c.Classify(420))
	assert.Equal(t, CategoryCranker, c.Classify(460))
}
