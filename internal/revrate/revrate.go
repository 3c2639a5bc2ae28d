// Package revrate estimates ball rotation rate from a PAP-marker
// visibility stream and classifies the bowler's style by RPM.
package revrate

import (
	"math"

	"github.com/lanetrax/shotmetrics/internal/config"
	"github.com/lanetrax/shotmetrics/internal/track"
)

// minVisibilitySamples is the floor below which no estimate is
// attempted.
const minVisibilitySamples = 10

// Category is a rider-style bin keyed on rotation rate.
type Category string

const (
	CategoryStroker Category = "stroker"
	CategoryTweener Category = "tweener"
	CategoryCranker Category = "cranker"
)

// Rule binds a category to its RPM predicate. Rules are evaluated in
// order and the first match wins, so overlapping bounds resolve
// deterministically.
type Rule struct {
	Category Category
	Matches  func(rpm int) bool
}

// Classifier is an ordered rule list mapping RPM to a Category. The
// stroker and cranker bounds may overlap (e.g. 350 and 400 leave a
// 350-400 band claimed by the tweener rule); the ordering makes that
// explicit instead of burying it in if/else fallthrough.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds the standard three-bin classifier from the
// configured category bounds.
func NewClassifier(strokerMaxRPM, crankerMinRPM int) *Classifier {
	return &Classifier{
		rules: []Rule{
			{Category: CategoryStroker, Matches: func(rpm int) bool { return rpm < strokerMaxRPM }},
			{Category: CategoryTweener, Matches: func(rpm int) bool { return rpm < crankerMinRPM }},
			{Category: CategoryCranker, Matches: func(int) bool { return true }},
		},
	}
}

// Classify returns the category of the first matching rule.
func (c *Classifier) Classify(rpm int) Category {
	for _, r := range c.rules {
		if r.Matches(rpm) {
			return r.Category
		}
	}
	// The final rule is a catch-all, so this is unreachable with a
	// classifier built by NewClassifier.
	return CategoryTweener
}

// Result is the rev-rate estimate for one shot. A zero Result with
// Sufficient=false means the stream was too short to estimate.
type Result struct {
	Sufficient bool `json:"sufficient"`

	RPM      int      `json:"rpm"`
	Category Category `json:"category"`

	// Confidence in [0,1]: the product of a sample-count factor
	// (saturating at 60 samples) and a duration factor (saturating
	// at one second).
	Confidence float64 `json:"confidence"`

	Rotations       int     `json:"rotations"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Config holds the tunable parameters for rev-rate estimation.
type Config struct {
	SampleRate    float64 // Capture rate in samples/sec
	StrokerMaxRPM int     // Upper bound of the stroker bin
	CrankerMinRPM int     // Lower bound of the cranker bin
}

// ConfigFromTuning builds an estimator Config from a loaded
// TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		SampleRate:    cfg.GetSampleRate(),
		StrokerMaxRPM: int(cfg.GetStrokerMaxRPM()),
		CrankerMinRPM: int(cfg.GetCrankerMinRPM()),
	}
}

// Estimator computes rotation rate from marker visibility samples.
type Estimator struct {
	cfg        Config
	classifier *Classifier
}

// NewEstimator creates an estimator with the specified configuration.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{
		cfg:        cfg,
		classifier: NewClassifier(cfg.StrokerMaxRPM, cfg.CrankerMinRPM),
	}
}

// Estimate counts marker rotations as not-visible to visible rising
// edges and converts the count to RPM over the stream's duration.
// Streams shorter than the minimum, or with a non-positive sample
// rate, yield a zero Result.
func (e *Estimator) Estimate(samples []track.VisibilitySample) Result {
	if len(samples) < minVisibilitySamples || e.cfg.SampleRate <= 0 {
		return Result{}
	}

	duration := float64(len(samples)) / e.cfg.SampleRate
	if duration == 0 {
		return Result{}
	}

	rotations := 0
	for i := 1; i < len(samples); i++ {
		if samples[i].Visible && !samples[i-1].Visible {
			rotations++
		}
	}

	rpm := int(math.Round(float64(rotations) / duration * 60))

	sampleFactor := math.Min(1, float64(len(samples))/60)
	durationFactor := math.Min(1, duration)

	return Result{
		Sufficient:      true,
		RPM:             rpm,
		Category:        e.classifier.Classify(rpm),
		Confidence:      sampleFactor * durationFactor,
		Rotations:       rotations,
		DurationSeconds: duration,
	}
}
