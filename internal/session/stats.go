// Package session aggregates per-shot metrics into the session summary
// shown after practice: distribution statistics over speed, entry
// angle, rev rate, and strike probability.
package session

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ShotMetrics is the slice of a stored shot that session aggregation
// cares about.
type ShotMetrics struct {
	LaunchSpeedMPH    float64
	ImpactSpeedMPH    float64
	EntryAngleDegrees float64
	RevRateRPM        float64
	StrikeProbability float64
}

// MetricStats describes the distribution of one metric across a
// session's shots.
type MetricStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// Stats is the full session summary.
type Stats struct {
	Shots int `json:"shots"`

	LaunchSpeed       MetricStats `json:"launch_speed_mph"`
	ImpactSpeed       MetricStats `json:"impact_speed_mph"`
	EntryAngle        MetricStats `json:"entry_angle_degrees"`
	RevRate           MetricStats `json:"rev_rate_rpm"`
	StrikeProbability MetricStats `json:"strike_probability"`
}

// Compute aggregates the given shots. An empty input yields a zero
// Stats rather than an error; NaNs never appear in the output.
func Compute(shots []ShotMetrics) Stats {
	s := Stats{Shots: len(shots)}
	if len(shots) == 0 {
		return s
	}

	s.LaunchSpeed = metricStats(collect(shots, func(m ShotMetrics) float64 { return m.LaunchSpeedMPH }))
	s.ImpactSpeed = metricStats(collect(shots, func(m ShotMetrics) float64 { return m.ImpactSpeedMPH }))
	s.EntryAngle = metricStats(collect(shots, func(m ShotMetrics) float64 { return m.EntryAngleDegrees }))
	s.RevRate = metricStats(collect(shots, func(m ShotMetrics) float64 { return m.RevRateRPM }))
	s.StrikeProbability = metricStats(collect(shots, func(m ShotMetrics) float64 { return m.StrikeProbability }))

	return s
}

func collect(shots []ShotMetrics, field func(ShotMetrics) float64) []float64 {
	values := make([]float64, 0, len(shots))
	for _, m := range shots {
		values = append(values, field(m))
	}
	return values
}

// metricStats computes distribution statistics for one metric. The
// input is sorted in place; callers pass freshly collected slices.
func metricStats(values []float64) MetricStats {
	sort.Float64s(values)

	ms := MetricStats{
		Mean:   stat.Mean(values, nil),
		Min:    values[0],
		Max:    values[len(values)-1],
		Median: stat.Quantile(0.5, stat.Empirical, values, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, values, nil),
	}
	// StdDev over a single sample divides by n-1.
	if len(values) > 1 {
		ms.StdDev = stat.StdDev(values, nil)
	}
	return ms
}
