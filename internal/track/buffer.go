package track

// DefaultBufferCapacity is one second of samples at the default 120
// samples/sec capture rate.
const DefaultBufferCapacity = 120

// TrajectoryBuffer maintains a bounded, time-ordered window of position
// samples for the shot in progress. Appending beyond capacity evicts the
// oldest sample.
type TrajectoryBuffer struct {
	samples  []Sample
	capacity int
	head     int // Points to next write position
	size     int // Current number of samples stored
}

// NewTrajectoryBuffer creates a buffer with the specified capacity.
func NewTrajectoryBuffer(capacity int) *TrajectoryBuffer {
	if capacity < 1 {
		capacity = DefaultBufferCapacity
	}
	return &TrajectoryBuffer{
		samples:  make([]Sample, capacity),
		capacity: capacity,
	}
}

// Add stores a new sample, overwriting the oldest if at capacity.
func (tb *TrajectoryBuffer) Add(s Sample) {
	tb.samples[tb.head] = s
	tb.head = (tb.head + 1) % tb.capacity
	if tb.size < tb.capacity {
		tb.size++
	}
}

// Snapshot returns a copy of the buffered samples, oldest first. Callers
// cannot mutate the buffer's history through the returned slice.
func (tb *TrajectoryBuffer) Snapshot() []Sample {
	out := make([]Sample, tb.size)
	start := (tb.head - tb.size + tb.capacity) % tb.capacity
	for i := 0; i < tb.size; i++ {
		out[i] = tb.samples[(start+i)%tb.capacity]
	}
	return out
}

// Len returns the current number of buffered samples.
func (tb *TrajectoryBuffer) Len() int {
	return tb.size
}

// Cap returns the maximum number of samples that can be stored.
func (tb *TrajectoryBuffer) Cap() int {
	return tb.capacity
}

// Clear removes all samples. Safe to call repeatedly; clearing an empty
// buffer is a no-op.
func (tb *TrajectoryBuffer) Clear() {
	for i := range tb.samples {
		tb.samples[i] = Sample{}
	}
	tb.head = 0
	tb.size = 0
}

// VisibilityLog accumulates marker-visibility samples for the shot in
// progress. Unlike the trajectory buffer it is unbounded: rev-rate
// estimation wants the full stream, and a shot is short-lived.
type VisibilityLog struct {
	samples []VisibilitySample
}

// NewVisibilityLog creates an empty log.
func NewVisibilityLog() *VisibilityLog {
	return &VisibilityLog{}
}

// Add appends a visibility observation.
func (vl *VisibilityLog) Add(s VisibilitySample) {
	vl.samples = append(vl.samples, s)
}

// Snapshot returns a copy of the logged samples in arrival order.
func (vl *VisibilityLog) Snapshot() []VisibilitySample {
	out := make([]VisibilitySample, len(vl.samples))
	copy(out, vl.samples)
	return out
}

// Len returns the number of logged samples.
func (vl *VisibilityLog) Len() int {
	return len(vl.samples)
}

// Clear removes all samples.
func (vl *VisibilityLog) Clear() {
	vl.samples = vl.samples[:0]
}
