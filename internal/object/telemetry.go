package object

import "time"

// Telemetry keeps the shooting history the adaptive lifetime feeds on:
// a ring buffer of hit travel times plus fired/hit counters.
type Telemetry struct {
	samples         []time.Duration
	head            int // next write position
	count           int
	window          int
	defaultAccuracy float64

	Fired int
	Hits  int
}

// NewTelemetry creates telemetry holding up to capacity travel samples and
// averaging the most recent window of them.
func NewTelemetry(capacity, window int, defaultAccuracy float64) *Telemetry {
	if capacity < 1 {
		capacity = 1
	}
	if window < 1 || window > capacity {
		window = capacity
	}
	return &Telemetry{
		samples:         make([]time.Duration, capacity),
		window:          window,
		defaultAccuracy: defaultAccuracy,
	}
}

// RecordShot counts a fired projectile.
func (t *Telemetry) RecordShot() {
	t.Fired++
}

// RecordHit counts a hit and stores how long the projectile travelled.
func (t *Telemetry) RecordHit(travel time.Duration) {
	t.Hits++
	t.samples[t.head] = travel
	t.head = (t.head + 1) % len(t.samples)
	if t.count < len(t.samples) {
		t.count++
	}
}

// Samples returns the number of stored travel samples.
func (t *Telemetry) Samples() int {
	return t.count
}

// Accuracy is hits over shots fired, or the default before the first shot.
func (t *Telemetry) Accuracy() float64 {
	if t.Fired == 0 {
		return t.defaultAccuracy
	}
	return float64(t.Hits) / float64(t.Fired)
}

// AverageTravel is the mean of the most recent travel samples.
// ok is false when nothing has been recorded yet.
func (t *Telemetry) AverageTravel() (avg time.Duration, ok bool) {
	n := min(t.count, t.window)
	if n == 0 {
		return 0, false
	}
	var sum time.Duration
	for i := 1; i <= n; i++ {
		idx := (t.head - i + len(t.samples)) % len(t.samples)
		sum += t.samples[idx]
	}
	return sum / time.Duration(n), true
}

// Reset forgets all history.
func (t *Telemetry) Reset() {
	clear(t.samples)
	t.head = 0
	t.count = 0
	t.Fired = 0
	t.Hits = 0
}
