package app

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics counts what happened during one editing session.
// Counters are atomic so a snapshot can be taken from another goroutine.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64

	// Input handling
	keyCount     atomic.Uint64
	keysIgnored  atomic.Uint64
	pollTimeouts atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records how long one refresh took.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordKey records a dispatched key; handled is false for keys that had
// no effect.
func (m *Metrics) RecordKey(handled bool) {
	m.keyCount.Add(1)
	if !handled {
		m.keysIgnored.Add(1)
	}
}

// RecordPollTimeout records a poll that returned without input.
func (m *Metrics) RecordPollTimeout() {
	m.pollTimeouts.Add(1)
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Frames:       m.frameCount.Load(),
		Keys:         m.keyCount.Load(),
		KeysIgnored:  m.keysIgnored.Load(),
		PollTimeouts: m.pollTimeouts.Load(),
		Uptime:       time.Since(m.startTime),
	}
	if s.Frames > 0 {
		s.FrameMin = time.Duration(m.frameMinNs.Load())
		s.FrameMax = time.Duration(m.frameMaxNs.Load())
		s.FrameAvg = time.Duration(m.frameTotalNs.Load() / int64(s.Frames))
	}
	return s
}

// MetricsSnapshot is a copy of Metrics at one point in time.
type MetricsSnapshot struct {
	Frames       uint64
	FrameMin     time.Duration
	FrameMax     time.Duration
	FrameAvg     time.Duration
	Keys         uint64
	KeysIgnored  uint64
	PollTimeouts uint64
	Uptime       time.Duration
}

// String formats the snapshot for the session log.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("frames=%d avg=%v max=%v keys=%d ignored=%d timeouts=%d uptime=%v",
		s.Frames, s.FrameAvg, s.FrameMax, s.Keys, s.KeysIgnored, s.PollTimeouts,
		s.Uptime.Round(time.Millisecond))
}

// Timer measures elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates and starts a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns elapsed time since start.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
