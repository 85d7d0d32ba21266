// Package engine implements the instance status synchronization engine.
//
// This file contains the telemetry sampler: a bounded, time-ordered buffer
// of resource usage samples for the focused instance only.
package engine

import "time"

// HistoryCap is the maximum number of usage samples retained for the
// focused instance. At the default poll interval this covers two minutes.
const HistoryCap = 60

// UsageSample is one resource usage reading with its capture time.
// Samples are only meaningful while the instance is running.
type UsageSample struct {
	// CPU is the CPU load as a percentage of one core.
	CPU float64

	// MemoryBytes is the resident memory in bytes.
	MemoryBytes uint64

	// CapturedAt is when the sample was taken.
	CapturedAt time.Time
}

// TelemetrySampler accumulates usage samples for exactly one instance at a
// time. Switching the tracked instance, or the instance leaving the running
// state, resets the buffer: samples from different runs or different
// instances must never chain into one series. Not safe for concurrent use;
// the Engine serializes access.
type TelemetrySampler struct {
	instanceID string
	samples    []UsageSample
	latest     *UsageSample
}

// NewTelemetrySampler creates an empty sampler.
func NewTelemetrySampler() *TelemetrySampler {
	return &TelemetrySampler{}
}

// Track switches the sampler to a new instance id. If the id differs from
// the currently tracked one, the buffer is discarded (not archived) and a
// fresh series starts. Tracking "" clears everything.
//
// Parameters:
//   - id: The instance id to collect samples for
func (s *TelemetrySampler) Track(id string) {
	if s.instanceID == id {
		return
	}
	s.instanceID = id
	s.samples = nil
	s.latest = nil
}

// Sample appends a usage reading for the tracked instance. Readings for any
// other instance are dropped: a late usage response for a previously
// focused instance must not pollute the new series.
//
// Parameters:
//   - id: The instance the reading belongs to
//   - sample: The usage reading
func (s *TelemetrySampler) Sample(id string, sample UsageSample) {
	if id != s.instanceID || s.instanceID == "" {
		return
	}
	s.samples = append(s.samples, sample)
	if len(s.samples) > HistoryCap {
		// Evict oldest; copy so the backing array doesn't pin evicted entries
		s.samples = append(s.samples[:0:0], s.samples[1:]...)
	}
	last := s.samples[len(s.samples)-1]
	s.latest = &last
}

// Reset drops the accumulated series and the latest reading while keeping
// the tracked instance. Called the moment the instance leaves the running
// state, so the view shows "no data" rather than a stale flat line.
func (s *TelemetrySampler) Reset() {
	s.samples = nil
	s.latest = nil
}

// History returns the time-ordered samples for the tracked instance when it
// matches the given id; any other id has no history by definition.
//
// Parameters:
//   - id: The instance id being asked about
//
// Returns:
//   - []UsageSample: A copy of the sample series, oldest first
func (s *TelemetrySampler) History(id string) []UsageSample {
	if id != s.instanceID {
		return nil
	}
	out := make([]UsageSample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Latest returns the most recent reading, or nil when there is no data.
// Nil means no reading yet, distinct from a real zero reading.
func (s *TelemetrySampler) Latest() *UsageSample {
	if s.latest == nil {
		return nil
	}
	out := *s.latest
	return &out
}
