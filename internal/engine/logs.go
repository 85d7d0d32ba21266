// Package engine implements the instance status synchronization engine.
//
// This file contains the log ingester: bounded per-instance buffers of
// console output lines, fed by the supervisor's push-based log stream.
package engine

// LogCap is the maximum number of log lines retained per instance. Older
// lines are silently discarded once the cap is reached.
const LogCap = 500

// LogIngester routes incoming server-log events into per-instance ring
// buffers. Capture is independent of focus: lines for background instances
// are buffered too, and a focus change never drops captured lines. Buffers
// are independent: one instance's growth never affects another's. Not safe
// for concurrent use; the Engine serializes access.
type LogIngester struct {
	buffers map[string]*logBuffer
}

// logBuffer is a fixed-capacity ring of log lines.
type logBuffer struct {
	lines []string
	start int
	count int
}

// NewLogIngester creates an empty ingester.
func NewLogIngester() *LogIngester {
	return &LogIngester{buffers: make(map[string]*logBuffer)}
}

// Append adds a line to an instance's buffer, evicting the oldest line when
// the buffer is full. Lines are kept in arrival order, never reordered or
// deduplicated.
//
// Parameters:
//   - id: The instance the line belongs to
//   - line: The log line
func (l *LogIngester) Append(id, line string) {
	if id == "" {
		return
	}
	buf := l.buffers[id]
	if buf == nil {
		buf = &logBuffer{lines: make([]string, LogCap)}
		l.buffers[id] = buf
	}
	buf.push(line)
}

// Buffer returns a copy of the buffered lines for an instance, oldest
// first. Unknown ids return nil.
//
// Parameters:
//   - id: The instance id
//
// Returns:
//   - []string: The buffered lines in arrival order
func (l *LogIngester) Buffer(id string) []string {
	buf := l.buffers[id]
	if buf == nil {
		return nil
	}
	out := make([]string, buf.count)
	for i := 0; i < buf.count; i++ {
		out[i] = buf.lines[(buf.start+i)%LogCap]
	}
	return out
}

// Remove discards the buffer for an instance that no longer exists.
func (l *LogIngester) Remove(id string) {
	delete(l.buffers, id)
}

// push appends a line to the ring, overwriting the oldest when full.
func (b *logBuffer) push(line string) {
	if b.count < LogCap {
		b.lines[(b.start+b.count)%LogCap] = line
		b.count++
		return
	}
	b.lines[b.start] = line
	b.start = (b.start + 1) % LogCap
}
