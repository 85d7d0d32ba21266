// Package status provides the shared instance status vocabulary for craftctl.
//
// This package centralizes all status-related logic to ensure consistency
// across the CLI. It mirrors the craftd supervisor's status enum and layers
// the optimistic transition intent on top of it: the locally-held, not yet
// confirmed belief about what the operator just asked to happen.
package status

import "strings"

// Status represents the authoritative lifecycle status of a server instance
// as reported by the craftd supervisor. It is ground truth, but only as
// fresh as the last successful poll.
type Status string

const (
	// StatusStopped indicates the server process is not running.
	StatusStopped Status = "stopped"

	// StatusStarting indicates the server process is booting.
	StatusStarting Status = "starting"

	// StatusRunning indicates the server is up and accepting players.
	StatusRunning Status = "running"

	// StatusStopping indicates the server is shutting down.
	StatusStopping Status = "stopping"

	// StatusCrashed indicates the server process exited abnormally.
	StatusCrashed Status = "crashed"
)

// knownStatuses contains every status the supervisor may report.
var knownStatuses = map[Status]bool{
	StatusStopped:  true,
	StatusStarting: true,
	StatusRunning:  true,
	StatusStopping: true,
	StatusCrashed:  true,
}

// Parse converts a raw supervisor status string into a Status.
//
// Parameters:
//   - raw: The status string from the supervisor (case-insensitive)
//
// Returns:
//   - Status: The parsed status
//   - bool: False if the string is not in the known status set
func Parse(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, knownStatuses[s]
}

// IsActive reports whether a status describes a live server process
// (starting, running, or stopping).
func IsActive(s Status) bool {
	switch s {
	case StatusStarting, StatusRunning, StatusStopping:
		return true
	}
	return false
}

// Intent represents an optimistic transition intent: the operator asked for
// a lifecycle change and the authoritative status has not yet confirmed it.
// It is a purely local overlay, never persisted, at most one per instance.
type Intent string

const (
	// IntentNone means no transition is pending.
	IntentNone Intent = ""

	// IntentStarting means a start was requested and not yet confirmed.
	IntentStarting Intent = "starting"

	// IntentStopping means a stop was requested and not yet confirmed.
	IntentStopping Intent = "stopping"

	// IntentRestarting means a restart was requested and not yet confirmed.
	IntentRestarting Intent = "restarting"
)

// Resolve applies the transition resolution rules to a pending intent given
// a freshly observed authoritative status, returning the intent that should
// remain pending. The rules:
//
//   - starting clears when the status becomes running or crashed (both are
//     terminal outcomes of a start attempt)
//   - stopping clears when the status becomes stopped
//   - restarting clears when the status becomes running
//
// No other combination clears automatically: a stuck backend leaves the
// optimistic intent visible indefinitely. There is deliberately no timeout
// here; craftd does not report an "unknown" status that a timed-out intent
// could fall back to. Known limitation.
//
// Parameters:
//   - intent: The currently pending intent (may be IntentNone)
//   - s: The newly observed authoritative status
//
// Returns:
//   - Intent: The intent still pending after observing s
func Resolve(intent Intent, s Status) Intent {
	switch intent {
	case IntentStarting:
		if s == StatusRunning || s == StatusCrashed {
			return IntentNone
		}
	case IntentStopping:
		if s == StatusStopped {
			return IntentNone
		}
	case IntentRestarting:
		if s == StatusRunning {
			return IntentNone
		}
	}
	return intent
}

// Display returns the status string the view layer should show for an
// instance: the pending intent (unconfirmed, rendered with an ellipsis)
// when one is set, the authoritative status otherwise.
//
// Parameters:
//   - intent: The pending transition intent (may be IntentNone)
//   - s: The authoritative status
//
// Returns:
//   - string: The display label
func Display(intent Intent, s Status) string {
	if intent != IntentNone {
		return string(intent) + "…"
	}
	return string(s)
}

// Icon returns the glyph for a status, for table and TUI rendering.
func Icon(s Status) string {
	switch s {
	case StatusRunning:
		return "●"
	case StatusStarting, StatusStopping:
		return "◐"
	case StatusCrashed:
		return "✗"
	case StatusStopped:
		return "○"
	default:
		return "·"
	}
}

// Category returns the style category of a status for rendering purposes.
//
// Categories:
//   - "success": running
//   - "info": starting, stopping
//   - "error": crashed
//   - "dim": stopped, unknown
func Category(s Status) string {
	switch s {
	case StatusRunning:
		return "success"
	case StatusStarting, StatusStopping:
		return "info"
	case StatusCrashed:
		return "error"
	default:
		return "dim"
	}
}
