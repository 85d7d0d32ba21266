// Package engine implements the instance status synchronization engine.
//
// This file contains the transition tracker: the optimistic state machine
// layered over authoritative status, one slot per instance id.
package engine

import (
	"github.com/blockhaven/craftctl/internal/status"
)

// TransitionTracker holds at most one pending transition intent per
// instance id. It is a pure in-memory map with no persistence; on restart
// of the shell it is always empty. The tracker itself is not safe for
// concurrent use; the Engine serializes access to it.
type TransitionTracker struct {
	intents map[string]status.Intent
}

// NewTransitionTracker creates an empty tracker.
func NewTransitionTracker() *TransitionTracker {
	return &TransitionTracker{intents: make(map[string]status.Intent)}
}

// Set records a pending intent for an instance. It always overwrites any
// prior intent for that id: the last request wins, so issuing stop while a
// start is still pending immediately flips the displayed intent.
//
// Parameters:
//   - id: The instance id
//   - intent: The intent to record (IntentNone clears)
func (t *TransitionTracker) Set(id string, intent status.Intent) {
	if intent == status.IntentNone {
		delete(t.intents, id)
		return
	}
	t.intents[id] = intent
}

// Clear removes any pending intent for an instance.
func (t *TransitionTracker) Clear(id string) {
	delete(t.intents, id)
}

// Get returns the pending intent for an instance, or IntentNone.
func (t *TransitionTracker) Get(id string) status.Intent {
	return t.intents[id]
}

// Pending returns the ids that currently have a pending intent.
func (t *TransitionTracker) Pending() []string {
	ids := make([]string, 0, len(t.intents))
	for id := range t.intents {
		ids = append(ids, id)
	}
	return ids
}
