package engine

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/blockhaven/craftctl/internal/status"
)

// tick runs one poll cycle: it queries the authoritative status of every
// instance without an outstanding query, applies each answer as an atomic
// diff-then-publish step, resolves pending intents against the observed
// status, and samples usage for the focused instance when it is running.
//
// Each cycle is tagged with a sequence number. An answer is applied only
// if its instance still carries that tag; answers for instances that were
// removed or re-queried in the meantime are discarded. An instance whose
// previous query has not answered yet is skipped entirely, so a slow
// backend degrades to a lower effective poll rate instead of a pile-up of
// concurrent queries per instance.
func (e *Engine) tick(ctx context.Context) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.tickSeq++
	seq := e.tickSeq

	targets := make([]string, 0, len(e.instances))
	for _, inst := range e.instances {
		if _, busy := e.inflight[inst.ID]; busy {
			continue
		}
		e.inflight[inst.ID] = seq
		targets = append(targets, inst.ID)
	}

	focused := e.focusedID
	sampleUsage := false
	if focused != "" && !e.usageInflight && e.statuses[focused] == status.StatusRunning {
		sampleUsage = true
		e.usageInflight = true
	}
	e.mu.Unlock()

	var wg sync.WaitGroup
	for _, id := range targets {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			raw, err := e.client.GetServerStatus(ctx, id)
			e.applyStatus(ctx, seq, id, raw, err)
		}(id)
	}
	if sampleUsage {
		wg.Add(1)
		go func() {
			defer wg.Done()
			usage, err := e.client.GetServerUsage(ctx, focused)
			e.mu.Lock()
			e.usageInflight = false
			switch {
			case e.closed || err != nil || usage == nil:
				if err != nil {
					log.Debug("usage query failed", "instance", focused, "error", err)
				}
				e.mu.Unlock()
			case e.focusedID != focused || e.statuses[focused] != status.StatusRunning:
				// Focus moved, or this tick's status answer already
				// observed the instance leaving running, while the query
				// was in flight. The sample describes a state the shell no
				// longer shows.
				e.mu.Unlock()
			default:
				e.telemetry.Sample(focused, UsageSample{
					CPU:         usage.CPUUsage,
					MemoryBytes: usage.MemoryUsage,
					CapturedAt:  time.Now(),
				})
				e.mu.Unlock()
				e.notify()
			}
		}()
	}
	wg.Wait()
}

// applyStatus applies one status answer as a single atomic step: discard
// if stale, diff against the cached status, resolve the pending intent,
// and publish only when something observable changed.
func (e *Engine) applyStatus(ctx context.Context, seq uint64, id, raw string, err error) {
	var kickRestart bool

	e.mu.Lock()
	cur, outstanding := e.inflight[id]
	if !outstanding || cur != seq || e.closed {
		// The query this answer belongs to was superseded (instance
		// removed, engine closed). Late answers never touch state.
		e.mu.Unlock()
		return
	}
	delete(e.inflight, id)

	if err != nil {
		// Poll errors keep the last known status; the next tick retries.
		e.mu.Unlock()
		log.Debug("status query failed", "instance", id, "error", err)
		return
	}

	observed, ok := status.Parse(raw)
	if !ok {
		e.mu.Unlock()
		log.Warn("supervisor reported unknown status", "instance", id, "status", raw)
		return
	}

	changed := false
	if e.statuses[id] != observed {
		e.statuses[id] = observed
		changed = true
	}

	if id == e.focusedID && observed != status.StatusRunning && e.telemetry.Latest() != nil {
		// The focused instance is no longer running: stale readings would
		// misrepresent a stopped server, so history clears on the tick
		// that observes the change.
		e.telemetry.Reset()
		changed = true
	}

	// An intent with no confirming observation stays pending until one
	// arrives; there is no timeout.
	intent := e.tracker.Get(id)
	if resolved := status.Resolve(intent, observed); resolved != intent {
		e.tracker.Set(id, resolved)
		if resolved != status.IntentRestarting {
			delete(e.restartKicked, id)
		}
		changed = true
	} else if intent == status.IntentRestarting && observed == status.StatusStopped && !e.restartKicked[id] {
		// The stop half of a restart completed; kick the start half once.
		e.restartKicked[id] = true
		kickRestart = true
	}
	e.mu.Unlock()

	if kickRestart {
		go func() {
			if startErr := e.client.StartServer(ctx, id); startErr != nil {
				log.Warn("restart: start call failed", "instance", id, "error", startErr)
				e.mu.Lock()
				// Roll the intent back only if it is still the restart we
				// issued; a newer intent wins.
				if e.tracker.Get(id) == status.IntentRestarting {
					e.tracker.Clear(id)
					delete(e.restartKicked, id)
				}
				e.mu.Unlock()
				e.notify()
			}
		}()
	}
	if changed || kickRestart {
		e.notify()
	}
}
