package engine

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/status"
)

// Enrichment defaults for directory records that omit connection details.
// They apply only when the field is absent; a present value is never
// overwritten.
const (
	defaultIP          = "127.0.0.1"
	defaultPort        = 25565
	defaultCapacity    = 20
	defaultDescription = "A craftctl managed server"
)

// Load fetches the instance directory, enriches records with display
// defaults, and reconciles local per-instance state with the new id set.
// Buffers, intents, and inflight markers for ids that vanished from the
// directory are dropped; if the focused instance vanished, focus clears.
//
// Parameters:
//   - ctx: Context for the directory call
//
// Returns:
//   - error: Any error from the remote listing
func (e *Engine) Load(ctx context.Context) error {
	instances, err := e.client.ListInstances(ctx)
	if err != nil {
		return err
	}

	for i := range instances {
		enrich(&instances[i])
	}

	e.mu.Lock()
	e.instances = instances

	known := make(map[string]bool, len(instances))
	for _, inst := range instances {
		known[inst.ID] = true
		// Seed from the directory's cached status field so the shell has
		// something to show before the first poll answers. The poller
		// overwrites this with authoritative data.
		if _, ok := e.statuses[inst.ID]; !ok {
			if s, ok := status.Parse(inst.Status); ok {
				e.statuses[inst.ID] = s
			} else {
				e.statuses[inst.ID] = status.StatusStopped
			}
		}
	}

	for id := range e.statuses {
		if !known[id] {
			delete(e.statuses, id)
			delete(e.inflight, id)
			delete(e.restartKicked, id)
			e.tracker.Clear(id)
			e.logs.Remove(id)
			log.Debug("dropped state for vanished instance", "instance", id)
		}
	}
	if e.focusedID != "" && !known[e.focusedID] {
		e.focusedID = ""
		e.telemetry.Track("")
	}
	e.mu.Unlock()

	e.notify()
	return nil
}

// Focus switches the focused instance. Switching resets telemetry history
// so a sparkline never mixes samples from two instances; focusing the
// already-focused id is a no-op. An empty id clears focus.
//
// Parameters:
//   - id: The instance id to focus, or "" to clear
//
// Returns:
//   - bool: False if the id is not in the registry
func (e *Engine) Focus(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id != "" && !e.hasInstanceLocked(id) {
		return false
	}
	if id == e.focusedID {
		return true
	}
	e.focusedID = id
	e.telemetry.Track(id)
	return true
}

func (e *Engine) hasInstanceLocked(id string) bool {
	for _, inst := range e.instances {
		if inst.ID == id {
			return true
		}
	}
	return false
}

// enrich fills display defaults on a directory record in place.
func enrich(inst *api.Instance) {
	if inst.IP == "" {
		inst.IP = defaultIP
	}
	if inst.Port == 0 {
		inst.Port = defaultPort
	}
	if inst.Capacity == 0 {
		inst.Capacity = defaultCapacity
	}
	if inst.Description == "" {
		inst.Description = defaultDescription
	}
}
