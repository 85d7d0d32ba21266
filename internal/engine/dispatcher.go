package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/blockhaven/craftctl/internal/status"
)

// The dispatcher turns user actions into supervisor calls with optimistic
// transition intents. Every lifecycle action records its intent before the
// remote call goes out, so the shell reflects the action immediately; if
// the supervisor rejects the call, the intent rolls back, but only if it
// is still the one this action recorded. A newer intent set in the window
// between call and rejection wins and is left untouched.

// StartInstance requests a server start.
//
// Parameters:
//   - ctx: Context for the remote call
//   - id: The instance id
//
// Returns:
//   - error: The supervisor's rejection, if any
func (e *Engine) StartInstance(ctx context.Context, id string) error {
	return e.transition(ctx, id, status.IntentStarting, e.client.StartServer)
}

// StopInstance requests a server stop.
func (e *Engine) StopInstance(ctx context.Context, id string) error {
	return e.transition(ctx, id, status.IntentStopping, e.client.StopServer)
}

// RestartInstance stops a server and marks it for an automatic start once
// the stop is observed. The supervisor has no single restart call; the
// poller issues the start half when it sees the instance reach stopped
// while the restart intent is still pending.
func (e *Engine) RestartInstance(ctx context.Context, id string) error {
	return e.transition(ctx, id, status.IntentRestarting, e.client.StopServer)
}

// transition records an intent, fires the remote call, and rolls the
// intent back on rejection if nothing overwrote it in the meantime.
func (e *Engine) transition(ctx context.Context, id string, intent status.Intent, call func(context.Context, string) error) error {
	e.mu.Lock()
	if !e.hasInstanceLocked(id) {
		e.mu.Unlock()
		return fmt.Errorf("unknown instance: %s", id)
	}
	e.tracker.Set(id, intent)
	delete(e.restartKicked, id)
	e.mu.Unlock()
	e.notify()

	if err := call(ctx, id); err != nil {
		e.mu.Lock()
		if e.tracker.Get(id) == intent {
			e.tracker.Clear(id)
			delete(e.restartKicked, id)
		}
		e.mu.Unlock()
		e.notify()
		return err
	}
	return nil
}

// SendCommand forwards a console command to an instance. Commands known to
// trigger a lifecycle transition (per the alias table, which accounts for
// the instance's loader) record the matching intent first, with the same
// rollback rule as the explicit lifecycle actions.
//
// Parameters:
//   - ctx: Context for the remote call
//   - id: The instance id
//   - command: The raw console command line
//
// Returns:
//   - error: The supervisor's rejection, if any
func (e *Engine) SendCommand(ctx context.Context, id, command string) error {
	e.mu.Lock()
	if !e.hasInstanceLocked(id) {
		e.mu.Unlock()
		return fmt.Errorf("unknown instance: %s", id)
	}
	loader := ""
	for _, inst := range e.instances {
		if inst.ID == id {
			loader = inst.Loader
			break
		}
	}
	intent := e.aliases.Lookup(loader, command)
	if intent != status.IntentNone {
		log.Debug("command implies transition", "instance", id, "command", command, "intent", intent)
		e.tracker.Set(id, intent)
		delete(e.restartKicked, id)
	}
	e.mu.Unlock()
	if intent != status.IntentNone {
		e.notify()
	}

	if err := e.client.SendCommand(ctx, id, command); err != nil {
		if intent != status.IntentNone {
			e.mu.Lock()
			if e.tracker.Get(id) == intent {
				e.tracker.Clear(id)
				delete(e.restartKicked, id)
			}
			e.mu.Unlock()
			e.notify()
		}
		return err
	}
	return nil
}
