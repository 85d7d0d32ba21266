// Package engine implements the instance status synchronization engine:
// the component that keeps a local view of "what is true about each server
// instance" consistent with the authoritative but slow, poll-based craftd
// backend, while absorbing asynchronous log lines and periodic telemetry
// samples, and layering optimistic transition intents on top of ground
// truth that only updates once per poll interval.
//
// The engine is the single logical owner of all shared state (instance
// registry, transition tracker, telemetry and log buffers). One mutex
// guards it, and every logical step (diff-then-publish, intent set, focus
// switch, log append) runs entirely under one lock acquisition, with no
// remote call in flight while the lock is held. This is the Go rendition
// of a single-threaded cooperative scheduler: steps are atomic, suspension
// points (remote calls) happen between steps, and late responses are
// re-validated against current state before being applied.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/config"
	"github.com/blockhaven/craftctl/internal/status"
)

// Supervisor is the remote-procedure boundary to the process supervisor.
// *api.Client satisfies it; tests substitute a scriptable fake.
type Supervisor interface {
	ListInstances(ctx context.Context) ([]api.Instance, error)
	GetServerStatus(ctx context.Context, instanceID string) (string, error)
	GetServerUsage(ctx context.Context, instanceID string) (*api.Usage, error)
	StartServer(ctx context.Context, instanceID string) error
	StopServer(ctx context.Context, instanceID string) error
	SendCommand(ctx context.Context, instanceID, command string) error
}

// Options configures an Engine.
type Options struct {
	// PollInterval is the status poll cadence. Zero selects the config
	// default (2000 ms).
	PollInterval time.Duration

	// Aliases is the command alias table for intent inference. Nil selects
	// the built-in table.
	Aliases *config.AliasTable
}

// Engine is the instance status synchronization engine.
type Engine struct {
	client Supervisor

	mu sync.Mutex

	// instances is the enriched, ordered instance list from the directory.
	instances []api.Instance

	// statuses caches the last authoritative status per instance id.
	statuses map[string]status.Status

	// focusedID is the currently focused instance, "" for no focus.
	focusedID string

	tracker   *TransitionTracker
	telemetry *TelemetrySampler
	logs      *LogIngester
	aliases   *config.AliasTable

	// tickSeq numbers poll ticks; responses are tagged with it so stale
	// answers for superseded state are discarded, never applied.
	tickSeq uint64

	// inflight maps instance id to the tick whose status query is still
	// outstanding. A tick never starts a second query for such an id.
	inflight map[string]uint64

	// usageInflight guards against overlapping usage queries the same way.
	usageInflight bool

	// restartKicked marks instances whose pending restart has already
	// issued its follow-up start call.
	restartKicked map[string]bool

	pollInterval time.Duration

	// updates coalesces change notifications for the view layer.
	updates chan struct{}

	// done is closed on Close; late responses observed after that are
	// dropped rather than applied to torn-down state.
	done   chan struct{}
	closed bool
}

// New creates an Engine over the given supervisor boundary.
//
// Parameters:
//   - client: The remote supervisor boundary
//   - opts: Engine options (zero value selects defaults)
//
// Returns:
//   - *Engine: The engine; call Run to start polling
func New(client Supervisor, opts Options) *Engine {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}
	aliases := opts.Aliases
	if aliases == nil {
		aliases = config.NewAliasTable(nil)
	}
	return &Engine{
		client:        client,
		statuses:      make(map[string]status.Status),
		tracker:       NewTransitionTracker(),
		telemetry:     NewTelemetrySampler(),
		logs:          NewLogIngester(),
		aliases:       aliases,
		inflight:      make(map[string]uint64),
		restartKicked: make(map[string]bool),
		pollInterval:  interval,
		updates:       make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
}

// Run seeds the registry and drives the poll loop until ctx is cancelled
// or Close is called. Call Ingest separately to attach the log stream.
//
// Parameters:
//   - ctx: Context governing the poll loop
//
// Returns:
//   - error: Any error from the initial registry load
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Load(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	// One immediate tick so the shell doesn't show stale directory
	// statuses for a full interval after startup.
	e.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.done:
			return nil
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// Ingest consumes server-log events from the push channel until it closes
// or the engine shuts down. Run it in its own goroutine; log delivery does
// not wait on the poll loop.
//
// Parameters:
//   - events: The log event channel from the supervisor subscription
func (e *Engine) Ingest(events <-chan api.LogEvent) {
	for {
		select {
		case <-e.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			e.mu.Lock()
			if !e.closed {
				e.logs.Append(ev.InstanceID, ev.Line)
			}
			e.mu.Unlock()
			e.notify()
		}
	}
}

// Close stops the poll loop and releases the engine. Late remote responses
// arriving after Close are discarded.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.updates)
	e.mu.Unlock()
	close(e.done)
}

// SetAliasTable swaps the command alias table, e.g. after a config reload.
func (e *Engine) SetAliasTable(t *config.AliasTable) {
	if t == nil {
		return
	}
	e.mu.Lock()
	e.aliases = t
	e.mu.Unlock()
}

// Updates returns a coalescing channel that receives a signal whenever the
// engine's observable state changes. Consumers re-read the accessors; the
// channel carries no payload and closes when the engine is closed.
func (e *Engine) Updates() <-chan struct{} {
	return e.updates
}

// notify signals the updates channel without blocking. After Close the
// channel is closed, so late responses must not send on it.
func (e *Engine) notify() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.updates <- struct{}{}:
	default:
	}
}

// --- View accessors ---

// Instances returns the enriched instance list with each record's Status
// field refreshed from the authoritative cache.
func (e *Engine) Instances() []api.Instance {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]api.Instance, len(e.instances))
	copy(out, e.instances)
	for i := range out {
		if s, ok := e.statuses[out[i].ID]; ok {
			out[i].Status = string(s)
		}
	}
	return out
}

// Instance returns one instance by id.
//
// Parameters:
//   - id: The instance id
//
// Returns:
//   - api.Instance: The enriched record with refreshed status
//   - bool: False if the id is unknown
func (e *Engine) Instance(id string) (api.Instance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, inst := range e.instances {
		if inst.ID == id {
			if s, ok := e.statuses[id]; ok {
				inst.Status = string(s)
			}
			return inst, true
		}
	}
	return api.Instance{}, false
}

// FocusedID returns the focused instance id, "" for no focus.
func (e *Engine) FocusedID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focusedID
}

// Status returns the cached authoritative status for an instance. Unknown
// ids report stopped, the safe default for a record we cannot see.
func (e *Engine) Status(id string) status.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.statuses[id]; ok {
		return s
	}
	return status.StatusStopped
}

// Intent returns the pending transition intent for an instance.
func (e *Engine) Intent(id string) status.Intent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Get(id)
}

// History returns the usage sample series for an instance. Only the
// focused instance ever has history.
func (e *Engine) History(id string) []UsageSample {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.telemetry.History(id)
}

// LatestUsage returns the most recent usage reading for the focused
// instance, or nil when there is no data (distinguishable from a real
// zero reading).
func (e *Engine) LatestUsage() *UsageSample {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.telemetry.Latest()
}

// Logs returns the buffered log lines for an instance, oldest first.
func (e *Engine) Logs(id string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logs.Buffer(id)
}
