package engine

import (
	"testing"

	"github.com/blockhaven/craftctl/internal/status"
)

func TestTrackerSetGet(t *testing.T) {
	tr := NewTransitionTracker()

	if got := tr.Get("alpha"); got != status.IntentNone {
		t.Errorf("Get on empty tracker = %q, want none", got)
	}

	tr.Set("alpha", status.IntentStarting)
	if got := tr.Get("alpha"); got != status.IntentStarting {
		t.Errorf("Get = %q, want starting", got)
	}
	if got := tr.Get("beta"); got != status.IntentNone {
		t.Errorf("Get for untouched id = %q, want none", got)
	}
}

func TestTrackerLastWriterWins(t *testing.T) {
	tr := NewTransitionTracker()

	tr.Set("alpha", status.IntentStarting)
	tr.Set("alpha", status.IntentStopping)
	if got := tr.Get("alpha"); got != status.IntentStopping {
		t.Errorf("Get after overwrite = %q, want stopping", got)
	}

	// Re-setting the same intent is idempotent.
	tr.Set("alpha", status.IntentStopping)
	if got := tr.Get("alpha"); got != status.IntentStopping {
		t.Errorf("Get after idempotent set = %q, want stopping", got)
	}
}

func TestTrackerClear(t *testing.T) {
	tr := NewTransitionTracker()

	tr.Set("alpha", status.IntentRestarting)
	tr.Clear("alpha")
	if got := tr.Get("alpha"); got != status.IntentNone {
		t.Errorf("Get after Clear = %q, want none", got)
	}

	// Setting none is equivalent to clearing.
	tr.Set("beta", status.IntentStarting)
	tr.Set("beta", status.IntentNone)
	if got := len(tr.Pending()); got != 0 {
		t.Errorf("Pending after clearing all = %d entries, want 0", got)
	}
}

func TestTrackerPending(t *testing.T) {
	tr := NewTransitionTracker()

	tr.Set("alpha", status.IntentStarting)
	tr.Set("beta", status.IntentStopping)

	pending := tr.Pending()
	if len(pending) != 2 {
		t.Fatalf("Pending = %d entries, want 2", len(pending))
	}
	seen := map[string]bool{}
	for _, id := range pending {
		seen[id] = true
	}
	if !seen["alpha"] || !seen["beta"] {
		t.Errorf("Pending = %v, want alpha and beta", pending)
	}
}
