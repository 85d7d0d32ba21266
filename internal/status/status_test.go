// Package status provides the shared instance status vocabulary for craftctl.
package status

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		want   Status
		wantOK bool
	}{
		{"stopped", StatusStopped, true},
		{"starting", StatusStarting, true},
		{"running", StatusRunning, true},
		{"stopping", StatusStopping, true},
		{"crashed", StatusCrashed, true},
		{"RUNNING", StatusRunning, true}, // Case insensitive
		{"  stopped  ", StatusStopped, true},
		{"paused", "paused", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			if ok != tt.wantOK {
				t.Errorf("Parse(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		s    Status
		want bool
	}{
		{StatusStarting, true},
		{StatusRunning, true},
		{StatusStopping, true},
		{StatusStopped, false},
		{StatusCrashed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.s), func(t *testing.T) {
			if got := IsActive(tt.s); got != tt.want {
				t.Errorf("IsActive(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

// TestResolve covers every (intent, status) pair against the resolution
// rules: starting clears on running or crashed, stopping clears on stopped,
// restarting clears on running, everything else stays pending.
func TestResolve(t *testing.T) {
	all := []Status{StatusStopped, StatusStarting, StatusRunning, StatusStopping, StatusCrashed}

	cleared := map[Intent]map[Status]bool{
		IntentStarting:   {StatusRunning: true, StatusCrashed: true},
		IntentStopping:   {StatusStopped: true},
		IntentRestarting: {StatusRunning: true},
	}

	for _, intent := range []Intent{IntentNone, IntentStarting, IntentStopping, IntentRestarting} {
		for _, s := range all {
			name := string(intent) + "/" + string(s)
			if intent == IntentNone {
				name = "none/" + string(s)
			}
			t.Run(name, func(t *testing.T) {
				got := Resolve(intent, s)
				want := intent
				if cleared[intent][s] {
					want = IntentNone
				}
				if got != want {
					t.Errorf("Resolve(%q, %q) = %q, want %q", intent, s, got, want)
				}
			})
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		s      Status
		want   string
	}{
		{"intent wins", IntentStarting, StatusStopped, "starting…"},
		{"no intent shows status", IntentNone, StatusRunning, "running"},
		{"restart over running", IntentRestarting, StatusRunning, "restarting…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Display(tt.intent, tt.s); got != tt.want {
				t.Errorf("Display(%q, %q) = %q, want %q", tt.intent, tt.s, got, tt.want)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusRunning, "success"},
		{StatusStarting, "info"},
		{StatusStopping, "info"},
		{StatusCrashed, "error"},
		{StatusStopped, "dim"},
	}

	for _, tt := range tests {
		t.Run(string(tt.s), func(t *testing.T) {
			if got := Category(tt.s); got != tt.want {
				t.Errorf("Category(%q) = %q, want %q", tt.s, got, tt.want)
			}
		})
	}
}
