package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blockhaven/craftctl/internal/status"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
server:
  url: http://10.0.0.9:5700
  token: secret
poll_interval_ms: 1000
aliases:
  - command: shutdown
    intent: stopping
  - command: reboot
    intent: restarting
    loaders: [paper]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.URL != "http://10.0.0.9:5700" {
		t.Errorf("Server.URL = %q", cfg.Server.URL)
	}
	if cfg.Server.Token != "secret" {
		t.Errorf("Server.Token = %q", cfg.Server.Token)
	}
	if got := cfg.PollInterval(); got != time.Second {
		t.Errorf("PollInterval() = %v, want 1s", got)
	}
	if len(cfg.Aliases) != 2 {
		t.Fatalf("got %d aliases, want 2", len(cfg.Aliases))
	}
}

func TestPollIntervalDefault(t *testing.T) {
	cfg := Default()
	if got := cfg.PollInterval(); got != DefaultPollInterval {
		t.Errorf("PollInterval() = %v, want %v", got, DefaultPollInterval)
	}
}

func TestAliasTableBuiltins(t *testing.T) {
	table := NewAliasTable(nil)

	tests := []struct {
		name    string
		loader  string
		command string
		want    status.Intent
	}{
		{"stop on any loader", "paper", "stop", status.IntentStopping},
		{"stop with whitespace", "", "  stop  ", status.IntentStopping},
		{"stop case folded", "fabric", "STOP", status.IntentStopping},
		{"restart on any loader", "vanilla", "restart", status.IntentRestarting},
		{"end on velocity", "velocity", "end", status.IntentStopping},
		{"end on bungeecord", "bungeecord", "end", status.IntentStopping},
		{"end on waterfall", "waterfall", "end", status.IntentStopping},
		{"end not a stop for world servers", "paper", "end", status.IntentNone},
		{"unrecognized command", "paper", "say stop", status.IntentNone},
		{"gamerule is not a lifecycle command", "paper", "gamerule doDaylightCycle false", status.IntentNone},
		{"empty command", "paper", "", status.IntentNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Lookup(tt.loader, tt.command); got != tt.want {
				t.Errorf("Lookup(%q, %q) = %q, want %q", tt.loader, tt.command, got, tt.want)
			}
		})
	}
}

func TestAliasTableConfigRules(t *testing.T) {
	table := NewAliasTable([]AliasRule{
		{Command: "shutdown", Intent: "stopping"},
		{Command: "reboot", Intent: "restarting", Loaders: []string{"paper"}},
		// A config rule overriding a built-in
		{Command: "end", Intent: "restarting"},
		// Nonsense intent strings degrade to no inference
		{Command: "explode", Intent: "detonating"},
	})

	tests := []struct {
		name    string
		loader  string
		command string
		want    status.Intent
	}{
		{"custom stop alias", "fabric", "shutdown", status.IntentStopping},
		{"loader-scoped alias matches", "paper", "reboot", status.IntentRestarting},
		{"loader-scoped alias misses", "fabric", "reboot", status.IntentNone},
		{"config rule wins over builtin", "velocity", "end", status.IntentRestarting},
		{"unknown intent ignored", "paper", "explode", status.IntentNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Lookup(tt.loader, tt.command); got != tt.want {
				t.Errorf("Lookup(%q, %q) = %q, want %q", tt.loader, tt.command, got, tt.want)
			}
		})
	}
}

func TestLoadOrDefaultEnvOverride(t *testing.T) {
	t.Setenv("CRAFTD_URL", "http://envhost:5700")
	t.Setenv("CRAFTD_TOKEN", "envtok")

	cfg, _ := LoadOrDefault()
	if cfg.Server.URL != "http://envhost:5700" {
		t.Errorf("Server.URL = %q, want env override", cfg.Server.URL)
	}
	if cfg.Server.Token != "envtok" {
		t.Errorf("Server.Token = %q, want env override", cfg.Server.Token)
	}
}

func TestWatchReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("poll_interval_ms: 1000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 4)
	w, err := Watch(path, func(c *Config) { reloaded <- c })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("poll_interval_ms: 3000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.PollIntervalMS != 3000 {
			t.Errorf("reloaded PollIntervalMS = %d, want 3000", cfg.PollIntervalMS)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
