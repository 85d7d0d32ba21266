// Package config provides craftctl configuration management.
//
// This package handles reading .craftctl/config.yaml files (project-local,
// falling back to the user's home directory) and the command alias table
// that maps console commands to optimistic transition intents.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blockhaven/craftctl/internal/status"
)

// DefaultPollInterval is the status poll cadence when the config does not
// override it.
const DefaultPollInterval = 2000 * time.Millisecond

// Config represents the .craftctl/config.yaml file.
type Config struct {
	// Server contains the craftd connection settings.
	Server ServerConfig `yaml:"server"`

	// PollIntervalMS is the status poll interval in milliseconds.
	// Zero selects DefaultPollInterval.
	PollIntervalMS int `yaml:"poll_interval_ms,omitempty"`

	// Aliases contains additional command alias rules, merged over the
	// built-in table. The built-ins cover "stop", "restart", and the
	// proxy-loader "end"; sites with custom wrapper commands extend this.
	Aliases []AliasRule `yaml:"aliases,omitempty"`
}

// ServerConfig contains craftd connection settings.
type ServerConfig struct {
	// URL is the craftd base URL (e.g. "http://127.0.0.1:5700").
	URL string `yaml:"url,omitempty"`

	// Token is the bearer token, if craftd requires one.
	Token string `yaml:"token,omitempty"`
}

// AliasRule maps one console command to a transition intent, optionally
// scoped to specific loaders.
type AliasRule struct {
	// Command is the command text that triggers the intent (matched after
	// trimming and case-folding).
	Command string `yaml:"command"`

	// Intent is the transition intent to set: "stopping" or "restarting".
	Intent string `yaml:"intent"`

	// Loaders restricts the rule to instances of these loader kinds.
	// Empty means the rule applies to every loader.
	Loaders []string `yaml:"loaders,omitempty"`
}

// PollInterval returns the configured poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return DefaultPollInterval
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Default returns the configuration used when no config file exists.
//
// Returns:
//   - *Config: A config pointing at the default local craftd
func Default() *Config {
	return &Config{}
}

// Load reads a config file from the given path.
//
// Parameters:
//   - path: Path to the YAML config file
//
// Returns:
//   - *Config: The parsed configuration
//   - error: Any error that occurred
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// FindConfigPath locates the config file: .craftctl/config.yaml in the
// working directory first, then $HOME/.craftctl/config.yaml.
//
// Returns:
//   - string: The path of the first config file that exists, or "" if none
func FindConfigPath() string {
	if wd, err := os.Getwd(); err == nil {
		p := filepath.Join(wd, ".craftctl", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".craftctl", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadOrDefault loads the discovered config file, applying environment
// overrides (CRAFTD_URL, CRAFTD_TOKEN) on top. A missing or unreadable
// file yields the defaults rather than an error; the CLI must work against
// a local daemon with zero configuration.
//
// Returns:
//   - *Config: The effective configuration
//   - string: The path the config was loaded from, or "" for defaults
func LoadOrDefault() (*Config, string) {
	cfg := Default()
	path := FindConfigPath()
	if path != "" {
		if loaded, err := Load(path); err == nil {
			cfg = loaded
		}
	}

	if url := os.Getenv("CRAFTD_URL"); url != "" {
		cfg.Server.URL = url
	}
	if token := os.Getenv("CRAFTD_TOKEN"); token != "" {
		cfg.Server.Token = token
	}

	return cfg, path
}

// AliasTable resolves console command text to transition intents, per
// loader kind. Lookups are exact-match after trimming and case-folding;
// inference is best-effort and unrecognized commands resolve to no intent.
type AliasTable struct {
	// rules maps command text to its rules. Later rules for the same
	// command take precedence (config overrides built-ins).
	rules map[string][]AliasRule
}

// proxyLoaders are the loader kinds that front other servers rather than
// hosting a world themselves; their console uses "end" instead of "stop".
var proxyLoaders = []string{"velocity", "bungeecord", "waterfall"}

// builtinAliases is the default alias table.
var builtinAliases = []AliasRule{
	{Command: "stop", Intent: string(status.IntentStopping)},
	{Command: "restart", Intent: string(status.IntentRestarting)},
	{Command: "end", Intent: string(status.IntentStopping), Loaders: proxyLoaders},
}

// NewAliasTable builds the effective alias table: the built-in rules plus
// any extra rules from configuration, with extras taking precedence.
//
// Parameters:
//   - extra: Additional rules from the config file (may be nil)
//
// Returns:
//   - *AliasTable: The merged table
func NewAliasTable(extra []AliasRule) *AliasTable {
	t := &AliasTable{rules: make(map[string][]AliasRule)}
	for _, r := range builtinAliases {
		t.add(r)
	}
	for _, r := range extra {
		t.add(r)
	}
	return t
}

// add prepends a rule so that later additions win on lookup.
func (t *AliasTable) add(r AliasRule) {
	key := normalizeCommand(r.Command)
	if key == "" {
		return
	}
	t.rules[key] = append([]AliasRule{r}, t.rules[key]...)
}

// Lookup resolves a command to a transition intent for an instance of the
// given loader kind.
//
// Parameters:
//   - loader: The instance's loader kind (e.g. "paper", "velocity"; may be empty)
//   - command: The raw console command text
//
// Returns:
//   - status.Intent: The inferred intent, or IntentNone if unrecognized
func (t *AliasTable) Lookup(loader, command string) status.Intent {
	key := normalizeCommand(command)
	for _, r := range t.rules[key] {
		if !r.matchesLoader(loader) {
			continue
		}
		switch status.Intent(r.Intent) {
		case status.IntentStopping:
			return status.IntentStopping
		case status.IntentRestarting:
			return status.IntentRestarting
		}
		// Unknown intent strings in config degrade to no inference
	}
	return status.IntentNone
}

// matchesLoader reports whether the rule applies to the given loader kind.
func (r *AliasRule) matchesLoader(loader string) bool {
	if len(r.Loaders) == 0 {
		return true
	}
	for _, l := range r.Loaders {
		if normalizeCommand(l) == normalizeCommand(loader) {
			return true
		}
	}
	return false
}

// normalizeCommand trims and case-folds command text for matching.
func normalizeCommand(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
