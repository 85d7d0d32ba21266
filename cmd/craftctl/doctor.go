// Package main provides the doctor and ping commands for CLI diagnostics.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/config"
	"github.com/blockhaven/craftctl/internal/ui"
)

// DoctorCheck represents a single diagnostic check result.
type DoctorCheck struct {
	// Name is the check name (e.g., "Daemon", "Config").
	Name string `json:"name"`

	// Status is the check status: "ok", "warning", "error".
	Status string `json:"status"`

	// Message is the human-readable result message.
	Message string `json:"message"`
}

// DoctorResult contains all diagnostic check results.
type DoctorResult struct {
	// Checks contains all individual check results.
	Checks []DoctorCheck `json:"checks"`

	// Issues is the count of checks with status "error" or "warning".
	Issues int `json:"issues"`

	// Healthy is true if no errors were found.
	Healthy bool `json:"healthy"`
}

var doctorOutputJSON bool

// doctorCmd runs diagnostic checks on the CLI installation.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check CLI health and connectivity",
	Long: `Run diagnostic checks on the craftctl installation.

CHECKS PERFORMED:
  - Daemon connectivity (can reach craftd?)
  - Configuration (.craftctl/config.yaml found and valid?)
  - Instance directory (does it list?)
  - Log stream (does the push subscription connect?)

OUTPUT:
  Human-readable by default, JSON with --json flag.

EXAMPLES:
  craftctl doctor              # Run all checks
  craftctl doctor --json       # Output as JSON for scripting`,
	RunE: runDoctor,
}

// pingCmd tests daemon connectivity.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test craftd connectivity",
	Long: `Test connectivity to the craftd daemon.

Performs a simple health check and reports the response time.

EXAMPLES:
  craftctl ping
  craftctl ping --server http://10.0.0.5:5700`,
	RunE: runPing,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorOutputJSON, "json", false, "Output results as JSON")
}

// runDoctor executes all diagnostic checks.
func runDoctor(cmd *cobra.Command, args []string) error {
	jsonOutput := jsonOutputEnabled(cmd, doctorOutputJSON)

	result := DoctorResult{
		Checks:  make([]DoctorCheck, 0),
		Healthy: true,
	}
	addCheck := func(name, status, message string) {
		result.Checks = append(result.Checks, DoctorCheck{Name: name, Status: status, Message: message})
		if status != "ok" {
			result.Issues++
		}
		if status == "error" {
			result.Healthy = false
		}
	}

	if !jsonOutput {
		ui.PrintBanner(version)
		ui.PrintInfo("Running diagnostic checks...")
		ui.Println()
	}

	cfg, cfgPath := config.LoadOrDefault()
	if cfgPath == "" {
		addCheck("Config", "warning", "no .craftctl/config.yaml found, using defaults")
	} else {
		addCheck("Config", "ok", fmt.Sprintf("loaded from %s", cfgPath))
	}

	baseURL := cfg.Server.URL
	if override, _ := cmd.Root().PersistentFlags().GetString("server"); override != "" {
		baseURL = override
	}
	client := api.NewClient(baseURL, cfg.Server.Token)

	start := time.Now()
	if daemonVersion, err := client.Ping(cmd.Context()); err != nil {
		addCheck("Daemon", "error", fmt.Sprintf("cannot reach craftd: %v", err))
	} else {
		addCheck("Daemon", "ok", fmt.Sprintf("craftd %s reachable in %s", daemonVersion, time.Since(start).Round(time.Millisecond)))
	}

	if result.Healthy {
		if instances, err := client.ListInstances(cmd.Context()); err != nil {
			addCheck("Instances", "error", fmt.Sprintf("directory fetch failed: %v", err))
		} else {
			addCheck("Instances", "ok", fmt.Sprintf("%d instance(s) registered", len(instances)))
		}

		streamCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		stream := api.NewLogStreamClient()
		if err := stream.Connect(streamCtx, client.LogStreamURL()); err != nil {
			addCheck("Log stream", "warning", fmt.Sprintf("subscription failed: %v", err))
		} else {
			stream.Close()
			addCheck("Log stream", "ok", "subscription connects")
		}
		cancel()
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		if !result.Healthy {
			return fmt.Errorf("diagnostics found errors")
		}
		return nil
	}

	for _, check := range result.Checks {
		switch check.Status {
		case "ok":
			ui.PrintSuccess("%s: %s", check.Name, check.Message)
		case "warning":
			ui.PrintWarning("%s: %s", check.Name, check.Message)
		default:
			ui.PrintError("%s: %s", check.Name, check.Message)
		}
	}

	ui.Println()
	if result.Healthy {
		ui.PrintSuccess("All checks passed")
		return nil
	}
	ui.PrintError("%d issue(s) found", result.Issues)
	return fmt.Errorf("diagnostics found errors")
}

// runPing performs a single health check round trip.
func runPing(cmd *cobra.Command, args []string) error {
	_, client := loadConfigAndClient(cmd)

	start := time.Now()
	daemonVersion, err := client.Ping(cmd.Context())
	if err != nil {
		ui.PrintError("craftd unreachable: %v", err)
		return err
	}
	ui.PrintSuccess("craftd %s responded in %s", daemonVersion, time.Since(start).Round(time.Millisecond))
	return nil
}
