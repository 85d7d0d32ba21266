// Package main provides the instance status command.
package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/config"
	"github.com/blockhaven/craftctl/internal/status"
	"github.com/blockhaven/craftctl/internal/ui"
)

var (
	statusOutputJSON bool
	statusWatch      bool
)

func init() {
	statusCmd.Flags().BoolVar(&statusOutputJSON, "json", false, "Output results as JSON")
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Poll and redraw until interrupted")
}

// statusCmd shows the live status of one instance.
var statusCmd = &cobra.Command{
	Use:   "status <name|id>",
	Short: "Show live instance status",
	Long: `Show the live status of an instance, queried from craftd.

Includes CPU and memory usage when the instance is running.

Examples:
  craftctl status smp-world
  craftctl status smp-world --watch
  craftctl status smp-world --json`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

// runStatus queries and prints one instance's status.
func runStatus(cmd *cobra.Command, args []string) error {
	jsonOutput := jsonOutputEnabled(cmd, statusOutputJSON)

	_, client := loadConfigAndClient(cmd)

	inst, err := resolveInstance(cmd.Context(), client, args[0])
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("instance not found")
	}

	if statusWatch && !jsonOutput {
		return watchStatus(cmd, client, inst)
	}

	raw, err := client.GetServerStatus(cmd.Context(), inst.ID)
	if err != nil {
		ui.PrintError("Failed to fetch status: %v", err)
		return err
	}
	s, ok := status.Parse(raw)
	if !ok {
		ui.PrintWarning("craftd reported an unrecognized status %q", raw)
		s = status.StatusStopped
	}

	var cpu float64
	var memBytes uint64
	hasUsage := false
	if s == status.StatusRunning {
		if usage, err := client.GetServerUsage(cmd.Context(), inst.ID); err == nil {
			cpu = usage.CPUUsage
			memBytes = usage.MemoryUsage
			hasUsage = true
		}
	}

	if jsonOutput {
		output := map[string]interface{}{
			"id":      inst.ID,
			"name":    inst.Name,
			"status":  string(s),
			"loader":  inst.Loader,
			"version": inst.Version,
			"address": inst.Address(),
		}
		if hasUsage {
			output["cpu_usage"] = cpu
			output["memory_usage"] = memBytes
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	ui.Println()
	ui.PrintInstanceBox(*inst, status.IntentNone, s, cpu, memBytes, hasUsage)
	return nil
}

// watchStatus polls the instance on the standard cadence and redraws a
// single line until the command is interrupted.
func watchStatus(cmd *cobra.Command, client *api.Client, inst *api.Instance) error {
	ctx := cmd.Context()
	started := time.Now()

	ticker := time.NewTicker(config.DefaultPollInterval)
	defer ticker.Stop()

	ui.PrintDim("Watching %s (ctrl+c to stop)", inst.Name)
	for {
		raw, err := client.GetServerStatus(ctx, inst.ID)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println()
				return nil
			}
			ui.ClearLine()
			fmt.Printf("  %s  (unreachable: %v)", inst.Name, err)
		} else {
			s, ok := status.Parse(raw)
			if !ok {
				s = status.StatusStopped
			}
			elapsed := time.Since(started).Round(time.Second).String()
			ui.PrintWatchLine(inst.Name, status.IntentNone, s, elapsed)
		}

		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-ticker.C:
		}
	}
}
