// Package main provides the start, stop, and restart commands.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/config"
	"github.com/blockhaven/craftctl/internal/status"
	"github.com/blockhaven/craftctl/internal/ui"
)

var (
	startWait   bool
	stopWait    bool
	restartWait bool
	waitTimeout int
)

func init() {
	startCmd.Flags().BoolVar(&startWait, "wait", false, "Wait until the instance is running")
	stopCmd.Flags().BoolVar(&stopWait, "wait", false, "Wait until the instance has stopped")
	restartCmd.Flags().BoolVar(&restartWait, "wait", false, "Wait until the instance is running again")

	for _, cmd := range []*cobra.Command{startCmd, stopCmd, restartCmd} {
		cmd.Flags().IntVar(&waitTimeout, "timeout", 60, "Seconds to wait before giving up")
	}
}

// startCmd starts an instance.
var startCmd = &cobra.Command{
	Use:   "start <name|id>",
	Short: "Start an instance",
	Long: `Ask craftd to start an instance.

Returns as soon as craftd accepts the request; pass --wait to block until
the instance reports running.

Examples:
  craftctl start smp-world
  craftctl start smp-world --wait`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

// stopCmd stops an instance.
var stopCmd = &cobra.Command{
	Use:   "stop <name|id>",
	Short: "Stop an instance",
	Long: `Ask craftd to stop an instance.

Returns as soon as craftd accepts the request; pass --wait to block until
the instance reports stopped.

Examples:
  craftctl stop smp-world
  craftctl stop smp-world --wait`,
	Args: cobra.ExactArgs(1),
	RunE: runStop,
}

// restartCmd restarts an instance.
var restartCmd = &cobra.Command{
	Use:   "restart <name|id>",
	Short: "Restart an instance",
	Long: `Stop an instance, wait for it to fully stop, then start it again.

craftd has no one-shot restart, so this always waits for the stop to
settle before issuing the start. Pass --wait to additionally block until
the instance reports running.

Examples:
  craftctl restart smp-world
  craftctl restart smp-world --wait --timeout 120`,
	Args: cobra.ExactArgs(1),
	RunE: runRestart,
}

// runStart handles the start command.
func runStart(cmd *cobra.Command, args []string) error {
	_, client := loadConfigAndClient(cmd)

	inst, err := resolveInstance(cmd.Context(), client, args[0])
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("instance not found")
	}

	if err := client.StartServer(cmd.Context(), inst.ID); err != nil {
		ui.PrintError("Failed to start %s: %v", inst.Name, err)
		return err
	}

	if !startWait {
		ui.PrintSuccess("Start requested for %s", inst.Name)
		return nil
	}

	s, err := waitForStatus(cmd.Context(), client, inst, status.IntentStarting, status.StatusRunning)
	if err != nil {
		return err
	}
	if s == status.StatusCrashed {
		ui.PrintError("%s crashed during startup", inst.Name)
		ui.PrintDim("Check logs with: craftctl logs %s", inst.Name)
		return fmt.Errorf("instance crashed")
	}
	ui.PrintSuccess("%s is running", inst.Name)
	if addr := inst.Address(); addr != "" {
		ui.PrintAddress("Connect:", addr)
	}
	return nil
}

// runStop handles the stop command.
func runStop(cmd *cobra.Command, args []string) error {
	_, client := loadConfigAndClient(cmd)

	inst, err := resolveInstance(cmd.Context(), client, args[0])
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("instance not found")
	}

	if err := client.StopServer(cmd.Context(), inst.ID); err != nil {
		ui.PrintError("Failed to stop %s: %v", inst.Name, err)
		return err
	}

	if !stopWait {
		ui.PrintSuccess("Stop requested for %s", inst.Name)
		return nil
	}

	if _, err := waitForStatus(cmd.Context(), client, inst, status.IntentStopping, status.StatusStopped); err != nil {
		return err
	}
	ui.PrintSuccess("%s stopped", inst.Name)
	return nil
}

// runRestart handles the restart command.
func runRestart(cmd *cobra.Command, args []string) error {
	_, client := loadConfigAndClient(cmd)

	inst, err := resolveInstance(cmd.Context(), client, args[0])
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("instance not found")
	}

	raw, err := client.GetServerStatus(cmd.Context(), inst.ID)
	if err != nil {
		ui.PrintError("Failed to fetch status: %v", err)
		return err
	}
	current, _ := status.Parse(raw)

	if current != status.StatusStopped {
		if err := client.StopServer(cmd.Context(), inst.ID); err != nil {
			ui.PrintError("Failed to stop %s: %v", inst.Name, err)
			return err
		}
		if _, err := waitForStatus(cmd.Context(), client, inst, status.IntentRestarting, status.StatusStopped); err != nil {
			return err
		}
	}

	if err := client.StartServer(cmd.Context(), inst.ID); err != nil {
		ui.PrintError("Failed to start %s: %v", inst.Name, err)
		return err
	}

	if !restartWait {
		ui.PrintSuccess("Restart underway for %s", inst.Name)
		return nil
	}

	s, err := waitForStatus(cmd.Context(), client, inst, status.IntentRestarting, status.StatusRunning)
	if err != nil {
		return err
	}
	if s == status.StatusCrashed {
		ui.PrintError("%s crashed while restarting", inst.Name)
		return fmt.Errorf("instance crashed")
	}
	ui.PrintSuccess("%s restarted", inst.Name)
	return nil
}

// waitForStatus polls the instance until it reaches the wanted status, it
// crashes, or the timeout passes. It redraws a one-line readout while
// waiting.
//
// Parameters:
//   - ctx: Context for the polling requests
//   - client: The craftd API client
//   - inst: The instance to watch
//   - intent: The pending intent shown in the readout
//   - want: The status to wait for
//
// Returns:
//   - status.Status: The final observed status (want or StatusCrashed)
//   - error: Timeout, cancellation, or a query failure
func waitForStatus(ctx context.Context, client *api.Client, inst *api.Instance, intent status.Intent, want status.Status) (status.Status, error) {
	deadline := time.Now().Add(time.Duration(waitTimeout) * time.Second)
	started := time.Now()

	ticker := time.NewTicker(config.DefaultPollInterval)
	defer ticker.Stop()

	for {
		raw, err := client.GetServerStatus(ctx, inst.ID)
		if err != nil {
			ui.ClearLine()
			ui.PrintError("Failed to fetch status: %v", err)
			return "", err
		}
		s, _ := status.Parse(raw)

		if s == want || s == status.StatusCrashed {
			ui.ClearLine()
			return s, nil
		}

		elapsed := time.Since(started).Round(time.Second).String()
		ui.PrintWatchLine(inst.Name, intent, s, elapsed)

		if time.Now().After(deadline) {
			ui.ClearLine()
			ui.PrintError("Timed out after %ds waiting for %s to become %s", waitTimeout, inst.Name, want)
			return s, fmt.Errorf("timed out waiting for %s", want)
		}

		select {
		case <-ctx.Done():
			ui.ClearLine()
			return s, ctx.Err()
		case <-ticker.C:
		}
	}
}
