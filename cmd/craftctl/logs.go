// Package main provides the log streaming command.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/ui"
)

var logsDuration int

func init() {
	logsCmd.Flags().IntVar(&logsDuration, "duration", 0, "Seconds to stream before exiting (0 = until interrupted)")
}

// logsCmd follows the live server log stream.
var logsCmd = &cobra.Command{
	Use:   "logs [name|id]",
	Short: "Follow live server logs",
	Long: `Follow the live log stream from craftd.

With an instance argument only that instance's lines are shown; without
one, lines from every instance are shown prefixed with the instance name.

Examples:
  craftctl logs smp-world
  craftctl logs
  craftctl logs smp-world --duration 30`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

// runLogs handles the logs command.
func runLogs(cmd *cobra.Command, args []string) error {
	_, client := loadConfigAndClient(cmd)

	// Map instance ids to names for the all-instances prefix, and resolve
	// the filter target if one was given.
	instances, err := client.ListInstances(cmd.Context())
	if err != nil {
		ui.PrintError("Failed to list instances: %v", err)
		return err
	}
	names := make(map[string]string, len(instances))
	for _, inst := range instances {
		names[inst.ID] = inst.Name
	}

	filterID := ""
	if len(args) == 1 {
		inst, err := resolveInstance(cmd.Context(), client, args[0])
		if err != nil {
			ui.PrintError("%v", err)
			return fmt.Errorf("instance not found")
		}
		filterID = inst.ID
		ui.PrintDim("Following logs for %s (ctrl+c to stop)", inst.Name)
	} else {
		ui.PrintDim("Following logs for all instances (ctrl+c to stop)")
	}

	stream := api.NewLogStreamClient()
	if err := stream.Connect(cmd.Context(), client.LogStreamURL()); err != nil {
		ui.PrintError("Failed to connect to log stream: %v", err)
		return err
	}
	defer stream.Close()

	var timeout <-chan time.Time
	if logsDuration > 0 {
		timeout = time.After(time.Duration(logsDuration) * time.Second)
	}

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-timeout:
			return nil
		case err := <-stream.Errors():
			ui.PrintError("Log stream closed: %v", err)
			return err
		case ev, ok := <-stream.Events():
			if !ok {
				return nil
			}
			if filterID != "" {
				if ev.InstanceID == filterID {
					fmt.Println(ev.Line)
				}
				continue
			}
			name := names[ev.InstanceID]
			if name == "" {
				name = ev.InstanceID
			}
			fmt.Printf("[%s] %s\n", name, ev.Line)
		}
	}
}
