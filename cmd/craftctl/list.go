// Package main provides the instance listing command.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/status"
	"github.com/blockhaven/craftctl/internal/ui"
)

var listOutputJSON bool

func init() {
	listCmd.Flags().BoolVar(&listOutputJSON, "json", false, "Output results as JSON")
}

// listCmd lists the instances the daemon manages.
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List managed instances",
	Long: `List every instance the craftd daemon manages.

Shows each instance's name, status, loader, version, and address.

Examples:
  craftctl list
  craftctl list --json`,
	RunE: runList,
}

// runList fetches and prints the instance directory.
func runList(cmd *cobra.Command, args []string) error {
	jsonOutput := jsonOutputEnabled(cmd, listOutputJSON)

	_, client := loadConfigAndClient(cmd)

	if !jsonOutput {
		ui.StartSpinner("Fetching instances...")
	}
	instances, err := client.ListInstances(cmd.Context())
	if !jsonOutput {
		ui.StopSpinner()
	}
	if err != nil {
		ui.PrintError("Failed to list instances: %v", err)
		return err
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(instances, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(instances) == 0 {
		ui.PrintInfo("No instances yet.")
		ui.PrintDim("Create one with: craftctl create <name>")
		return nil
	}

	table := ui.NewTable("NAME", "STATUS", "LOADER", "VERSION", "ADDRESS")
	table.SetMinWidth(0, 12) // NAME
	table.SetMinWidth(1, 10) // STATUS
	table.SetMinWidth(2, 8)  // LOADER
	table.SetMinWidth(3, 8)  // VERSION
	table.SetMinWidth(4, 16) // ADDRESS

	for _, inst := range instances {
		s, ok := status.Parse(inst.Status)
		cell := strings.ToLower(inst.Status)
		if ok {
			cell = string(s)
		}
		table.AddRow(inst.Name, cell, inst.Loader, inst.Version, inst.Address())
	}
	table.Render()

	ui.Println()
	ui.PrintDim("%d instance(s)", len(instances))
	return nil
}
