// Package main provides the instance creation command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/ui"
)

var (
	createVersion string
	createLoader  string
	createPort    int
)

// knownLoaders are the loader kinds craftd can provision.
var knownLoaders = []string{"vanilla", "paper", "fabric", "forge", "velocity", "bungeecord", "waterfall"}

func init() {
	createCmd.Flags().StringVar(&createVersion, "version", "", "Game version (e.g. 1.21.4)")
	createCmd.Flags().StringVar(&createLoader, "loader", "", "Server loader (vanilla, paper, fabric, forge, velocity, ...)")
	createCmd.Flags().IntVar(&createPort, "port", 0, "Listen port (0 = let craftd choose)")
}

// createCmd provisions a new instance.
var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new instance",
	Long: `Ask craftd to provision a new server instance.

Prompts for the loader when --loader is not given and the terminal is
interactive.

Examples:
  craftctl create smp-world --loader paper --version 1.21.4
  craftctl create lobby-proxy --loader velocity --port 25577`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

// runCreate handles the create command.
func runCreate(cmd *cobra.Command, args []string) error {
	_, client := loadConfigAndClient(cmd)

	name := args[0]
	loader := createLoader

	if loader == "" {
		options := make([]ui.SelectOption, len(knownLoaders))
		for i, l := range knownLoaders {
			options[i] = ui.SelectOption{Label: l, Value: l}
		}
		_, picked, err := ui.Select("Which loader?", options, 0)
		if err != nil {
			ui.PrintError("A loader is required; pass --loader")
			return err
		}
		loader = picked
	}

	ui.StartSpinner(fmt.Sprintf("Creating %s...", name))
	inst, err := client.CreateInstance(cmd.Context(), &api.CreateInstanceRequest{
		Name:    name,
		Version: createVersion,
		Loader:  loader,
		Port:    createPort,
	})
	ui.StopSpinner()
	if err != nil {
		ui.PrintError("Failed to create instance: %v", err)
		return err
	}

	ui.PrintSuccess("Created %s (%s)", inst.Name, inst.ID)
	if addr := inst.Address(); addr != "" {
		ui.PrintAddress("Address:", addr)
	}
	ui.PrintDim("Start it with: craftctl start %s", inst.Name)
	return nil
}
