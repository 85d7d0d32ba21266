// Package main provides the instance deletion command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/status"
	"github.com/blockhaven/craftctl/internal/ui"
)

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip the confirmation prompt")
}

// deleteCmd removes an instance.
var deleteCmd = &cobra.Command{
	Use:     "delete <name|id>",
	Aliases: []string{"rm"},
	Short:   "Delete an instance",
	Long: `Delete an instance and its registration from craftd.

Refuses to delete an instance that is running or mid-transition; stop it
first. Prompts for confirmation unless --force is given.

Examples:
  craftctl delete old-world
  craftctl delete old-world --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

// runDelete handles the delete command.
func runDelete(cmd *cobra.Command, args []string) error {
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
	if s, ok := status.Parse(raw); ok && status.IsActive(s) {
		ui.PrintError("%s is %s; stop it before deleting", inst.Name, s)
		return fmt.Errorf("instance is active")
	}

	if !deleteForce {
		if !ui.Confirm(fmt.Sprintf("Delete %s permanently?", inst.Name)) {
			ui.PrintInfo("Aborted")
			return nil
		}
	}

	if err := client.DeleteInstance(cmd.Context(), inst.ID); err != nil {
		ui.PrintError("Failed to delete %s: %v", inst.Name, err)
		return err
	}

	ui.PrintSuccess("Deleted %s", inst.Name)
	return nil
}
