// Package main provides the console command forwarding command.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/config"
	"github.com/blockhaven/craftctl/internal/status"
	"github.com/blockhaven/craftctl/internal/ui"
)

// sendCmd forwards a console command to an instance.
var sendCmd = &cobra.Command{
	Use:   "send <name|id> <command...>",
	Short: "Send a console command to an instance",
	Long: `Forward a console command to an instance's server console, verbatim.

Commands that imply a lifecycle change ("stop", "restart", "end" on proxy
loaders) are noted so you know a transition is underway.

Examples:
  craftctl send smp-world whitelist add alice
  craftctl send smp-world "say restarting in 5 minutes"
  craftctl send lobby-proxy end`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSend,
}

// runSend handles the send command.
func runSend(cmd *cobra.Command, args []string) error {
	cfg, client := loadConfigAndClient(cmd)

	inst, err := resolveInstance(cmd.Context(), client, args[0])
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("instance not found")
	}

	command := strings.Join(args[1:], " ")

	if err := client.SendCommand(cmd.Context(), inst.ID, command); err != nil {
		ui.PrintError("Command rejected: %v", err)
		return err
	}

	ui.PrintSuccess("Sent to %s: %s", inst.Name, command)

	aliases := config.NewAliasTable(cfg.Aliases)
	if intent := aliases.Lookup(inst.Loader, command); intent != status.IntentNone {
		ui.PrintInfo("This command implies the instance is now %s", string(intent))
	}
	return nil
}
