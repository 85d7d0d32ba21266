// Package main provides the entry point for the craftctl CLI.
//
// craftctl is a management shell for long-running game server instances
// supervised by a local craftd daemon. Run without arguments in a terminal
// it opens the interactive hub; subcommands cover scripting and automation.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/blockhaven/craftctl/internal/tui"
	"github.com/blockhaven/craftctl/internal/ui"
)

// Version information set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "craftctl",
	Short: "One shell for all your game servers",
	Long:  ui.GetCondensedHelp(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			log.SetLevel(log.DebugLevel)
			log.Debug("Debug logging enabled")
		}

		// Set quiet mode from global flag
		quiet, _ := cmd.Flags().GetBool("quiet")
		ui.SetQuiet(quiet)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		if tui.ShouldRunTUI(jsonOutput, quiet) {
			return runHub(cmd)
		}
		ui.PrintBanner(version)
		ui.Println()
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// logLevelValue implements pflag.Value for the --log-level flag.
type logLevelValue struct {
	level log.Level
}

var _ pflag.Value = (*logLevelValue)(nil)

func (v *logLevelValue) String() string { return v.level.String() }
func (v *logLevelValue) Type() string   { return "level" }

func (v *logLevelValue) Set(s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}
	v.level = level
	log.SetLevel(level)
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Var(&logLevelValue{level: log.InfoLevel}, "log-level", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON (where supported)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().String("server", "", "craftd base URL (overrides config and CRAFTD_URL)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(mcpCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintBanner(version)
		ui.PrintInfo("Version: %s", version)
		ui.PrintInfo("Commit: %s", commit)
		ui.PrintInfo("Built: %s", date)
	},
}

func main() {
	Execute()
}
