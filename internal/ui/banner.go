// Package ui provides the ASCII banner for craftctl.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// banner is the ASCII art logo for craftctl.
const banner = `
   ██████╗██████╗  █████╗ ███████╗████████╗ ██████╗████████╗██╗
  ██╔════╝██╔══██╗██╔══██╗██╔════╝╚══██╔══╝██╔════╝╚══██╔══╝██║
  ██║     ██████╔╝███████║█████╗     ██║   ██║        ██║   ██║
  ██║     ██╔══██╗██╔══██║██╔══╝     ██║   ██║        ██║   ██║
  ╚██████╗██║  ██║██║  ██║██║        ██║   ╚██████╗   ██║   ███████╗
   ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝        ╚═╝    ╚═════╝   ╚═╝   ╚══════╝`

// tagline is the product tagline.
const tagline = "One shell for all your game servers"

// PrintBanner prints the craftctl banner with version info.
//
// Parameters:
//   - version: The CLI version string to display
func PrintBanner(version string) {
	if quietMode {
		return
	}

	styledBanner := lipgloss.NewStyle().
		Foreground(Green).
		Bold(true).
		Render(banner)

	fmt.Println(styledBanner)
	fmt.Println()

	taglineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		PaddingLeft(2)
	fmt.Println(taglineStyle.Render(tagline))
	fmt.Println()

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		PaddingLeft(2)

	fmt.Println(infoStyle.Render(fmt.Sprintf("Version: %s", version)))
	fmt.Println()
}

// GetCondensedHelp returns a compact cheat-sheet for the common workflow.
// Shown when the user runs `craftctl` with no arguments outside a TTY.
// No ASCII banner, no Cobra auto-generated command list -- just the
// essentials.
func GetCondensedHelp() string {
	green := lipgloss.NewStyle().Foreground(Green).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	return fmt.Sprintf(`%s

%s
  %s                  List your instances
  %s           Start an instance
  %s            Stop an instance
  %s   Send a console command

%s
  %s         Create a new instance
  %s           Follow an instance's console output
  %s                Check connectivity to the supervisor

%s
  %s                   Start MCP server for AI integration

%s
`,
		green.Render("craftctl")+" - "+dim.Render(tagline),
		green.Render("Everyday:"),
		green.Render("craftctl list"),
		green.Render("craftctl start <id>"),
		green.Render("craftctl stop <id>"),
		green.Render("craftctl send <id> <command>"),
		green.Render("Manage:"),
		green.Render("craftctl create <name>"),
		green.Render("craftctl logs <id>"),
		green.Render("craftctl doctor"),
		green.Render("AI/Tooling:"),
		green.Render("craftctl mcp"),
		hint.Render(`Run "craftctl" in a terminal for the interactive dashboard, or "craftctl --help" for all commands.`),
	)
}
