// Package tui provides the Bubble Tea dashboard for craftctl.
//
// The dashboard launches when a human runs bare `craftctl` in an
// interactive terminal. It is never activated for agents, CI/CD, or piped
// output -- three independent gates (--json, --quiet, isatty) prevent it.
package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// --- TTY gate ---

// ShouldRunTUI returns true if the dashboard should be launched.
// Returns false when stdout is not a terminal, or --json/--quiet flags are set.
//
// Parameters:
//   - jsonOutput: whether --json was passed
//   - quiet: whether --quiet was passed
//
// Returns:
//   - bool: true if the dashboard should run
func ShouldRunTUI(jsonOutput, quiet bool) bool {
	if jsonOutput || quiet {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// --- Brand colors (mirrors internal/ui/styles.go) ---

var (
	green   = lipgloss.Color("#3FB950")
	teal    = lipgloss.Color("#14B8A6")
	red     = lipgloss.Color("#EF4444")
	amber   = lipgloss.Color("#F59E0B")
	blue    = lipgloss.Color("#58A6FF")
	gray    = lipgloss.Color("#6B7280")
	dimGray = lipgloss.Color("#9CA3AF")
	white   = lipgloss.Color("#E5E7EB")
)

// --- Shared TUI styles ---

var (
	// titleStyle renders the CRAFTCTL header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(green)

	// versionStyle renders the version badge.
	versionStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	// sectionStyle renders section headers (e.g. "Instances", "Console").
	sectionStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			Bold(true).
			MarginTop(1)

	// selectedStyle highlights the currently selected list item.
	selectedStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	// normalStyle renders unselected list items.
	normalStyle = lipgloss.NewStyle().
			Foreground(white)

	// dimStyle renders low-priority text.
	dimStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	// runningStyle renders running-status indicators.
	runningStyle = lipgloss.NewStyle().
			Foreground(green)

	// errorStyle renders crashed-status indicators and errors.
	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	// transitionStyle renders starting/stopping indicators.
	transitionStyle = lipgloss.NewStyle().
			Foreground(amber)

	// intentStyle renders optimistic transition badges.
	intentStyle = lipgloss.NewStyle().
			Foreground(teal).
			Italic(true)

	// addressStyle renders server addresses.
	addressStyle = lipgloss.NewStyle().
			Foreground(blue).
			Underline(true)

	// logStyle renders console log lines.
	logStyle = lipgloss.NewStyle().
			Foreground(white)

	// helpStyle renders the bottom key hint bar.
	helpStyle = lipgloss.NewStyle().
			Foreground(gray)

	// separatorStyle renders horizontal rules.
	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#374151"))

	// loaderStyle renders loader badges (paper/fabric/velocity).
	loaderStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	// filterPromptStyle renders the filter prompt.
	filterPromptStyle = lipgloss.NewStyle().
				Foreground(green).
				Bold(true)
)

// separator returns a horizontal line of the given width.
func separator(width int) string {
	s := ""
	for i := 0; i < width; i++ {
		s += "─"
	}
	return separatorStyle.Render(s)
}

// --- Shared message types ---

// engineUpdateMsg signals that the engine's observable state changed and
// the view should re-read it.
type engineUpdateMsg struct{}

// engineStoppedMsg signals that the engine's poll loop exited.
type engineStoppedMsg struct{ err error }

// actionDoneMsg carries the outcome of a lifecycle action or console
// command issued from the dashboard.
type actionDoneMsg struct {
	instanceID string
	action     string
	err        error
}

// logStreamErrMsg signals that the push log subscription failed.
type logStreamErrMsg struct{ err error }

// flashClearMsg clears a transient status-bar flash.
type flashClearMsg struct{ seq int }

// --- Shared spinner factory ---

// newSpinner creates a consistently styled braille spinner.
func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(teal)
	return s
}

// --- View enum for hub navigation ---

// view represents the current dashboard screen.
type view int

const (
	viewList   view = iota // instance list landing
	viewDetail             // focused instance: console, telemetry, logs
)

// --- Tea program runner ---

// RunHub launches the dashboard over an already-running engine. This is
// the main entry point called from cmd/craftctl.
//
// Parameters:
//   - eng: the running synchronization engine
//   - version: the CLI version string for display
//
// Returns:
//   - error: any error from the Bubble Tea runtime
func RunHub(eng Engine, version string) error {
	p := tea.NewProgram(
		newHubModel(eng, version),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
