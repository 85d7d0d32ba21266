// Package ui provides terminal UI components using Charm libraries.
//
// This package contains the styling, rendering, and prompt components
// for craftctl's terminal output.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Brand colors for craftctl.
var (
	// Primary brand color - craftctl green
	Green = lipgloss.Color("#3FB950")

	// Secondary colors
	Teal    = lipgloss.Color("#14B8A6")
	Red     = lipgloss.Color("#EF4444")
	Amber   = lipgloss.Color("#F59E0B")
	Blue    = lipgloss.Color("#58A6FF")
	Gray    = lipgloss.Color("#6B7280")
	DimGray = lipgloss.Color("#9CA3AF")
)

// Text styles.
var (
	// TitleStyle for main headings
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Green)

	// SubtitleStyle for secondary headings
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	// AccentStyle for highlighted fragments
	AccentStyle = lipgloss.NewStyle().
			Foreground(Teal)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// WarningStyle for warning messages
	WarningStyle = lipgloss.NewStyle().
			Foreground(Amber)

	// InfoStyle for informational messages
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB"))

	// DimStyle for less important text
	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	// LinkStyle for URLs and addresses
	LinkStyle = lipgloss.NewStyle().
			Foreground(Blue).
			Underline(true)

	// CodeStyle for inline console commands
	CodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F3F4F6")).
			Background(lipgloss.Color("#374151")).
			Padding(0, 1)
)

// Box styles.
var (
	// BoxStyle for content boxes
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Padding(0, 1)

	// BoxTitleStyle for box titles
	BoxTitleStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// CrashBoxStyle for crashed-instance summaries
	CrashBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Padding(0, 1)
)

// Table styles.
var (
	// TableHeaderStyle for table headers
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Bold(true)

	// TableCellStyle for table cells
	TableCellStyle = lipgloss.NewStyle()
)

// Instance status styles, keyed by the status categories the status
// package reports.
var (
	// StatusRunningStyle for running instances
	StatusRunningStyle = lipgloss.NewStyle().
				Foreground(Green)

	// StatusStoppedStyle for stopped instances
	StatusStoppedStyle = lipgloss.NewStyle().
				Foreground(DimGray)

	// StatusTransitionStyle for starting/stopping instances
	StatusTransitionStyle = lipgloss.NewStyle().
				Foreground(Amber)

	// StatusCrashedStyle for crashed instances
	StatusCrashedStyle = lipgloss.NewStyle().
				Foreground(Red)

	// IntentStyle for optimistic transition badges
	IntentStyle = lipgloss.NewStyle().
			Foreground(Teal).
			Italic(true)
)

// Gauge styles.
var (
	// GaugeFilledStyle for the filled portion of a usage gauge
	GaugeFilledStyle = lipgloss.NewStyle().
				Foreground(Green)

	// GaugeEmptyStyle for the empty portion
	GaugeEmptyStyle = lipgloss.NewStyle().
				Foreground(Gray)

	// GaugeHotStyle for a gauge past its warning threshold
	GaugeHotStyle = lipgloss.NewStyle().
			Foreground(Amber)
)
