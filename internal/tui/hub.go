// Package tui provides the hub model -- the instance-list dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/engine"
	"github.com/blockhaven/craftctl/internal/status"
)

// actionTimeout bounds lifecycle and console calls issued from the
// dashboard.
const actionTimeout = 10 * time.Second

// Engine is the surface of the synchronization engine the dashboard
// reads from and dispatches through. *engine.Engine satisfies it.
type Engine interface {
	Instances() []api.Instance
	Instance(id string) (api.Instance, bool)
	Focus(id string) bool
	FocusedID() string
	Status(id string) status.Status
	Intent(id string) status.Intent
	History(id string) []engine.UsageSample
	LatestUsage() *engine.UsageSample
	Logs(id string) []string
	Updates() <-chan struct{}
	Load(ctx context.Context) error
	StartInstance(ctx context.Context, id string) error
	StopInstance(ctx context.Context, id string) error
	RestartInstance(ctx context.Context, id string) error
	SendCommand(ctx context.Context, id, command string) error
}

// hubModel is the top-level Bubble Tea model for the dashboard.
type hubModel struct {
	eng     Engine
	version string

	currentView view

	// Instance list
	instances []api.Instance
	cursor    int

	// Filter
	filterMode    bool
	filterInput   textinput.Model
	filtered      []api.Instance
	filterApplied bool

	// Detail view
	detailID     string
	consoleMode  bool
	consoleInput textinput.Model

	// Transient status-bar flash
	flash    string
	flashErr bool
	flashSeq int

	// Shared state
	spinner spinner.Model
	width   int
	height  int
	err     error
}

// newHubModel creates the initial hub model.
//
// Parameters:
//   - eng: the running synchronization engine
//   - version: the CLI version string for display
//
// Returns:
//   - hubModel: the initialized model
func newHubModel(eng Engine, version string) hubModel {
	fi := textinput.New()
	fi.Placeholder = "filter instances..."
	fi.CharLimit = 64

	ci := textinput.New()
	ci.Placeholder = "console command..."
	ci.CharLimit = 256

	return hubModel{
		eng:          eng,
		version:      version,
		currentView:  viewList,
		instances:    eng.Instances(),
		filterInput:  fi,
		consoleInput: ci,
		spinner:      newSpinner(),
	}
}

// --- Tea commands for async operations ---

// waitForUpdateCmd blocks on the engine's coalescing update channel and
// converts each signal into a message. The Update handler re-issues it to
// keep the chain alive.
func waitForUpdateCmd(eng Engine) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-eng.Updates(); !ok {
			return engineStoppedMsg{}
		}
		return engineUpdateMsg{}
	}
}

// lifecycleCmd issues a lifecycle action against the engine.
func lifecycleCmd(eng Engine, id, action string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		var err error
		switch action {
		case "start":
			err = eng.StartInstance(ctx, id)
		case "stop":
			err = eng.StopInstance(ctx, id)
		case "restart":
			err = eng.RestartInstance(ctx, id)
		}
		return actionDoneMsg{instanceID: id, action: action, err: err}
	}
}

// sendCommandCmd forwards a console command through the engine.
func sendCommandCmd(eng Engine, id, command string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		err := eng.SendCommand(ctx, id, command)
		return actionDoneMsg{instanceID: id, action: "send", err: err}
	}
}

// reloadCmd refreshes the instance directory.
func reloadCmd(eng Engine) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		err := eng.Load(ctx)
		return actionDoneMsg{action: "reload", err: err}
	}
}

// flashCmd schedules the flash message to clear.
func flashCmd(seq int) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return flashClearMsg{seq: seq}
	})
}

// --- Bubble Tea interface ---

// Init starts the spinner and subscribes to engine updates.
func (m hubModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForUpdateCmd(m.eng))
}

// Update handles all incoming messages and key events.
func (m hubModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.currentView == viewDetail {
			return m.handleDetailKey(msg)
		}
		return m.handleListKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case engineUpdateMsg:
		m.instances = m.eng.Instances()
		if m.filterApplied {
			m.applyFilter()
		}
		m.clampCursor()
		return m, waitForUpdateCmd(m.eng)

	case engineStoppedMsg:
		return m, tea.Quit

	case actionDoneMsg:
		if msg.err != nil {
			return m.setFlash(fmt.Sprintf("%s failed: %v", msg.action, msg.err), true)
		}
		switch msg.action {
		case "send":
			return m, nil
		case "reload":
			m.instances = m.eng.Instances()
			m.clampCursor()
			return m.setFlash("directory reloaded", false)
		default:
			return m.setFlash(fmt.Sprintf("%s requested", msg.action), false)
		}

	case logStreamErrMsg:
		return m.setFlash(fmt.Sprintf("log stream: %v", msg.err), true)

	case flashClearMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil
	}

	if m.filterMode {
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter()
		return m, cmd
	}
	if m.consoleMode {
		var cmd tea.Cmd
		m.consoleInput, cmd = m.consoleInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// setFlash records a transient status-bar message and schedules its clear.
func (m hubModel) setFlash(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.flash = text
	m.flashErr = isErr
	m.flashSeq++
	return m, flashCmd(m.flashSeq)
}

// handleListKey processes key events on the instance list.
func (m hubModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterMode {
		switch msg.String() {
		case "esc":
			m.filterMode = false
			m.filterInput.Blur()
			m.filterInput.SetValue("")
			m.filtered = nil
			m.filterApplied = false
			return m, nil
		case "enter":
			m.filterMode = false
			m.filterInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.applyFilter()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.visibleInstances())-1 {
			m.cursor++
		}

	case "enter":
		if inst, ok := m.selected(); ok {
			if m.eng.Focus(inst.ID) {
				m.detailID = inst.ID
				m.currentView = viewDetail
				m.consoleInput.SetValue("")
			}
		}

	case "s":
		if inst, ok := m.selected(); ok {
			return m, lifecycleCmd(m.eng, inst.ID, "start")
		}

	case "S":
		if inst, ok := m.selected(); ok {
			return m, lifecycleCmd(m.eng, inst.ID, "stop")
		}

	case "r":
		if inst, ok := m.selected(); ok {
			return m, lifecycleCmd(m.eng, inst.ID, "restart")
		}

	case "c":
		if inst, ok := m.selected(); ok {
			if err := clipboard.WriteAll(inst.Address()); err == nil {
				return m.setFlash("address copied: "+inst.Address(), false)
			}
		}

	case "/":
		m.filterMode = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case "R":
		return m, reloadCmd(m.eng)
	}

	return m, nil
}

// handleDetailKey processes key events in the focused-instance view.
func (m hubModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.consoleMode {
		switch msg.String() {
		case "esc":
			m.consoleMode = false
			m.consoleInput.Blur()
			return m, nil
		case "enter":
			command := strings.TrimSpace(m.consoleInput.Value())
			m.consoleInput.SetValue("")
			if command == "" {
				return m, nil
			}
			return m, sendCommandCmd(m.eng, m.detailID, command)
		default:
			var cmd tea.Cmd
			m.consoleInput, cmd = m.consoleInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.currentView = viewList
		m.detailID = ""
		m.eng.Focus("")
		return m, nil

	case "i", ":":
		m.consoleMode = true
		m.consoleInput.Focus()
		return m, textinput.Blink

	case "s":
		return m, lifecycleCmd(m.eng, m.detailID, "start")

	case "S":
		return m, lifecycleCmd(m.eng, m.detailID, "stop")

	case "r":
		return m, lifecycleCmd(m.eng, m.detailID, "restart")

	case "c":
		if inst, ok := m.eng.Instance(m.detailID); ok {
			if err := clipboard.WriteAll(inst.Address()); err == nil {
				return m.setFlash("address copied: "+inst.Address(), false)
			}
		}
	}

	return m, nil
}

// --- Helpers ---

// visibleInstances returns the filtered list, or all instances when no
// filter is active.
func (m *hubModel) visibleInstances() []api.Instance {
	if m.filterApplied {
		return m.filtered
	}
	return m.instances
}

// selected returns the instance under the cursor.
func (m *hubModel) selected() (api.Instance, bool) {
	visible := m.visibleInstances()
	if len(visible) == 0 || m.cursor >= len(visible) {
		return api.Instance{}, false
	}
	return visible[m.cursor], true
}

// applyFilter filters the instance list on name, loader, and version.
func (m *hubModel) applyFilter() {
	query := strings.ToLower(m.filterInput.Value())
	if query == "" {
		m.filtered = nil
		m.filterApplied = false
		return
	}

	var filtered []api.Instance
	for _, inst := range m.instances {
		if strings.Contains(strings.ToLower(inst.Name), query) ||
			strings.Contains(strings.ToLower(inst.Loader), query) ||
			strings.Contains(strings.ToLower(inst.Version), query) {
			filtered = append(filtered, inst)
		}
	}
	m.filtered = filtered
	m.filterApplied = true
	m.clampCursor()
}

// clampCursor keeps the cursor inside the visible list after it shrinks.
func (m *hubModel) clampCursor() {
	n := len(m.visibleInstances())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

// statusCell renders the status column for a list row: the optimistic
// intent while a transition is pending, the authoritative status
// otherwise.
func statusCell(intent status.Intent, s status.Status) string {
	if intent != status.IntentNone {
		return intentStyle.Render(status.Icon(s) + " " + status.Display(intent, s))
	}
	return statusCellStyle(s).Render(status.Icon(s) + " " + string(s))
}

// statusCellStyle maps a status category to its list-row style.
func statusCellStyle(s status.Status) lipgloss.Style {
	switch status.Category(s) {
	case "success":
		return runningStyle
	case "info":
		return transitionStyle
	case "error":
		return errorStyle
	default:
		return dimStyle
	}
}

// relativeTime formats a timestamp as a human-readable relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}

// min returns the smaller of two ints.
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
