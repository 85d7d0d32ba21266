// Package tui provides view rendering for the dashboard screens.
package tui

import (
	"fmt"
	"strings"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/status"
	"github.com/blockhaven/craftctl/internal/ui"
)

// View renders the current screen.
func (m hubModel) View() string {
	if m.currentView == viewDetail && m.detailID != "" {
		return m.renderDetail()
	}
	return m.renderList()
}

// renderList renders the instance list landing page.
func (m hubModel) renderList() string {
	var b strings.Builder
	w := m.width
	if w == 0 {
		w = 80
	}
	sepW := min(w, 72)

	b.WriteString(titleStyle.Render(" CRAFTCTL") + "  " + versionStyle.Render("v"+m.version) + "\n")
	b.WriteString(separator(sepW) + "\n")

	if m.filterMode {
		b.WriteString("\n  " + filterPromptStyle.Render("/") + " " + m.filterInput.View() + "\n")
	}

	instances := m.visibleInstances()
	countLabel := fmt.Sprintf("%d", len(instances))
	if m.filterApplied {
		countLabel = fmt.Sprintf("%d/%d", len(m.filtered), len(m.instances))
	}
	b.WriteString(sectionStyle.Render("  INSTANCES") + " " + dimStyle.Render(countLabel) + "\n")
	b.WriteString("  " + separator(min(w-4, 68)) + "\n")

	if len(instances) == 0 {
		if m.filterApplied {
			b.WriteString(dimStyle.Render("  No instances match filter\n"))
		} else {
			b.WriteString(dimStyle.Render("  No instances. Create one with: craftctl create <name>\n"))
		}
	} else {
		for i, inst := range instances {
			cur := "  "
			nameStyle := normalStyle
			if i == m.cursor {
				cur = selectedStyle.Render("▸ ")
				nameStyle = selectedStyle
			}

			cell := statusCell(m.eng.Intent(inst.ID), m.eng.Status(inst.ID))
			loaderBadge := ""
			if inst.Loader != "" {
				loaderBadge = loaderStyle.Render(" [" + inst.Loader + "]")
			}
			b.WriteString(fmt.Sprintf("  %s%-32s %s%s\n",
				cur, nameStyle.Render(padName(inst.Name, 32)), cell, loaderBadge))
		}
	}

	b.WriteString("\n  " + separator(min(w-4, 68)) + "\n")
	b.WriteString(m.renderFlash())
	keys := []string{
		helpKeyRender("enter", "open"),
		helpKeyRender("s", "start"),
		helpKeyRender("S", "stop"),
		helpKeyRender("r", "restart"),
		helpKeyRender("c", "copy address"),
		helpKeyRender("/", "filter"),
		helpKeyRender("R", "reload"),
		helpKeyRender("q", "quit"),
	}
	b.WriteString("  " + strings.Join(keys, "  ") + "\n")
	return b.String()
}

// renderDetail renders the focused-instance screen: identity, telemetry,
// log tail, and the console input line.
func (m hubModel) renderDetail() string {
	var b strings.Builder
	w := m.width
	if w == 0 {
		w = 80
	}
	sepW := min(w, 72)

	inst, ok := m.eng.Instance(m.detailID)
	if !ok {
		// The instance vanished from the directory mid-view.
		b.WriteString(errorStyle.Render("  Instance no longer exists") + "\n")
		b.WriteString(helpStyle.Render("  esc back") + "\n")
		return b.String()
	}

	s := m.eng.Status(inst.ID)
	intent := m.eng.Intent(inst.ID)

	b.WriteString(titleStyle.Render(" "+inst.Name) + "  " + statusCell(intent, s) + "\n")
	b.WriteString(separator(sepW) + "\n")

	b.WriteString("  " + dimStyle.Render("Address ") + addressStyle.Render(inst.Address()))
	if inst.Version != "" {
		b.WriteString("   " + dimStyle.Render("Version ") + normalStyle.Render(inst.Version))
	}
	if inst.Loader != "" {
		b.WriteString("   " + loaderStyle.Render("["+inst.Loader+"]"))
	}
	b.WriteString("\n")

	b.WriteString(m.renderTelemetry(inst, s))
	b.WriteString(m.renderLogTail())

	b.WriteString("\n  " + separator(min(w-4, 68)) + "\n")
	if m.consoleMode {
		b.WriteString("  " + filterPromptStyle.Render(">") + " " + m.consoleInput.View() + "\n")
	}
	b.WriteString(m.renderFlash())

	var keys []string
	if m.consoleMode {
		keys = []string{
			helpKeyRender("enter", "send"),
			helpKeyRender("esc", "leave console"),
		}
	} else {
		keys = []string{
			helpKeyRender("i", "console"),
			helpKeyRender("s", "start"),
			helpKeyRender("S", "stop"),
			helpKeyRender("r", "restart"),
			helpKeyRender("c", "copy address"),
			helpKeyRender("esc", "back"),
			helpKeyRender("q", "quit"),
		}
	}
	b.WriteString("  " + strings.Join(keys, "  ") + "\n")
	return b.String()
}

// renderTelemetry renders the usage section for the focused instance.
func (m hubModel) renderTelemetry(inst api.Instance, s status.Status) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("  USAGE") + "\n")

	if s != status.StatusRunning {
		b.WriteString("  " + dimStyle.Render("not running") + "\n")
		return b.String()
	}

	latest := m.eng.LatestUsage()
	if latest == nil {
		b.WriteString("  " + m.spinner.View() + dimStyle.Render(" waiting for first sample...") + "\n")
		return b.String()
	}

	history := m.eng.History(inst.ID)
	cpuSeries := make([]float64, len(history))
	for i, sample := range history {
		cpuSeries[i] = sample.CPU
	}

	b.WriteString(fmt.Sprintf("  %s %5.1f%%  %s\n",
		dimStyle.Render("CPU"), latest.CPU, ui.Sparkline(cpuSeries, 40)))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		dimStyle.Render("MEM"), normalStyle.Render(ui.FormatBytes(latest.MemoryBytes))))
	return b.String()
}

// renderLogTail renders the newest console lines that fit the screen.
func (m hubModel) renderLogTail() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("  CONSOLE") + "\n")

	lines := m.eng.Logs(m.detailID)
	if len(lines) == 0 {
		b.WriteString("  " + dimStyle.Render("no output yet") + "\n")
		return b.String()
	}

	visible := logTailHeight(m.height)
	b.WriteString(renderLogLines(lines, visible, m.width))
	return b.String()
}

// logTailHeight computes how many log lines fit beneath the fixed chrome.
func logTailHeight(height int) int {
	visible := height - 14
	if visible < 5 {
		visible = 5
	}
	return visible
}

// renderLogLines renders the newest n lines, oldest first, truncated to
// the terminal width.
func renderLogLines(lines []string, n, width int) string {
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	maxLen := width - 4
	if maxLen < 20 {
		maxLen = 76
	}

	var b strings.Builder
	for _, line := range lines {
		// Truncate on rune boundaries so multibyte characters are never split.
		if r := []rune(line); len(r) > maxLen {
			line = string(r[:maxLen])
		}
		b.WriteString("  " + logStyle.Render(line) + "\n")
	}
	return b.String()
}

// renderFlash renders the transient status-bar line, if any.
func (m hubModel) renderFlash() string {
	if m.flash == "" {
		return ""
	}
	style := dimStyle
	if m.flashErr {
		style = errorStyle
	}
	return "  " + style.Render(m.flash) + "\n"
}

// padName pads or truncates an instance name to a fixed column width,
// counting runes rather than bytes.
func padName(name string, width int) string {
	r := []rune(name)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return name + strings.Repeat(" ", width-len(r))
}

// helpKeyRender formats a key hint like "enter open".
func helpKeyRender(key, desc string) string {
	return selectedStyle.Render(key) + " " + helpStyle.Render(desc)
}
