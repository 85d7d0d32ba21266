// Package ui provides instance rendering components.
package ui

import (
	"fmt"
	"strings"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/status"
)

// PrintInstanceBox prints a boxed instance summary: identity, address,
// status badge, and the latest usage reading when one exists.
//
// Parameters:
//   - inst: The instance record
//   - intent: The pending transition intent
//   - s: The authoritative status
//   - cpu: CPU usage percentage, ignored when hasUsage is false
//   - memBytes: Memory usage in bytes, ignored when hasUsage is false
//   - hasUsage: Whether a usage reading exists
func PrintInstanceBox(inst api.Instance, intent status.Intent, s status.Status, cpu float64, memBytes uint64, hasUsage bool) {
	var lines []string
	lines = append(lines, fmt.Sprintf("%s %s", StatusBadge(intent, s), DimStyle.Render(inst.ID)))
	lines = append(lines, fmt.Sprintf("%s %s", DimStyle.Render("Address:"), LinkStyle.Render(inst.Address())))
	if inst.Version != "" {
		detail := inst.Version
		if inst.Loader != "" {
			detail += " (" + inst.Loader + ")"
		}
		lines = append(lines, fmt.Sprintf("%s %s", DimStyle.Render("Version:"), detail))
	}
	if inst.Capacity > 0 {
		lines = append(lines, fmt.Sprintf("%s %d players", DimStyle.Render("Capacity:"), inst.Capacity))
	}
	if hasUsage {
		lines = append(lines, fmt.Sprintf("%s %s %.1f%%", DimStyle.Render("CPU:"), Gauge(cpu, 20), cpu))
		lines = append(lines, fmt.Sprintf("%s %s", DimStyle.Render("Memory:"), FormatBytes(memBytes)))
	}

	style := BoxStyle
	if s == status.StatusCrashed {
		style = CrashBoxStyle
	}
	title := BoxTitleStyle.Render(inst.Name)
	fmt.Println(style.Render(title + "\n" + strings.Join(lines, "\n")))
}

// PrintWatchLine redraws a one-line status readout in place. Used by the
// --wait flag on lifecycle commands while a transition settles.
//
// Parameters:
//   - name: The instance name
//   - intent: The pending transition intent
//   - s: The authoritative status
//   - elapsed: Elapsed wait time string, "" to omit
func PrintWatchLine(name string, intent status.Intent, s status.Status, elapsed string) {
	ClearLine()
	line := fmt.Sprintf("%s %s", StatusBadge(intent, s), InfoStyle.Render(name))
	if elapsed != "" {
		line += DimStyle.Render(fmt.Sprintf(" (%s)", elapsed))
	}
	fmt.Print(line)
}

// FormatBytes renders a byte count with a binary unit suffix.
//
// Parameters:
//   - n: The byte count
//
// Returns:
//   - string: e.g. "1.5 GiB"
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
