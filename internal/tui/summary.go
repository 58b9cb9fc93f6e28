// Package tui renders run progress and summaries for the terminal.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

// Summary describes a finished (or halted) run.
func Summary(cfg *config.Config, res *sim.Result, runErr error) string {
	lines := []string{
		Title.Render(cfg.Name),
		metricLine("integrator", cfg.Integrator),
		metricLine("bodies", fmt.Sprintf("%d (%dD)", len(cfg.Masses), cfg.Dim())),
		metricLine("steps", fmt.Sprintf("%d/%d (dt=%.4g)", res.StepsTaken, cfg.Steps, cfg.Dt())),
	}

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, metricLine(name, fmt.Sprintf("%.6g", res.Metrics[name])))
	}

	status := StatusRunning.Render("completed")
	if runErr != nil {
		status = StatusFailed.Render(runErr.Error())
	}
	lines = append(lines, "", status)

	return Panel.Render(strings.Join(lines, "\n"))
}

// PresetTable lists built-in presets with their main parameters.
func PresetTable(names []string) string {
	rows := [][]string{{"preset", "bodies", "dim", "t_end", "steps", "integrator"}}
	for _, name := range names {
		c := config.GetPreset(name)
		if c == nil {
			continue
		}
		rows = append(rows, []string{
			name,
			fmt.Sprint(len(c.Masses)),
			fmt.Sprint(c.Dim()),
			fmt.Sprintf("%.4g", c.TEnd),
			fmt.Sprint(c.Steps),
			c.Integrator,
		})
	}
	return table(rows)
}

// RunTable lists stored runs.
func RunTable(runs []storage.RunMetadata) string {
	rows := [][]string{{"id", "integrator", "steps", "energy_drift", "status"}}
	for _, r := range runs {
		status := "ok"
		if r.Error != "" {
			status = "halted"
		}
		rows = append(rows, []string{
			r.ID,
			r.Integrator,
			fmt.Sprintf("%d/%d", r.StepsTaken, r.Steps),
			fmt.Sprintf("%.3g", r.Metrics["energy_drift"]),
			status,
		})
	}
	return table(rows)
}

func table(rows [][]string) string {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for c, cell := range row {
			widths[c] = max(widths[c], lipgloss.Width(cell))
		}
	}

	var sb strings.Builder
	for r, row := range rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			style := lipgloss.NewStyle().Width(widths[c] + 2)
			if r == 0 {
				style = style.Bold(true).Foreground(lipgloss.Color("#00ffff"))
			}
			cells[c] = style.Render(cell)
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		sb.WriteString("\n")
	}
	return sb.String()
}
