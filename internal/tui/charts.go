package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/phaseboard/internal/records"
	"github.com/kingrea/phaseboard/internal/reshape"
)

// qualitative palette, one color per series
var palette = []lipgloss.Color{
	"#8DD3C7", "#FFFFB3", "#BEBADA", "#FB8072", "#80B1D3", "#FDB462",
	"#B3DE69", "#FCCDE5", "#D9D9D9", "#BC80BD", "#CCEBC5", "#FFED6F",
}

func paletteColor(i int) lipgloss.Color {
	return palette[i%len(palette)]
}

// renderGantt draws one bar per phase positioned on a shared day axis. Rows
// keep timeline order, which is chronological for a planned project.
func renderGantt(phases []records.PhaseRecord, width int) string {
	first, last := phases[0].Start, phases[0].End
	labelWidth := 0
	for _, p := range phases {
		if p.Start.Before(first) {
			first = p.Start
		}
		if p.End.After(last) {
			last = p.End
		}
		labelWidth = max(labelWidth, len([]rune(p.Phase)))
	}
	chartWidth := max(10, width-labelWidth-3)
	totalDays := first.DaysUntil(last) + 1

	var lines []string
	for i, p := range phases {
		offset := first.DaysUntil(p.Start) * chartWidth / totalDays
		length := max(1, (p.Start.DaysUntil(p.End)+1)*chartWidth/totalDays)
		if offset+length > chartWidth {
			length = max(1, chartWidth-offset)
		}
		bar := lipgloss.NewStyle().
			Foreground(paletteColor(i)).
			Render(strings.Repeat("█", length))
		label := fmt.Sprintf("%-*s", labelWidth, p.Phase)
		lines = append(lines, fmt.Sprintf("%s │%s%s", label, strings.Repeat(" ", offset), bar))
	}
	pad := strings.Repeat(" ", labelWidth)
	lines = append(lines, fmt.Sprintf("%s └%s", pad, strings.Repeat("─", chartWidth)))
	start, end := first.Short(), last.Short()
	gap := max(1, chartWidth-len(start)-len(end))
	lines = append(lines, fmt.Sprintf("%s  %s%s%s", pad, start, strings.Repeat(" ", gap), end))
	return strings.Join(lines, "\n")
}

// timelineHighlights summarizes each phase window as "Planning: Jan 15 - Jan 24".
func timelineHighlights(phases []records.PhaseRecord) []string {
	out := make([]string, 0, len(phases))
	for _, p := range phases {
		out = append(out, fmt.Sprintf("%s: %s - %s", p.Phase, p.Start.Short(), p.End.Short()))
	}
	return out
}

// renderGroupedBars draws one cluster per phase with a bar per assigned team,
// bar length proportional to member count.
func renderGroupedBars(groups []reshape.BarGroup, teams []string, width int) string {
	teamColor := map[string]lipgloss.Color{}
	teamWidth := 0
	var legend []string
	for i, team := range teams {
		teamColor[team] = paletteColor(i)
		teamWidth = max(teamWidth, len([]rune(team)))
		legend = append(legend, lipgloss.NewStyle().Foreground(teamColor[team]).Render("■")+" "+team)
	}
	maxBar := min(30, max(5, width/3))
	most := max(1, reshape.MaxCount(groups))

	lines := []string{strings.Join(legend, "   ")}
	for _, group := range groups {
		lines = append(lines, group.Phase)
		for _, bar := range group.Bars {
			units := bar.Count * maxBar / most
			if bar.Count > 0 && units == 0 {
				units = 1
			}
			drawn := lipgloss.NewStyle().
				Foreground(teamColor[bar.Team]).
				Render(strings.Repeat("█", units))
			names := strings.Join(bar.Members, ", ")
			room := width - teamWidth - maxBar - 10
			line := fmt.Sprintf("  %-*s %s%s %d",
				teamWidth, bar.Team,
				drawn, strings.Repeat(" ", maxBar-units),
				bar.Count)
			if room > 8 && names != "" {
				line += "  " + truncate(names, room)
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
