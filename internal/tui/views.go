package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kingrea/phaseboard/internal/records"
	"github.com/kingrea/phaseboard/internal/reshape"
)

var (
	colorTitle      = lipgloss.Color("#FF6B6B")
	colorAccent     = lipgloss.Color("#5B8DEF")
	colorMuted      = lipgloss.Color("#888888")
	colorFaint      = lipgloss.Color("#AAAAAA")
	colorBorder     = lipgloss.Color("#444444")
	colorSelectedFg = lipgloss.Color("#FFFFFF")
	colorSelectedBg = lipgloss.Color("#3A3F58")
)

func (a *App) renderBoard(content string, width int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitle).
		Render(a.config.Title())
	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(max(20, width-2)).
		Render(content)
	sections := []string{header, a.renderTabs(), body, a.renderSources()}
	if logPanel := a.renderLogPanel(width); logPanel != "" {
		sections = append(sections, logPanel)
	}
	hints := lipgloss.NewStyle().
		Foreground(colorFaint).
		Render(a.keyHints())
	footer := lipgloss.NewStyle().
		Foreground(colorMuted).
		Render(a.statusMsg)
	sections = append(sections, hints, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Underline(true)
	idle := lipgloss.NewStyle().Foreground(colorMuted)
	var tabs []string
	for i, v := range viewOrder {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == a.active {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, idle.Render(label))
		}
	}
	return strings.Join(tabs, "   ")
}

// renderSources shows where each table came from; a trailing * marks
// unsaved edits.
func (a *App) renderSources() string {
	var parts []string
	for _, kind := range records.Kinds {
		label := fmt.Sprintf("%s: %s", kind, a.workspace.Source(kind))
		if a.workspace.Dirty(kind) {
			label += "*"
		}
		parts = append(parts, label)
	}
	return lipgloss.NewStyle().Foreground(colorMuted).Render(strings.Join(parts, " · "))
}

func (a *App) keyHints() string {
	hints := []string{"Tab → next tab"}
	switch a.active {
	case viewTeam:
		hints = append(hints, "f → filter phase", "↑/↓ → scroll")
	case viewProgress:
		hints = append(hints, "↑/↓ → select", "+/- → adjust")
	}
	if _, ok := a.active.kind(); ok {
		hints = append(hints, "e → export")
	}
	hints = append(hints, "E → export all", "s → save", "q → quit")
	return strings.Join(hints, "    ")
}

func (a *App) renderLogPanel(width int) string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent).
		Render(fmt.Sprintf("LOG · %s", fileName))
	for i, line := range lines {
		lines[i] = truncate(line, max(20, width-6))
	}
	body := lipgloss.NewStyle().
		Foreground(colorFaint).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderOverview(width int) string {
	if a.overviewCache != "" && a.overviewWidth == width {
		return a.overviewCache
	}
	out, err := a.renderMarkdown(a.config.Overview(), width)
	if err != nil {
		a.logbook.Error("overview render failed", zap.Error(err))
		return a.config.Overview()
	}
	a.overviewCache = out
	a.overviewWidth = width
	return out
}

func (a *App) renderTeam(width int) string {
	title := sectionTitle("Team Allocation and Work Distribution")
	filter := lipgloss.NewStyle().
		Foreground(colorFaint).
		Render(fmt.Sprintf("Filter by Phase: %s", a.currentFilter()))
	var tableView string
	if len(a.teamTable.Rows()) == 0 {
		tableView = lipgloss.NewStyle().Foreground(colorMuted).Render("No phases match the filter.")
	} else {
		tableView = a.teamTable.View()
	}
	team := reshape.FilterPhase(a.workspace.Team(), a.currentFilter())
	groups := reshape.Series(reshape.ToTidy(team))
	chart := sectionTitle("Detailed Work Assignments by Team")
	if len(groups) == 0 {
		chart += "\n" + lipgloss.NewStyle().Foreground(colorMuted).Render("No assignments to chart.")
	} else {
		chart += "\n" + renderGroupedBars(groups, a.workspace.Team().Teams, width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, filter, tableView, "", chart)
}

func (a *App) renderTimeline(width int) string {
	phases := a.workspace.Phases()
	if len(phases) == 0 {
		return sectionTitle("Project Timeline") + "\nNo phases scheduled."
	}
	parts := []string{
		sectionTitle("Project Timeline"),
		renderGantt(phases, width),
		"",
		sectionTitle("Timeline Highlights"),
	}
	for _, line := range timelineHighlights(phases) {
		parts = append(parts, "- "+line)
	}
	return strings.Join(parts, "\n")
}

func (a *App) renderProgress(width int) string {
	rows := a.workspace.Progress().Rows
	if len(rows) == 0 {
		return sectionTitle("Phase Progress") + "\nNo phases tracked."
	}
	labelWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, len([]rune(row.Phase)))
	}
	bar := a.progressBar
	bar.Width = max(10, min(bar.Width, width-labelWidth-6))
	lines := []string{sectionTitle("Phase Progress")}
	for i, row := range rows {
		marker := "  "
		label := lipgloss.NewStyle().Width(labelWidth).Render(row.Phase)
		if i == a.progressSelection {
			marker = "› "
			label = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Width(labelWidth).Render(row.Phase)
		}
		lines = append(lines, fmt.Sprintf("%s%s  %s", marker, label, bar.ViewAs(float64(row.Percent)/100)))
	}
	return strings.Join(lines, "\n")
}

func sectionTitle(text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(text)
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
