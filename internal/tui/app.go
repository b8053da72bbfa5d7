// internal/tui/app.go
//
// This is the dashboard TUI for phaseboard.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The App never touches files directly. Every read and write goes through the
// store.Workspace handed to it at startup.

package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/kingrea/phaseboard/internal/config"
	"github.com/kingrea/phaseboard/internal/logbook"
	"github.com/kingrea/phaseboard/internal/records"
	"github.com/kingrea/phaseboard/internal/reshape"
	"github.com/kingrea/phaseboard/internal/store"
)

// boardView represents which tab is showing
type boardView int

const (
	viewOverview boardView = iota
	viewTeam
	viewTimeline
	viewProgress
)

var viewOrder = []boardView{viewOverview, viewTeam, viewTimeline, viewProgress}

func (v boardView) Title() string {
	switch v {
	case viewOverview:
		return "Overview"
	case viewTeam:
		return "Team Allocation"
	case viewTimeline:
		return "Timeline"
	case viewProgress:
		return "Progress"
	}
	return "Unknown"
}

// kind returns the record set a tab exports, if any.
func (v boardView) kind() (records.Kind, bool) {
	switch v {
	case viewTeam:
		return records.KindTeam, true
	case viewTimeline:
		return records.KindTimeline, true
	case viewProgress:
		return records.KindProgress, true
	}
	return "", false
}

const (
	progressStep   = 10
	logPanelLines  = 6
	defaultWidth   = 100
	maxColumnWidth = 48
)

// MarkdownRenderer turns markdown into terminal output at a given width.
type MarkdownRenderer func(markdown string, width int) (string, error)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithMarkdownRenderer overrides the overview renderer.
func WithMarkdownRenderer(renderer MarkdownRenderer) AppOption {
	return func(a *App) {
		if renderer != nil {
			a.renderMarkdown = renderer
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config    *config.Config
	workspace *store.Workspace
	logbook   *logbook.Logbook

	active boardView

	// Team tab
	teamTable     table.Model
	filterOptions []string
	filterIndex   int

	// Progress tab
	progressBar       progress.Model
	progressSelection int

	renderMarkdown MarkdownRenderer
	overviewCache  string
	overviewWidth  int

	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp creates a new App over an already opened workspace.
func NewApp(cfg *config.Config, ws *store.Workspace, lb *logbook.Logbook, opts ...AppOption) *App {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	app := &App{
		config:         cfg,
		workspace:      ws,
		logbook:        lb,
		active:         viewTeam,
		teamTable:      newTeamTable(),
		progressBar:    bar,
		renderMarkdown: glamourRenderer,
		width:          defaultWidth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.refreshFilterOptions(cfg.PhaseFilter())
	app.refreshTeamTable()
	for _, kind := range records.Kinds {
		app.logbook.Info("table loaded", zap.String("kind", string(kind)), zap.Stringer("source", ws.Source(kind)))
	}
	return app
}

func glamourRenderer(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width)),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}

func newTeamTable() table.Model {
	t := table.New(table.WithFocused(true), table.WithHeight(8))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(colorAccent)
	styles.Selected = styles.Selected.Foreground(colorSelectedFg).Background(colorSelectedBg)
	t.SetStyles(styles)
	return t
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.teamTable.SetHeight(max(4, min(len(a.teamTable.Rows())+1, msg.Height/3)))
		a.progressBar.Width = max(10, msg.Width/2)
		a.refreshTeamTable()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "tab", "right", "l":
			a.cycleView(1)
			return a, nil
		case "shift+tab", "left", "h":
			a.cycleView(-1)
			return a, nil
		case "1", "2", "3", "4":
			a.active = viewOrder[int(msg.String()[0]-'1')]
			return a, nil
		case "s":
			a.saveDirty()
			return a, nil
		case "e":
			a.exportActive()
			return a, nil
		case "E":
			a.exportAll()
			return a, nil
		}

		switch a.active {
		case viewTeam:
			switch msg.String() {
			case "f":
				a.cycleFilter(1)
				return a, nil
			case "F":
				a.cycleFilter(-1)
				return a, nil
			}
			var cmd tea.Cmd
			a.teamTable, cmd = a.teamTable.Update(msg)
			return a, cmd
		case viewProgress:
			switch msg.String() {
			case "up", "k":
				if a.progressSelection > 0 {
					a.progressSelection--
				}
			case "down", "j":
				if a.progressSelection < len(a.workspace.Progress().Rows)-1 {
					a.progressSelection++
				}
			case "+", "=":
				a.adjustProgress(progressStep)
			case "-", "_":
				a.adjustProgress(-progressStep)
			}
			return a, nil
		}
	}

	return a, nil
}

func (a *App) cycleView(delta int) {
	pos := 0
	for i, v := range viewOrder {
		if v == a.active {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(viewOrder)) % len(viewOrder)
	a.active = viewOrder[pos]
}

// refreshFilterOptions rebuilds the phase filter choices and reselects
// preferred when it still names a phase.
func (a *App) refreshFilterOptions(preferred string) {
	a.filterOptions = reshape.FilterOptions(a.workspace.Team())
	a.filterIndex = 0
	for i, option := range a.filterOptions {
		if option == preferred {
			a.filterIndex = i
			break
		}
	}
}

func (a *App) currentFilter() string {
	if a.filterIndex < 0 || a.filterIndex >= len(a.filterOptions) {
		return reshape.AllPhases
	}
	return a.filterOptions[a.filterIndex]
}

func (a *App) cycleFilter(delta int) {
	if len(a.filterOptions) == 0 {
		return
	}
	a.filterIndex = (a.filterIndex + delta + len(a.filterOptions)) % len(a.filterOptions)
	filter := a.currentFilter()
	a.refreshTeamTable()
	a.statusMsg = fmt.Sprintf("Filter by Phase: %s", filter)
	if err := a.config.SetPhaseFilter(filter); err != nil {
		a.logbook.Error("remember phase filter failed", zap.String("filter", filter), zap.Error(err))
	}
}

func (a *App) refreshTeamTable() {
	filtered := reshape.FilterPhase(a.workspace.Team(), a.currentFilter())
	rows := filtered.Records(a.workspace.Store().Sentinel())
	a.teamTable.SetRows(nil)
	a.teamTable.SetColumns(tableColumns(filtered.Columns(), rows, a.width-8))
	tableRows := make([]table.Row, len(rows))
	for i, record := range rows {
		tableRows[i] = table.Row(record)
	}
	a.teamTable.SetRows(tableRows)
	a.teamTable.SetCursor(0)
}

// tableColumns sizes each column to its widest cell, shrinking the widest
// columns until the table fits in width.
func tableColumns(headers []string, rows [][]string, width int) []table.Column {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], len([]rune(cell)))
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColumnWidth)
	}
	// each column carries two cells of padding
	for total(widths)+2*len(widths) > width && width > 0 {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 8 {
			break
		}
		widths[widest]--
	}
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	return cols
}

func total(values []int) int {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum
}

func (a *App) adjustProgress(delta int) {
	rows := a.workspace.Progress().Rows
	if len(rows) == 0 {
		return
	}
	if a.progressSelection >= len(rows) {
		a.progressSelection = len(rows) - 1
	}
	row := rows[a.progressSelection]
	next := min(100, max(0, row.Percent+delta))
	if next == row.Percent {
		return
	}
	if err := a.workspace.SetProgress(row.Phase, next); err != nil {
		a.statusMsg = fmt.Sprintf("Update failed: %v", err)
		a.logbook.Error("progress update failed", zap.String("phase", row.Phase), zap.Int("percent", next), zap.Error(err))
		return
	}
	a.statusMsg = fmt.Sprintf("%s → %d%% (unsaved, press s to save)", row.Phase, next)
}

func (a *App) saveDirty() {
	saved, err := a.workspace.SaveDirty()
	var names []string
	for _, kind := range saved {
		names = append(names, kind.Stem()+".json")
	}
	switch {
	case err != nil:
		a.statusMsg = fmt.Sprintf("Save failed: %s", describeError(err))
		a.logbook.Error("save failed", zap.Error(err))
	case len(names) == 0:
		a.statusMsg = "Nothing to save"
	default:
		a.statusMsg = fmt.Sprintf("Saved %s", strings.Join(names, ", "))
	}
}

func (a *App) exportActive() {
	kind, ok := a.active.kind()
	if !ok {
		a.statusMsg = "Nothing to export on this tab"
		return
	}
	path, err := a.workspace.Export(kind)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Export failed: %s", describeError(err))
		a.logbook.Error("export failed", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	a.statusMsg = fmt.Sprintf("%s exported successfully!", filepath.Base(path))
}

func (a *App) exportAll() {
	paths, err := a.workspace.ExportAll()
	if err != nil {
		a.statusMsg = fmt.Sprintf("Export failed: %s", describeError(err))
		a.logbook.Error("export all failed", zap.Error(err))
		return
	}
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	a.statusMsg = fmt.Sprintf("%s exported successfully!", strings.Join(names, ", "))
}

// describeError keeps status lines short: the path and cause of an IOError
// without the package prefix.
func describeError(err error) string {
	var ioErr *store.IOError
	if errors.As(err, &ioErr) {
		return fmt.Sprintf("%s: %v", ioErr.Path, ioErr.Err)
	}
	return err.Error()
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = defaultWidth
	}
	var content string
	switch a.active {
	case viewOverview:
		content = a.renderOverview(width - 4)
	case viewTeam:
		content = a.renderTeam(width - 4)
	case viewTimeline:
		content = a.renderTimeline(width - 4)
	case viewProgress:
		content = a.renderProgress(width - 4)
	}
	return a.renderBoard(content, width)
}
