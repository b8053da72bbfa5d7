package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zapcore"

	"github.com/kingrea/phaseboard/internal/config"
	"github.com/kingrea/phaseboard/internal/logbook"
	"github.com/kingrea/phaseboard/internal/records"
	"github.com/kingrea/phaseboard/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitBoardDir(projectDir); err != nil {
		t.Fatalf("init board dir: %v", err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	lb, err := logbook.New(cfg.LogPath(), zapcore.InfoLevel)
	if err != nil {
		t.Fatalf("open logbook: %v", err)
	}
	t.Cleanup(func() { lb.Close() })
	st := store.New(cfg.DataDir(), cfg.ExportDir(), store.WithLogger(lb.Logger()), store.WithSentinel(cfg.Sentinel()))
	ws, err := store.OpenWorkspace(st)
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	stub := func(markdown string, width int) (string, error) { return "rendered:" + markdown, nil }
	return NewApp(cfg, ws, lb, WithMarkdownRenderer(stub))
}

func press(t *testing.T, app *App, keys ...tea.KeyMsg) *App {
	t.Helper()
	var model tea.Model = app
	for _, key := range keys {
		model, _ = model.Update(key)
	}
	next, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return next
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabCyclesViews(t *testing.T) {
	app := newTestApp(t)
	if app.active != viewTeam {
		t.Fatalf("expected team view first, got %s", app.active.Title())
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if app.active != viewTimeline {
		t.Fatalf("expected timeline after tab, got %s", app.active.Title())
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	if app.active != viewOverview {
		t.Fatalf("expected wrap to overview, got %s", app.active.Title())
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeyShiftTab})
	if app.active != viewProgress {
		t.Fatalf("expected shift+tab back to progress, got %s", app.active.Title())
	}
	app = press(t, app, runes("3"))
	if app.active != viewTimeline {
		t.Fatalf("expected number key to jump to timeline, got %s", app.active.Title())
	}
}

func TestQuitReturnsQuitCommand(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestProgressAdjustAndSave(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, runes("4"), tea.KeyMsg{Type: tea.KeyDown}, runes("+"))
	pct, _ := app.workspace.Progress().Percent("Resume Parsing")
	if pct != 70 {
		t.Fatalf("expected Resume Parsing at 70, got %d", pct)
	}
	if !app.workspace.Dirty(records.KindProgress) {
		t.Fatalf("expected progress to be dirty")
	}
	if !strings.Contains(app.View(), "progress: default*") {
		t.Fatalf("expected dirty marker in source line")
	}

	app = press(t, app, runes("s"))
	if app.statusMsg != "Saved progress_data.json" {
		t.Fatalf("unexpected status %q", app.statusMsg)
	}
	if _, err := os.Stat(app.workspace.Store().Path(records.KindProgress)); err != nil {
		t.Fatalf("expected progress file: %v", err)
	}

	app = press(t, app, runes("s"))
	if app.statusMsg != "Nothing to save" {
		t.Fatalf("unexpected status %q", app.statusMsg)
	}
}

func TestProgressClampsAtBounds(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, runes("4"))
	for i := 0; i < 5; i++ {
		app = press(t, app, runes("+"))
	}
	pct, _ := app.workspace.Progress().Percent("Planning")
	if pct != 100 {
		t.Fatalf("expected clamp at 100, got %d", pct)
	}
	for i := 0; i < 6; i++ {
		app = press(t, app, tea.KeyMsg{Type: tea.KeyDown})
	}
	app = press(t, app, runes("-"))
	pct, _ = app.workspace.Progress().Percent("Communication")
	if pct != 0 {
		t.Fatalf("expected Communication to stay at 0, got %d", pct)
	}
}

func TestExportActiveView(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, runes("4"), runes("e"))
	if app.statusMsg != "progress_data.csv exported successfully!" {
		t.Fatalf("unexpected status %q", app.statusMsg)
	}
	data, err := os.ReadFile(filepath.Join(app.config.ExportDir(), "progress_data.csv"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "Phase,Progress (%)\n") {
		t.Fatalf("unexpected export header: %s", data)
	}

	app = press(t, app, runes("1"), runes("e"))
	if app.statusMsg != "Nothing to export on this tab" {
		t.Fatalf("unexpected status %q", app.statusMsg)
	}
}

func TestExportFailureKeepsRunning(t *testing.T) {
	app := newTestApp(t)
	blocker := filepath.Join(t.TempDir(), "exports")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	st := store.New(app.config.DataDir(), blocker)
	ws, err := store.OpenWorkspace(st)
	if err != nil {
		t.Fatal(err)
	}
	app.workspace = ws
	model, cmd := app.Update(runes("E"))
	if cmd != nil {
		t.Fatalf("export failure must not quit")
	}
	app = model.(*App)
	if !strings.HasPrefix(app.statusMsg, "Export failed: ") {
		t.Fatalf("unexpected status %q", app.statusMsg)
	}
}

func TestPhaseFilterCyclesAndPersists(t *testing.T) {
	app := newTestApp(t)
	if got := len(app.teamTable.Rows()); got != 6 {
		t.Fatalf("expected 6 rows unfiltered, got %d", got)
	}
	app = press(t, app, runes("f"))
	if app.currentFilter() != "Planning" {
		t.Fatalf("expected Planning filter, got %q", app.currentFilter())
	}
	if got := len(app.teamTable.Rows()); got != 1 {
		t.Fatalf("expected 1 filtered row, got %d", got)
	}
	view := app.View()
	if !strings.Contains(view, "Filter by Phase: Planning") {
		t.Fatalf("expected filter label in view")
	}
	if strings.Contains(view, "Resume Parsing\n") {
		t.Fatalf("filtered chart should not include other phases")
	}

	reloaded, err := config.NewConfig(app.config.ProjectDir)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.PhaseFilter() != "Planning" {
		t.Fatalf("expected filter persisted, got %q", reloaded.PhaseFilter())
	}

	app = press(t, app, runes("F"))
	if app.currentFilter() != "All" {
		t.Fatalf("expected back to All, got %q", app.currentFilter())
	}
}

func TestTimelineViewShowsHighlights(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, runes("3"))
	view := app.View()
	for _, want := range []string{"Project Timeline", "Timeline Highlights", "Planning: Jan 15 - Jan 24", "Communication: Mar 5 - Mar 15"} {
		if !strings.Contains(view, want) {
			t.Fatalf("timeline view missing %q", want)
		}
	}
}

func TestOverviewUsesRenderer(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, runes("1"))
	if !strings.Contains(app.View(), "rendered:") {
		t.Fatalf("expected overview rendered through the markdown renderer")
	}
}

func TestTeamViewChartsAssignments(t *testing.T) {
	app := newTestApp(t)
	view := app.View()
	if !strings.Contains(view, "Detailed Work Assignments by Team") {
		t.Fatalf("expected chart title")
	}
	if !strings.Contains(view, "AI Team") {
		t.Fatalf("expected AI Team in legend")
	}
}

func TestWindowResizeKeepsTable(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	app = model.(*App)
	if got := len(app.teamTable.Rows()); got != 6 {
		t.Fatalf("expected rows kept after resize, got %d", got)
	}
	total := 0
	for _, col := range app.teamTable.Columns() {
		total += col.Width + 2
	}
	if total > 60 {
		t.Fatalf("expected columns to fit in 60 cells, got %d", total)
	}
}

func TestStartupLogsTableSourcesAsFields(t *testing.T) {
	app := newTestApp(t)
	lines := app.logbook.Tail(logPanelLines)
	found := false
	for _, line := range lines {
		if strings.Contains(line, "table loaded") && strings.Contains(line, `"kind": "team"`) && strings.Contains(line, `"source": "default"`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected structured startup entry, got %q", lines)
	}
}
