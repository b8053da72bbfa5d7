package tui

import (
	"strings"
	"testing"

	"github.com/kingrea/phaseboard/internal/records"
	"github.com/kingrea/phaseboard/internal/reshape"
)

func TestRenderGanttPlacesBarsInOrder(t *testing.T) {
	phases := records.Join(records.DefaultTimeline(), records.DefaultProgress())
	out := renderGantt(phases, 80)
	lines := strings.Split(out, "\n")
	if len(lines) != len(phases)+2 {
		t.Fatalf("expected %d lines, got %d", len(phases)+2, len(lines))
	}
	firstBar := strings.Index(lines[0], "█")
	lastBar := strings.Index(lines[5], "█")
	if firstBar < 0 || lastBar <= firstBar {
		t.Fatalf("expected later phases to start further right: %d vs %d", firstBar, lastBar)
	}
	if !strings.Contains(lines[len(lines)-1], "Jan 15") || !strings.Contains(lines[len(lines)-1], "Mar 15") {
		t.Fatalf("expected axis labels, got %q", lines[len(lines)-1])
	}
}

func TestTimelineHighlights(t *testing.T) {
	got := timelineHighlights(records.Join(records.DefaultTimeline(), records.DefaultProgress()))
	if got[1] != "Resume Parsing: Jan 25 - Feb 4" {
		t.Fatalf("unexpected highlight %q", got[1])
	}
}

func TestRenderGroupedBarsScalesToLargestTeam(t *testing.T) {
	groups := reshape.Series(reshape.ToTidy(records.DefaultTeam()))
	out := renderGroupedBars(groups, records.DefaultTeam().Teams, 90)
	var webLine string
	for _, line := range strings.Split(out, "\n") {
		// the first drawn Web Team bar belongs to Planning, the largest group
		if strings.Contains(line, "Web Team") && strings.Contains(line, "█") {
			webLine = line
			break
		}
	}
	if webLine == "" {
		t.Fatalf("expected Planning web team bar in:\n%s", out)
	}
	if strings.Count(webLine, "█") != 30 {
		t.Fatalf("expected largest bar at full width, got %d blocks", strings.Count(webLine, "█"))
	}
}

func TestTableColumnsShrinkToWidth(t *testing.T) {
	headers := []string{"Phase", "Members"}
	rows := [][]string{{"Planning", strings.Repeat("x", 100)}}
	cols := tableColumns(headers, rows, 40)
	if cols[1].Width > maxColumnWidth {
		t.Fatalf("column wider than cap: %d", cols[1].Width)
	}
	if cols[0].Width+cols[1].Width+4 > 40 {
		t.Fatalf("columns exceed width: %d + %d", cols[0].Width, cols[1].Width)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
