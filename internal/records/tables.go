package records

import (
	"fmt"
	"strconv"
	"strings"
)

// Column headings shared by every table and the CSV exports.
const (
	ColumnPhase    = "Phase"
	ColumnStart    = "Start Date"
	ColumnEnd      = "End Date"
	ColumnProgress = "Progress (%)"
)

// Table is the behavior shared by the three record sets.
type Table interface {
	Kind() Kind
	// Columns returns the column headings in declared order.
	Columns() []string
	// Records renders every row as strings, one cell per column.
	Records(sentinel string) [][]string
	// Phases lists the phase key of each row in table order.
	Phases() []string
	Validate() error
}

// TeamTable is the wide team allocation table: one row per phase, one column
// per team.
type TeamTable struct {
	Teams []string
	Rows  []TeamRow
}

// TeamRow holds one cell per team, aligned with TeamTable.Teams.
type TeamRow struct {
	Phase string
	Cells []Assignment
}

func (t *TeamTable) Kind() Kind { return KindTeam }

func (t *TeamTable) Columns() []string {
	return append([]string{ColumnPhase}, t.Teams...)
}

func (t *TeamTable) Records(sentinel string) [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make([]string, 0, len(t.Teams)+1)
		record = append(record, row.Phase)
		for _, cell := range row.Cells {
			record = append(record, cell.Text(sentinel))
		}
		out = append(out, record)
	}
	return out
}

func (t *TeamTable) Phases() []string {
	phases := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		phases = append(phases, row.Phase)
	}
	return phases
}

func (t *TeamTable) Validate() error {
	teams := map[string]struct{}{}
	for _, team := range t.Teams {
		if strings.TrimSpace(team) == "" {
			return fmt.Errorf("%w: empty team name", ErrInvalidValue)
		}
		if team == ColumnPhase {
			return fmt.Errorf("%w: team column %q collides with the phase column", ErrInvalidValue, team)
		}
		if _, ok := teams[team]; ok {
			return fmt.Errorf("%w: duplicate team %q", ErrInvalidValue, team)
		}
		teams[team] = struct{}{}
	}
	// team columns are stored as row keys, so they need at least one row
	if len(t.Teams) > 0 && len(t.Rows) == 0 {
		return fmt.Errorf("%w: %d teams but no phases", ErrInvalidValue, len(t.Teams))
	}
	if err := uniquePhases(t.Phases()); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if len(row.Cells) != len(t.Teams) {
			return fmt.Errorf("%w: phase %q has %d cells for %d teams", ErrInvalidValue, row.Phase, len(row.Cells), len(t.Teams))
		}
	}
	return nil
}

// TeamIndex returns the column position of a team or -1.
func (t *TeamTable) TeamIndex(team string) int {
	for i, candidate := range t.Teams {
		if candidate == team {
			return i
		}
	}
	return -1
}

// Set overwrites the cell for (phase, team).
func (t *TeamTable) Set(phase, team string, value Assignment) error {
	col := t.TeamIndex(team)
	if col < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	row := phaseIndex(t.Phases(), phase)
	if row < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
	}
	t.Rows[row].Cells[col] = value
	return nil
}

// Clone returns a deep copy.
func (t *TeamTable) Clone() *TeamTable {
	out := &TeamTable{
		Teams: append([]string(nil), t.Teams...),
		Rows:  make([]TeamRow, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = TeamRow{Phase: row.Phase, Cells: append([]Assignment(nil), row.Cells...)}
	}
	return out
}

// TimelineTable holds the scheduled window of each phase.
type TimelineTable struct {
	Rows []TimelineRow
}

type TimelineRow struct {
	Phase string
	Start Date
	End   Date
}

func (t *TimelineTable) Kind() Kind { return KindTimeline }

func (t *TimelineTable) Columns() []string {
	return []string{ColumnPhase, ColumnStart, ColumnEnd}
}

func (t *TimelineTable) Records(string) [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, []string{row.Phase, row.Start.String(), row.End.String()})
	}
	return out
}

func (t *TimelineTable) Phases() []string {
	phases := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		phases = append(phases, row.Phase)
	}
	return phases
}

func (t *TimelineTable) Validate() error {
	if err := uniquePhases(t.Phases()); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := checkWindow(row.Phase, row.Start, row.End); err != nil {
			return err
		}
	}
	return nil
}

// Span returns the earliest start and latest end across all phases.
func (t *TimelineTable) Span() (Date, Date) {
	var first, last Date
	for i, row := range t.Rows {
		if i == 0 || row.Start.Before(first) {
			first = row.Start
		}
		if i == 0 || row.End.After(last) {
			last = row.End
		}
	}
	return first, last
}

// Set overwrites the window of a phase.
func (t *TimelineTable) Set(phase string, start, end Date) error {
	row := phaseIndex(t.Phases(), phase)
	if row < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
	}
	if err := checkWindow(phase, start, end); err != nil {
		return err
	}
	t.Rows[row].Start = start
	t.Rows[row].End = end
	return nil
}

func (t *TimelineTable) Clone() *TimelineTable {
	return &TimelineTable{Rows: append([]TimelineRow(nil), t.Rows...)}
}

// ProgressTable holds the completion percentage of each phase.
type ProgressTable struct {
	Rows []ProgressRow
}

type ProgressRow struct {
	Phase   string
	Percent int
}

func (t *ProgressTable) Kind() Kind { return KindProgress }

func (t *ProgressTable) Columns() []string {
	return []string{ColumnPhase, ColumnProgress}
}

func (t *ProgressTable) Records(string) [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, []string{row.Phase, strconv.Itoa(row.Percent)})
	}
	return out
}

func (t *ProgressTable) Phases() []string {
	phases := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		phases = append(phases, row.Phase)
	}
	return phases
}

func (t *ProgressTable) Validate() error {
	if err := uniquePhases(t.Phases()); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := checkPercent(row.Phase, row.Percent); err != nil {
			return err
		}
	}
	return nil
}

// Percent looks up the progress of a phase.
func (t *ProgressTable) Percent(phase string) (int, bool) {
	for _, row := range t.Rows {
		if row.Phase == phase {
			return row.Percent, true
		}
	}
	return 0, false
}

// Set overwrites the progress of a phase.
func (t *ProgressTable) Set(phase string, percent int) error {
	row := phaseIndex(t.Phases(), phase)
	if row < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
	}
	if err := checkPercent(phase, percent); err != nil {
		return err
	}
	t.Rows[row].Percent = percent
	return nil
}

func (t *ProgressTable) Clone() *ProgressTable {
	return &ProgressTable{Rows: append([]ProgressRow(nil), t.Rows...)}
}

func uniquePhases(phases []string) error {
	seen := make(map[string]struct{}, len(phases))
	for _, phase := range phases {
		if strings.TrimSpace(phase) == "" {
			return fmt.Errorf("%w: empty phase name", ErrInvalidValue)
		}
		if _, ok := seen[phase]; ok {
			return fmt.Errorf("%w: duplicate phase %q", ErrInvalidValue, phase)
		}
		seen[phase] = struct{}{}
	}
	return nil
}

func phaseIndex(phases []string, phase string) int {
	for i, candidate := range phases {
		if candidate == phase {
			return i
		}
	}
	return -1
}

func checkWindow(phase string, start, end Date) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: phase %q is missing a date", ErrInvalidValue, phase)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: phase %q ends %s before it starts %s", ErrInvalidValue, phase, end, start)
	}
	return nil
}

func checkPercent(phase string, percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: phase %q progress %d outside 0..100", ErrInvalidValue, phase, percent)
	}
	return nil
}
