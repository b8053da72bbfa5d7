// Package reshape turns the wide team allocation table into the long form
// the grouped-bar chart consumes.
package reshape

import (
	"github.com/kingrea/phaseboard/internal/records"
)

// AllPhases is the filter value that keeps every phase.
const AllPhases = "All"

// TidyAssignment is one real (phase, team) assignment.
type TidyAssignment struct {
	Phase   string `json:"phase"`
	Team    string `json:"team"`
	Members string `json:"members"`
}

// Names splits Members into individual names.
func (a TidyAssignment) Names() []string {
	return records.Assigned(a.Members).Names()
}

// ToTidy emits one row per assigned cell, phases in table order and teams in
// column order. Unassigned cells produce no row.
func ToTidy(table *records.TeamTable) []TidyAssignment {
	if table == nil {
		return nil
	}
	var out []TidyAssignment
	for _, row := range table.Rows {
		for i, team := range table.Teams {
			if i >= len(row.Cells) {
				break
			}
			members, ok := row.Cells[i].Members()
			if !ok {
				continue
			}
			out = append(out, TidyAssignment{Phase: row.Phase, Team: team, Members: members})
		}
	}
	return out
}

// FilterPhase keeps only the row for phase. AllPhases returns a copy of the
// whole table; an unknown phase yields the columns with no rows.
func FilterPhase(table *records.TeamTable, phase string) *records.TeamTable {
	if phase == AllPhases {
		return table.Clone()
	}
	out := &records.TeamTable{Teams: append([]string(nil), table.Teams...)}
	for _, row := range table.Rows {
		if row.Phase == phase {
			out.Rows = append(out.Rows, records.TeamRow{
				Phase: row.Phase,
				Cells: append([]records.Assignment(nil), row.Cells...),
			})
		}
	}
	return out
}

// FilterOptions lists the choices for the phase filter: AllPhases first,
// then each phase in table order.
func FilterOptions(table *records.TeamTable) []string {
	return append([]string{AllPhases}, table.Phases()...)
}

// Bar is one team's bar inside a phase group.
type Bar struct {
	Team    string
	Members []string
	Count   int
}

// BarGroup is the cluster of bars drawn for one phase.
type BarGroup struct {
	Phase string
	Bars  []Bar
}

// Series groups tidy rows by phase, keeping first-seen phase order and row
// order within a phase.
func Series(tidy []TidyAssignment) []BarGroup {
	var groups []BarGroup
	index := map[string]int{}
	for _, row := range tidy {
		pos, ok := index[row.Phase]
		if !ok {
			pos = len(groups)
			index[row.Phase] = pos
			groups = append(groups, BarGroup{Phase: row.Phase})
		}
		names := row.Names()
		groups[pos].Bars = append(groups[pos].Bars, Bar{Team: row.Team, Members: names, Count: len(names)})
	}
	return groups
}

// MaxCount returns the largest bar in the series, for scaling.
func MaxCount(groups []BarGroup) int {
	most := 0
	for _, group := range groups {
		for _, bar := range group.Bars {
			if bar.Count > most {
				most = bar.Count
			}
		}
	}
	return most
}
