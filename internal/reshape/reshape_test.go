package reshape

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/phaseboard/internal/records"
)

func TestToTidyPlanningScenario(t *testing.T) {
	tidy := ToTidy(records.DefaultTeam())
	var planning []TidyAssignment
	for _, row := range tidy {
		if row.Phase == "Planning" {
			planning = append(planning, row)
		}
	}
	want := []TidyAssignment{
		{Phase: "Planning", Team: "UI/UX Team", Members: "Abdul Azees P N, Arjun Krishna R, Jaspreet"},
		{Phase: "Planning", Team: "Web Team", Members: "Ahalya, Diviksha, Divya, Sivadharshini, Subashini"},
	}
	if diff := cmp.Diff(want, planning); diff != "" {
		t.Fatalf("planning rows mismatch (-want +got):\n%s", diff)
	}
}

func TestToTidyRowCountAndNoUnassigned(t *testing.T) {
	table := records.DefaultTeam()
	cells, unassigned := 0, 0
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			cells++
			if !cell.IsAssigned() {
				unassigned++
			}
		}
	}
	tidy := ToTidy(table)
	require.Len(t, tidy, cells-unassigned)
	require.Len(t, tidy, 11)
	for _, row := range tidy {
		require.NotEqual(t, records.DefaultSentinel, row.Members)
	}
}

func TestToTidyKeepsEmptyAssignmentDistinctFromUnassigned(t *testing.T) {
	table := &records.TeamTable{
		Teams: []string{"Web Team"},
		Rows:  []records.TeamRow{{Phase: "Planning", Cells: []records.Assignment{records.Assigned("")}}},
	}
	tidy := ToTidy(table)
	require.Len(t, tidy, 1)
	require.Empty(t, tidy[0].Names())
}

func TestToTidyOrderIsStable(t *testing.T) {
	table := &records.TeamTable{
		Teams: []string{"AI Team", "Web Team"},
		Rows: []records.TeamRow{
			{Phase: "Zeta", Cells: []records.Assignment{records.Assigned("a"), records.Assigned("b")}},
			{Phase: "Alpha", Cells: []records.Assignment{records.Unassigned(), records.Assigned("c")}},
		},
	}
	first := ToTidy(table)
	second := ToTidy(table)
	require.Equal(t, first, second)
	require.Equal(t, []TidyAssignment{
		{Phase: "Zeta", Team: "AI Team", Members: "a"},
		{Phase: "Zeta", Team: "Web Team", Members: "b"},
		{Phase: "Alpha", Team: "Web Team", Members: "c"},
	}, first)
}

func TestToTidyDropsFullyUnassignedPhase(t *testing.T) {
	table := &records.TeamTable{
		Teams: []string{"AI Team"},
		Rows: []records.TeamRow{
			{Phase: "Idle", Cells: []records.Assignment{records.Unassigned()}},
		},
	}
	require.Empty(t, ToTidy(table))
	require.Empty(t, Series(ToTidy(table)))
}

func TestFilterPhase(t *testing.T) {
	table := records.DefaultTeam()
	require.Len(t, FilterPhase(table, AllPhases).Rows, 6)

	only := FilterPhase(table, "Skill Gap Analysis")
	require.Len(t, only.Rows, 1)
	require.Equal(t, table.Teams, only.Teams)

	none := FilterPhase(table, "Launch")
	require.Empty(t, none.Rows)
	require.Equal(t, table.Columns(), none.Columns())

	require.Equal(t, "All", FilterOptions(table)[0])
	require.Len(t, FilterOptions(table), 7)
}

func TestSeriesCountsMembers(t *testing.T) {
	groups := Series(ToTidy(records.DefaultTeam()))
	require.Len(t, groups, 6)
	require.Equal(t, "Planning", groups[0].Phase)
	require.Equal(t, []Bar{
		{Team: "UI/UX Team", Members: []string{"Abdul Azees P N", "Arjun Krishna R", "Jaspreet"}, Count: 3},
		{Team: "Web Team", Members: []string{"Ahalya", "Diviksha", "Divya", "Sivadharshini", "Subashini"}, Count: 5},
	}, groups[0].Bars)
	require.Equal(t, 5, MaxCount(groups))
}
