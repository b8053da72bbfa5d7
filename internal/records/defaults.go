package records

import "time"

// Embedded defaults for the ATS project. They are what a fresh project shows
// until the user saves their own tables.

var defaultTeams = []string{"UI/UX Team", "Web Team", "AI Team"}

var defaultTeamRows = []struct {
	phase string
	cells []string
}{
	{"Planning", []string{"Abdul Azees P N, Arjun Krishna R, Jaspreet", "Ahalya, Diviksha, Divya, Sivadharshini, Subashini", ""}},
	{"Resume Parsing", []string{"", "Ahalya, Diviksha, Sivadharshini", "Ayana K, Chris Nevin K Dence"}},
	{"Skill Gap Analysis", []string{"", "Subashini, Divya", "Ayana K, Chris Nevin K Dence"}},
	{"Interview Generation", []string{"", "Diviksha, Sivadharshini", "Ayana K, Chris Nevin K Dence"}},
	{"Candidate Ranking", []string{"", "Ahalya, Divya", "Ayana K, Chris Nevin K Dence"}},
	{"Automated Communication", []string{"", "Subashini, Sivadharshini", ""}},
}

var defaultSchedule = []TimelineRow{
	{Phase: "Planning", Start: NewDate(2025, time.January, 15), End: NewDate(2025, time.January, 24)},
	{Phase: "Resume Parsing", Start: NewDate(2025, time.January, 25), End: NewDate(2025, time.February, 4)},
	{Phase: "Skill Gap Analysis", Start: NewDate(2025, time.February, 5), End: NewDate(2025, time.February, 14)},
	{Phase: "Interview Generation", Start: NewDate(2025, time.February, 15), End: NewDate(2025, time.February, 24)},
	{Phase: "Candidate Ranking", Start: NewDate(2025, time.February, 25), End: NewDate(2025, time.March, 4)},
	{Phase: "Communication", Start: NewDate(2025, time.March, 5), End: NewDate(2025, time.March, 15)},
}

var defaultProgress = []ProgressRow{
	{Phase: "Planning", Percent: 80},
	{Phase: "Resume Parsing", Percent: 60},
	{Phase: "Skill Gap Analysis", Percent: 40},
	{Phase: "Interview Generation", Percent: 20},
	{Phase: "Candidate Ranking", Percent: 10},
	{Phase: "Communication", Percent: 0},
}

// DefaultTeam returns the default team allocation. An empty member string in
// the literal above means unassigned.
func DefaultTeam() *TeamTable {
	table := &TeamTable{Teams: append([]string(nil), defaultTeams...)}
	for _, row := range defaultTeamRows {
		cells := make([]Assignment, len(row.cells))
		for i, members := range row.cells {
			if members != "" {
				cells[i] = Assigned(members)
			}
		}
		table.Rows = append(table.Rows, TeamRow{Phase: row.phase, Cells: cells})
	}
	return table
}

func DefaultTimeline() *TimelineTable {
	return &TimelineTable{Rows: append([]TimelineRow(nil), defaultSchedule...)}
}

func DefaultProgress() *ProgressTable {
	return &ProgressTable{Rows: append([]ProgressRow(nil), defaultProgress...)}
}
