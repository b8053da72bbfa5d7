package records

// PhaseRecord is the joined view of one phase used by the timeline and
// progress renderers.
type PhaseRecord struct {
	Phase    string
	Start    Date
	End      Date
	Progress int
}

// Join pairs each timeline row with its progress. Timeline order wins; a
// phase without a progress row reports 0.
func Join(timeline *TimelineTable, progress *ProgressTable) []PhaseRecord {
	out := make([]PhaseRecord, 0, len(timeline.Rows))
	for _, row := range timeline.Rows {
		pct, _ := progress.Percent(row.Phase)
		out = append(out, PhaseRecord{
			Phase:    row.Phase,
			Start:    row.Start,
			End:      row.End,
			Progress: pct,
		})
	}
	return out
}
