package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kingrea/phaseboard/internal/records"
	"github.com/kingrea/phaseboard/internal/reshape"
)

func TestOpenWorkspaceUsesDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	ws, err := OpenWorkspace(s)
	require.NoError(t, err)
	for _, kind := range records.Kinds {
		require.Equal(t, SourceDefault, ws.Source(kind))
		require.False(t, ws.Dirty(kind))
	}
	phases := ws.Phases()
	require.Len(t, phases, 6)
	require.Equal(t, 80, phases[0].Progress)
}

func TestWorkspaceEditsPersistAcrossReopen(t *testing.T) {
	s, _ := newTestStore(t)
	ws, err := OpenWorkspace(s)
	require.NoError(t, err)

	require.NoError(t, ws.SetProgress("Resume Parsing", 75))
	require.NoError(t, ws.SetMembers("Planning", "AI Team", records.Assigned("Ayana K")))
	require.True(t, ws.Dirty(records.KindProgress))
	require.True(t, ws.Dirty(records.KindTeam))
	require.False(t, ws.Dirty(records.KindTimeline))

	saved, err := ws.SaveDirty()
	require.NoError(t, err)
	require.Equal(t, []records.Kind{records.KindTeam, records.KindProgress}, saved)
	require.False(t, ws.Dirty(records.KindProgress))
	require.Equal(t, SourceFile, ws.Source(records.KindTeam))
	_, err = os.Stat(s.Path(records.KindTimeline))
	require.True(t, os.IsNotExist(err), "clean kinds should not be written")

	reopened, err := OpenWorkspace(New(s.dataDir, s.exportDir))
	require.NoError(t, err)
	pct, ok := reopened.Progress().Percent("Resume Parsing")
	require.True(t, ok)
	require.Equal(t, 75, pct)
	members, assigned := reopened.Team().Rows[0].Cells[2].Members()
	require.True(t, assigned)
	require.Equal(t, "Ayana K", members)
}

func TestWorkspaceRejectsUnknownKeys(t *testing.T) {
	s, _ := newTestStore(t)
	ws, err := OpenWorkspace(s)
	require.NoError(t, err)

	require.ErrorIs(t, ws.SetMembers("Planning", "Ops Team", records.Unassigned()), records.ErrUnknownTeam)
	require.ErrorIs(t, ws.SetProgress("Launch", 10), records.ErrUnknownPhase)
	require.ErrorIs(t, ws.SetDates("Planning", records.NewDate(2025, time.May, 2), records.NewDate(2025, time.May, 1)), records.ErrInvalidValue)
	for _, kind := range records.Kinds {
		require.False(t, ws.Dirty(kind))
	}
}

func TestWorkspaceCopiesAreIsolated(t *testing.T) {
	s, _ := newTestStore(t)
	ws, err := OpenWorkspace(s)
	require.NoError(t, err)
	progress := ws.Progress()
	progress.Rows[0].Percent = 1
	pct, _ := ws.Progress().Percent("Planning")
	require.Equal(t, 80, pct)
}

func TestWorkspaceExport(t *testing.T) {
	s, root := newTestStore(t)
	ws, err := OpenWorkspace(s)
	require.NoError(t, err)

	path, err := ws.Export(records.KindTimeline)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "exports", "timeline_data.csv"), path)

	paths, err := ws.ExportAll()
	require.NoError(t, err)
	require.Len(t, paths, 3)
}

func TestSaveDirtyReportsFailures(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "data")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	ws, err := OpenWorkspace(New(blocker, root))
	require.NoError(t, err)
	require.NoError(t, ws.SetProgress("Planning", 90))

	saved, err := ws.SaveDirty()
	require.Empty(t, saved)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	require.True(t, ws.Dirty(records.KindProgress))
}

func TestSetMembersRejectsSentinelText(t *testing.T) {
	s, _ := newTestStore(t)
	ws, err := OpenWorkspace(s)
	require.NoError(t, err)

	err = ws.SetMembers("Planning", "AI Team", records.Assigned(s.Sentinel()))
	require.ErrorIs(t, err, records.ErrInvalidValue)
	require.False(t, ws.Dirty(records.KindTeam))
	require.NoError(t, ws.SetMembers("Planning", "Web Team", records.Unassigned()))

	for _, row := range reshape.ToTidy(ws.Team()) {
		require.NotEqual(t, s.Sentinel(), row.Members, "%s/%s", row.Phase, row.Team)
	}
}
