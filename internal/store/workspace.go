package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kingrea/phaseboard/internal/records"
)

// Workspace owns the three record sets for the lifetime of the process. It
// is built once at startup and handed to whatever needs to read or edit the
// tables.
type Workspace struct {
	store    *Store
	team     *records.TeamTable
	timeline *records.TimelineTable
	progress *records.ProgressTable
	sources  map[records.Kind]Source
	dirty    map[records.Kind]bool
}

// OpenWorkspace loads every kind from the store.
func OpenWorkspace(s *Store) (*Workspace, error) {
	ws := &Workspace{
		store:   s,
		sources: map[records.Kind]Source{},
		dirty:   map[records.Kind]bool{},
	}
	for _, kind := range records.Kinds {
		table, source, err := s.Load(kind)
		if err != nil {
			return nil, err
		}
		ws.sources[kind] = source
		switch t := table.(type) {
		case *records.TeamTable:
			ws.team = t
		case *records.TimelineTable:
			ws.timeline = t
		case *records.ProgressTable:
			ws.progress = t
		default:
			return nil, fmt.Errorf("store: unexpected %T for %s", table, kind)
		}
	}
	return ws, nil
}

// Store returns the backing store.
func (w *Workspace) Store() *Store { return w.store }

// Team returns a copy of the team allocation.
func (w *Workspace) Team() *records.TeamTable { return w.team.Clone() }

// Timeline returns a copy of the phase timeline.
func (w *Workspace) Timeline() *records.TimelineTable { return w.timeline.Clone() }

// Progress returns a copy of the phase progress.
func (w *Workspace) Progress() *records.ProgressTable { return w.progress.Clone() }

// Table returns a copy of the table for kind.
func (w *Workspace) Table(kind records.Kind) (records.Table, error) {
	switch kind {
	case records.KindTeam:
		return w.Team(), nil
	case records.KindTimeline:
		return w.Timeline(), nil
	case records.KindProgress:
		return w.Progress(), nil
	}
	return nil, fmt.Errorf("%w: %q", records.ErrUnknownKind, string(kind))
}

// Phases joins timeline and progress into one record per phase.
func (w *Workspace) Phases() []records.PhaseRecord {
	return records.Join(w.timeline, w.progress)
}

// Source reports whether kind was loaded from disk or from the defaults.
func (w *Workspace) Source(kind records.Kind) Source { return w.sources[kind] }

// Dirty reports whether kind has edits that have not been saved.
func (w *Workspace) Dirty(kind records.Kind) bool { return w.dirty[kind] }

// SetMembers overwrites the assignment of team on phase.
func (w *Workspace) SetMembers(phase, team string, value records.Assignment) error {
	if err := value.CheckSentinel(w.store.sentinel); err != nil {
		return err
	}
	if err := w.team.Set(phase, team, value); err != nil {
		return err
	}
	w.dirty[records.KindTeam] = true
	w.store.logger.Info("team assignment updated",
		zap.String("phase", phase),
		zap.String("team", team),
		zap.String("members", value.Text(w.store.sentinel)))
	return nil
}

// SetDates overwrites the window of phase.
func (w *Workspace) SetDates(phase string, start, end records.Date) error {
	if err := w.timeline.Set(phase, start, end); err != nil {
		return err
	}
	w.dirty[records.KindTimeline] = true
	w.store.logger.Info("timeline updated",
		zap.String("phase", phase),
		zap.Stringer("start", start),
		zap.Stringer("end", end))
	return nil
}

// SetProgress overwrites the completion percentage of phase.
func (w *Workspace) SetProgress(phase string, percent int) error {
	if err := w.progress.Set(phase, percent); err != nil {
		return err
	}
	w.dirty[records.KindProgress] = true
	w.store.logger.Info("progress updated", zap.String("phase", phase), zap.Int("percent", percent))
	return nil
}

// Save persists kind regardless of whether it is dirty.
func (w *Workspace) Save(kind records.Kind) error {
	table, err := w.Table(kind)
	if err != nil {
		return err
	}
	if err := w.store.Save(kind, table); err != nil {
		return err
	}
	w.dirty[kind] = false
	w.sources[kind] = SourceFile
	return nil
}

// SaveDirty persists every kind with unsaved edits and returns the kinds it
// wrote. Failures for one kind do not stop the others.
func (w *Workspace) SaveDirty() ([]records.Kind, error) {
	var (
		saved []records.Kind
		errs  []error
	)
	for _, kind := range records.Kinds {
		if !w.dirty[kind] {
			continue
		}
		if err := w.Save(kind); err != nil {
			errs = append(errs, err)
			continue
		}
		saved = append(saved, kind)
	}
	return saved, errors.Join(errs...)
}

// Export writes kind as CSV under its default name.
func (w *Workspace) Export(kind records.Kind) (string, error) {
	table, err := w.Table(kind)
	if err != nil {
		return "", err
	}
	return w.store.Export(table, kind.Stem())
}

// ExportAll writes every kind as CSV.
func (w *Workspace) ExportAll() ([]string, error) {
	return w.store.ExportAll(w.Team(), w.Timeline(), w.Progress())
}
