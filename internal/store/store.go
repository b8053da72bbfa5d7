// Package store persists the dashboard's record sets as JSON files, falls
// back to the embedded defaults when nothing has been saved, and exports
// tables as CSV.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kingrea/phaseboard/internal/records"
)

// Source tells where a loaded table came from.
type Source int

const (
	SourceDefault Source = iota
	SourceFile
)

func (s Source) String() string {
	if s == SourceFile {
		return "file"
	}
	return "default"
}

// ErrKindMismatch is returned when a table is saved under another kind.
var ErrKindMismatch = errors.New("store: table kind does not match")

// IOError reports a storage failure while writing a table or an export.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

const corruptTimeLayout = "20060102T150405Z"

// Store reads and writes tables under a data directory and writes CSV
// exports under an export directory.
type Store struct {
	dataDir   string
	exportDir string
	sentinel  string
	logger    *zap.Logger
	now       func() time.Time
}

// Option customizes a Store during construction.
type Option func(*Store)

// WithClock overrides the clock used to stamp quarantined files.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger sets the logger for load fallbacks and writes.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSentinel overrides the on-disk marker for unassigned team cells.
func WithSentinel(sentinel string) Option {
	return func(s *Store) {
		s.sentinel = sentinel
	}
}

// New builds a store. Directories are created lazily on first write.
func New(dataDir, exportDir string, opts ...Option) *Store {
	s := &Store{
		dataDir:   dataDir,
		exportDir: exportDir,
		sentinel:  records.DefaultSentinel,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sentinel returns the marker written for unassigned team cells.
func (s *Store) Sentinel() string { return s.sentinel }

// Path returns the JSON file backing a kind.
func (s *Store) Path(kind records.Kind) string {
	return filepath.Join(s.dataDir, kind.Stem()+".json")
}

// Load returns the saved table for kind, or the embedded default when the
// file is absent, unreadable or malformed. The only error is an unknown kind.
func (s *Store) Load(kind records.Kind) (records.Table, Source, error) {
	fallback, err := kind.Default()
	if err != nil {
		return nil, SourceDefault, err
	}
	path := s.Path(kind)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no saved table, using defaults", zap.String("kind", string(kind)), zap.String("path", path))
		} else {
			s.logger.Warn("saved table unreadable, using defaults", zap.String("kind", string(kind)), zap.String("path", path), zap.Error(err))
		}
		return fallback, SourceDefault, nil
	}
	table, err := records.Decode(kind, data, s.sentinel)
	if err != nil {
		s.logger.Warn("saved table malformed, using defaults", zap.String("kind", string(kind)), zap.String("path", path), zap.Error(err))
		s.quarantine(path)
		return fallback, SourceDefault, nil
	}
	s.logger.Debug("loaded table", zap.String("kind", string(kind)), zap.Int("rows", len(table.Phases())))
	return table, SourceFile, nil
}

// quarantine moves a malformed file aside so a later save cannot destroy it.
func (s *Store) quarantine(path string) {
	target := fmt.Sprintf("%s.corrupt-%s", path, s.now().UTC().Format(corruptTimeLayout))
	if err := os.Rename(path, target); err != nil {
		s.logger.Warn("could not move malformed table aside", zap.String("path", path), zap.Error(err))
		return
	}
	s.logger.Info("malformed table moved aside", zap.String("path", target))
}

// Save overwrites the JSON file for kind with table.
func (s *Store) Save(kind records.Kind, table records.Table) error {
	if table == nil {
		return fmt.Errorf("store: nil %s table", kind)
	}
	if table.Kind() != kind {
		return fmt.Errorf("%w: saving %s table as %s", ErrKindMismatch, table.Kind(), kind)
	}
	data, err := records.Encode(table, s.sentinel)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", kind, err)
	}
	path := s.Path(kind)
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	s.logger.Info("saved table", zap.String("kind", string(kind)), zap.String("path", path))
	return nil
}

// Export writes table as CSV to name inside the export directory and returns
// the file path. A ".csv" extension is added when missing.
func (s *Store) Export(table records.Table, name string) (string, error) {
	if table == nil {
		return "", fmt.Errorf("store: nil table")
	}
	path := s.exportPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &IOError{Op: "export", Path: path, Err: err}
	}
	file, err := os.Create(path)
	if err != nil {
		return "", &IOError{Op: "export", Path: path, Err: err}
	}
	w := csv.NewWriter(file)
	if err := w.Write(table.Columns()); err != nil {
		file.Close()
		return "", &IOError{Op: "export", Path: path, Err: err}
	}
	if err := w.WriteAll(table.Records(s.sentinel)); err != nil {
		file.Close()
		return "", &IOError{Op: "export", Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return "", &IOError{Op: "export", Path: path, Err: err}
	}
	s.logger.Info("exported table", zap.String("kind", string(table.Kind())), zap.String("path", path))
	return path, nil
}

// ExportAll exports each table under its kind's default name.
func (s *Store) ExportAll(tables ...records.Table) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for _, table := range tables {
		path, err := s.Export(table, table.Kind().Stem())
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *Store) exportPath(name string) string {
	name = strings.TrimSpace(name)
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		name += ".csv"
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(s.exportDir, name)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "save", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "save", Path: path, Err: err}
	}
	return nil
}
