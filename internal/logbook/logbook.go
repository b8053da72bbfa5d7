package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logbook writes structured entries to a plain text file and can read the
// most recent ones back for display. The terminal belongs to the TUI, so
// nothing is logged to stdout or stderr.
type Logbook struct {
	path   string
	file   *os.File
	logger *zap.Logger
	mu     sync.Mutex
}

// ParseLevel maps a config level name onto a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logbook: unknown level %q", name)
	}
	return level, nil
}

// New creates a logbook that appends to the provided path.
func New(path string, level zapcore.Level) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.CallerKey = zapcore.OmitKey
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(file),
		zap.NewAtomicLevelAt(level),
	)
	return &Logbook{path: path, file: file, logger: zap.New(core)}, nil
}

// Logger returns the zap logger backing the logbook. A nil logbook yields a
// no-op logger so callers never need to check.
func (l *Logbook) Logger() *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.logger
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close flushes and releases the file.
func (l *Logbook) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.logger.Sync()
	return l.file.Close()
}

// Tail returns up to maxLines of the most recent log entries.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.logger.Sync()
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) == 0 {
		return nil
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// Info appends an informational entry.
func (l *Logbook) Info(msg string, fields ...zap.Field) {
	l.Logger().Info(msg, fields...)
}

// Warn appends a warning entry.
func (l *Logbook) Warn(msg string, fields ...zap.Field) {
	l.Logger().Warn(msg, fields...)
}

// Error appends an error entry.
func (l *Logbook) Error(msg string, fields ...zap.Field) {
	l.Logger().Error(msg, fields...)
}
