// internal/config/config.go
//
// This package handles configuration and the .phaseboard directory structure.
// Every project tracked by phaseboard gets a .phaseboard/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// BoardDir is the name of the directory we create in each project
	BoardDir = ".phaseboard"

	defaultTitle       = "ATS Project Management Dashboard"
	defaultSentinel    = "-"
	defaultDataDir     = BoardDir + "/data"
	defaultExportDir   = "."
	defaultLogLevel    = "info"
	defaultPhaseFilter = "All"
)

const defaultOverview = `## Project Overview

An Applicant Tracking System (ATS) is a recruitment solution designed to simplify and
enhance hiring processes. It automates repetitive tasks and provides data-driven
decision-making tools.

### Key Objectives
- **Streamline job posting creation** with user-friendly tools.
- **Automate resume parsing** and AI-driven scoring.
- **Generate tailored interview questions** through AI.
- **Analyze skill and educational gaps** efficiently.
- **Keep candidates engaged** with automated communication updates.

## Final Deliverables
- **Job Posting Tool**: create and publish job posts.
- **Candidate Database**: manage all applicant details in one place.
- **AI Resume Scoring**: evaluate and rank candidates automatically.
- **Skill Gap Analysis Module**: pinpoint candidate gaps against job requirements.
- **Interview Generator**: create tailored interview questions.
- **Automated Communication**: real-time updates to candidates.
`

const defaultProjectConfigYAML = `# phaseboard project configuration
version: 1

title: ATS Project Management Dashboard

# Marker written to team_data.json for a team with nobody assigned to a phase.
sentinel: "-"

data:
  # Saved tables (team_data.json, timeline_data.json, progress_data.json).
  dir: .phaseboard/data
  # Where CSV exports land.
  export_dir: .

log:
  level: info

dashboard:
  phase_filter: All

# Markdown shown on the overview tab. Leave empty for the built-in text.
overview: ""
`

// DataConfig locates saved tables and exports.
type DataConfig struct {
	Dir       string `yaml:"dir"`
	ExportDir string `yaml:"export_dir"`
}

// LogConfig controls the logbook.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DashboardConfig captures view preferences remembered between runs.
type DashboardConfig struct {
	PhaseFilter string `yaml:"phase_filter"`
}

// ProjectConfig models .phaseboard/config.yaml.
type ProjectConfig struct {
	Version   int             `yaml:"version"`
	Title     string          `yaml:"title"`
	Sentinel  string          `yaml:"sentinel"`
	Data      DataConfig      `yaml:"data"`
	Log       LogConfig       `yaml:"log"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Overview  string          `yaml:"overview"`
}

// Config holds the runtime configuration for phaseboard.
type Config struct {
	// ProjectDir is the directory phaseboard runs against
	ProjectDir string

	// BoardProjectDir is ProjectDir/.phaseboard
	BoardProjectDir string

	Project ProjectConfig
}

// InitBoardDir creates the .phaseboard directory structure in the given
// project directory and writes a starter config.yaml if none exists.
//
// Structure created:
// .phaseboard/
// ├── config.yaml
// ├── data/     <- saved tables
// └── logs/     <- logbook
func InitBoardDir(projectDir string) error {
	boardDir := filepath.Join(projectDir, BoardDir)

	dirs := []string{
		filepath.Join(boardDir, "data"),
		filepath.Join(boardDir, "logs"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(boardDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve project dir: %w", err)
	}
	cfg := &Config{
		ProjectDir:      abs,
		BoardProjectDir: filepath.Join(abs, BoardDir),
		Project:         defaultProjectConfig(),
	}
	cfg.Project.normalize(abs)

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DataDir returns the directory holding saved tables
func (c *Config) DataDir() string {
	return c.Project.Data.Dir
}

// ExportDir returns the directory CSV exports are written to
func (c *Config) ExportDir() string {
	return c.Project.Data.ExportDir
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.BoardProjectDir, "logs")
}

// LogPath returns the logbook file
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "board.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.BoardProjectDir, "config.yaml")
}

func (c *Config) Title() string    { return c.Project.Title }
func (c *Config) Sentinel() string { return c.Project.Sentinel }
func (c *Config) LogLevel() string { return c.Project.Log.Level }

// Overview returns the overview markdown, falling back to the built-in text.
func (c *Config) Overview() string {
	if strings.TrimSpace(c.Project.Overview) == "" {
		return defaultOverview
	}
	return c.Project.Overview
}

// PhaseFilter returns the phase filter selected on the last run.
func (c *Config) PhaseFilter() string {
	return c.Project.Dashboard.PhaseFilter
}

// SetPhaseFilter updates the remembered phase filter and persists it back to
// .phaseboard/config.yaml.
func (c *Config) SetPhaseFilter(phase string) error {
	phase = strings.TrimSpace(phase)
	if phase == "" {
		return fmt.Errorf("config: phase filter is required")
	}
	if phase == c.Project.Dashboard.PhaseFilter {
		return nil
	}
	c.Project.Dashboard.PhaseFilter = phase
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Title) == "" {
		pc.Title = defaultTitle
	}
	if pc.Sentinel == "" {
		pc.Sentinel = defaultSentinel
	}
	if strings.TrimSpace(pc.Data.Dir) == "" {
		pc.Data.Dir = defaultDataDir
	}
	if strings.TrimSpace(pc.Data.ExportDir) == "" {
		pc.Data.ExportDir = defaultExportDir
	}
	if strings.TrimSpace(pc.Log.Level) == "" {
		pc.Log.Level = defaultLogLevel
	}
	if strings.TrimSpace(pc.Dashboard.PhaseFilter) == "" {
		pc.Dashboard.PhaseFilter = defaultPhaseFilter
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Title = strings.TrimSpace(pc.Title)
	pc.Data.Dir = resolvePath(base, pc.Data.Dir)
	pc.Data.ExportDir = resolvePath(base, pc.Data.ExportDir)
	pc.Log.Level = strings.ToLower(strings.TrimSpace(pc.Log.Level))
	pc.Dashboard.PhaseFilter = strings.TrimSpace(pc.Dashboard.PhaseFilter)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if strings.TrimSpace(pc.Sentinel) == "" {
		return fmt.Errorf("sentinel must not be blank")
	}
	if strings.ContainsAny(pc.Sentinel, ",") {
		return fmt.Errorf("sentinel must not contain a comma")
	}
	switch pc.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if pc.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

// saveProjectConfig writes paths relative to the project directory so the
// file stays portable.
func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.BoardProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure board dir: %w", err)
	}
	out := c.Project
	out.Data.Dir = relativePath(c.ProjectDir, out.Data.Dir)
	out.Data.ExportDir = relativePath(c.ProjectDir, out.Data.ExportDir)
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}

func relativePath(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return target
	}
	return rel
}
