// cmd/phaseboard/main.go
//
// This is the entry point for the phaseboard CLI.
// Running `phaseboard` with no arguments opens the dashboard TUI for the
// project in the current directory. Subcommands expose the same load, edit,
// save and export operations for scripting.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kingrea/phaseboard/internal/config"
	"github.com/kingrea/phaseboard/internal/logbook"
	"github.com/kingrea/phaseboard/internal/store"
	"github.com/kingrea/phaseboard/internal/tui"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	projectDir string
	verbose    bool
}

// session bundles everything one command invocation needs. It is opened at
// the start of a command and closed when the command returns.
type session struct {
	cfg       *config.Config
	logbook   *logbook.Logbook
	workspace *store.Workspace
	logger    *zap.Logger
}

func (s *session) Close() {
	if s == nil {
		return
	}
	_ = s.logbook.Close()
}

func openSession(opts *rootOptions) (*session, error) {
	dir := opts.projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		dir = cwd
	}
	if err := config.InitBoardDir(dir); err != nil {
		return nil, fmt.Errorf("initialize %s: %w", filepath.Join(dir, config.BoardDir), err)
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		return nil, err
	}
	level, err := logbook.ParseLevel(cfg.LogLevel())
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		level = zapcore.DebugLevel
	}
	lb, err := logbook.New(cfg.LogPath(), level)
	if err != nil {
		return nil, fmt.Errorf("open logbook: %w", err)
	}
	logger := lb.Logger().With(zap.String("project", cfg.ProjectDir))
	st := store.New(cfg.DataDir(), cfg.ExportDir(),
		store.WithLogger(logger),
		store.WithSentinel(cfg.Sentinel()),
	)
	ws, err := store.OpenWorkspace(st)
	if err != nil {
		lb.Close()
		return nil, err
	}
	return &session{cfg: cfg, logbook: lb, workspace: ws, logger: logger}, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "phaseboard",
		Short: "Project status dashboard: team allocation, timeline and progress",
		Long: `phaseboard shows the team allocation, phase timeline and phase progress of a
project in the terminal.

Tables are saved as JSON under .phaseboard/data. Until a table is saved the
built-in defaults are shown. Any table can be exported as CSV.

Run without arguments to open the dashboard.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.projectDir, "project", "p", "", "project directory (default: current directory)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newInitCmd(opts),
		newShowCmd(opts),
		newTidyCmd(opts),
		newExportCmd(opts),
		newSetCmd(opts),
	)
	return root
}

func runDashboard(opts *rootOptions) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()
	s.logger.Info("dashboard opened")

	// tea.NewProgram creates a new bubbletea application
	// WithAltScreen uses the alternate screen buffer (like vim does)
	p := tea.NewProgram(
		tui.NewApp(s.cfg, s.workspace, s.logbook),
		tea.WithAltScreen(),
	)

	// Run blocks until the user quits
	if _, err := p.Run(); err != nil {
		s.logger.Error("dashboard failed", zap.Error(err))
		return fmt.Errorf("run dashboard: %w", err)
	}
	s.logger.Info("dashboard closed")
	return nil
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .phaseboard/ and a starter config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:  %s\n", s.cfg.ProjectConfigPath())
			fmt.Fprintf(out, "data:    %s\n", s.cfg.DataDir())
			fmt.Fprintf(out, "exports: %s\n", s.cfg.ExportDir())
			fmt.Fprintf(out, "log:     %s\n", s.cfg.LogPath())
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
