package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/phaseboard/internal/records"
	"github.com/kingrea/phaseboard/internal/reshape"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var phase string
	cmd := &cobra.Command{
		Use:   "show <team|timeline|progress>",
		Short: "Print a table",
		Long: `Prints the current table for a kind, read from .phaseboard/data or the
built-in defaults.

Examples:
  phaseboard show team --phase Planning
  phaseboard show progress`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := records.ParseKind(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			table, err := s.workspace.Table(kind)
			if err != nil {
				return err
			}
			if team, ok := table.(*records.TeamTable); ok && phase != "" {
				table = reshape.FilterPhase(team, phase)
			}
			s.logger.Debug("show", zap.String("kind", string(kind)), zap.String("source", s.workspace.Source(kind).String()))
			printTable(cmd.OutOrStdout(), table.Columns(), table.Records(s.cfg.Sentinel()))
			return nil
		},
	}
	cmd.Flags().StringVar(&phase, "phase", reshape.AllPhases, "only show this phase (team table)")
	return cmd
}

func newTidyCmd(opts *rootOptions) *cobra.Command {
	var (
		phase  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "tidy",
		Short: "Print team assignments as one row per phase and team",
		Long: `Reshapes the team allocation table into long form: one row per phase and
team that has members assigned. Unassigned cells are left out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			tidy := reshape.ToTidy(reshape.FilterPhase(s.workspace.Team(), phase))
			out := cmd.OutOrStdout()
			if asJSON {
				if tidy == nil {
					tidy = []reshape.TidyAssignment{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tidy)
			}
			rows := make([][]string, 0, len(tidy))
			for _, row := range tidy {
				rows = append(rows, []string{row.Phase, row.Team, row.Members})
			}
			printTable(out, []string{"Phase", "Team", "Members"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&phase, "phase", reshape.AllPhases, "only include this phase")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
	return cmd
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}
