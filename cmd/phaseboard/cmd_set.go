package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kingrea/phaseboard/internal/records"
)

// newSetCmd groups the value-overwrite edits. Each edit is saved immediately.
func newSetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Overwrite a value and save it",
	}
	cmd.AddCommand(
		newSetMembersCmd(opts),
		newSetDatesCmd(opts),
		newSetProgressCmd(opts),
	)
	return cmd
}

func newSetMembersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "members <phase> <team> <members>",
		Short: "Assign team members to a phase",
		Long: `Replaces the member list of a team for a phase. Pass the configured
sentinel (default "-") to clear the assignment.

Example:
  phaseboard set members Planning "AI Team" "Ayana K, Chris Nevin K Dence"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()
			value := records.ParseAssignment(args[2], s.cfg.Sentinel())
			if err := s.workspace.SetMembers(args[0], args[1], value); err != nil {
				return err
			}
			return saveAndReport(cmd, s, records.KindTeam)
		},
	}
}

func newSetDatesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dates <phase> <start YYYY-MM-DD> <end YYYY-MM-DD>",
		Short: "Reschedule a phase",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := records.ParseDate(args[1])
			if err != nil {
				return err
			}
			end, err := records.ParseDate(args[2])
			if err != nil {
				return err
			}
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.workspace.SetDates(args[0], start, end); err != nil {
				return err
			}
			return saveAndReport(cmd, s, records.KindTimeline)
		},
	}
}

func newSetProgressCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <phase> <percent>",
		Short: "Record phase progress (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("percent must be a whole number: %q", args[1])
			}
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.workspace.SetProgress(args[0], percent); err != nil {
				return err
			}
			return saveAndReport(cmd, s, records.KindProgress)
		},
	}
}

func saveAndReport(cmd *cobra.Command, s *session, kind records.Kind) error {
	if err := s.workspace.Save(kind); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", s.workspace.Store().Path(kind))
	return nil
}
