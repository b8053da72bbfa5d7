package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/phaseboard/internal/records"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "export [team|timeline|progress ...]",
		Short: "Export tables as CSV",
		Long: `Writes each requested table as CSV into the configured export directory,
named after its kind (team_data.csv, timeline_data.csv, progress_data.csv).
With no arguments every table is exported.

Examples:
  phaseboard export
  phaseboard export progress --name q1-progress`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := records.Kinds
			if len(args) > 0 {
				kinds = nil
				for _, arg := range args {
					kind, err := records.ParseKind(arg)
					if err != nil {
						return err
					}
					kinds = append(kinds, kind)
				}
			}
			if name != "" && len(kinds) != 1 {
				return fmt.Errorf("--name needs exactly one table")
			}

			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			for _, kind := range kinds {
				var path string
				if name != "" {
					table, err := s.workspace.Table(kind)
					if err != nil {
						return err
					}
					path, err = s.workspace.Store().Export(table, name)
					if err != nil {
						return err
					}
				} else {
					path, err = s.workspace.Export(kind)
					if err != nil {
						return err
					}
				}
				fmt.Fprintf(out, "%s exported successfully!\n", filepath.Base(path))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "file name for a single exported table")
	return cmd
}
