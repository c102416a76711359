package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dusk-indust/oconcat/internal/orchestrator"
	"github.com/dusk-indust/oconcat/internal/status"
	"github.com/spf13/cobra"
)

var errStale = errors.New("destinations are out of date")

func newStatusCommand(flags *globalFlags) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "status [TARGET...]",
		Short: "Show whether each destination is up to date",
		Long: `Render every destination in memory and compare it with the file on disk.
Nothing is written. With --check the command fails when any destination is
missing or stale.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.open()
			if err != nil {
				return err
			}
			targets, err := p.targets(args)
			if err != nil {
				return err
			}
			statuses, err := status.Check(cmd.Context(), orchestrator.NewMerger(p.fs, nil), p.fs, targets)
			if err != nil {
				return err
			}
			printStatusTable(cmd.OutOrStdout(), statuses)
			if pending := status.Pending(statuses); check && len(pending) > 0 {
				return fmt.Errorf("%s: %w", strings.Join(pending, ", "), errStale)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Exit non-zero when a destination needs a merge")
	return cmd
}

func printStatusTable(w io.Writer, statuses []status.TargetStatus) {
	if len(statuses) == 0 {
		fmt.Fprintln(w, "No targets configured.")
		return
	}
	for _, s := range statuses {
		marker := "  "
		if s.State != status.StateUpToDate {
			marker = "->"
		}
		detail := fmt.Sprintf("%d files", s.Files)
		if s.Excluded > 0 {
			detail += fmt.Sprintf(", %d excluded", s.Excluded)
		}
		if s.Warnings > 0 {
			detail += fmt.Sprintf(", %d warnings", s.Warnings)
		}
		fmt.Fprintf(w, "  %s %-16s %-26s [%s] %s\n", marker, s.Name, s.Dest, s.State, detail)
	}
}
