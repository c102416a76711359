package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dusk-indust/oconcat/internal/export"
	"github.com/dusk-indust/oconcat/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newGraphCommand(flags *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "graph TARGET",
		Short: "Print the dependsOn graph of a destination",
		Long: `Resolve the dependsOn directives of a destination without writing anything and
print the graph as a Mermaid diagram or as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.open()
			if err != nil {
				return err
			}
			targets, err := p.targets(args)
			if err != nil {
				return err
			}
			plan, err := orchestrator.NewMerger(p.fs, p.log).Plan(cmd.Context(), targets[0])
			if err != nil {
				return err
			}
			return writeGraph(cmd.OutOrStdout(), plan, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "mermaid", "Output format (mermaid or json)")
	return cmd
}

func writeGraph(w io.Writer, plan *orchestrator.Plan, format string) error {
	switch format {
	case "mermaid":
		_, err := io.WriteString(w, export.GenerateMermaid(plan))
		return err
	case "json":
		out, err := json.MarshalIndent(export.ExportGraph(plan), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = w.Write(append(out, '\n'))
		return err
	default:
		return fmt.Errorf("unsupported format %q (expected mermaid or json)", format)
	}
}
