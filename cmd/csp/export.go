package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cspflow/csp-orchestrator/internal/workflow"
)

func newExportCmd() *cobra.Command {
	flags := &globalFlags{}
	var runID, format string
	var topK int

	cmd := &cobra.Command{
		Use:     "export",
		Aliases: []string{"csp:export"},
		Short:   "Write the top-K candidates' structure files under exports/",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.workspace == "" {
				return printError(errRequiredFlag("workspace"))
			}
			if runID == "" {
				return printError(errRequiredFlag("run-id"))
			}
			cfg, err := resolveConfig(flags)
			if err != nil {
				return printError(err)
			}
			engine, _, err := buildEngine(cfg)
			if err != nil {
				return printError(err)
			}
			defer engine.Close()
			result, err := engine.Export(context.Background(), workflow.ExportRequest{
				RunID:  runID,
				Format: workflow.ExportFormat(format),
				TopK:   topK,
			})
			if err != nil {
				return printError(err)
			}
			printResult(result)
			return nil
		},
	}
	registerGlobalFlags(cmd, flags)
	cmd.Flags().StringVar(&runID, "run-id", "", "run identifier (required)")
	cmd.Flags().StringVar(&format, "format", "cif", "export format: cif|poscar")
	cmd.Flags().IntVar(&topK, "top-k", 0, "number of top candidates to export (0 = all)")
	return cmd
}
