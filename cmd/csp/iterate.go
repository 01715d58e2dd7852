package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cspflow/csp-orchestrator/internal/workflow"
)

func newIterateCmd() *cobra.Command {
	flags := &globalFlags{}
	var runID string

	cmd := &cobra.Command{
		Use:     "iterate",
		Aliases: []string{"csp:iterate"},
		Short:   "Apply the relax/tighten policy and re-solve/validate one run",
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
			result, err := engine.Iterate(context.Background(), workflow.IterateRequest{RunID: runID, Config: cfg})
			if err != nil {
				return printError(err)
			}
			printResult(result)
			return nil
		},
	}
	registerGlobalFlags(cmd, flags)
	cmd.Flags().StringVar(&runID, "run-id", "", "run identifier (required)")
	return cmd
}
