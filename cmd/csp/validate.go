package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cspflow/csp-orchestrator/internal/workflow"
)

func newValidateCmd() *cobra.Command {
	flags := &globalFlags{}
	var runID string
	var topK int

	cmd := &cobra.Command{
		Use:     "validate",
		Aliases: []string{"csp:validate"},
		Short:   "Out-of-loop revalidation of whatever candidates are on disk",
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
			result, err := engine.Validate(context.Background(), workflow.ValidateRequest{
				RunID:                runID,
				TruthAcceptThreshold: cfg.Policy.TruthAcceptThreshold,
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
	cmd.Flags().IntVar(&topK, "top-k", 0, "unused by validate; accepted for CLI surface parity")
	return cmd
}
