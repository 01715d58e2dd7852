package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cspflow/csp-orchestrator/internal/workflow"
)

func newDiscoverCmd() *cobra.Command {
	flags := &globalFlags{}
	var objective, chemSystem string

	cmd := &cobra.Command{
		Use:     "discover",
		Aliases: []string{"csp:discover"},
		Short:   "Run scout -> priors -> constraints -> solve -> validate for a fresh run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.workspace == "" {
				return printError(errRequiredFlag("workspace"))
			}
			if objective == "" {
				return printError(errRequiredFlag("objective"))
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
			result, err := engine.Discover(context.Background(), workflow.DiscoverRequest{
				Objective:  objective,
				ChemSystem: chemSystem,
				Config:     cfg,
			})
			if err != nil {
				return printError(err)
			}
			printResult(result)
			return nil
		},
	}
	registerGlobalFlags(cmd, flags)
	cmd.Flags().StringVar(&objective, "objective", "", "materials-science objective (required)")
	cmd.Flags().StringVar(&chemSystem, "chem-system", "", "skip chemistry selection with this chem system")
	return cmd
}
