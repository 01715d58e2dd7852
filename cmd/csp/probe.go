package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cspflow/csp-orchestrator/internal/persist"
)

// newProbePersistenceCmd is the optional fifth command surface: a liveness
// check for the disabled-by-default persistence adapter. It never affects
// the deterministic discover/iterate/validate/export contract.
func newProbePersistenceCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:     "probe-persistence",
		Aliases: []string{"csp:probe-persistence"},
		Short:   "Report whether the optional persistence adapter is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.workspace == "" {
				return printError(errRequiredFlag("workspace"))
			}
			cfg, err := resolveConfig(flags)
			if err != nil {
				return printError(err)
			}
			probe := persist.NewSQLiteProbe(cfg.Persistence)
			printResult(probe.Probe(context.Background()))
			return nil
		},
	}
	registerGlobalFlags(cmd, flags)
	return cmd
}
