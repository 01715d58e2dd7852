package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "csp",
		Short:         "Deterministic closed-loop orchestrator for crystal structure prediction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDiscoverCmd())
	root.AddCommand(newIterateCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newProbePersistenceCmd())
	return root
}
