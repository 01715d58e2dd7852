package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cspflow/csp-orchestrator/internal/artifact"
	"github.com/cspflow/csp-orchestrator/internal/config"
	"github.com/cspflow/csp-orchestrator/internal/logging"
	"github.com/cspflow/csp-orchestrator/internal/toolclient"
	"github.com/cspflow/csp-orchestrator/internal/toolclient/real"
	"github.com/cspflow/csp-orchestrator/internal/toolclient/stub"
	"github.com/cspflow/csp-orchestrator/internal/workflow"
)

// globalFlags holds the persistent flags every core command shares.
type globalFlags struct {
	workspace  string
	seed       int64
	configPath string
	dryRun     bool
	solver     string
	maxIters   int
}

func registerGlobalFlags(cmd *cobra.Command, flags *globalFlags) {
	cmd.Flags().StringVar(&flags.workspace, "workspace", "", "run workspace directory (required)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 1, "PRNG seed")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to JSON config file")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "force the deterministic stub tool client")
	cmd.Flags().StringVar(&flags.solver, "solver", "", "solver backend override (gurobi|cbc|highs)")
	cmd.Flags().IntVar(&flags.maxIters, "max-iters", 0, "override policy.max_iters (0 = use config default)")
}

// resolveConfig loads defaults+file, then layers the CLI overrides on top,
// exactly matching the precedence config.Load/ApplyOverrides implement.
func resolveConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}

	overrides := config.Overrides{
		Workspace: &flags.workspace,
		Seed:      &flags.seed,
		DryRun:    &flags.dryRun,
	}
	if flags.solver != "" {
		overrides.Solver = &flags.solver
	}
	if flags.maxIters > 0 {
		overrides.MaxIters = &flags.maxIters
	}
	return config.ApplyOverrides(cfg, overrides)
}

// buildClient selects the stub client whenever --dry-run is set, regardless
// of any other configuration, per the tool client interface's hard
// requirement.
func buildClient(cfg config.Config) toolclient.Client {
	if cfg.DryRun {
		return stub.New(cfg.Seed)
	}
	return real.New("csp-tool-bridge")
}

// buildEngine wires the artifact store, tool client, and a zap-backed
// diagnostic logger writing to <workspace>/.csp/logs/csp.log into one
// Engine. Callers must defer engine.Close() to flush and release the log
// file.
func buildEngine(cfg config.Config) (*workflow.Engine, *artifact.Store, error) {
	store := artifact.New(cfg.Workspace)
	client := buildClient(cfg)
	logger, err := logging.New(cfg.Workspace)
	if err != nil {
		return nil, nil, err
	}
	engine, err := workflow.New(store, client, workflow.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return engine, store, nil
}

func errRequiredFlag(name string) error {
	return fmt.Errorf("--%s is required", name)
}

// printResult emits exactly one line of JSON to stdout, the CLI's strict
// output contract on both success and failure.
func printResult(v any) {
	encoded, err := json.Marshal(v)
	if err != nil {
		encoded, _ = json.Marshal(map[string]string{"status": "error", "error": err.Error()})
	}
	fmt.Println(string(encoded))
}

// printError emits the {status:error, error:...} line the spec requires on
// any failure path, and returns an error cobra propagates up to main() so
// the process exits 1 without cobra printing its own usage/error output.
func printError(err error) error {
	printResult(map[string]string{"status": "error", "error": err.Error()})
	return err
}

