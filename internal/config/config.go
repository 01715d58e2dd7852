// Package config resolves the orchestrator's runtime configuration from
// three sources in increasing precedence: built-in defaults, an optional
// JSON config file, and CLI flag overrides. The merge and validation shape
// deep-merges objects, overwrites arrays/scalars wholesale, and reports the
// first failed validation check under a package-scoped error prefix; later
// checks are not run once one fails.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Solver enumerates the supported MILP solver backends.
type Solver string

const (
	SolverGurobi Solver = "gurobi"
	SolverCBC    Solver = "cbc"
	SolverHighs  Solver = "highs"
)

func (s Solver) valid() bool {
	switch s {
	case SolverGurobi, SolverCBC, SolverHighs:
		return true
	default:
		return false
	}
}

// PolicyConfig carries the iteration policy's tunables.
type PolicyConfig struct {
	MaxIters             int      `json:"max_iters"`
	TruthAcceptThreshold float64  `json:"truth_accept_threshold"`
	RelaxOrder           []string `json:"relax_order"`
	TightenOrder         []string `json:"tighten_order"`
}

// PersistenceConfig controls the optional persistence adapter status probe.
type PersistenceConfig struct {
	Enabled bool   `json:"enabled"`
	DSN     string `json:"dsn,omitempty"`
}

// Config is the fully resolved runtime configuration for one CLI invocation.
type Config struct {
	Workspace   string            `json:"workspace"`
	Solver      Solver            `json:"solver"`
	Seed        int64             `json:"seed"`
	DryRun      bool              `json:"dry_run"`
	Policy      PolicyConfig      `json:"policy"`
	Persistence PersistenceConfig `json:"persistence"`
}

// Overrides captures CLI-flag-level overrides; nil fields are left
// untouched by ApplyOverrides.
type Overrides struct {
	Workspace *string
	Solver    *string
	MaxIters  *int
	Seed      *int64
	DryRun    *bool
}

var defaultRelaxOrder = []string{
	"widen_lattice",
	"increase_max_atoms",
	"expand_prototypes",
}

var defaultTightenOrder = []string{
	"increase_min_distance_scale",
	"narrow_density",
	"restrict_prototypes",
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Solver: SolverCBC,
		Seed:   1,
		Policy: PolicyConfig{
			MaxIters:             5,
			TruthAcceptThreshold: 0.8,
			RelaxOrder:           append([]string{}, defaultRelaxOrder...),
			TightenOrder:         append([]string{}, defaultTightenOrder...),
		},
	}
}

// DefaultConfigPath returns ~/.claude-flow-csp/config.json.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude-flow-csp", "config.json"), nil
}

// fileOverlay mirrors Config but with every field optional, so a config
// file only needs to mention the knobs it wants to change.
type fileOverlay struct {
	Workspace   *string             `json:"workspace"`
	Solver      *string             `json:"solver"`
	Seed        *int64              `json:"seed"`
	Policy      *policyOverlay      `json:"policy"`
	Persistence *persistenceOverlay `json:"persistence"`
}

type policyOverlay struct {
	MaxIters             *int     `json:"max_iters"`
	TruthAcceptThreshold *float64 `json:"truth_accept_threshold"`
	RelaxOrder           []string `json:"relax_order"`
	TightenOrder         []string `json:"tighten_order"`
}

type persistenceOverlay struct {
	Enabled *bool   `json:"enabled"`
	DSN     *string `json:"dsn"`
}

// Load resolves configuration from defaults and an optional config file.
// A missing config file is not an error.
func Load(configPath string) (Config, error) {
	cfg := Default()
	path := configPath
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var overlay fileOverlay
	if err := json.Unmarshal(data, &overlay); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.mergeFile(overlay)
	if err := cfg.validateKnobs(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(overlay fileOverlay) {
	if overlay.Workspace != nil {
		c.Workspace = *overlay.Workspace
	}
	if overlay.Solver != nil {
		c.Solver = Solver(strings.ToLower(strings.TrimSpace(*overlay.Solver)))
	}
	if overlay.Seed != nil {
		c.Seed = *overlay.Seed
	}
	if overlay.Policy != nil {
		if overlay.Policy.MaxIters != nil {
			c.Policy.MaxIters = *overlay.Policy.MaxIters
		}
		if overlay.Policy.TruthAcceptThreshold != nil {
			c.Policy.TruthAcceptThreshold = *overlay.Policy.TruthAcceptThreshold
		}
		if overlay.Policy.RelaxOrder != nil {
			c.Policy.RelaxOrder = append([]string{}, overlay.Policy.RelaxOrder...)
		}
		if overlay.Policy.TightenOrder != nil {
			c.Policy.TightenOrder = append([]string{}, overlay.Policy.TightenOrder...)
		}
	}
	if overlay.Persistence != nil {
		if overlay.Persistence.Enabled != nil {
			c.Persistence.Enabled = *overlay.Persistence.Enabled
		}
		if overlay.Persistence.DSN != nil {
			c.Persistence.DSN = *overlay.Persistence.DSN
		}
	}
}

// ApplyOverrides merges CLI-flag overrides on top of the resolved config.
// Overrides always win: they are the highest-precedence source.
func ApplyOverrides(cfg Config, ovr Overrides) (Config, error) {
	if ovr.Workspace != nil {
		cfg.Workspace = *ovr.Workspace
	}
	if ovr.Solver != nil {
		cfg.Solver = Solver(strings.ToLower(strings.TrimSpace(*ovr.Solver)))
	}
	if ovr.MaxIters != nil {
		cfg.Policy.MaxIters = *ovr.MaxIters
	}
	if ovr.Seed != nil {
		cfg.Seed = *ovr.Seed
	}
	if ovr.DryRun != nil {
		cfg.DryRun = *ovr.DryRun
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ErrInvalidEnum is wrapped by validate when an enum field holds an
// unrecognized value.
var ErrInvalidEnum = errors.New("invalid enum value")

// validateKnobs checks the enum/numeric fields that are meaningful before a
// workspace has necessarily been supplied (i.e. right after loading the
// optional config file, before CLI overrides are applied).
func (c Config) validateKnobs() error {
	if !c.Solver.valid() {
		return fmt.Errorf("%w: solver must be one of gurobi, cbc, highs, got %q", ErrInvalidEnum, c.Solver)
	}
	if c.Policy.MaxIters < 1 {
		return fmt.Errorf("policy.max_iters must be >= 1, got %d", c.Policy.MaxIters)
	}
	if c.Policy.TruthAcceptThreshold < 0 || c.Policy.TruthAcceptThreshold > 1 {
		return fmt.Errorf("policy.truth_accept_threshold must be in [0,1], got %f", c.Policy.TruthAcceptThreshold)
	}
	return nil
}

// validate additionally requires a workspace, the one field that is never
// meaningful until CLI overrides have been applied.
func (c Config) validate() error {
	if err := c.validateKnobs(); err != nil {
		return err
	}
	if c.Workspace == "" {
		return fmt.Errorf("workspace is required")
	}
	return nil
}

// Snapshot renders the config as a plain map suitable for embedding as
// RunManifest.ConfigSnapshot. It round-trips through JSON so nested structs
// become plain maps/slices the same way model.RunManifest expects.
func (c Config) Snapshot() (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: snapshot: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("config: snapshot decode: %w", err)
	}
	return out, nil
}
