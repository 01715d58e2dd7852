// Package workflow sequences the scout -> priors -> constraints -> solve ->
// validate -> iterate pipeline over a pluggable tool client, persisting
// every step through the artifact store. Engine is a small struct over its
// collaborators, with a functional Option for the clock and a now() helper
// used everywhere a timestamp is produced. Unlike a resolver/scheduler pair
// built for arbitrary multi-module DAGs, this engine runs a fixed, strictly
// sequential tool-call order, so there is no dependency graph to resolve or
// schedule.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cspflow/csp-orchestrator/internal/artifact"
	"github.com/cspflow/csp-orchestrator/internal/config"
	"github.com/cspflow/csp-orchestrator/internal/logging"
	"github.com/cspflow/csp-orchestrator/internal/toolclient"
)

// ErrRunNotFound is returned by Iterate, Validate, and Export when the
// requested run id has no manifest on disk.
var ErrRunNotFound = errors.New("workflow: run not found")

// ErrMaxItersReached is returned by Iterate when the next iteration would
// exceed the run's configured max_iters. The manifest is left unchanged.
var ErrMaxItersReached = errors.New("workflow: max iterations reached")

// Engine sequences the CSP discovery loop over one tool client, persisting
// artifacts through one store.
type Engine struct {
	store  *artifact.Store
	client toolclient.Client
	now    func() time.Time
	logger *logging.Logger
}

// Option customizes an Engine during construction.
type Option func(*Engine)

// WithClock overrides the clock used for manifest timestamps. Event
// timestamps in events.jsonl come from the artifact store's own clock.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// WithLogger attaches the operator-facing diagnostic sink. Without this
// option the engine logs nothing.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New wires an Engine to its artifact store and tool client.
func New(store *artifact.Store, client toolclient.Client, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("workflow: artifact store is required")
	}
	if client == nil {
		return nil, fmt.Errorf("workflow: tool client is required")
	}
	e := &Engine{store: store, client: client, now: time.Now, logger: logging.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the engine's logging sink, flushing any buffered lines.
func (e *Engine) Close() error {
	return e.logger.Close()
}

// callTool is the one place the engine talks to the tool client, so every
// tool failure is uniformly wrapped, every call's outcome is appended to
// events.jsonl in call order, and both the start and the outcome of every
// call are written to the diagnostic logger.
func (e *Engine) callTool(ctx context.Context, runID, toolName string, input, output any) error {
	kind := string(e.client.Kind())
	e.logger.Info("tool_call_start", zap.String("run_id", runID), zap.String("tool", toolName), zap.String("client_kind", kind))

	raw, err := e.client.Call(ctx, toolName, input)
	if err != nil {
		_ = e.store.AppendEvent(runID, "tool_call_failed", map[string]any{"tool": toolName, "client_kind": kind, "error": err.Error()})
		e.logger.Error("tool_call_failed", zap.String("run_id", runID), zap.String("tool", toolName), zap.String("client_kind", kind), zap.Error(err))
		return fmt.Errorf("workflow: tool call %s failed: %w", toolName, err)
	}
	if err := toolclient.Decode(raw, output); err != nil {
		_ = e.store.AppendEvent(runID, "tool_call_malformed", map[string]any{"tool": toolName, "client_kind": kind, "error": err.Error()})
		e.logger.Error("tool_call_malformed", zap.String("run_id", runID), zap.String("tool", toolName), zap.String("client_kind", kind), zap.Error(err))
		return fmt.Errorf("workflow: tool call %s returned malformed output: %w", toolName, err)
	}
	_ = e.store.AppendEvent(runID, "tool_call_ok", map[string]any{"tool": toolName, "client_kind": kind})
	e.logger.Info("tool_call_ok", zap.String("run_id", runID), zap.String("tool", toolName), zap.String("client_kind", kind))
	return nil
}

func snapshotConfig(cfg config.Config) map[string]any {
	snap, err := cfg.Snapshot()
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return snap
}
