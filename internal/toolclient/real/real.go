// Package real implements the production tool client: each call shells out
// to an external collaborator process, sending JSON on stdin and reading a
// JSON response from stdout. It exists to satisfy the "present by
// interface" requirement for real MILP solvers and materials-data services;
// no such process exists in this environment, so this client is built and
// wired into the CLI's client factory but only exercised when --dry-run is
// absent.
package real

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/cspflow/csp-orchestrator/internal/toolclient"
)

// Client invokes one external binary per call, passing the tool name as its
// first argument and the JSON-encoded input on stdin.
type Client struct {
	command string
	timeout time.Duration
}

// Option customizes a Client during construction.
type Option func(*Client)

// WithTimeout bounds each call; zero (the default) means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New builds a Client that invokes command for every tool call.
func New(command string, opts ...Option) *Client {
	c := &Client{command: command}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind reports this client as the real, process-backed implementation.
func (c *Client) Kind() toolclient.Kind {
	return toolclient.KindReal
}

// Call shells out to the configured command, mapping any I/O, timeout, or
// non-zero-exit failure to toolclient.ErrTransport.
func (c *Client) Call(ctx context.Context, toolName string, input any) (json.RawMessage, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("toolclient/real: encode input for %s: %w", toolName, err)
	}

	cmd := exec.CommandContext(callCtx, c.command, toolName)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", toolclient.ErrTransport, toolName, err, stderr.String())
	}

	return json.RawMessage(stdout.Bytes()), nil
}
