// Package toolclient declares the single abstraction the workflow engine
// uses to reach external collaborators: Client.Call(tool_name, input) ->
// output. Two implementations exist: internal/toolclient/stub (deterministic,
// PRNG-driven, used under --dry-run) and internal/toolclient/real (shells out
// to an external process). The engine never knows which one it holds.
package toolclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Known tool names, shared by both implementations and by the workflow
// engine so call sites never hand-type a tool name more than once.
const (
	ToolSuggestChemistries = "materials-data-mcp.suggest_chemistries"
	ToolFetchPriors        = "materials-data-mcp.fetch_priors"
	ToolBuildConstraints   = "qlip-mcp.build_constraints"
	ToolRunQlip            = "qlip-mcp.run_qlip"
	ToolBatchValidate      = "csp-validators-mcp.batch_validate"
)

// ErrTransport is the single error class a Client implementation surfaces
// for I/O, timeout, or non-zero-exit failures, so the workflow engine has
// exactly one kind of tool failure to react to.
var ErrTransport = errors.New("toolclient: transport failure")

// ErrUnknownTool is returned when tool_name does not match any of the known
// tool names above.
var ErrUnknownTool = errors.New("toolclient: unknown tool")

// Client is implemented by both the real and stub tool clients.
type Client interface {
	// Call invokes tool_name with input and returns the raw JSON output.
	// Callers unmarshal the result into the type documented for tool_name.
	Call(ctx context.Context, toolName string, input any) (json.RawMessage, error)
	// Kind reports which implementation this is.
	Kind() Kind
}

// Kind tags which implementation a Client is, so callers and logs can
// record which path served a given run without a type switch.
type Kind string

const (
	KindStub Kind = "stub"
	KindReal Kind = "real"
)

// Decode is a small helper most callers use immediately after Call: unmarshal
// raw into out, wrapping decode failures as a malformed-output error rather
// than a transport error, per the error-kind table.
func Decode(raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("toolclient: malformed output: %w", err)
	}
	return nil
}
