// Package logging wraps go.uber.org/zap to give the workflow engine and CLI
// a structured, operator-facing diagnostic sink. It is strictly diagnostic:
// the append-only events.jsonl written by internal/artifact remains the
// authoritative, tested run record, and nothing here gates control flow.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin handle over a zap.Logger plus the file it writes to, so
// Close can flush and release the handle deterministically.
type Logger struct {
	*zap.Logger
	file *os.File
}

// New creates (or reuses) the JSON log file at <workspace>/.csp/logs/csp.log
// and returns a Logger writing structured lines to it.
func New(workspace string) (*Logger, error) {
	logDir := filepath.Join(workspace, ".csp", "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "csp.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(f), zap.InfoLevel)

	return &Logger{Logger: zap.New(core), file: f}, nil
}

// Close flushes buffered log entries and releases the file handle.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	_ = l.Logger.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Nop returns a Logger that discards everything, for callers that have not
// wired a real log destination. Close is a no-op on it.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}
