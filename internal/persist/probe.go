// Package persist implements the optional, disabled-by-default persistence
// adapter surface: a liveness probe only. No run data is ever written
// through it. Opens the pure-Go SQLite driver via database/sql and runs a
// single SELECT 1 to check reachability.
package persist

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/cspflow/csp-orchestrator/internal/config"
)

// Status is the result of a Probe call.
type Status struct {
	Enabled   bool   `json:"enabled"`
	Reachable bool   `json:"reachable,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Prober reports whether a persistence backend is configured and reachable.
type Prober interface {
	Probe(ctx context.Context) Status
}

// SQLiteProbe checks reachability of a SQLite DSN via sql.Open + SELECT 1.
type SQLiteProbe struct {
	cfg config.PersistenceConfig
}

// NewSQLiteProbe builds a probe from the resolved persistence config.
func NewSQLiteProbe(cfg config.PersistenceConfig) *SQLiteProbe {
	return &SQLiteProbe{cfg: cfg}
}

// Probe returns {enabled: false} without touching the filesystem when
// persistence is disabled (the default); otherwise it opens the DSN and
// runs SELECT 1, reporting reachability.
func (p *SQLiteProbe) Probe(ctx context.Context) Status {
	if !p.cfg.Enabled {
		return Status{Enabled: false}
	}

	db, err := sql.Open("sqlite", p.cfg.DSN)
	if err != nil {
		return Status{Enabled: true, Reachable: false, Error: err.Error()}
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return Status{Enabled: true, Reachable: false, Error: err.Error()}
	}
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return Status{Enabled: true, Reachable: false, Error: err.Error()}
	}
	return Status{Enabled: true, Reachable: true}
}
