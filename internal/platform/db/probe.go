package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier runs single-row queries.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Probe verifies the store answers a trivial query within timeout.
func Probe(ctx context.Context, q Querier, timeout time.Duration) error {
	if q == nil {
		return fmt.Errorf("platform/db: probe: no connection configured")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var answer string
	if err := q.QueryRow(ctx, "SELECT 'ok'").Scan(&answer); err != nil {
		return fmt.Errorf("platform/db: probe: %w", err)
	}
	if answer != "ok" {
		return fmt.Errorf("platform/db: probe: unexpected answer %q", answer)
	}
	return nil
}
