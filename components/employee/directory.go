// components/employee/directory.go
//
// Employee – uniqueness backends.
//
// Context
//   A Directory answers "is this email still free?".  Two implementations
//   exist:
//
//     SimulatedDirectory – waits a random delay, then treats exactly one
//                          address as unique.  Default for the playground.
//     SQLDirectory       – counts matching rows in the employee table.
//                          Concurrent lookups of one address share a query.
//
//   Instrument wraps either one into a UniquenessCheck that records
//   Prometheus counters and latency.
//
//------------------------------------------------------------------------------

package employee

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/playground/internal/metrics"
)

// DefaultUniqueEmail is the only address the simulated directory accepts.
const DefaultUniqueEmail = "hey@conform.guide"

// DefaultMaxDelay bounds the simulated lookup latency.
const DefaultMaxDelay = 500 * time.Millisecond

// Directory looks up email addresses.
type Directory interface {
	Name() string
	IsUnique(ctx context.Context, email string) (bool, error)
}

//
// Simulated
//

// SimulatedDirectory stands in for a remote lookup.
type SimulatedDirectory struct {
	MaxDelay    time.Duration
	UniqueEmail string
}

// NewSimulatedDirectory returns a directory with the playground defaults.
func NewSimulatedDirectory() *SimulatedDirectory {
	return &SimulatedDirectory{MaxDelay: DefaultMaxDelay, UniqueEmail: DefaultUniqueEmail}
}

func (d *SimulatedDirectory) Name() string { return "simulated" }

// IsUnique sleeps for a random duration in [0, MaxDelay) and reports
// whether email equals UniqueEmail.  A cancelled ctx aborts the wait.
func (d *SimulatedDirectory) IsUnique(ctx context.Context, email string) (bool, error) {
	if d.MaxDelay > 0 {
		t := time.NewTimer(time.Duration(rand.Int63n(int64(d.MaxDelay))))
		defer t.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-t.C:
		}
	}
	return email == d.UniqueEmail, nil
}

//
// SQL
//

const queryCountByEmail = `SELECT COUNT(*) FROM employee WHERE email = ?`

// SQLQueryTimeout bounds one shared lookup.  The query runs detached from
// any single caller so one disconnecting client cannot fail the others.
const SQLQueryTimeout = 5 * time.Second

// SQLDirectory checks the employee table.
type SQLDirectory struct {
	db    *sqlx.DB
	group singleflight.Group
}

// NewSQLDirectory wraps an open pool.
func NewSQLDirectory(db *sqlx.DB) *SQLDirectory { return &SQLDirectory{db: db} }

func (d *SQLDirectory) Name() string { return "mysql" }

// IsUnique reports whether no employee row uses email.  Each caller stops
// waiting when its own ctx is done; the shared query keeps running for the
// rest.
func (d *SQLDirectory) IsUnique(ctx context.Context, email string) (bool, error) {
	ch := d.group.DoChan(email, func() (any, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SQLQueryTimeout)
		defer cancel()

		var n int
		if err := d.db.GetContext(qctx, &n, queryCountByEmail, email); err != nil {
			return false, fmt.Errorf("count employee email: %w", err)
		}
		return n == 0, nil
	})

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

//
// Instrumentation
//

// Instrument turns d into a UniquenessCheck that records metrics.
func Instrument(d Directory) UniquenessCheck {
	name := d.Name()
	return func(ctx context.Context, email string) (bool, error) {
		start := time.Now()
		unique, err := d.IsUnique(ctx, email)
		metrics.UniquenessCheckSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())

		result := "taken"
		switch {
		case err != nil:
			result = "error"
		case unique:
			result = "unique"
		}
		metrics.UniquenessChecksTotal.WithLabelValues(name, result).Inc()
		return unique, err
	}
}
