package sql

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/syssam/modelgen/dialect"
)

// Stats counts the catalog queries run through a StatsDriver.
type Stats struct {
	Queries  int64
	Slow     int64
	Errors   int64
	Duration time.Duration
}

// Avg returns the mean query duration.
func (s Stats) Avg() time.Duration {
	if s.Queries == 0 {
		return 0
	}
	return s.Duration / time.Duration(s.Queries)
}

func (s Stats) String() string {
	return fmt.Sprintf("queries=%d slow=%d errors=%d duration=%s avg=%s",
		s.Queries, s.Slow, s.Errors, s.Duration, s.Avg())
}

// SlowQueryFunc is called for every query slower than the threshold.
type SlowQueryFunc func(ctx context.Context, query string, args []any, took time.Duration)

// StatsDriver counts the queries of a dialect.Driver and reports slow ones.
// It is safe for concurrent use.
type StatsDriver struct {
	dialect.Driver
	threshold time.Duration
	onSlow    SlowQueryFunc

	queries, slow, errors atomic.Int64
	duration              atomic.Int64 // nanoseconds
}

var _ dialect.Driver = (*StatsDriver)(nil)

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a query is slow. The
// default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.threshold = d
	}
}

// WithSlowQueryFunc sets the function called for slow queries.
func WithSlowQueryFunc(fn SlowQueryFunc) StatsOption {
	return func(s *StatsDriver) {
		s.onSlow = fn
	}
}

// WithSlowQueryLog logs slow queries at warn level.
func WithSlowQueryLog(log *zap.Logger) StatsOption {
	return WithSlowQueryFunc(func(_ context.Context, query string, args []any, took time.Duration) {
		log.Warn("slow catalog query",
			zap.Duration("took", took),
			zap.String("query", query),
			zap.Any("args", args),
		)
	})
}

// NewStatsDriver wraps drv.
//
//	drv, _ := sql.Open(dialect.Postgres, dsn)
//	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(logger))
//	tables, err := schema.NewInspector(stats).Tables(ctx, "public")
//	logger.Debug("catalog read", zap.Stringer("stats", stats.Stats()))
func NewStatsDriver(drv dialect.Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{Driver: drv, threshold: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the counters collected so far.
func (d *StatsDriver) Stats() Stats {
	return Stats{
		Queries:  d.queries.Load(),
		Slow:     d.slow.Load(),
		Errors:   d.errors.Load(),
		Duration: time.Duration(d.duration.Load()),
	}
}

// Query runs the query on the wrapped driver and counts it.
func (d *StatsDriver) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.Driver.Query(ctx, query, args...)
	took := time.Since(start)
	d.queries.Add(1)
	d.duration.Add(int64(took))
	if err != nil {
		d.errors.Add(1)
	}
	if took > d.threshold {
		d.slow.Add(1)
		if d.onSlow != nil {
			d.onSlow(ctx, query, args, took)
		}
	}
	return rows, err
}
