package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/arbor-db/arbor/dialect"
)

// SlowQueryHook receives the statement text, its bound arguments and the
// measured duration whenever execution takes longer than the configured
// slow threshold.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsDriver decorates a Driver and times every statement that passes
// through it. Counters live in a QueryStats and are updated atomically,
// so collection adds no locking to the statement path.
type StatsDriver struct {
	*Driver
	stats         *QueryStats
	slowThreshold atomic.Int64 // nanoseconds
	slowHook      SlowQueryHook
}

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement counts as
// slow. The default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold.Store(int64(d))
	}
}

// WithSlowQueryHook registers a callback for statements that exceed the
// slow threshold.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog reports slow statements to the given structured logger,
// or to the default logger when nil. It is a convenience wrapper around
// WithSlowQueryHook.
func WithSlowQueryLog(logger *slog.Logger) StatsOption {
	if logger == nil {
		logger = slog.Default()
	}
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, duration time.Duration) {
		logger.WarnContext(ctx, "slow query detected", "duration", duration, "query", query, "args", args)
	})
}

// NewStatsDriver instruments drv with statistics collection.
//
//	drv, _ := sql.Open("mysql", dsn)
//	instrumented := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(nil),
//	)
//	...
//	fmt.Println(instrumented.QueryStats().Stats())
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{Driver: drv, stats: new(QueryStats)}
	s.slowThreshold.Store(int64(100 * time.Millisecond))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenWithStats opens a database handle and instruments it in one step.
// The returned QueryStats is the driver's own collector, handy for
// periodic reporting:
//
//	drv, stats, err := sql.OpenWithStats("mysql", dsn, sql.WithSlowQueryLog(nil))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go func() {
//	    for range time.Tick(time.Minute) {
//	        log.Printf("query stats: %s", stats.Stats())
//	    }
//	}()
func OpenWithStats(driverName, source string, opts ...StatsOption) (*StatsDriver, *QueryStats, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, nil, err
	}
	drv := NewStatsDriver(NewDriver(driverName, Conn{db}), opts...)
	return drv, drv.QueryStats(), nil
}

// QueryStats returns the driver's collector.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the current slow-statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	return time.Duration(d.slowThreshold.Load())
}

// SetSlowThreshold changes the slow-statement threshold. It is safe to
// call while statements are in flight.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.slowThreshold.Store(int64(threshold))
}

// Query runs the query through the wrapped driver and records its timing.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.observe(ctx, &d.stats.TotalQueries, query, args, time.Since(start), err)
	return err
}

// Exec runs the statement through the wrapped driver and records its timing.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.observe(ctx, &d.stats.TotalExecs, query, args, time.Since(start), err)
	return err
}

// observe bumps the per-kind counter, folds took into the duration
// counters and fires the slow hook when the threshold is crossed.
func (d *StatsDriver) observe(ctx context.Context, kind *atomic.Int64, query string, args any, took time.Duration, err error) {
	kind.Add(1)
	d.stats.TotalDuration.Add(int64(took))
	raiseMax(&d.stats.MaxDuration, int64(took))
	if err != nil {
		d.stats.Errors.Add(1)
	}
	if took > time.Duration(d.slowThreshold.Load()) {
		d.stats.SlowQueries.Add(1)
		if d.slowHook != nil {
			argv, _ := args.([]any)
			d.slowHook(ctx, query, argv, took)
		}
	}
}

// raiseMax lifts m to v unless a concurrent writer already stored a
// larger value.
func raiseMax(m *atomic.Int64, v int64) {
	for {
		cur := m.Load()
		if v <= cur || m.CompareAndSwap(cur, v) {
			return
		}
	}
}

// QueryStats accumulates counters for statements executed through a
// StatsDriver. Fields are updated atomically; read them through Stats.
type QueryStats struct {
	// TotalQueries counts Query calls.
	TotalQueries atomic.Int64
	// TotalExecs counts Exec calls.
	TotalExecs atomic.Int64
	// TotalDuration is the summed statement time in nanoseconds.
	TotalDuration atomic.Int64
	// MaxDuration is the longest single statement in nanoseconds.
	MaxDuration atomic.Int64
	// SlowQueries counts statements over the slow threshold.
	SlowQueries atomic.Int64
	// Errors counts statements that returned an error.
	Errors atomic.Int64
}

// Stats copies the live counters into a plain-value snapshot.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		MaxDuration:   time.Duration(s.MaxDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset zeroes all counters, typically between reporting intervals.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.MaxDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time copy of QueryStats counters.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the mean statement duration across queries and
// execs, or zero when nothing has run.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	n := s.TotalQueries + s.TotalExecs
	if n == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(n)
}

// String renders the snapshot on a single line for log output.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s max=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(),
		s.MaxDuration, s.SlowQueries, s.Errors,
	)
}

// DebugDriver decorates a Driver and logs every statement before
// delegating to it.
type DebugDriver struct {
	*Driver
	log func(context.Context, ...any)
}

// DebugOption configures a DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog routes debug output through a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// DebugWithLogger routes debug output through the given structured logger
// at debug level.
func DebugWithLogger(logger *slog.Logger) DebugOption {
	return func(d *DebugDriver) {
		d.log = func(ctx context.Context, v ...any) {
			logger.DebugContext(ctx, fmt.Sprint(v...))
		}
	}
}

// NewDebugDriver wraps drv with statement logging. Without options the
// output goes to slog's default logger at info level.
func NewDebugDriver(drv *Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(ctx context.Context, v ...any) {
			slog.Default().InfoContext(ctx, fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query logs the query and its arguments, then delegates.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.log(ctx, fmt.Sprintf("query: %s args: %v", query, args))
	return d.Driver.Query(ctx, query, args, v)
}

// Exec logs the statement and its arguments, then delegates.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.log(ctx, fmt.Sprintf("exec: %s args: %v", query, args))
	return d.Driver.Exec(ctx, query, args, v)
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
)
