package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/snowbench/snowbench/core"
)

// State tracks the runner through a single benchmark invocation.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateIterating
	StateAggregating
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateIterating:
		return "iterating"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result is the outcome of one benchmark run against one backend. Samples
// are per-iteration wall-clock durations in issuance order; connection
// establishment is recorded separately and never included among them.
// Err is set when the run aborted before completing all iterations.
type Result struct {
	Backend    string
	Iterations int

	Samples     []time.Duration
	ConnectTime time.Duration
	Rows        int
	Bytes       int
	Stats       Stats

	Err error
}

// Completed reports the number of iterations that recorded a sample.
func (r *Result) Completed() int {
	return len(r.Samples)
}

// Runner drives one adapter through repeated executions of a fixed query.
type Runner struct {
	logger      *slog.Logger
	state       State
	onIteration func(iteration int, took time.Duration, rows int)
}

type RunnerOption func(*Runner)

// WithLogger attaches a structured logger for run progress.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithIterationCallback registers a callback invoked after every completed
// iteration, in issuance order.
func WithIterationCallback(fn func(iteration int, took time.Duration, rows int)) RunnerOption {
	return func(r *Runner) {
		r.onIteration = fn
	}
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the state the last run finished in.
func (r *Runner) State() State {
	return r.state
}

// Run benchmarks a fixed query over an already-validated profile.
//
// The connection is established once and its cost kept out of the
// per-iteration samples; each iteration executes the query, drains the
// result, records duration and row/byte counts and discards the row data.
// A fatal iteration error aborts the run: the partial result is returned
// together with the error instead of being silently truncated. The
// connection is released exactly once on every path.
func (r *Runner) Run(ctx context.Context, adapter core.Adapter, backend string, profile *core.Profile, query core.QuerySpec, iterations int) (*Result, error) {
	r.state = StateIdle

	if iterations < 1 {
		return nil, fmt.Errorf("%d: %w", iterations, core.ErrInvalidIterations)
	}
	// fail fast on a shape mismatch: no connection is worth opening for a
	// query the backend cannot answer
	if query.Shape != adapter.Shape() {
		return nil, fmt.Errorf("backend %s supports %s queries, got %s: %w",
			backend, adapter.Shape(), query.Shape, core.ErrShapeMismatch)
	}

	result := &Result{
		Backend:    backend,
		Iterations: iterations,
	}

	r.state = StateConnecting
	r.logger.Debug("connecting", "backend", backend, "profile", profile.Name)

	connectStart := time.Now()
	conn, err := core.Connect(adapter, backend, profile)
	if err != nil {
		r.state = StateAborted
		return nil, err
	}
	result.ConnectTime = time.Since(connectStart)
	defer conn.Close()

	r.logger.Debug("connected", "backend", backend, "took", result.ConnectTime)

	r.state = StateIterating
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return r.abort(result, core.NewExecError(backend, core.ExecCanceled, err))
		}

		start := time.Now()
		res, err := conn.Execute(ctx, query.SQL)
		took := time.Since(start)

		if err != nil {
			return r.abort(result, tagIteration(err, i))
		}

		// record counts, then drop the row data so memory does not
		// accumulate across iterations
		result.Samples = append(result.Samples, took)
		result.Rows += res.RowCount()
		result.Bytes += res.ByteSize()

		r.logger.Debug("iteration finished", "backend", backend, "iteration", i+1, "took", took, "rows", res.RowCount())
		if r.onIteration != nil {
			r.onIteration(i, took, res.RowCount())
		}
	}

	r.state = StateAggregating
	result.Stats = ComputeStats(result.Samples)

	r.state = StateDone
	return result, nil
}

// abort finalizes a partial result: statistics cover the iterations that
// did complete, and the error is attached instead of truncating silently.
func (r *Runner) abort(result *Result, err error) (*Result, error) {
	r.state = StateAborted
	result.Stats = ComputeStats(result.Samples)
	result.Err = err
	return result, err
}

// tagIteration attaches the iteration index to a typed exec error.
func tagIteration(err error, iteration int) error {
	var execErr *core.ExecError
	if errors.As(err, &execErr) {
		execErr.Iteration = iteration
		return execErr
	}
	return err
}
