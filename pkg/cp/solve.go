package cp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/gitrdm/gokanlogic/pkg/minikanren"
)

// Status is the terminal outcome of one solve call.
type Status int

const (
	// StatusUnknown means the search produced no answer within its budget.
	StatusUnknown Status = iota
	// StatusOptimal means the returned assignment is proven best.
	StatusOptimal
	// StatusFeasible means an assignment was found but optimality was not
	// proven before the budget ran out.
	StatusFeasible
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
	// StatusTimeout means the budget ran out before any answer; it must
	// never be read as infeasibility.
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON emits the status name rather than its numeric value.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Solvable reports whether the status carries an assignment to decode.
func (s Status) Solvable() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Options is the per-call configuration of a solve. Nothing here is ambient:
// each call passes its own value and no state survives the call.
type Options struct {
	// TimeLimit bounds the search wall-clock; zero means no limit.
	TimeLimit time.Duration
	// SolutionLimit caps Enumerate; zero means all solutions.
	SolutionLimit int
}

// Assignment maps every declared variable to its concrete solved value.
type Assignment struct {
	values []int
}

// Value returns the solved value of an integer variable.
func (a *Assignment) Value(v *IntVar) int {
	return a.values[v.fd.ID()] - 1
}

// BoolValue returns the solved value of an indicator.
func (a *Assignment) BoolValue(b *BoolVar) bool {
	return a.values[b.fd.ID()] == 2
}

// Result is the oracle's answer: a terminal status, and an assignment plus
// objective value when the status is OPTIMAL or FEASIBLE.
type Result struct {
	Status     Status
	Objective  int
	Assignment *Assignment
}

// Solve runs the engine once against the model. With an objective declared
// it performs branch-and-bound minimization; otherwise it searches for a
// single satisfying assignment. The context and the time limit are the only
// cancellation signals; a search cut short with an incumbent reports
// FEASIBLE, one cut short without reports TIMEOUT.
func (m *Model) Solve(ctx context.Context, opts Options) (Result, error) {
	solver := minikanren.NewSolver(m.inner)

	if m.objective == nil {
		return m.solveSatisfaction(ctx, solver, opts)
	}

	var optimizeOpts []minikanren.OptimizeOption
	if opts.TimeLimit > 0 {
		optimizeOpts = append(optimizeOpts, minikanren.WithTimeLimit(opts.TimeLimit))
	}
	solution, objective, err := solver.SolveOptimalWithOptions(ctx, m.objective.fd, true, optimizeOpts...)
	switch {
	case err == nil && solution == nil:
		return Result{Status: StatusInfeasible}, nil
	case err == nil:
		return Result{Status: StatusOptimal, Objective: objective - 1, Assignment: &Assignment{values: solution}}, nil
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, minikanren.ErrSearchLimitReached):
		if solution != nil {
			return Result{Status: StatusFeasible, Objective: objective - 1, Assignment: &Assignment{values: solution}}, nil
		}
		return Result{Status: StatusTimeout}, nil
	default:
		return Result{}, fmt.Errorf("cp: solve failed: %w", err)
	}
}

func (m *Model) solveSatisfaction(ctx context.Context, solver *minikanren.Solver, opts Options) (Result, error) {
	ctx, cancel := withBudget(ctx, opts.TimeLimit)
	defer cancel()

	solutions, err := solver.Solve(ctx, 1)
	if len(solutions) > 0 {
		return Result{Status: StatusFeasible, Assignment: &Assignment{values: solutions[0]}}, nil
	}
	if err == nil {
		return Result{Status: StatusInfeasible}, nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Result{Status: StatusTimeout}, nil
	}
	return Result{}, fmt.Errorf("cp: solve failed: %w", err)
}

// Enumerate returns a pull-based sequence of full assignments, one per
// discovered solution, capped by Options.SolutionLimit. The caller owns the
// stop decision: breaking out of the range ends the sequence and nothing is
// emitted afterwards. The sequence is finite and restartable only by a new
// Enumerate call.
//
// The engine exposes no streaming hook, so the solution set is materialized
// before the first yield: an early break skips decoding, not search. The
// solution limit is what bounds the search itself.
func (m *Model) Enumerate(ctx context.Context, opts Options) (iter.Seq[*Assignment], error) {
	solver := minikanren.NewSolver(m.inner)

	searchCtx, cancel := withBudget(ctx, opts.TimeLimit)
	defer cancel()

	solutions, err := solver.Solve(searchCtx, opts.SolutionLimit)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("cp: enumerate failed: %w", err)
	}

	return func(yield func(*Assignment) bool) {
		for _, solution := range solutions {
			if !yield(&Assignment{values: solution}) {
				return
			}
		}
	}, nil
}

func withBudget(ctx context.Context, limit time.Duration) (context.Context, context.CancelFunc) {
	if limit > 0 {
		return context.WithTimeout(ctx, limit)
	}
	return context.WithCancel(ctx)
}
