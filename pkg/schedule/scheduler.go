package schedule

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/limaJavier/jobshop/pkg/cp"
)

// Options is the per-call configuration surface. It is passed explicitly
// into each Build/Enumerate call; no setting is retained between calls.
type Options struct {
	// TimeLimit bounds the solver's wall-clock budget; zero means no limit.
	TimeLimit time.Duration
	// SolutionLimit caps Enumerate; zero means all solutions.
	SolutionLimit int
}

// Scheduler builds, solves, decodes and validates one problem instance per
// call. Each call owns an exclusive, disposable model; nothing is shared
// across calls.
type Scheduler interface {
	// Build runs one build-solve-decode cycle. INFEASIBLE and TIMEOUT
	// return a status-only schedule with a nil timetable and no error:
	// both are answers about the instance, not failures of this core.
	Build(ctx context.Context, inst *Instance, opts Options) (*Schedule, error)

	// Enumerate yields decoded schedules one per discovered solution, up
	// to opts.SolutionLimit. The caller owns the stop decision; breaking
	// out of the range terminates the sequence.
	Enumerate(ctx context.Context, inst *Instance, opts Options) (iter.Seq[*Schedule], error)
}

func NewScheduler() Scheduler {
	return &cpScheduler{logger: slog.Default()}
}

type cpScheduler struct {
	logger *slog.Logger
}

func (s *cpScheduler) Build(ctx context.Context, inst *Instance, opts Options) (*Schedule, error) {
	s.logger.Debug("building model", "jobs", inst.Jobs(), "tasks", len(inst.Tasks()), "horizon", inst.Horizon())
	bm, err := buildModel(inst)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}

	s.logger.Debug("solving", "time_limit", opts.TimeLimit)
	result, err := bm.model.Solve(ctx, cp.Options{TimeLimit: opts.TimeLimit})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("solved", "status", result.Status.String())

	if !result.Status.Solvable() {
		return &Schedule{Status: result.Status}, nil
	}

	sched, err := decode(inst, bm, result, true)
	if err != nil {
		return nil, err
	}
	if err := Validate(sched, inst); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *cpScheduler) Enumerate(ctx context.Context, inst *Instance, opts Options) (iter.Seq[*Schedule], error) {
	bm, err := buildModel(inst)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}

	assignments, err := bm.model.Enumerate(ctx, cp.Options{
		TimeLimit:     opts.TimeLimit,
		SolutionLimit: opts.SolutionLimit,
	})
	if err != nil {
		return nil, err
	}

	return func(yield func(*Schedule) bool) {
		for assignment := range assignments {
			result := cp.Result{Status: cp.StatusFeasible, Assignment: assignment}
			sched, err := decode(inst, bm, result, false)
			if err != nil {
				s.logger.Error("dropping undecodable solution", "error", err)
				return
			}
			if !yield(sched) {
				return
			}
		}
	}, nil
}
