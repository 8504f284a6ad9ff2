package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/limaJavier/jobshop/pkg/cp"
)

// BatchScheduler runs one build-solve-decode cycle for the batch variant.
type BatchScheduler interface {
	Build(ctx context.Context, p *BatchProblem, opts Options) (*BatchSchedule, error)
}

func NewBatchScheduler() BatchScheduler {
	return &batchScheduler{logger: slog.Default()}
}

type batchScheduler struct {
	logger *slog.Logger
}

func (s *batchScheduler) Build(ctx context.Context, p *BatchProblem, opts Options) (*BatchSchedule, error) {
	s.logger.Debug("building batch model", "batches", p.Batches, "inputs", len(p.Inputs), "outputs", len(p.Outputs))
	bm, err := buildBatchModel(p)
	if err != nil {
		return nil, fmt.Errorf("build batch model: %w", err)
	}

	s.logger.Debug("solving", "time_limit", opts.TimeLimit)
	result, err := bm.model.Solve(ctx, cp.Options{TimeLimit: opts.TimeLimit})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("solved", "status", result.Status.String())

	if !result.Status.Solvable() {
		return &BatchSchedule{Status: result.Status}, nil
	}

	sched, err := decodeBatch(p, bm, result)
	if err != nil {
		return nil, err
	}
	if err := ValidateBatch(sched, p); err != nil {
		return nil, err
	}
	return sched, nil
}
