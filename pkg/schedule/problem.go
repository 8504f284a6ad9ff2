// Package schedule formulates resource-constrained scheduling problems as
// constraint models, hands them to the cp solver, and decodes the returned
// assignment into a per-resource timetable that is then re-validated
// independently of the model that produced it.
package schedule

import (
	"fmt"

	"github.com/samber/lo"
)

// TaskSpec is one raw (resource, duration) tuple as it appears in input
// data, before any validation.
type TaskSpec struct {
	Resource int `json:"resource" yaml:"resource" mapstructure:"resource"`
	Duration int `json:"duration" yaml:"duration" mapstructure:"duration"`
}

// Task is a validated unit of work: the Index-th step of its Job, requiring
// exclusive use of Resource for Duration time units.
type Task struct {
	Job      int
	Index    int
	Resource int
	Duration int
}

// Instance is one validated scheduling problem. Tasks live in a flat arena
// in job-major creation order and are addressed by (job, index); nothing is
// mutated after construction.
type Instance struct {
	tasks         []Task
	jobOffsets    []int
	jobLengths    []int
	resourceCount int
	horizon       int
}

// NewInstance validates raw per-job task tuples and derives the resource
// count as 1 + the highest resource id observed.
func NewInstance(jobs [][]TaskSpec) (*Instance, error) {
	derived := 0
	for _, job := range jobs {
		for _, task := range job {
			if task.Resource >= derived {
				derived = task.Resource + 1
			}
		}
	}
	return NewInstanceWithResources(jobs, derived)
}

// NewInstanceWithResources validates raw per-job task tuples against a
// declared resource set of size resourceCount. Rejected as invalid input:
// an empty job list, an empty job, a negative duration, and a resource id
// outside [0, resourceCount).
func NewInstanceWithResources(jobs [][]TaskSpec, resourceCount int) (*Instance, error) {
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: empty job list", ErrInvalidInput)
	}
	if resourceCount < 0 {
		return nil, fmt.Errorf("%w: negative resource count %d", ErrInvalidInput, resourceCount)
	}

	instance := &Instance{
		jobOffsets:    make([]int, len(jobs)),
		jobLengths:    make([]int, len(jobs)),
		resourceCount: resourceCount,
	}
	for jobID, job := range jobs {
		if len(job) == 0 {
			return nil, fmt.Errorf("%w: job %d has no tasks", ErrInvalidInput, jobID)
		}
		instance.jobOffsets[jobID] = len(instance.tasks)
		instance.jobLengths[jobID] = len(job)
		for index, spec := range job {
			if spec.Duration < 0 {
				return nil, fmt.Errorf("%w: job %d task %d: negative duration %d", ErrInvalidInput, jobID, index, spec.Duration)
			}
			if spec.Resource < 0 || spec.Resource >= resourceCount {
				return nil, fmt.Errorf("%w: job %d task %d: resource %d outside [0, %d)", ErrInvalidInput, jobID, index, spec.Resource, resourceCount)
			}
			instance.tasks = append(instance.tasks, Task{
				Job:      jobID,
				Index:    index,
				Resource: spec.Resource,
				Duration: spec.Duration,
			})
		}
	}

	instance.horizon = lo.SumBy(instance.tasks, func(t Task) int { return t.Duration })
	return instance, nil
}

// Tasks returns the task arena in job-major creation order.
func (inst *Instance) Tasks() []Task { return inst.tasks }

// Task addresses the arena by (job, index).
func (inst *Instance) Task(job, index int) Task {
	return inst.tasks[inst.jobOffsets[job]+index]
}

// Jobs returns the number of jobs.
func (inst *Instance) Jobs() int { return len(inst.jobOffsets) }

// JobLen returns the number of tasks in a job.
func (inst *Instance) JobLen(job int) int { return inst.jobLengths[job] }

// ResourceCount returns the size of the resource set.
func (inst *Instance) ResourceCount() int { return inst.resourceCount }

// Horizon is the sum of all durations: a serial schedule always fits in
// [0, horizon], so the bound never excludes the optimum.
func (inst *Instance) Horizon() int { return inst.horizon }
