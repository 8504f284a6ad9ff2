package schedule

import (
	"fmt"

	"github.com/limaJavier/jobshop/pkg/cp"
)

// taskVars holds the decision variables of one task, arena-parallel to
// Instance.Tasks().
type taskVars struct {
	start    *cp.IntVar
	end      *cp.IntVar
	interval *cp.IntervalVar
}

// builtModel is the constraint system of one instance, ready for the solver.
type builtModel struct {
	model    *cp.Model
	tasks    []taskVars
	makespan *cp.IntVar
}

// buildModel translates a validated instance into a declarative constraint
// system: one interval per task bounded to [0, horizon], one disjunctive
// constraint per resource over the whole set of its intervals, a precedence
// chain per job, and a minimized makespan. It owns no search logic.
func buildModel(inst *Instance) (*builtModel, error) {
	model := cp.NewModel()
	horizon := inst.Horizon()

	//** Interval variables
	tasks := make([]taskVars, len(inst.Tasks()))
	for arena, task := range inst.Tasks() {
		suffix := fmt.Sprintf("_%d_%d", task.Job, task.Index)
		start, err := model.NewIntVar(0, horizon, "start"+suffix)
		if err != nil {
			return nil, err
		}
		end, err := model.NewIntVar(0, horizon, "end"+suffix)
		if err != nil {
			return nil, err
		}
		interval, err := model.NewIntervalVar(start, task.Duration, end)
		if err != nil {
			return nil, err
		}
		tasks[arena] = taskVars{start: start, end: end, interval: interval}
	}

	//** Disjunctive constraints: one per resource, over all of its intervals
	byResource := make([][]*cp.IntervalVar, inst.ResourceCount())
	for arena, task := range inst.Tasks() {
		byResource[task.Resource] = append(byResource[task.Resource], tasks[arena].interval)
	}
	for _, intervals := range byResource {
		if err := model.AddNoOverlap(intervals); err != nil {
			return nil, err
		}
	}

	//** Precedences inside a job: input order is authoritative
	for job := range inst.Jobs() {
		for index := 0; index < inst.JobLen(job)-1; index++ {
			current := tasks[inst.jobOffsets[job]+index]
			next := tasks[inst.jobOffsets[job]+index+1]
			if err := model.AddLessOrEqual(current.end, next.start); err != nil {
				return nil, err
			}
		}
	}

	//** Makespan objective
	makespan, err := model.NewIntVar(0, horizon, "makespan")
	if err != nil {
		return nil, err
	}
	lastEnds := make([]*cp.IntVar, inst.Jobs())
	for job := range inst.Jobs() {
		lastEnds[job] = tasks[inst.jobOffsets[job]+inst.JobLen(job)-1].end
	}
	if err := model.AddMaxEquality(makespan, lastEnds); err != nil {
		return nil, err
	}
	model.Minimize(makespan)

	return &builtModel{model: model, tasks: tasks, makespan: makespan}, nil
}
