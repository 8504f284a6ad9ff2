package schedule

import (
	"fmt"

	"github.com/samber/lo"
)

// Validate re-derives the scheduling invariants on a decoded timetable
// without consulting the constraint model that produced it: every task is
// placed exactly once with its declared duration, no two entries on one
// resource overlap, and consecutive tasks of a job do not start before their
// predecessor ends. Any violation means the builder never actually posted
// the constraint or the decoder misread the assignment, so it is reported
// as an internal inconsistency, not as infeasibility.
func Validate(sched *Schedule, inst *Instance) error {
	if len(sched.Timetable) != inst.ResourceCount() {
		return fmt.Errorf("%w: timetable covers %d resources, instance declares %d",
			ErrInternalInconsistency, len(sched.Timetable), inst.ResourceCount())
	}

	//** Shape and duration consistency
	placed := make(map[[2]int]Entry, len(inst.Tasks()))
	for resource, entries := range sched.Timetable {
		for _, entry := range entries {
			if entry.Resource != resource {
				return fmt.Errorf("%w: entry for job %d task %d filed under resource %d, claims %d",
					ErrInternalInconsistency, entry.Job, entry.Index, resource, entry.Resource)
			}
			key := [2]int{entry.Job, entry.Index}
			if _, seen := placed[key]; seen {
				return fmt.Errorf("%w: job %d task %d placed twice", ErrInternalInconsistency, entry.Job, entry.Index)
			}
			placed[key] = entry
		}
	}
	for _, task := range inst.Tasks() {
		entry, ok := placed[[2]int{task.Job, task.Index}]
		if !ok {
			return fmt.Errorf("%w: job %d task %d missing from timetable", ErrInternalInconsistency, task.Job, task.Index)
		}
		if entry.Resource != task.Resource {
			return fmt.Errorf("%w: job %d task %d placed on resource %d, requires %d",
				ErrInternalInconsistency, task.Job, task.Index, entry.Resource, task.Resource)
		}
		if entry.End-entry.Start != task.Duration {
			return fmt.Errorf("%w: job %d task %d spans %d time units, duration is %d",
				ErrInternalInconsistency, task.Job, task.Index, entry.End-entry.Start, task.Duration)
		}
		if entry.Start < 0 || entry.End > inst.Horizon() {
			return fmt.Errorf("%w: job %d task %d placed at [%d, %d) outside [0, %d]",
				ErrInternalInconsistency, task.Job, task.Index, entry.Start, entry.End, inst.Horizon())
		}
	}

	//** Non-overlap per resource
	for resource, entries := range sched.Timetable {
		for i := range entries {
			for j := i + 1; j < len(entries); j++ {
				if overlaps(entries[i], entries[j]) {
					return fmt.Errorf("%w: resource %d runs job %d task %d and job %d task %d concurrently",
						ErrInternalInconsistency, resource,
						entries[i].Job, entries[i].Index, entries[j].Job, entries[j].Index)
				}
			}
		}
	}

	//** Precedence per job
	for job := range inst.Jobs() {
		for index := 0; index < inst.JobLen(job)-1; index++ {
			current := placed[[2]int{job, index}]
			next := placed[[2]int{job, index + 1}]
			if next.Start < current.End {
				return fmt.Errorf("%w: job %d task %d starts at %d before task %d ends at %d",
					ErrInternalInconsistency, job, index+1, next.Start, index, current.End)
			}
		}
	}

	//** Makespan consistency
	latest := lo.Reduce(sched.Timetable, func(max int, entries []Entry, _ int) int {
		for _, entry := range entries {
			if entry.End > max {
				max = entry.End
			}
		}
		return max
	}, 0)
	if latest != sched.Makespan {
		return fmt.Errorf("%w: reported makespan %d, latest end is %d", ErrInternalInconsistency, sched.Makespan, latest)
	}

	return nil
}

// overlaps reports whether two half-open intervals share a time point.
// Zero-length intervals occupy no time and never overlap.
func overlaps(a, b Entry) bool {
	return a.Start < b.End && b.Start < a.End
}
