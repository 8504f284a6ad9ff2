package schedule

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/limaJavier/jobshop/pkg/cp"
)

// Entry is one task placement in the decoded timetable.
type Entry struct {
	Resource int `json:"resource"`
	Job      int `json:"job"`
	Index    int `json:"index"`
	Start    int `json:"start"`
	End      int `json:"end"`
}

// Schedule is the decoded outcome of one solve call. Timetable is indexed by
// resource and each resource's entries are sorted by start; it is nil when
// the status is INFEASIBLE or TIMEOUT.
type Schedule struct {
	Status    cp.Status `json:"status"`
	Makespan  int       `json:"makespan"`
	Timetable [][]Entry `json:"timetable,omitempty"`
}

// decode reads the concrete task times out of an assignment and produces the
// per-resource ordered timetable. Ordering is total (start, then job, then
// index), so decoding the same assignment twice yields identical timetables.
// When checkObjective is set, the recomputed makespan must equal the
// solver-reported objective; a mismatch is a decoder or builder defect.
func decode(inst *Instance, bm *builtModel, result cp.Result, checkObjective bool) (*Schedule, error) {
	timetable := make([][]Entry, inst.ResourceCount())
	makespan := 0
	for arena, task := range inst.Tasks() {
		start := result.Assignment.Value(bm.tasks[arena].start)
		end := result.Assignment.Value(bm.tasks[arena].end)
		timetable[task.Resource] = append(timetable[task.Resource], Entry{
			Resource: task.Resource,
			Job:      task.Job,
			Index:    task.Index,
			Start:    start,
			End:      end,
		})
		if end > makespan {
			makespan = end
		}
	}

	for _, entries := range timetable {
		slices.SortFunc(entries, func(a, b Entry) int {
			if c := cmp.Compare(a.Start, b.Start); c != 0 {
				return c
			}
			if c := cmp.Compare(a.Job, b.Job); c != 0 {
				return c
			}
			return cmp.Compare(a.Index, b.Index)
		})
	}

	if checkObjective && makespan != result.Objective {
		return nil, fmt.Errorf("%w: decoded makespan %d does not match solver objective %d",
			ErrInternalInconsistency, makespan, result.Objective)
	}

	return &Schedule{Status: result.Status, Makespan: makespan, Timetable: timetable}, nil
}
