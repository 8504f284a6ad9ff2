package schedule

import (
	"fmt"

	"github.com/limaJavier/jobshop/pkg/cp"
	"github.com/samber/lo"
)

// BatchEntry is the decoded placement of one batch: the resolved categorical
// options with their durations, the three transfer windows, and the volume
// slot occupied inside the buffer.
type BatchEntry struct {
	Batch          int    `json:"batch"`
	Input          string `json:"input"`
	InputDuration  int    `json:"inputDuration"`
	Output         string `json:"output"`
	OutputDuration int    `json:"outputDuration"`

	InputStart  int `json:"inputStart"`
	InputEnd    int `json:"inputEnd"`
	BufferStart int `json:"bufferStart"`
	BufferEnd   int `json:"bufferEnd"`
	OutputStart int `json:"outputStart"`
	OutputEnd   int `json:"outputEnd"`

	VolumeLow  int `json:"volumeLow"`
	VolumeHigh int `json:"volumeHigh"`
}

// BatchSchedule is the decoded outcome of one batch solve call. Makespan is
// the end of the last batch's buffer occupation (the minimized objective).
type BatchSchedule struct {
	Status   cp.Status    `json:"status"`
	Makespan int          `json:"makespan"`
	Entries  []BatchEntry `json:"entries,omitempty"`
}

// decodeBatch reads concrete batch placements out of an assignment. The
// chosen option per family is resolved by reading the indicator variables;
// anything other than exactly one true indicator per family is an internal
// inconsistency, as is a resolved duration that disagrees with the option
// table or a makespan that disagrees with the solver objective.
func decodeBatch(p *BatchProblem, bm *batchModel, result cp.Result) (*BatchSchedule, error) {
	entries := make([]BatchEntry, p.Batches)
	for i, vars := range bm.batches {
		inOption, err := resolveOption(result.Assignment, p.Inputs, vars.inFlags, i, "input")
		if err != nil {
			return nil, err
		}
		outOption, err := resolveOption(result.Assignment, p.Outputs, vars.outFlags, i, "output")
		if err != nil {
			return nil, err
		}

		durIn := result.Assignment.Value(vars.durIn)
		if durIn != inOption.Duration {
			return nil, fmt.Errorf("%w: batch %d input duration %d, option %q implies %d",
				ErrInternalInconsistency, i, durIn, inOption.Name, inOption.Duration)
		}
		durOut := result.Assignment.Value(vars.durOut)
		if durOut != outOption.Duration {
			return nil, fmt.Errorf("%w: batch %d output duration %d, option %q implies %d",
				ErrInternalInconsistency, i, durOut, outOption.Name, outOption.Duration)
		}

		entries[i] = BatchEntry{
			Batch:          i,
			Input:          inOption.Name,
			InputDuration:  durIn,
			Output:         outOption.Name,
			OutputDuration: durOut,
			InputStart:     result.Assignment.Value(vars.startIn),
			InputEnd:       result.Assignment.Value(vars.endIn),
			BufferStart:    result.Assignment.Value(vars.startBuf),
			BufferEnd:      result.Assignment.Value(vars.endBuf),
			OutputStart:    result.Assignment.Value(vars.startOut),
			OutputEnd:      result.Assignment.Value(vars.endOut),
			VolumeLow:      result.Assignment.Value(vars.volLo),
			VolumeHigh:     result.Assignment.Value(vars.volHi),
		}
	}

	makespan := entries[p.Batches-1].BufferEnd
	if makespan != result.Objective {
		return nil, fmt.Errorf("%w: decoded makespan %d does not match solver objective %d",
			ErrInternalInconsistency, makespan, result.Objective)
	}

	return &BatchSchedule{Status: result.Status, Makespan: makespan, Entries: entries}, nil
}

func resolveOption(assignment *cp.Assignment, table []TransferOption, flags []*cp.BoolVar, batch int, family string) (TransferOption, error) {
	chosen := lo.FilterMap(flags, func(flag *cp.BoolVar, k int) (int, bool) {
		return k, assignment.BoolValue(flag)
	})
	if len(chosen) != 1 {
		return TransferOption{}, fmt.Errorf("%w: batch %d has %d true %s indicators, want exactly one",
			ErrInternalInconsistency, batch, len(chosen), family)
	}
	return table[chosen[0]], nil
}
