package schedule

import (
	"fmt"

	"github.com/limaJavier/jobshop/pkg/cp"
	"github.com/samber/lo"
)

// batchVars holds the decision variables of one batch: the categorical
// input/output choices with their indicator booleans, the three chained
// transfer intervals (input, buffer residence, output), and the volume slot
// the batch occupies inside the buffer.
type batchVars struct {
	inChoice  *cp.IntVar
	outChoice *cp.IntVar
	inFlags   []*cp.BoolVar
	outFlags  []*cp.BoolVar

	durIn  *cp.IntVar
	durBuf *cp.IntVar
	durOut *cp.IntVar

	startIn, endIn   *cp.IntVar
	startBuf, endBuf *cp.IntVar
	startOut, endOut *cp.IntVar

	bufInterval *cp.IntervalVar
	volLo       *cp.IntVar
	volHi       *cp.IntVar
	volInterval *cp.IntervalVar
}

type batchModel struct {
	model   *cp.Model
	batches []batchVars
}

// buildBatchModel translates a batch problem into a constraint system.
// Each batch picks exactly one input and one output option; the chosen
// option conditionally determines the matching transfer duration through an
// element constraint (an implication per option, never an unconditional
// equality). Batches chain input → buffer → output, and buffer occupations
// must not overlap in the 2-D region spanned by their time interval and
// their volume interval. The objective minimizes the end of the last
// batch's buffer occupation.
func buildBatchModel(p *BatchProblem) (*batchModel, error) {
	model := cp.NewModel()
	tin := p.inputDurations()
	tout := p.outputDurations()

	batches := make([]batchVars, p.Batches)
	for i := range batches {
		vars, err := buildBatchVars(model, p, i, tin, tout)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		batches[i] = *vars
	}

	//** Buffer exclusion: time × volume
	bufIntervals := lo.Map(batches, func(b batchVars, _ int) *cp.IntervalVar { return b.bufInterval })
	volIntervals := lo.Map(batches, func(b batchVars, _ int) *cp.IntervalVar { return b.volInterval })
	if err := model.AddNoOverlap2D(bufIntervals, volIntervals); err != nil {
		return nil, err
	}

	model.Minimize(batches[p.Batches-1].endBuf)

	return &batchModel{model: model, batches: batches}, nil
}

func buildBatchVars(model *cp.Model, p *BatchProblem, i int, tin, tout []int) (*batchVars, error) {
	suffix := fmt.Sprintf("_%d", i)
	vars := &batchVars{}
	var err error

	//** Categorical choices and their indicators
	if vars.inChoice, err = model.NewIntVar(0, len(p.Inputs)-1, "in_choice"+suffix); err != nil {
		return nil, err
	}
	if vars.outChoice, err = model.NewIntVar(0, len(p.Outputs)-1, "out_choice"+suffix); err != nil {
		return nil, err
	}
	vars.inFlags = make([]*cp.BoolVar, len(p.Inputs))
	for k := range p.Inputs {
		vars.inFlags[k] = model.NewBoolVar(fmt.Sprintf("in_is_%d%s", k, suffix))
		if err = model.AddEqualityReified(vars.inChoice, k, vars.inFlags[k]); err != nil {
			return nil, err
		}
	}
	vars.outFlags = make([]*cp.BoolVar, len(p.Outputs))
	for k := range p.Outputs {
		vars.outFlags[k] = model.NewBoolVar(fmt.Sprintf("out_is_%d%s", k, suffix))
		if err = model.AddEqualityReified(vars.outChoice, k, vars.outFlags[k]); err != nil {
			return nil, err
		}
	}
	if err = model.AddExactlyOne(vars.inFlags); err != nil {
		return nil, err
	}
	if err = model.AddExactlyOne(vars.outFlags); err != nil {
		return nil, err
	}

	//** Conditional transfer durations
	if vars.durIn, err = model.NewIntVar(lo.Min(tin), lo.Max(tin), "dur_in"+suffix); err != nil {
		return nil, err
	}
	if err = model.AddElement(vars.inChoice, tin, vars.durIn); err != nil {
		return nil, err
	}
	if vars.durOut, err = model.NewIntVar(lo.Min(tout), lo.Max(tout), "dur_out"+suffix); err != nil {
		return nil, err
	}
	if err = model.AddElement(vars.outChoice, tout, vars.durOut); err != nil {
		return nil, err
	}
	// Residence time in the buffer is free for the solver to decide.
	if vars.durBuf, err = model.NewIntVar(1, p.TimeCeiling, "dur_buf"+suffix); err != nil {
		return nil, err
	}

	//** Chained intervals: input feeds the buffer, the buffer feeds the output
	times := []struct {
		start, end **cp.IntVar
		name       string
	}{
		{&vars.startIn, &vars.endIn, "in"},
		{&vars.startBuf, &vars.endBuf, "buf"},
		{&vars.startOut, &vars.endOut, "out"},
	}
	for _, t := range times {
		if *t.start, err = model.NewIntVar(0, p.TimeCeiling, "start_"+t.name+suffix); err != nil {
			return nil, err
		}
		if *t.end, err = model.NewIntVar(0, p.TimeCeiling, "end_"+t.name+suffix); err != nil {
			return nil, err
		}
	}
	if _, err = model.NewFlexibleIntervalVar(vars.startIn, vars.durIn, vars.endIn); err != nil {
		return nil, err
	}
	if vars.bufInterval, err = model.NewFlexibleIntervalVar(vars.startBuf, vars.durBuf, vars.endBuf); err != nil {
		return nil, err
	}
	if _, err = model.NewFlexibleIntervalVar(vars.startOut, vars.durOut, vars.endOut); err != nil {
		return nil, err
	}
	if err = model.AddEquality(vars.endIn, vars.startBuf); err != nil {
		return nil, err
	}
	if err = model.AddEquality(vars.endBuf, vars.startOut); err != nil {
		return nil, err
	}

	//** Volume slot inside the buffer
	if vars.volLo, err = model.NewIntVar(0, p.BufferCeiling-p.TransferVolume, "vol_lo"+suffix); err != nil {
		return nil, err
	}
	if vars.volHi, err = model.NewIntVar(p.TransferVolume, p.BufferCeiling, "vol_hi"+suffix); err != nil {
		return nil, err
	}
	if vars.volInterval, err = model.NewIntervalVar(vars.volLo, p.TransferVolume, vars.volHi); err != nil {
		return nil, err
	}

	return vars, nil
}
