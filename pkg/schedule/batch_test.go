package schedule

import (
	"context"
	"testing"

	"github.com/limaJavier/jobshop/pkg/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchProblemRejectsInvalidInput(t *testing.T) {
	valid := BatchInput{
		Batches:        2,
		Inputs:         []TransferOption{{Name: "IN1", Duration: 1}},
		Outputs:        []TransferOption{{Name: "OUT1", Duration: 1}},
		TransferVolume: 1,
		BufferCeiling:  2,
		TimeCeiling:    10,
	}

	cases := []struct {
		name   string
		mutate func(in *BatchInput)
	}{
		{
			name:   "Zero batches",
			mutate: func(in *BatchInput) { in.Batches = 0 },
		},
		{
			name:   "Empty input table",
			mutate: func(in *BatchInput) { in.Inputs = nil },
		},
		{
			name:   "Empty output table",
			mutate: func(in *BatchInput) { in.Outputs = nil },
		},
		{
			name:   "Non-positive time ceiling",
			mutate: func(in *BatchInput) { in.TimeCeiling = 0 },
		},
		{
			name:   "Option duration above the time ceiling",
			mutate: func(in *BatchInput) { in.Inputs = []TransferOption{{Name: "IN1", Duration: 11}} },
		},
		{
			name:   "Non-positive option duration",
			mutate: func(in *BatchInput) { in.Outputs = []TransferOption{{Name: "OUT1", Duration: 0}} },
		},
		{
			name:   "Non-positive transfer volume",
			mutate: func(in *BatchInput) { in.TransferVolume = 0 },
		},
		{
			name:   "Buffer ceiling below the transfer volume",
			mutate: func(in *BatchInput) { in.BufferCeiling = 0 },
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := valid
			c.mutate(&in)

			_, err := NewBatchProblem(in)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestBatchBuild(t *testing.T) {
	// Two batches sharing a buffer wide enough for both at once: the last
	// batch can run flat out, so the optimal objective is its minimal chain
	// length (fastest input, then one time unit of buffer residence).
	input := BatchInput{
		Batches: 2,
		Inputs: []TransferOption{
			{Name: "IN1", Duration: 1},
			{Name: "IN2", Duration: 2},
		},
		Outputs: []TransferOption{
			{Name: "OUT1", Duration: 1},
			{Name: "OUT2", Duration: 2},
		},
		TransferVolume: 1,
		BufferCeiling:  2,
		TimeCeiling:    6,
	}
	p, err := NewBatchProblem(input)
	require.NoError(t, err)

	sched, err := NewBatchScheduler().Build(context.Background(), p, Options{})

	require.NoError(t, err)
	assert.Equal(t, cp.StatusOptimal, sched.Status)
	assert.Equal(t, 2, sched.Makespan)
	require.Len(t, sched.Entries, 2)

	inputNames := []string{"IN1", "IN2"}
	outputNames := []string{"OUT1", "OUT2"}
	for _, entry := range sched.Entries {
		assert.Contains(t, inputNames, entry.Input)
		assert.Contains(t, outputNames, entry.Output)
		assert.Equal(t, entry.InputDuration, entry.InputEnd-entry.InputStart)
		assert.Equal(t, entry.OutputDuration, entry.OutputEnd-entry.OutputStart)
		assert.Equal(t, entry.InputEnd, entry.BufferStart)
		assert.Equal(t, entry.BufferEnd, entry.OutputStart)
		assert.Equal(t, p.TransferVolume, entry.VolumeHigh-entry.VolumeLow)
	}
	assert.NoError(t, ValidateBatch(sched, p))
}

func TestResolveOptionRequiresExactlyOneIndicator(t *testing.T) {
	table := []TransferOption{
		{Name: "IN1", Duration: 1},
		{Name: "IN2", Duration: 2},
	}

	// Builds an assignment whose two indicators both resolve to the same
	// truth value, which a correct batch model can never produce.
	solveFlags := func(t *testing.T, reifiedValue int) (*cp.Assignment, []*cp.BoolVar) {
		t.Helper()
		model := cp.NewModel()
		x, err := model.NewIntVar(0, 1, "x")
		require.NoError(t, err)
		one, err := model.NewIntVar(1, 1, "one")
		require.NoError(t, err)
		require.NoError(t, model.AddEquality(x, one))

		flags := []*cp.BoolVar{model.NewBoolVar("a"), model.NewBoolVar("b")}
		for _, flag := range flags {
			require.NoError(t, model.AddEqualityReified(x, reifiedValue, flag))
		}

		result, err := model.Solve(context.Background(), cp.Options{})
		require.NoError(t, err)
		require.Equal(t, cp.StatusFeasible, result.Status)
		return result.Assignment, flags
	}

	t.Run("Two true indicators", func(t *testing.T) {
		assignment, flags := solveFlags(t, 1)

		_, err := resolveOption(assignment, table, flags, 0, "input")

		assert.ErrorIs(t, err, ErrInternalInconsistency)
	})

	t.Run("No true indicator", func(t *testing.T) {
		assignment, flags := solveFlags(t, 0)

		_, err := resolveOption(assignment, table, flags, 0, "input")

		assert.ErrorIs(t, err, ErrInternalInconsistency)
	})
}

func batchFixture(t *testing.T) (*BatchProblem, *BatchSchedule) {
	t.Helper()
	p, err := NewBatchProblem(BatchInput{
		Batches: 2,
		Inputs: []TransferOption{
			{Name: "IN1", Duration: 1},
			{Name: "IN2", Duration: 2},
		},
		Outputs:        []TransferOption{{Name: "OUT1", Duration: 1}},
		TransferVolume: 1,
		BufferCeiling:  2,
		TimeCeiling:    10,
	})
	require.NoError(t, err)

	sched := &BatchSchedule{
		Status:   cp.StatusOptimal,
		Makespan: 2,
		Entries: []BatchEntry{
			{
				Batch: 0, Input: "IN1", InputDuration: 1, Output: "OUT1", OutputDuration: 1,
				InputStart: 0, InputEnd: 1, BufferStart: 1, BufferEnd: 2, OutputStart: 2, OutputEnd: 3,
				VolumeLow: 0, VolumeHigh: 1,
			},
			{
				Batch: 1, Input: "IN1", InputDuration: 1, Output: "OUT1", OutputDuration: 1,
				InputStart: 0, InputEnd: 1, BufferStart: 1, BufferEnd: 2, OutputStart: 2, OutputEnd: 3,
				VolumeLow: 1, VolumeHigh: 2,
			},
		},
	}
	return p, sched
}

func TestValidateBatchAcceptsConsistentSchedule(t *testing.T) {
	p, sched := batchFixture(t)

	assert.NoError(t, ValidateBatch(sched, p))
}

func TestValidateBatchDetectsInconsistencies(t *testing.T) {
	cases := []struct {
		name    string
		corrupt func(sched *BatchSchedule)
	}{
		{
			name: "Entry count disagrees with the batch count",
			corrupt: func(sched *BatchSchedule) {
				sched.Entries = sched.Entries[:1]
			},
		},
		{
			name: "Unknown input option",
			corrupt: func(sched *BatchSchedule) {
				sched.Entries[0].Input = "IN9"
			},
		},
		{
			name: "Input span disagrees with its duration",
			corrupt: func(sched *BatchSchedule) {
				sched.Entries[0].InputEnd = 2
			},
		},
		{
			name: "Broken chain between buffer and output",
			corrupt: func(sched *BatchSchedule) {
				sched.Entries[0].OutputStart = 3
				sched.Entries[0].OutputEnd = 4
			},
		},
		{
			name: "Volume slot past the buffer ceiling",
			corrupt: func(sched *BatchSchedule) {
				sched.Entries[1].VolumeLow = 2
				sched.Entries[1].VolumeHigh = 3
			},
		},
		{
			name: "Concurrent batches on the same volume slot",
			corrupt: func(sched *BatchSchedule) {
				sched.Entries[1].VolumeLow = 0
				sched.Entries[1].VolumeHigh = 1
			},
		},
		{
			name: "Reported makespan disagrees with the last buffer end",
			corrupt: func(sched *BatchSchedule) {
				sched.Makespan = 5
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, sched := batchFixture(t)
			c.corrupt(sched)

			err := ValidateBatch(sched, p)

			assert.ErrorIs(t, err, ErrInternalInconsistency)
		})
	}
}
