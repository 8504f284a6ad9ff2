package schedule

import (
	"context"
	"testing"

	"github.com/limaJavier/jobshop/pkg/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	scheduler := NewScheduler()

	t.Run("Reference instance", func(t *testing.T) {
		// Arrange
		jobs := [][]TaskSpec{
			{{Resource: 0, Duration: 3}, {Resource: 1, Duration: 2}, {Resource: 2, Duration: 2}},
			{{Resource: 0, Duration: 2}, {Resource: 2, Duration: 1}, {Resource: 1, Duration: 4}},
			{{Resource: 1, Duration: 4}, {Resource: 2, Duration: 3}},
		}
		inst, err := NewInstance(jobs)
		require.NoError(t, err)

		// Act
		sched, err := scheduler.Build(context.Background(), inst, Options{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cp.StatusOptimal, sched.Status)
		assert.Equal(t, 11, sched.Makespan)
		assert.NoError(t, Validate(sched, inst))
	})

	t.Run("All durations zero", func(t *testing.T) {
		// Arrange
		jobs := [][]TaskSpec{
			{{Resource: 0, Duration: 0}, {Resource: 1, Duration: 0}},
			{{Resource: 0, Duration: 0}},
		}
		inst, err := NewInstance(jobs)
		require.NoError(t, err)

		// Act
		sched, err := scheduler.Build(context.Background(), inst, Options{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cp.StatusOptimal, sched.Status)
		assert.Equal(t, 0, sched.Makespan)
		for _, entries := range sched.Timetable {
			for _, entry := range entries {
				assert.Equal(t, 0, entry.Start)
				assert.Equal(t, 0, entry.End)
			}
		}
		assert.NoError(t, Validate(sched, inst))
	})

	t.Run("Timetable is grouped by resource and sorted by start", func(t *testing.T) {
		// Arrange
		jobs := [][]TaskSpec{
			{{Resource: 0, Duration: 2}, {Resource: 0, Duration: 1}},
			{{Resource: 0, Duration: 3}},
		}
		inst, err := NewInstance(jobs)
		require.NoError(t, err)

		// Act
		sched, err := scheduler.Build(context.Background(), inst, Options{})

		// Assert
		require.NoError(t, err)
		require.Len(t, sched.Timetable, 1)
		entries := sched.Timetable[0]
		require.Len(t, entries, 3)
		for i := 1; i < len(entries); i++ {
			assert.LessOrEqual(t, entries[i-1].Start, entries[i].Start)
			assert.Equal(t, 0, entries[i].Resource)
		}
		assert.Equal(t, 6, sched.Makespan)
	})
}

func TestDecodeIsIdempotent(t *testing.T) {
	// Arrange
	jobs := [][]TaskSpec{
		{{Resource: 0, Duration: 2}, {Resource: 1, Duration: 1}},
		{{Resource: 1, Duration: 2}},
	}
	inst, err := NewInstance(jobs)
	require.NoError(t, err)
	bm, err := buildModel(inst)
	require.NoError(t, err)
	result, err := bm.model.Solve(context.Background(), cp.Options{})
	require.NoError(t, err)
	require.True(t, result.Status.Solvable())

	// Act
	first, err := decode(inst, bm, result, true)
	require.NoError(t, err)
	second, err := decode(inst, bm, result, true)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first, second)
}

func TestEnumerate(t *testing.T) {
	scheduler := NewScheduler()

	// Two independent unit tasks on separate resources: each may start at 0
	// or 1, so the instance has exactly four feasible schedules.
	jobs := [][]TaskSpec{
		{{Resource: 0, Duration: 1}},
		{{Resource: 1, Duration: 1}},
	}
	inst, err := NewInstance(jobs)
	require.NoError(t, err)

	t.Run("Yields every feasible schedule", func(t *testing.T) {
		schedules, err := scheduler.Enumerate(context.Background(), inst, Options{})
		require.NoError(t, err)

		count := 0
		for sched := range schedules {
			assert.Equal(t, cp.StatusFeasible, sched.Status)
			assert.NoError(t, Validate(sched, inst))
			count++
		}
		assert.Equal(t, 4, count)
	})

	t.Run("Honors the solution limit", func(t *testing.T) {
		schedules, err := scheduler.Enumerate(context.Background(), inst, Options{SolutionLimit: 2})
		require.NoError(t, err)

		count := 0
		for range schedules {
			count++
		}
		assert.Equal(t, 2, count)
	})

	t.Run("Caller owns the stop decision", func(t *testing.T) {
		schedules, err := scheduler.Enumerate(context.Background(), inst, Options{})
		require.NoError(t, err)

		count := 0
		for range schedules {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}
