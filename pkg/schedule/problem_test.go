package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstance(t *testing.T) {
	t.Run("Derives the resource count", func(t *testing.T) {
		// Arrange
		jobs := [][]TaskSpec{
			{{Resource: 0, Duration: 3}, {Resource: 4, Duration: 1}},
			{{Resource: 2, Duration: 2}},
		}

		// Act
		inst, err := NewInstance(jobs)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 5, inst.ResourceCount())
		assert.Equal(t, 6, inst.Horizon())
		assert.Equal(t, 2, inst.Jobs())
		assert.Equal(t, 2, inst.JobLen(0))
		assert.Equal(t, 1, inst.JobLen(1))
		assert.Equal(t, Task{Job: 0, Index: 1, Resource: 4, Duration: 1}, inst.Task(0, 1))
		assert.Len(t, inst.Tasks(), 3)
	})

	t.Run("Accepts zero durations", func(t *testing.T) {
		inst, err := NewInstance([][]TaskSpec{{{Resource: 0, Duration: 0}}})

		require.NoError(t, err)
		assert.Equal(t, 0, inst.Horizon())
	})
}

func TestNewInstanceRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name      string
		jobs      [][]TaskSpec
		resources int
	}{
		{
			name:      "Empty job list",
			jobs:      [][]TaskSpec{},
			resources: 1,
		},
		{
			name:      "Empty job",
			jobs:      [][]TaskSpec{{{Resource: 0, Duration: 1}}, {}},
			resources: 1,
		},
		{
			name:      "Negative duration",
			jobs:      [][]TaskSpec{{{Resource: 0, Duration: -2}}},
			resources: 1,
		},
		{
			name:      "Negative resource id",
			jobs:      [][]TaskSpec{{{Resource: -1, Duration: 1}}},
			resources: 1,
		},
		{
			name:      "Resource id beyond the declared count",
			jobs:      [][]TaskSpec{{{Resource: 3, Duration: 1}}},
			resources: 3,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewInstanceWithResources(c.jobs, c.resources)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
