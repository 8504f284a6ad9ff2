package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInstance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	shape := InstanceShape{Jobs: 4, Resources: 3, MaxDuration: 5}

	inst, err := generateInstance(rng, shape)
	require.NoError(t, err)

	assert.Equal(t, shape.Jobs, inst.Jobs())
	assert.Equal(t, shape.Resources, inst.ResourceCount())

	for job := 0; job < inst.Jobs(); job++ {
		seen := make(map[int]bool)
		for index := 0; index < inst.JobLen(job); index++ {
			task := inst.Task(job, index)
			assert.GreaterOrEqual(t, task.Duration, 1)
			assert.LessOrEqual(t, task.Duration, shape.MaxDuration)
			assert.False(t, seen[task.Resource], "resource repeated within a job")
			seen[task.Resource] = true
		}
		assert.Len(t, seen, shape.Resources)
	}
}

func TestGenerateInstanceIsDeterministic(t *testing.T) {
	shape := InstanceShape{Jobs: 3, Resources: 3, MaxDuration: 7}

	first, err := generateInstance(rand.New(rand.NewSource(7)), shape)
	require.NoError(t, err)
	second, err := generateInstance(rand.New(rand.NewSource(7)), shape)
	require.NoError(t, err)

	assert.Equal(t, first.Tasks(), second.Tasks())
}
