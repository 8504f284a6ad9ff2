package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/limaJavier/jobshop/pkg/schedule"

	"github.com/samber/lo"
)

type InstanceShape struct {
	Jobs        int
	Resources   int
	MaxDuration int
}

type BenchmarkResult struct {
	Shape    InstanceShape
	Status   string
	Makespan int
	Horizon  int
	Duration int64
}

var (
	seed      = flag.Int64("seed", 1, "seed for the instance generator")
	timeLimit = flag.Duration("time-limit", 30*time.Second, "wall-clock budget per solve")
	outFile   = flag.String("out", "benchmark_results.csv", "path of the CSV report")
)

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	shapes := getShapes()
	results := make([]BenchmarkResult, 0, len(shapes))

	for _, shape := range shapes {
		fmt.Printf("Benchmarking %v jobs over %v resources (durations up to %v)\n", shape.Jobs, shape.Resources, shape.MaxDuration)

		inst := lo.Must(generateInstance(rng, shape))
		start := time.Now()
		sched, err := schedule.NewScheduler().Build(context.Background(), inst, schedule.Options{TimeLimit: *timeLimit})
		if err != nil {
			log.Fatalf("an error occurred while solving a %v-job instance: %v", shape.Jobs, err)
		}

		results = append(results, BenchmarkResult{
			Shape:    shape,
			Status:   sched.Status.String(),
			Makespan: sched.Makespan,
			Horizon:  inst.Horizon(),
			Duration: time.Since(start).Milliseconds(),
		})
	}

	toCsv(results)
}

func getShapes() []InstanceShape {
	return []InstanceShape{
		{Jobs: 2, Resources: 2, MaxDuration: 5},
		{Jobs: 3, Resources: 3, MaxDuration: 5},
		{Jobs: 3, Resources: 3, MaxDuration: 9},
		{Jobs: 4, Resources: 3, MaxDuration: 5},
		{Jobs: 4, Resources: 4, MaxDuration: 7},
		{Jobs: 5, Resources: 4, MaxDuration: 5},
	}
}

// generateInstance draws one task per resource for every job, in a random
// resource order, with durations in [1, MaxDuration].
func generateInstance(rng *rand.Rand, shape InstanceShape) (*schedule.Instance, error) {
	jobs := make([][]schedule.TaskSpec, shape.Jobs)
	for j := range jobs {
		order := rng.Perm(shape.Resources)
		jobs[j] = lo.Map(order, func(resource, _ int) schedule.TaskSpec {
			return schedule.TaskSpec{
				Resource: resource,
				Duration: 1 + rng.Intn(shape.MaxDuration),
			}
		})
	}
	return schedule.NewInstanceWithResources(jobs, shape.Resources)
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create(*outFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Jobs", "Resources", "MaxDuration", "Status", "Makespan", "Horizon", "Duration(ms)"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			fmt.Sprintf("%d", result.Shape.Jobs),
			fmt.Sprintf("%d", result.Shape.Resources),
			fmt.Sprintf("%d", result.Shape.MaxDuration),
			result.Status,
			fmt.Sprintf("%d", result.Makespan),
			fmt.Sprintf("%d", result.Horizon),
			fmt.Sprintf("%d", result.Duration),
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}
