package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"github.com/limaJavier/jobshop/pkg/schedule"
	"github.com/spf13/cobra"
)

var (
	filePath      string
	outFile       string
	timeLimit     time.Duration
	enumerate     bool
	solutionLimit int
)

var rootCmd = &cobra.Command{
	Use:   "jobshop",
	Short: "Disjunctive scheduling over a constraint-programming core",
	Long: `jobshop builds disjunctive scheduling models (exclusive resources,
per-job precedence chains, minimized makespan) and batch-transfer models
(categorical input/output choices over a shared volume buffer), solves them
and prints the decoded, independently validated schedule as JSON.`,
	SilenceUsage: true,
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a job-shop instance and print the per-resource timetable",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(filePath)
		if err != nil {
			return err
		}
		inst, err := input.Instance()
		if err != nil {
			return err
		}

		scheduler := schedule.NewScheduler()
		opts := schedule.Options{TimeLimit: timeLimit, SolutionLimit: solutionLimit}

		if enumerate {
			schedules, err := scheduler.Enumerate(context.Background(), inst, opts)
			if err != nil {
				return err
			}
			var all []*schedule.Schedule
			for sched := range schedules {
				all = append(all, sched)
			}
			return writeReport(all)
		}

		sched, err := scheduler.Build(context.Background(), inst, opts)
		if err != nil {
			return err
		}
		return writeReport(sched)
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Solve a batch-transfer instance over a shared volume buffer",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readBatchInput(filePath)
		if err != nil {
			return err
		}
		problem, err := schedule.NewBatchProblem(input)
		if err != nil {
			return err
		}

		sched, err := schedule.NewBatchScheduler().Build(context.Background(), problem, schedule.Options{TimeLimit: timeLimit})
		if err != nil {
			return err
		}
		return writeReport(sched)
	},
}

// readInput dispatches on the file extension: .yaml/.yml parse as YAML,
// everything else as JSON.
func readInput(file string) (schedule.Input, error) {
	if isYAML(file) {
		return schedule.InputFromYAML(file)
	}
	return schedule.InputFromJSON(file)
}

func readBatchInput(file string) (schedule.BatchInput, error) {
	if isYAML(file) {
		return schedule.BatchInputFromYAML(file)
	}
	return schedule.BatchInputFromJSON(file)
}

func isYAML(file string) bool {
	ext := strings.ToLower(path.Ext(file))
	return ext == ".yaml" || ext == ".yml"
}

// writeReport marshals the result and writes it to the output file, or to
// the standard output when no output file was specified.
func writeReport(report any) error {
	bytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("an error occurred while building output json: %w", err)
	}
	if outFile == "" {
		fmt.Println(string(bytes))
		return nil
	}
	return os.WriteFile(outFile, bytes, 0666)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "", "Path to the input file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&outFile, "out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	rootCmd.PersistentFlags().DurationVar(&timeLimit, "time-limit", 0, "Wall-clock budget for the solver; 0 means no limit")
	rootCmd.MarkPersistentFlagRequired("file")

	solveCmd.Flags().BoolVar(&enumerate, "enumerate", false, "Enumerate feasible schedules instead of minimizing the makespan")
	solveCmd.Flags().IntVar(&solutionLimit, "limit", 0, "Cap on enumerated solutions; 0 means all")

	rootCmd.AddCommand(solveCmd, batchCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("jobshop failed: %v", err)
	}
}
