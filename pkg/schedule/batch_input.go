package schedule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// TransferOption is one categorical choice for feeding or draining a batch,
// with the transfer duration that choice implies.
type TransferOption struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	Duration int    `json:"duration" yaml:"duration" mapstructure:"duration"`
}

// BatchInput is the raw on-disk shape of a batch-scheduling problem: a batch
// count, the categorical input/output tables, the fixed transfer volume, the
// buffer volume ceiling and the time ceiling.
type BatchInput struct {
	Batches        int              `json:"batches" yaml:"batches" mapstructure:"batches"`
	Inputs         []TransferOption `json:"inputs" yaml:"inputs" mapstructure:"inputs"`
	Outputs        []TransferOption `json:"outputs" yaml:"outputs" mapstructure:"outputs"`
	TransferVolume int              `json:"transferVolume" yaml:"transferVolume" mapstructure:"transferVolume"`
	BufferCeiling  int              `json:"bufferCeiling" yaml:"bufferCeiling" mapstructure:"bufferCeiling"`
	TimeCeiling    int              `json:"timeCeiling" yaml:"timeCeiling" mapstructure:"timeCeiling"`
}

// BatchInputFromJSON parses a batch problem file.
func BatchInputFromJSON(file string) (BatchInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return BatchInput{}, fmt.Errorf("cannot read input file: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return BatchInput{}, fmt.Errorf("cannot parse input file: %w", err)
	}

	var input BatchInput
	if err := mapstructure.Decode(raw, &input); err != nil {
		return BatchInput{}, fmt.Errorf("cannot decode input file: %w", err)
	}
	return input, nil
}

// BatchInputFromYAML parses the same shape from a YAML file.
func BatchInputFromYAML(file string) (BatchInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return BatchInput{}, fmt.Errorf("cannot read input file: %w", err)
	}
	var input BatchInput
	if err := yaml.Unmarshal(bytes, &input); err != nil {
		return BatchInput{}, fmt.Errorf("cannot parse input file: %w", err)
	}
	return input, nil
}

// BatchProblem is a validated batch-scheduling instance.
type BatchProblem struct {
	Batches        int
	Inputs         []TransferOption
	Outputs        []TransferOption
	TransferVolume int
	BufferCeiling  int
	TimeCeiling    int
}

// NewBatchProblem validates raw batch input.
func NewBatchProblem(in BatchInput) (*BatchProblem, error) {
	if in.Batches <= 0 {
		return nil, fmt.Errorf("%w: batch count %d", ErrInvalidInput, in.Batches)
	}
	if len(in.Inputs) == 0 || len(in.Outputs) == 0 {
		return nil, fmt.Errorf("%w: input and output option tables must not be empty", ErrInvalidInput)
	}
	if in.TimeCeiling <= 0 {
		return nil, fmt.Errorf("%w: time ceiling %d", ErrInvalidInput, in.TimeCeiling)
	}
	for _, table := range [][]TransferOption{in.Inputs, in.Outputs} {
		for _, option := range table {
			if option.Duration <= 0 || option.Duration > in.TimeCeiling {
				return nil, fmt.Errorf("%w: option %q duration %d outside (0, %d]",
					ErrInvalidInput, option.Name, option.Duration, in.TimeCeiling)
			}
		}
	}
	if in.TransferVolume <= 0 {
		return nil, fmt.Errorf("%w: transfer volume %d", ErrInvalidInput, in.TransferVolume)
	}
	if in.BufferCeiling < in.TransferVolume {
		return nil, fmt.Errorf("%w: buffer ceiling %d below transfer volume %d",
			ErrInvalidInput, in.BufferCeiling, in.TransferVolume)
	}
	return &BatchProblem{
		Batches:        in.Batches,
		Inputs:         in.Inputs,
		Outputs:        in.Outputs,
		TransferVolume: in.TransferVolume,
		BufferCeiling:  in.BufferCeiling,
		TimeCeiling:    in.TimeCeiling,
	}, nil
}

func (p *BatchProblem) inputDurations() []int {
	durations := make([]int, len(p.Inputs))
	for i, option := range p.Inputs {
		durations[i] = option.Duration
	}
	return durations
}

func (p *BatchProblem) outputDurations() []int {
	durations := make([]int, len(p.Outputs))
	for i, option := range p.Outputs {
		durations[i] = option.Duration
	}
	return durations
}
