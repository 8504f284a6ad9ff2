package schedule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Input is the raw on-disk shape of a scheduling problem. Resources may be
// omitted (zero), in which case the resource set is derived from the ids
// observed in the jobs.
type Input struct {
	Resources int          `json:"resources" yaml:"resources" mapstructure:"resources"`
	Jobs      [][]TaskSpec `json:"jobs" yaml:"jobs" mapstructure:"jobs"`
}

// InputFromJSON parses a problem file of the form
// {"resources": 3, "jobs": [[{"resource": 0, "duration": 3}, ...], ...]}.
func InputFromJSON(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, fmt.Errorf("cannot read input file: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return Input{}, fmt.Errorf("cannot parse input file: %w", err)
	}

	var input Input
	if err := mapstructure.Decode(raw, &input); err != nil {
		return Input{}, fmt.Errorf("cannot decode input file: %w", err)
	}
	return input, nil
}

// InputFromYAML parses the same shape from a YAML file.
func InputFromYAML(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, fmt.Errorf("cannot read input file: %w", err)
	}
	var input Input
	if err := yaml.Unmarshal(bytes, &input); err != nil {
		return Input{}, fmt.Errorf("cannot parse input file: %w", err)
	}
	return input, nil
}

// Instance validates the raw input into a typed problem instance.
func (in Input) Instance() (*Instance, error) {
	if in.Resources > 0 {
		return NewInstanceWithResources(in.Jobs, in.Resources)
	}
	return NewInstance(in.Jobs)
}
