// Package toroconfig loads a small YAML scenario file for the torocli
// demonstration binary: a handful of tasks and a single chain.
//
// This is deliberately not a general task-set or CSV parser — spec.md
// excludes an oracle-driven model importer from scope, and toroconfig does
// not try to be one. Every field a Scenario needs (WCRT, BCRT, LET) must be
// given literally; there is no WCET-to-WCRT estimation here.
package toroconfig

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/IDA-TUBS/TORO/model"
)

// ErrNoChain indicates a scenario file declared no chain.
var ErrNoChain = errors.New("toroconfig: scenario declares no chain")

// TaskSpec is the YAML shape of one task entry.
type TaskSpec struct {
	ID           string `yaml:"id"`
	Period       int64  `yaml:"period"`
	Offset       int64  `yaml:"offset"`
	Semantic     string `yaml:"semantic"` // "BET" or "LET"
	BCET         int64  `yaml:"bcet,omitempty"`
	WCET         int64  `yaml:"wcet,omitempty"`
	WCRT         int64  `yaml:"wcrt,omitempty"`
	BCRT         int64  `yaml:"bcrt,omitempty"`
	LET          int64  `yaml:"let,omitempty"`
	Interconnect bool   `yaml:"interconnect,omitempty"`
	Deadline     *int64 `yaml:"deadline,omitempty"`
}

// ChainSpec is the YAML shape of the single chain a scenario describes.
type ChainSpec struct {
	Name               string   `yaml:"name"`
	Tasks              []string `yaml:"tasks"`
	Deadline           *int64   `yaml:"deadline,omitempty"`
	TransitionDeadline *int64   `yaml:"transition_deadline,omitempty"`
}

// Scenario is the top-level YAML document: a task catalog and one chain.
type Scenario struct {
	Tasks []TaskSpec `yaml:"tasks"`
	Chain ChainSpec  `yaml:"chain"`
}

// Load reads and parses a Scenario from path.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("toroconfig: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a Scenario from raw YAML bytes.
func Parse(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("toroconfig: parsing scenario: %w", err)
	}
	if len(s.Chain.Tasks) == 0 {
		return Scenario{}, ErrNoChain
	}
	return s, nil
}

// Build converts the scenario's task catalog into model.Task values keyed
// by ID, and a matching model.TaskParams map. Validate is not called here;
// callers should call (*model.Task).Validate() themselves if they want
// early, per-task error reporting instead of errors surfacing during graph
// construction.
func (s Scenario) Build() (map[string]*model.Task, map[string]model.TaskParams, error) {
	tasks := make(map[string]*model.Task, len(s.Tasks))
	params := make(map[string]model.TaskParams, len(s.Tasks))

	for _, spec := range s.Tasks {
		sem, err := parseSemantic(spec.Semantic)
		if err != nil {
			return nil, nil, fmt.Errorf("toroconfig: task %s: %w", spec.ID, err)
		}

		tasks[spec.ID] = &model.Task{
			ID:           spec.ID,
			Period:       spec.Period,
			Offset:       spec.Offset,
			BCET:         spec.BCET,
			WCET:         spec.WCET,
			Semantic:     sem,
			LET:          spec.LET,
			Interconnect: spec.Interconnect,
			Deadline:     spec.Deadline,
		}
		params[spec.ID] = model.TaskParams{
			WCRT:      spec.WCRT,
			BCRT:      spec.BCRT,
			LET:       spec.LET,
			WCRTKnown: spec.WCRT > 0,
		}
	}

	return tasks, params, nil
}

// ToChain converts the scenario's chain declaration into a model.Chain.
func (s Scenario) ToChain() *model.Chain {
	return &model.Chain{
		Name:               s.Chain.Name,
		TaskIDs:            s.Chain.Tasks,
		Deadline:           s.Chain.Deadline,
		TransitionDeadline: s.Chain.TransitionDeadline,
	}
}

func parseSemantic(s string) (model.Semantic, error) {
	switch s {
	case "BET", "bet", "":
		return model.BET, nil
	case "LET", "let":
		return model.LET, nil
	default:
		return 0, fmt.Errorf("unknown semantic %q", s)
	}
}
