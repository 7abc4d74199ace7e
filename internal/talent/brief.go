package talent

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ted-design/talentmatch/internal/measurement"
)

// Brief describes who a casting is looking for.
type Brief struct {
	Name         string       `json:"name,omitempty" yaml:"name"`
	Gender       string       `json:"gender" yaml:"gender" validate:"required"`
	Requirements Requirements `json:"requirements" yaml:"requirements" validate:"dive"`
}

// EmptyCastingBrief has no gender and no requirements.
var EmptyCastingBrief = Brief{}

// Requirement is one measurement range a brief asks for.
type Requirement struct {
	Key   measurement.Key `json:"key" yaml:"key" validate:"required,measurement_key"`
	Range `yaml:",inline"`
}

// Requirements keeps requirement entries in declaration order.
type Requirements []Requirement

// Get returns the range stored for key.
func (r Requirements) Get(key measurement.Key) (Range, bool) {
	for _, req := range r {
		if req.Key == key {
			return req.Range, true
		}
	}
	return Range{}, false
}

// Set returns a copy of r where key maps to rng. An existing entry keeps its
// position; a new one is appended.
func (r Requirements) Set(key measurement.Key, rng Range) Requirements {
	out := make(Requirements, len(r), len(r)+1)
	copy(out, r)
	for i := range out {
		if out[i].Key == key {
			out[i].Range = rng
			return out
		}
	}
	return append(out, Requirement{Key: key, Range: rng})
}

// Active returns the entries that carry at least one bound, in order.
func (r Requirements) Active() Requirements {
	out := make(Requirements, 0, len(r))
	for _, req := range r {
		if req.Active() {
			out = append(out, req)
		}
	}
	return out
}

// UnmarshalYAML accepts either a mapping (key: {min, max}) whose document
// order is preserved, or a list of {key, min, max} entries.
func (r *Requirements) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(Requirements, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var key string
			if err := node.Content[i].Decode(&key); err != nil {
				return fmt.Errorf("requirement key at line %d: %w", node.Content[i].Line, err)
			}
			var rng Range
			if err := node.Content[i+1].Decode(&rng); err != nil {
				return fmt.Errorf("requirement %q: %w", key, err)
			}
			out = out.Set(measurement.Key(key), rng)
		}
		*r = out
		return nil
	case yaml.SequenceNode:
		var list []Requirement
		if err := node.Decode(&list); err != nil {
			return err
		}
		*r = list
		return nil
	default:
		if node.Tag == "!!null" {
			*r = nil
			return nil
		}
		return fmt.Errorf("requirements at line %d: expected mapping or list", node.Line)
	}
}
