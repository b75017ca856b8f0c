// internal/gbt/phasemap.go
package gbt

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// phaseFile is the on-disk layout of a fleet phase assignment.
//
//	phases:
//	  0: [7, 8, skip, 6]
//	  2: [0xdeaddead, 3]
type phaseFile struct {
	Phases map[int][]Phase `yaml:"phases"`
}

// phaseList decodes one OH's phases. The list position is the VFAT number,
// so empty entries are rejected rather than dropped.
type phaseList []Phase

func (l *phaseList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: line %d: phases must be a list", ErrValidation, n.Line)
	}
	out := make(phaseList, 0, len(n.Content))
	for i, c := range n.Content {
		if c.ShortTag() == "!!null" {
			return fmt.Errorf("%w: line %d: VFAT%d has no phase, use skip", ErrValidation, c.Line, i)
		}
		var p Phase
		if err := p.UnmarshalYAML(c); err != nil {
			return fmt.Errorf("VFAT%d: %w", i, err)
		}
		out = append(out, p)
	}
	*l = out
	return nil
}

// LoadPhaseMap reads per-OH phase lists from a YAML file.
func LoadPhaseMap(path string) (map[int][]Phase, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read phase file %s: %v", ErrValidation, path, err)
	}

	var pf struct {
		Phases map[int]phaseList `yaml:"phases"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		return nil, fmt.Errorf("%w: phase file %s: %v", ErrValidation, path, err)
	}

	phases := make(map[int][]Phase, len(pf.Phases))
	for ohN, list := range pf.Phases {
		if ohN < 0 {
			return nil, fmt.Errorf("%w: phase file %s: negative OH %d", ErrValidation, path, ohN)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: phase file %s: OH%d has no phases", ErrValidation, path, ohN)
		}
		if len(list) > MaxVFATs {
			return nil, fmt.Errorf("%w: phase file %s: OH%d lists %d phases, at most %d VFATs",
				ErrValidation, path, ohN, len(list), MaxVFATs)
		}
		phases[ohN] = list
	}

	return phases, nil
}

// SavePhaseMap writes per-OH phase lists in the layout LoadPhaseMap reads.
func SavePhaseMap(path string, phases map[int][]Phase) error {
	b, err := yaml.Marshal(phaseFile{Phases: phases})
	if err != nil {
		return fmt.Errorf("phase file %s: %w", path, err)
	}
	return os.WriteFile(path, b, 0o644)
}
