// internal/gbt/phase.go
package gbt

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxPhase is the highest VFAT RX phase setting.
const MaxPhase = 15

// legacySkip is the sentinel older phase files use for "do not write".
const legacySkip = 0xdeaddead

// Phase is a per-VFAT phase assignment: a value in [0,MaxPhase] or Skip.
// The zero value is phase 0.
type Phase struct {
	value uint8
	skip  bool
}

// SkipPhase leaves the VFAT untouched.
var SkipPhase = Phase{skip: true}

// PhaseValue returns a concrete phase. v must be <= MaxPhase.
func PhaseValue(v uint8) Phase {
	return Phase{value: v}
}

// IsSkip reports whether the chip should be left untouched.
func (p Phase) IsSkip() bool { return p.skip }

// Value returns the phase setting; ok is false for SkipPhase.
func (p Phase) Value() (v uint8, ok bool) {
	return p.value, !p.skip
}

func (p Phase) String() string {
	if p.skip {
		return "skip"
	}
	return strconv.Itoa(int(p.value))
}

// ParsePhase accepts a decimal or 0x-prefixed value in [0,15],
// "skip"/"bad", or the legacy 0xdeaddead sentinel.
func ParsePhase(s string) (Phase, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "skip", "bad":
		return SkipPhase, nil
	}

	v, err := parsePhaseNumber(s)
	if err != nil {
		return Phase{}, fmt.Errorf("%w: invalid phase %q", ErrValidation, s)
	}
	if v == legacySkip {
		return SkipPhase, nil
	}
	if v > MaxPhase {
		return Phase{}, fmt.Errorf("%w: phase %d out of range [0,%d]", ErrValidation, v, MaxPhase)
	}
	return PhaseValue(uint8(v)), nil
}

// parsePhaseNumber reads decimal, or hex with a 0x prefix. A leading zero
// is still decimal.
func parsePhaseNumber(s string) (uint64, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return strconv.ParseUint(s[2:], 16, 32)
	}
	return strconv.ParseUint(s, 10, 32)
}

// ParsePhases parses a list of phase arguments; index is the VFAT number.
func ParsePhases(args []string) ([]Phase, error) {
	out := make([]Phase, 0, len(args))
	for i, a := range args {
		p, err := ParsePhase(a)
		if err != nil {
			return nil, fmt.Errorf("VFAT%d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// UnmarshalYAML accepts the same notations as ParsePhase.
func (p *Phase) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: phase must be a scalar", ErrValidation, n.Line)
	}
	v, err := ParsePhase(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*p = v
	return nil
}

// MarshalYAML writes skip as the "skip" keyword.
func (p Phase) MarshalYAML() (interface{}, error) {
	if p.skip {
		return "skip", nil
	}
	return int(p.value), nil
}
