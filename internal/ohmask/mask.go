// internal/ohmask/mask.go
package ohmask

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxOHs is the widest slot mask supported.
const MaxOHs = 32

// DefaultOHs is the number of optohybrid slots on one backend board.
const DefaultOHs = 12

// All selects every slot of a DefaultOHs board.
const All Mask = 0xfff

// Mask is a bit-per-slot selector: bit n set means OH n is considered.
type Mask uint32

// Has reports whether slot ohN is selected.
func (m Mask) Has(ohN int) bool {
	if ohN < 0 || ohN >= MaxOHs {
		return false
	}
	return (uint32(m)>>uint(ohN))&0x1 == 1
}

// Slots returns the selected slots below nOHs, in ascending order.
func (m Mask) Slots(nOHs int) []int {
	if nOHs > MaxOHs {
		nOHs = MaxOHs
	}
	var out []int
	for ohN := 0; ohN < nOHs; ohN++ {
		// Skip masked OH's
		if !m.Has(ohN) {
			continue
		}
		out = append(out, ohN)
	}
	return out
}

// Fits reports whether no bit at or above nOHs is set.
func (m Mask) Fits(nOHs int) bool {
	if nOHs >= MaxOHs {
		return true
	}
	if nOHs <= 0 {
		return m == 0
	}
	return uint32(m)>>uint(nOHs) == 0
}

func (m Mask) String() string {
	return fmt.Sprintf("0x%x", uint32(m))
}

// Parse accepts hex (0x), binary (0b), octal (0o) or decimal notation.
func Parse(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("ohmask: invalid mask %q", s)
	}
	return Mask(v), nil
}

// Set implements pflag.Value so a Mask can be bound to a command flag.
func (m *Mask) Set(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Type implements pflag.Value.
func (m *Mask) Type() string { return "mask" }

// UnmarshalText lets YAML and flag decoders accept 0x/0b strings.
func (m *Mask) UnmarshalText(b []byte) error {
	return m.Set(string(b))
}
