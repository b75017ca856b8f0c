// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/gbt-tool/internal/ohmask"
)

// maxVFATs matches the scan result area of the backend mailbox.
const maxVFATs = 32

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// CARD REGISTRY
	// ------------------------------------------------------------

	seen := make(map[string]struct{})

	for i, c := range cfg.GBT.Cards {
		if c.Alias == "" {
			return fmt.Errorf("card #%d: alias is required", i)
		}
		if _, dup := seen[c.Alias]; dup {
			return fmt.Errorf("card %q: duplicate alias", c.Alias)
		}
		seen[c.Alias] = struct{}{}

		switch c.Transport {
		case "tcp", "rtu":
		default:
			return fmt.Errorf("card %q: unknown transport %q (want tcp or rtu)", c.Alias, c.Transport)
		}

		if c.Endpoint == "" {
			return fmt.Errorf("card %q: endpoint is required", c.Alias)
		}
		if c.TimeoutMs < 0 {
			return fmt.Errorf("card %q: timeout_ms must be >= 0", c.Alias)
		}
		if c.BaudRate < 0 {
			return fmt.Errorf("card %q: baud_rate must be >= 0", c.Alias)
		}
	}

	// ------------------------------------------------------------
	// OPERATION DEFAULTS
	// ------------------------------------------------------------

	d := cfg.GBT.Defaults

	if d.NOHs < 1 || d.NOHs > ohmask.MaxOHs {
		return fmt.Errorf("defaults: n_ohs %d out of range [1,%d]", d.NOHs, ohmask.MaxOHs)
	}
	if !d.OHMask.Fits(d.NOHs) {
		return fmt.Errorf("defaults: oh_mask %s selects slots beyond n_ohs=%d", d.OHMask, d.NOHs)
	}
	if d.NVFATs < 1 || d.NVFATs > maxVFATs {
		return fmt.Errorf("defaults: n_vfats %d out of range [1,%d]", d.NVFATs, maxVFATs)
	}
	if d.Repetitions < 1 {
		return fmt.Errorf("defaults: repetitions must be > 0")
	}

	return nil
}
