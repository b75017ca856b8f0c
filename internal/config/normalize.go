// internal/config/normalize.go
package config

import "github.com/tamzrod/gbt-tool/internal/ohmask"

// Normalize fills zero values with defaults.
// It is allowed to mutate configuration.
// It MUST be called before Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for i := range cfg.GBT.Cards {
		c := &cfg.GBT.Cards[i]

		if c.Transport == "" {
			c.Transport = DefaultTransport
		}
		if c.UnitID == 0 {
			c.UnitID = DefaultUnitID
		}
		if c.TimeoutMs == 0 {
			c.TimeoutMs = DefaultTimeoutMs
		}
		if c.Transport == "rtu" && c.BaudRate == 0 {
			c.BaudRate = DefaultBaudRate
		}
	}

	d := &cfg.GBT.Defaults

	// A zero mask means "not set": select every slot.
	if d.NOHs == 0 {
		d.NOHs = ohmask.DefaultOHs
	}
	if d.OHMask == 0 {
		d.OHMask = ohmask.Mask(uint64(1)<<uint(min(d.NOHs, ohmask.MaxOHs)) - 1)
	}
	if d.NVFATs == 0 {
		d.NVFATs = DefaultNVFATs
	}
	if d.Repetitions == 0 {
		d.Repetitions = DefaultRepetitions
	}
}
