// internal/config/config.go
package config

import "github.com/tamzrod/gbt-tool/internal/ohmask"

// ---- DEFAULTS ----

const (
	DefaultTransport   = "tcp"
	DefaultUnitID      = 1
	DefaultTimeoutMs   = 2000
	DefaultBaudRate    = 115200
	DefaultNVFATs      = 24
	DefaultRepetitions = 100
)

type Config struct {
	GBT GBTConfig `yaml:"gbt"`
}

type GBTConfig struct {
	Cards    []CardConfig   `yaml:"cards"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ---- CARD ----

// CardConfig maps a backend board alias to its mailbox endpoint.
type CardConfig struct {
	Alias     string `yaml:"alias"`
	Transport string `yaml:"transport"` // tcp | rtu
	Endpoint  string `yaml:"endpoint"`  // host:port or serial device
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
	BaudRate  int    `yaml:"baud_rate"` // rtu only
}

// ---- OPERATION DEFAULTS ----

type DefaultsConfig struct {
	NOHs        int         `yaml:"n_ohs"`
	OHMask      ohmask.Mask `yaml:"oh_mask"`
	NVFATs      int         `yaml:"n_vfats"`
	Repetitions int         `yaml:"repetitions"`
}
