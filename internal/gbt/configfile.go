// internal/gbt/configfile.go
package gbt

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ConfigSize is the GBTX configuration length in registers.
const ConfigSize = 366

// ConfigRecord is one full GBTX register image.
type ConfigRecord [ConfigSize]uint8

// ReadConfigFile parses a text file of hex literals, one per line.
// Every line must parse; only the first ConfigSize values are kept.
func ReadConfigFile(path string) (ConfigRecord, error) {
	var rec ConfigRecord

	f, err := os.Open(path)
	if err != nil {
		return rec, fmt.Errorf("%w: open GBT config %s: %v", ErrValidation, path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		v, err := parseHexByte(sc.Text())
		if err != nil {
			return rec, fmt.Errorf("%w: GBT config %s line %d: %v", ErrValidation, path, n+1, err)
		}
		if n < ConfigSize {
			rec[n] = v
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return rec, fmt.Errorf("%w: read GBT config %s: %v", ErrValidation, path, err)
	}

	if n < ConfigSize {
		return rec, fmt.Errorf("%w: the configuration file %s is too short (%d of %d registers)",
			ErrValidation, path, n, ConfigSize)
	}

	return rec, nil
}

func parseHexByte(line string) (uint8, error) {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, fmt.Errorf("empty line")
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid register value %q", strings.TrimSpace(line))
	}
	return uint8(v), nil
}
