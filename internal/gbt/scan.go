// internal/gbt/scan.go
package gbt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tamzrod/gbt-tool/internal/ohmask"
	"github.com/tamzrod/gbt-tool/internal/rpc"
)

// PhasesPerVFAT is the number of phase settings exercised per VFAT.
const PhasesPerVFAT = MaxPhase + 1

// MaxVFATs bounds the chips scanned per OH.
const MaxVFATs = 32

// ScanResult holds nVFAT*PhasesPerVFAT success counters, indexed [vfat*16+phase].
type ScanResult []uint32

// NewScanResult allocates a zeroed blob for nVFAT chips.
func NewScanResult(nVFAT int) ScanResult {
	return make(ScanResult, nVFAT*PhasesPerVFAT)
}

// NVFATs returns the number of chips covered by the blob.
func (r ScanResult) NVFATs() int { return len(r) / PhasesPerVFAT }

// At returns the number of good repetitions of vfatN at phase.
func (r ScanResult) At(vfatN, phase int) uint32 {
	return r[vfatN*PhasesPerVFAT+phase]
}

// ScanOptions selects what Scan exercises and where results go.
type ScanOptions struct {
	Mask        ohmask.Mask
	NOHs        int
	Repetitions int
	NVFATs      int

	// Silent suppresses the per-OH console tables.
	Silent bool

	// OutputFile, if set, receives every (OH, VFAT, phase) row.
	OutputFile string

	// Out receives the tables; nil means os.Stdout.
	Out io.Writer
}

// Scan runs the VFAT phase scan on every OH selected by the mask.
// The first failing OH aborts the scan; results gathered so far are discarded.
func Scan(d rpc.Dialer, card string, opts ScanOptions) (map[int]ScanResult, error) {
	if err := checkSlots(opts.NOHs); err != nil {
		return nil, err
	}
	if opts.NVFATs < 1 || opts.NVFATs > MaxVFATs {
		return nil, fmt.Errorf("%w: number of VFATs %d out of range [1,%d]", ErrUsage, opts.NVFATs, MaxVFATs)
	}
	if opts.Repetitions < 1 {
		return nil, fmt.Errorf("%w: number of repetitions must be > 0", ErrUsage)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	sess, err := connect(d, card)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	results := make(map[int]ScanResult)

	for _, ohN := range opts.Mask.Slots(opts.NOHs) {
		// Scan phases
		blob := NewScanResult(opts.NVFATs)
		if err := sess.ScanGBTPhases(blob, uint32(ohN), uint32(opts.Repetitions), 0, MaxPhase, 1, uint32(opts.NVFATs)); err != nil {
			return nil, fmt.Errorf("%w: phase scan failed on OH%d: %w", ErrRemote, ohN, err)
		}
		results[ohN] = blob

		// stdout output
		if !opts.Silent {
			banner := strings.Repeat("=", 20)
			fmt.Fprintln(out, banner)
			fmt.Fprintf(out, "Phase Scan Results for OH%d\n", ohN)
			fmt.Fprintln(out, banner)
			if err := PrintScanResults(out, blob); err != nil {
				return nil, err
			}
		}

		// File output
		if opts.OutputFile != "" {
			if err := SaveScanResults(opts.OutputFile, ohN, blob, opts.Repetitions); err != nil {
				return nil, err
			}
		}
	}

	return results, nil
}
