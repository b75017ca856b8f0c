// internal/rpc/sim/board.go
package sim

import (
	"fmt"
	"sync"

	"github.com/tamzrod/gbt-tool/internal/rpc"
)

// Status codes returned by the simulated board.
const (
	StatusOK       uint32 = 0
	StatusBadArgs  uint32 = 2
	StatusInjected uint32 = 0xff
)

const (
	phasesPerVFAT    = 16
	goodWindowRadius = 2
)

// Board is an in-memory backend with a fixed number of OH slots.
// It records every configuration and phase written to it.
type Board struct {
	mu sync.Mutex

	nOHs    int
	configs map[[2]uint32][]byte
	phases  map[[2]uint32]uint32
	calls   []string

	// failOp, if set, makes every call of that op return StatusInjected.
	failOp string
}

// NewBoard returns a board with nOHs optohybrid slots.
func NewBoard(nOHs int) *Board {
	return &Board{
		nOHs:    nOHs,
		configs: make(map[[2]uint32][]byte),
		phases:  make(map[[2]uint32]uint32),
	}
}

// FailOp makes every later call of op fail with StatusInjected.
func (b *Board) FailOp(op string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failOp = op
}

// Config returns the last blob written to (ohN, gbtN).
func (b *Board) Config(ohN, gbtN uint32) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.configs[[2]uint32{ohN, gbtN}]
	return c, ok
}

// Phase returns the last phase written to (ohN, vfatN).
func (b *Board) Phase(ohN, vfatN uint32) (uint32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.phases[[2]uint32{ohN, vfatN}]
	return p, ok
}

// Calls returns a log of executed calls as "op OH<n>".
func (b *Board) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// ---- rpc.Dialer ----

// Dialer hands out sessions on one shared Board regardless of alias.
type Dialer struct {
	Board *Board
}

var _ rpc.Dialer = Dialer{}

func (d Dialer) Connect(alias string) (rpc.Session, error) {
	if d.Board == nil {
		return nil, fmt.Errorf("sim: no board behind alias %q", alias)
	}
	return &session{b: d.Board}, nil
}

// ---- rpc.Session ----

type session struct {
	b      *Board
	closed bool
}

func (s *session) WriteGBTConfig(ohN, gbtN uint32, config []byte) error {
	return s.b.exec(rpc.OpWriteGBTConfig, ohN, func() uint32 {
		if gbtN > 2 {
			return StatusBadArgs
		}
		s.b.configs[[2]uint32{ohN, gbtN}] = append([]byte(nil), config...)
		return StatusOK
	})
}

func (s *session) ScanGBTPhases(out []uint32, ohN, nRepetitions, phaseMin, phaseMax, phaseStep, nVFAT uint32) error {
	return s.b.exec(rpc.OpScanGBTPhases, ohN, func() uint32 {
		if phaseMax >= phasesPerVFAT || phaseMin > phaseMax || phaseStep == 0 {
			return StatusBadArgs
		}
		if len(out) < int(nVFAT)*phasesPerVFAT {
			return StatusBadArgs
		}
		for vfatN := uint32(0); vfatN < nVFAT; vfatN++ {
			center := (ohN*3 + vfatN*5) % phasesPerVFAT
			for phase := phaseMin; phase <= phaseMax; phase += phaseStep {
				out[vfatN*phasesPerVFAT+phase] = successes(center, phase, nRepetitions)
			}
		}
		return StatusOK
	})
}

func (s *session) WriteGBTPhase(ohN, vfatN, phase uint32) error {
	return s.b.exec(rpc.OpWriteGBTPhase, ohN, func() uint32 {
		if phase >= phasesPerVFAT {
			return StatusBadArgs
		}
		s.b.phases[[2]uint32{ohN, vfatN}] = phase
		return StatusOK
	})
}

func (s *session) Close() error {
	s.closed = true
	return nil
}

// exec runs one call under the board lock and converts its status.
func (b *Board) exec(op string, ohN uint32, fn func() uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, fmt.Sprintf("%s OH%d", op, ohN))

	if op == b.failOp {
		return rpc.CheckStatus(op, StatusInjected)
	}
	if int(ohN) >= b.nOHs {
		return rpc.CheckStatus(op, StatusBadArgs)
	}
	return rpc.CheckStatus(op, fn())
}

// successes models a good-phase window around center that wraps at 16.
func successes(center, phase, nRepetitions uint32) uint32 {
	d := int(phase) - int(center)
	if d < 0 {
		d = -d
	}
	if d > phasesPerVFAT/2 {
		d = phasesPerVFAT - d
	}
	switch {
	case d <= goodWindowRadius:
		return nRepetitions
	case d == goodWindowRadius+1:
		return nRepetitions / 2
	default:
		return 0
	}
}
