// internal/rpc/rpc.go
package rpc

import "fmt"

// Remote operation names, used in StatusError and logs.
const (
	OpWriteGBTConfig = "writeGBTConfig"
	OpScanGBTPhases  = "scanGBTPhases"
	OpWriteGBTPhase  = "writeGBTPhase"
)

// Session abstracts the remote operations the orchestration layer needs.
// Every call blocks until the board answers. No retries.
type Session interface {
	// WriteGBTConfig writes a full configuration blob to GBT gbtN of OH ohN.
	WriteGBTConfig(ohN, gbtN uint32, config []byte) error

	// ScanGBTPhases fills out with nVFAT*16 success counters, indexed [vfat*16+phase].
	ScanGBTPhases(out []uint32, ohN, nRepetitions, phaseMin, phaseMax, phaseStep, nVFAT uint32) error

	// WriteGBTPhase writes the RX phase of one VFAT.
	WriteGBTPhase(ohN, vfatN, phase uint32) error

	Close() error
}

// Dialer resolves a backend board alias into a live Session.
type Dialer interface {
	Connect(alias string) (Session, error)
}

// StatusError carries a non-zero status returned by the board.
type StatusError struct {
	Op   string
	Code uint32
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rpc %s: status %d", e.Op, e.Code)
}

// ErrorCode exposes the raw board status.
func (e *StatusError) ErrorCode() uint32 { return e.Code }

// CheckStatus converts a raw board status into an error.
func CheckStatus(op string, status uint32) error {
	if status == 0 {
		return nil
	}
	return &StatusError{Op: op, Code: status}
}
