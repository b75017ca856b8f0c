// internal/rpc/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/gbt-tool/internal/rpc"
)

// registerClient is the subset of modbus.Client the mailbox needs.
type registerClient interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Session is a single Modbus connection to one backend board mailbox.
// It serializes calls because every call stages arguments in shared registers.
type Session struct {
	mu      sync.Mutex
	handler io.Closer
	client  registerClient
}

var _ rpc.Session = (*Session)(nil)

// Transport names.
const (
	TransportTCP = "tcp"
	TransportRTU = "rtu"
)

type Config struct {
	Transport string
	Endpoint  string
	UnitID    uint8
	Timeout   time.Duration
	BaudRate  int

	// Logger, if set, receives goburrow frame dumps.
	Logger *log.Logger
}

// Open connects to the board and checks the mailbox identity once.
func Open(cfg Config) (*Session, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("rpc modbus: endpoint required")
	}

	var (
		handler modbus.ClientHandler
		conn    interface {
			Connect() error
			Close() error
		}
	)

	switch cfg.Transport {
	case "", TransportTCP:
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.SlaveId = cfg.UnitID
		if cfg.Timeout > 0 {
			h.Timeout = cfg.Timeout
		}
		h.Logger = cfg.Logger
		handler, conn = h, h

	case TransportRTU:
		h := modbus.NewRTUClientHandler(cfg.Endpoint)
		h.SlaveId = cfg.UnitID
		if cfg.Timeout > 0 {
			h.Timeout = cfg.Timeout
		}
		if cfg.BaudRate > 0 {
			h.BaudRate = cfg.BaudRate
		}
		h.Logger = cfg.Logger
		handler, conn = h, h

	default:
		return nil, fmt.Errorf("rpc modbus: unknown transport %q", cfg.Transport)
	}

	if err := conn.Connect(); err != nil {
		return nil, fmt.Errorf("rpc modbus: connect %s: %w", cfg.Endpoint, err)
	}

	s := newSession(modbus.NewClient(handler), conn)
	if err := s.checkIdentity(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rpc modbus: %s: %w", cfg.Endpoint, err)
	}

	return s, nil
}

func newSession(client registerClient, handler io.Closer) *Session {
	return &Session{
		handler: handler,
		client:  client,
	}
}

// Close closes the underlying connection.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handler == nil {
		return nil
	}
	return s.handler.Close()
}

// ---- rpc.Session ----

func (s *Session) WriteGBTConfig(ohN, gbtN uint32, config []byte) error {
	if len(config) > PayloadMaxBytes {
		return fmt.Errorf("rpc modbus: config blob %d bytes exceeds %d", len(config), PayloadMaxBytes)
	}

	args, err := packArgs(ohN, gbtN, uint32(len(config)))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeRegisters(RegPayload, packBytes(config)); err != nil {
		return fmt.Errorf("rpc modbus: stage payload: %w", err)
	}
	return s.call(rpc.OpWriteGBTConfig, OpcodeWriteGBTConfig, args)
}

func (s *Session) ScanGBTPhases(out []uint32, ohN, nRepetitions, phaseMin, phaseMax, phaseStep, nVFAT uint32) error {
	if nVFAT > MaxVFATs {
		return fmt.Errorf("rpc modbus: nVFAT %d exceeds %d", nVFAT, MaxVFATs)
	}
	n := int(nVFAT) * PhasesPerVFAT
	if len(out) < n {
		return fmt.Errorf("rpc modbus: result buffer holds %d counters, need %d", len(out), n)
	}

	args, err := packArgs(ohN, nRepetitions>>16, nRepetitions&0xffff, phaseMin, phaseMax, phaseStep, nVFAT)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.call(rpc.OpScanGBTPhases, OpcodeScanGBTPhases, args); err != nil {
		return err
	}

	raw, err := s.readRegisters(RegResults, uint16(n*2))
	if err != nil {
		return fmt.Errorf("rpc modbus: read scan results: %w", err)
	}
	for i := 0; i < n; i++ {
		out[i] = uint32(raw[4*i])<<24 | uint32(raw[4*i+1])<<16 | uint32(raw[4*i+2])<<8 | uint32(raw[4*i+3])
	}
	return nil
}

func (s *Session) WriteGBTPhase(ohN, vfatN, phase uint32) error {
	args, err := packArgs(ohN, vfatN, phase)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.call(rpc.OpWriteGBTPhase, OpcodeWriteGBTPhase, args)
}

// ---- mailbox helpers ----

// call stages args, triggers the opcode and reads back the status.
// The opcode write returns once the board has executed the call.
func (s *Session) call(op string, opcode uint16, args []uint16) error {
	if err := s.writeRegisters(RegArgs, args); err != nil {
		return fmt.Errorf("rpc modbus: %s: stage args: %w", op, err)
	}
	if _, err := s.client.WriteSingleRegister(RegOpcode, opcode); err != nil {
		return fmt.Errorf("rpc modbus: %s: trigger: %w", op, err)
	}

	raw, err := s.readRegisters(RegStatus, 2)
	if err != nil {
		return fmt.Errorf("rpc modbus: %s: read status: %w", op, err)
	}
	status := uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])

	return rpc.CheckStatus(op, status)
}

func (s *Session) checkIdentity() error {
	raw, err := s.readRegisters(RegMagic, 2)
	if err != nil {
		return fmt.Errorf("read mailbox identity: %w", err)
	}
	regs := unpackRegisters(raw)
	if regs[0] != MailboxMagic {
		return fmt.Errorf("not a GBT mailbox (magic 0x%04x)", regs[0])
	}
	if regs[1] != MailboxVersion {
		return fmt.Errorf("unsupported mailbox version %d", regs[1])
	}
	return nil
}

// writeRegisters splits regs into FC16-sized frames.
func (s *Session) writeRegisters(addr uint16, regs []uint16) error {
	for start := 0; start < len(regs); start += maxWriteQty {
		end := start + maxWriteQty
		if end > len(regs) {
			end = len(regs)
		}
		chunk := regs[start:end]
		if _, err := s.client.WriteMultipleRegisters(addr+uint16(start), uint16(len(chunk)), packRegisters(chunk)); err != nil {
			return err
		}
	}
	return nil
}

// readRegisters reads qty registers in FC3-sized frames and returns the raw bytes.
func (s *Session) readRegisters(addr, qty uint16) ([]byte, error) {
	out := make([]byte, 0, int(qty)*2)
	for start := uint16(0); start < qty; start += maxReadQty {
		n := qty - start
		if n > maxReadQty {
			n = maxReadQty
		}
		b, err := s.client.ReadHoldingRegisters(addr+start, n)
		if err != nil {
			return nil, err
		}
		if len(b) != int(n)*2 {
			return nil, fmt.Errorf("short read at %d: got %d bytes want %d", addr+start, len(b), n*2)
		}
		out = append(out, b...)
	}
	return out, nil
}

// ---- helpers (pure geometry) ----

func packArgs(vals ...uint32) ([]uint16, error) {
	if len(vals) > ArgSlots {
		return nil, fmt.Errorf("rpc modbus: %d args exceed %d slots", len(vals), ArgSlots)
	}
	out := make([]uint16, len(vals))
	for i, v := range vals {
		if v > 0xffff {
			return nil, fmt.Errorf("rpc modbus: arg%d value %d does not fit a register", i, v)
		}
		out[i] = uint16(v)
	}
	return out, nil
}

func packBytes(b []byte) []uint16 {
	out := make([]uint16, (len(b)+1)/2)
	for i, v := range b {
		if i%2 == 0 {
			out[i/2] |= uint16(v) << 8
		} else {
			out[i/2] |= uint16(v)
		}
	}
	return out
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
