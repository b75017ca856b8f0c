// internal/rpc/modbus/client_test.go
package modbus

import (
	"errors"
	"testing"

	"github.com/tamzrod/gbt-tool/internal/rpc"
	"github.com/tamzrod/gbt-tool/internal/rpc/sim"
)

// ---- fake mailbox board ----

// fakeBoard is a register file that executes staged calls on a simulated board
// when the opcode register is written.
type fakeBoard struct {
	regs  [1024 + RegResults]uint16
	board *sim.Board
	sess  rpc.Session

	writes    int
	maxWrite  int
	maxRead   int
	failWrite bool
}

func newFakeBoard() *fakeBoard {
	b := sim.NewBoard(12)
	s, _ := sim.Dialer{Board: b}.Connect("test")
	f := &fakeBoard{board: b, sess: s}
	f.regs[RegMagic] = MailboxMagic
	f.regs[RegVersion] = MailboxVersion
	return f
}

func (f *fakeBoard) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	if int(quantity) > f.maxRead {
		f.maxRead = int(quantity)
	}
	return packRegisters(f.regs[address : address+quantity]), nil
}

func (f *fakeBoard) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	if f.failWrite {
		return nil, errors.New("connection reset")
	}
	f.writes++
	if int(quantity) > f.maxWrite {
		f.maxWrite = int(quantity)
	}
	copy(f.regs[address:address+quantity], unpackRegisters(value))
	return nil, nil
}

func (f *fakeBoard) WriteSingleRegister(address, value uint16) ([]byte, error) {
	f.regs[address] = value
	if address == RegOpcode {
		f.execute(value)
	}
	return nil, nil
}

func (f *fakeBoard) execute(opcode uint16) {
	a := f.regs[RegArgs : RegArgs+ArgSlots]

	var err error
	switch opcode {
	case OpcodeWriteGBTConfig:
		n := int(a[2])
		raw := packRegisters(f.regs[RegPayload : RegPayload+PayloadSlots])
		err = f.sess.WriteGBTConfig(uint32(a[0]), uint32(a[1]), raw[:n])

	case OpcodeScanGBTPhases:
		nVFAT := uint32(a[6])
		out := make([]uint32, nVFAT*PhasesPerVFAT)
		nRep := uint32(a[1])<<16 | uint32(a[2])
		err = f.sess.ScanGBTPhases(out, uint32(a[0]), nRep, uint32(a[3]), uint32(a[4]), uint32(a[5]), nVFAT)
		for i, v := range out {
			f.regs[RegResults+2*i] = uint16(v >> 16)
			f.regs[RegResults+2*i+1] = uint16(v)
		}

	case OpcodeWriteGBTPhase:
		err = f.sess.WriteGBTPhase(uint32(a[0]), uint32(a[1]), uint32(a[2]))
	}

	var status uint32
	var se *rpc.StatusError
	if errors.As(err, &se) {
		status = se.Code
	}
	f.regs[RegStatus] = uint16(status >> 16)
	f.regs[RegStatus+1] = uint16(status)
}

func (f *fakeBoard) Close() error { return nil }

// ---- tests ----

func TestSession_CheckIdentity(t *testing.T) {
	f := newFakeBoard()
	if err := newSession(f, f).checkIdentity(); err != nil {
		t.Fatalf("checkIdentity err=%v", err)
	}

	f.regs[RegMagic] = 0x1234
	if err := newSession(f, f).checkIdentity(); err == nil {
		t.Fatalf("expected magic mismatch error")
	}

	f.regs[RegMagic] = MailboxMagic
	f.regs[RegVersion] = 9
	if err := newSession(f, f).checkIdentity(); err == nil {
		t.Fatalf("expected version mismatch error")
	}
}

func TestSession_WriteGBTConfig(t *testing.T) {
	f := newFakeBoard()
	s := newSession(f, f)

	blob := make([]byte, 366)
	for i := range blob {
		blob[i] = byte(i * 7)
	}

	if err := s.WriteGBTConfig(3, 1, blob); err != nil {
		t.Fatalf("WriteGBTConfig err=%v", err)
	}

	got, ok := f.board.Config(3, 1)
	if !ok || len(got) != len(blob) {
		t.Fatalf("config not delivered: ok=%v len=%d", ok, len(got))
	}
	for i := range blob {
		if got[i] != blob[i] {
			t.Fatalf("byte %d: got %d want %d", i, got[i], blob[i])
		}
	}
	if f.maxWrite > maxWriteQty {
		t.Fatalf("write frame of %d registers exceeds %d", f.maxWrite, maxWriteQty)
	}
}

func TestSession_WriteGBTConfigTooLarge(t *testing.T) {
	f := newFakeBoard()
	if err := newSession(f, f).WriteGBTConfig(0, 0, make([]byte, PayloadMaxBytes+1)); err == nil {
		t.Fatalf("expected size error")
	}
	if f.writes != 0 {
		t.Fatalf("expected no register writes, got %d", f.writes)
	}
}

func TestSession_ScanGBTPhases(t *testing.T) {
	f := newFakeBoard()
	s := newSession(f, f)

	out := make([]uint32, 24*PhasesPerVFAT)
	if err := s.ScanGBTPhases(out, 0, 70000, 0, 15, 1, 24); err != nil {
		t.Fatalf("ScanGBTPhases err=%v", err)
	}

	// simulated OH0 VFAT0 window is centred on phase 0
	if out[0] != 70000 || out[4] != 0 {
		t.Fatalf("unexpected counters: phase0=%d phase4=%d", out[0], out[4])
	}
	if f.maxRead > maxReadQty {
		t.Fatalf("read frame of %d registers exceeds %d", f.maxRead, maxReadQty)
	}
}

func TestSession_ScanBufferTooSmall(t *testing.T) {
	f := newFakeBoard()
	if err := newSession(f, f).ScanGBTPhases(make([]uint32, 10), 0, 1, 0, 15, 1, 24); err == nil {
		t.Fatalf("expected buffer size error")
	}
}

func TestSession_WriteGBTPhaseStatus(t *testing.T) {
	f := newFakeBoard()
	s := newSession(f, f)

	if err := s.WriteGBTPhase(2, 5, 11); err != nil {
		t.Fatalf("WriteGBTPhase err=%v", err)
	}
	if p, ok := f.board.Phase(2, 5); !ok || p != 11 {
		t.Fatalf("phase not delivered: %d %v", p, ok)
	}

	f.board.FailOp(rpc.OpWriteGBTPhase)
	err := s.WriteGBTPhase(2, 5, 11)

	var se *rpc.StatusError
	if !errors.As(err, &se) || se.Code != sim.StatusInjected {
		t.Fatalf("expected StatusError %d, got %v", sim.StatusInjected, err)
	}
}

func TestSession_TransportError(t *testing.T) {
	f := newFakeBoard()
	f.failWrite = true

	err := newSession(f, f).WriteGBTPhase(0, 0, 1)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var se *rpc.StatusError
	if errors.As(err, &se) {
		t.Fatalf("transport error must not look like a board status: %v", err)
	}
}

func TestPackArgs_Range(t *testing.T) {
	if _, err := packArgs(0x10000); err == nil {
		t.Fatalf("expected range error")
	}
	if _, err := packArgs(1, 2, 3, 4, 5, 6, 7, 8, 9); err == nil {
		t.Fatalf("expected too many args error")
	}
}

func TestPackBytes_OddLength(t *testing.T) {
	got := packBytes([]byte{0x12, 0x34, 0x56})
	if len(got) != 2 || got[0] != 0x1234 || got[1] != 0x5600 {
		t.Fatalf("unexpected packing %x", got)
	}
}
