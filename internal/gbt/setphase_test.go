// internal/gbt/setphase_test.go
package gbt

import (
	"errors"
	"testing"

	"github.com/tamzrod/gbt-tool/internal/rpc"
)

func TestSetPhase_Single(t *testing.T) {
	d := newFakeDialer()

	if err := SetPhase(d, "amc", 4, 17, 9); err != nil {
		t.Fatalf("SetPhase err=%v", err)
	}

	want := call{op: rpc.OpWriteGBTPhase, oh: 4, idx: 17, val: 9}
	if len(d.sess.calls) != 1 || d.sess.calls[0] != want {
		t.Fatalf("unexpected calls %+v", d.sess.calls)
	}
}

func TestSetPhase_OutOfRange(t *testing.T) {
	d := newFakeDialer()

	if err := SetPhase(d, "amc", 0, 0, 16); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if d.connects != 0 {
		t.Fatalf("expected no connect")
	}
}

func TestSetPhase_RemoteFailure(t *testing.T) {
	d := newFakeDialer()
	d.sess.failAt = 0

	if err := SetPhase(d, "amc", 0, 0, 3); !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
}

func TestSetPhaseAllVFATs_SkipsSentinel(t *testing.T) {
	d := newFakeDialer()
	phases := []Phase{PhaseValue(1), SkipPhase, PhaseValue(3), PhaseValue(0)}

	if err := SetPhaseAllVFATs(d, "amc", 2, phases, true); err != nil {
		t.Fatalf("SetPhaseAllVFATs err=%v", err)
	}

	want := []call{
		{op: rpc.OpWriteGBTPhase, oh: 2, idx: 0, val: 1},
		{op: rpc.OpWriteGBTPhase, oh: 2, idx: 2, val: 3},
		{op: rpc.OpWriteGBTPhase, oh: 2, idx: 3, val: 0},
	}
	if len(d.sess.calls) != len(want) {
		t.Fatalf("expected %d calls, got %+v", len(want), d.sess.calls)
	}
	for i := range want {
		if d.sess.calls[i] != want[i] {
			t.Fatalf("call %d: got %+v want %+v", i, d.sess.calls[i], want[i])
		}
	}
}

func TestSetPhaseAllVFATs_AbortOnFailure(t *testing.T) {
	d := newFakeDialer()
	d.sess.failAt = 1
	phases := []Phase{PhaseValue(1), PhaseValue(2), PhaseValue(3), PhaseValue(4)}

	err := SetPhaseAllVFATs(d, "amc", 0, phases, false)
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if len(d.sess.calls) != 2 {
		t.Fatalf("expected abort after 2 writes, got %d", len(d.sess.calls))
	}
}

func TestSetPhaseAllOHs_MaskedSlotsOnly(t *testing.T) {
	d := newFakeDialer()
	phases := map[int][]Phase{
		0: {PhaseValue(5), PhaseValue(6)},
		1: {PhaseValue(7)},
		2: {SkipPhase, PhaseValue(8)},
	}

	if err := SetPhaseAllOHs(d, "amc", phases, 0b0101, 4, false); err != nil {
		t.Fatalf("SetPhaseAllOHs err=%v", err)
	}

	want := []call{
		{op: rpc.OpWriteGBTPhase, oh: 0, idx: 0, val: 5},
		{op: rpc.OpWriteGBTPhase, oh: 0, idx: 1, val: 6},
		{op: rpc.OpWriteGBTPhase, oh: 2, idx: 1, val: 8},
	}
	if len(d.sess.calls) != len(want) {
		t.Fatalf("expected %d calls, got %+v", len(want), d.sess.calls)
	}
	for i := range want {
		if d.sess.calls[i] != want[i] {
			t.Fatalf("call %d: got %+v want %+v", i, d.sess.calls[i], want[i])
		}
	}
}

func TestSetPhaseAllOHs_MissingEntry(t *testing.T) {
	d := newFakeDialer()
	phases := map[int][]Phase{0: {PhaseValue(1)}}

	err := SetPhaseAllOHs(d, "amc", phases, 0b11, 2, false)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if d.connects != 0 {
		t.Fatalf("expected no connect")
	}
}

func TestSetPhaseAllOHs_AbortAcrossSlots(t *testing.T) {
	d := newFakeDialer()
	d.sess.failAt = 1
	phases := map[int][]Phase{
		0: {PhaseValue(1)},
		1: {PhaseValue(2)},
		2: {PhaseValue(3)},
	}

	err := SetPhaseAllOHs(d, "amc", phases, 0b111, 3, false)
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if len(d.sess.calls) != 2 {
		t.Fatalf("expected no writes after the failure, got %d calls", len(d.sess.calls))
	}
}
