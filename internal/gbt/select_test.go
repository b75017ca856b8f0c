// internal/gbt/select_test.go
package gbt

import (
	"bytes"
	"strings"
	"testing"
)

func TestBestPhases(t *testing.T) {
	r := NewScanResult(3)

	// VFAT0: good at 4..8 -> 6
	for p := 4; p <= 8; p++ {
		r[0*16+p] = 100
	}
	// VFAT1: two windows, 1..2 and 10..13 -> 11
	r[1*16+1], r[1*16+2] = 100, 100
	for p := 10; p <= 13; p++ {
		r[1*16+p] = 100
	}
	// VFAT2: never fully good
	r[2*16+5] = 99

	got := BestPhases(r, 100)
	want := []Phase{PhaseValue(6), PhaseValue(11), SkipPhase}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("VFAT%d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestBestPhases_WrapsAround(t *testing.T) {
	r := NewScanResult(3)

	// VFAT0: good at 14..15,0..2 -> 0
	for _, p := range []int{14, 15, 0, 1, 2} {
		r[p] = 100
	}
	// VFAT1: good at 15,0..5 beats 8..10 -> 2
	for _, p := range []int{15, 0, 1, 2, 3, 4, 5, 8, 9, 10} {
		r[1*16+p] = 100
	}
	// VFAT2: every phase good -> 7
	for p := 0; p < 16; p++ {
		r[2*16+p] = 100
	}

	got := BestPhases(r, 100)
	want := []Phase{PhaseValue(0), PhaseValue(2), PhaseValue(7)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("VFAT%d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestPrintScanResults(t *testing.T) {
	var out bytes.Buffer
	r := NewScanResult(2)
	r[1*16+15] = 42

	if err := PrintScanResults(&out, r); err != nil {
		t.Fatalf("PrintScanResults err=%v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2+16 {
		t.Fatalf("expected %d lines, got %d:\n%s", 2+16, len(lines), out.String())
	}
	if f := strings.Fields(lines[0]); len(f) != 3 || f[0] != "Phase" || f[2] != "VFAT1" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if f := strings.Fields(lines[len(lines)-1]); f[0] != "15" || f[2] != "42" {
		t.Fatalf("unexpected last row %q", lines[len(lines)-1])
	}
}
