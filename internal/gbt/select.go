// internal/gbt/select.go
package gbt

// BestPhases picks one phase per VFAT from a scan: the middle of the longest
// run of phases where every repetition succeeded. Runs wrap from phase 15 to
// phase 0. A VFAT with no fully good phase gets SkipPhase.
func BestPhases(r ScanResult, nRepetitions int) []Phase {
	out := make([]Phase, r.NVFATs())

	for vfatN := range out {
		good := func(phase int) bool {
			return int(r.At(vfatN, phase%PhasesPerVFAT)) >= nRepetitions
		}

		// Start right after a failing phase so a run never straddles the
		// scan's ends; with no failing phase every phase is one run.
		first := 0
		for first < PhasesPerVFAT && good(first) {
			first++
		}
		if first == PhasesPerVFAT {
			out[vfatN] = PhaseValue(uint8((PhasesPerVFAT - 1) / 2))
			continue
		}

		bestStart, bestLen := -1, 0
		start, run := 0, 0
		for i := 1; i <= PhasesPerVFAT; i++ {
			phase := first + i
			if good(phase) {
				if run == 0 {
					start = phase
				}
				run++
				if run > bestLen {
					bestStart, bestLen = start, run
				}
				continue
			}
			run = 0
		}

		if bestStart < 0 {
			out[vfatN] = SkipPhase
			continue
		}
		out[vfatN] = PhaseValue(uint8((bestStart + (bestLen-1)/2) % PhasesPerVFAT))
	}

	return out
}
