// internal/gbt/results.go
package gbt

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ResultsHeader is the mandatory first line of a phase scan results file
// (ROOT TTree ReadFile branch descriptor).
const ResultsHeader = "ohN/I:vfatN/I:phase/I:nRepetitions/I:nSuccesses/I"

// SaveScanResults appends one row per (VFAT, phase) of ohN to path.
// A new or empty file gets the header first. An existing file must start with
// ResultsHeader and end with a newline, otherwise nothing is written.
func SaveScanResults(path string, ohN int, r ScanResult, nRepetitions int) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("scan results: open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("scan results: stat %s: %w", path, err)
	}

	// Write header for empty (new) files
	if st.Size() == 0 {
		if _, err := f.WriteString(ResultsHeader + "\n"); err != nil {
			return fmt.Errorf("scan results: write header %s: %w", path, err)
		}
	} else if err := checkResultsFile(f, st.Size(), path); err != nil {
		return err
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("scan results: seek %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	cw := csv.NewWriter(bw)
	cw.Comma = ' '

	rep := strconv.Itoa(nRepetitions)
	oh := strconv.Itoa(ohN)
	for vfatN := 0; vfatN < r.NVFATs(); vfatN++ {
		for phase := 0; phase < PhasesPerVFAT; phase++ {
			rec := []string{
				oh,
				strconv.Itoa(vfatN),
				strconv.Itoa(phase),
				rep,
				strconv.FormatUint(uint64(r.At(vfatN, phase)), 10),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("scan results: write %s: %w", path, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("scan results: write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("scan results: write %s: %w", path, err)
	}
	return nil
}

// checkResultsFile verifies the header line and the trailing newline.
func checkResultsFile(f *os.File, size int64, path string) error {
	want := ResultsHeader + "\n"

	head := make([]byte, len(want))
	n, err := f.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return fmt.Errorf("scan results: read %s: %w", path, err)
	}
	if string(head[:n]) != want {
		return fmt.Errorf("%w: the provided file (%s) is either corrupted or not a GBT phase scan results file (invalid header)",
			ErrFileIntegrity, path)
	}

	var last [1]byte
	if _, err := f.ReadAt(last[:], size-1); err != nil {
		return fmt.Errorf("scan results: read %s: %w", path, err)
	}
	if last[0] != '\n' {
		return fmt.Errorf("%w: the provided file (%s) is either corrupted or not a GBT phase scan results file (no EOL before EOF)",
			ErrFileIntegrity, path)
	}

	return nil
}
