// internal/gbt/table.go
package gbt

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// PrintScanResults renders one OH's scan as a table:
// one row per phase, one column per VFAT, cells are success counts.
func PrintScanResults(w io.Writer, r ScanResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	nVFAT := r.NVFATs()

	header := make([]string, 0, nVFAT+1)
	rule := make([]string, 0, nVFAT+1)
	header = append(header, "Phase")
	for vfatN := 0; vfatN < nVFAT; vfatN++ {
		header = append(header, fmt.Sprintf("VFAT%d", vfatN))
	}
	for _, h := range header {
		rule = append(rule, strings.Repeat("-", len(h)))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	fmt.Fprintln(tw, strings.Join(rule, "\t")+"\t")

	row := make([]string, nVFAT+1)
	for phase := 0; phase < PhasesPerVFAT; phase++ {
		row[0] = fmt.Sprint(phase)
		for vfatN := 0; vfatN < nVFAT; vfatN++ {
			row[vfatN+1] = fmt.Sprint(r.At(vfatN, phase))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}

	return tw.Flush()
}
