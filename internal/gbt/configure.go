// internal/gbt/configure.go
package gbt

import (
	"fmt"
	"log"

	"github.com/tamzrod/gbt-tool/internal/ohmask"
	"github.com/tamzrod/gbt-tool/internal/rpc"
)

// MaxGBTs is the number of GBTx chips on one optohybrid.
const MaxGBTs = 3

// ConfigureOptions selects what Configure programs.
type ConfigureOptions struct {
	// Files holds one config file per GBT; position is the GBT number.
	Files []string
	Mask  ohmask.Mask
	NOHs  int
}

// Configure writes the given GBT configurations to every OH selected by the mask.
// All-or-nothing per call: the first failure aborts, nothing is rolled back.
func Configure(d rpc.Dialer, card string, opts ConfigureOptions) error {
	if len(opts.Files) > MaxGBTs {
		return fmt.Errorf("%w: too many GBT filenames provided (%d), at most %d files should be given",
			ErrUsage, len(opts.Files), MaxGBTs)
	}
	if err := checkSlots(opts.NOHs); err != nil {
		return err
	}

	// Files are validated before any hardware is touched.
	records := make([]ConfigRecord, 0, len(opts.Files))
	for _, path := range opts.Files {
		rec, err := ReadConfigFile(path)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	sess, err := connect(d, card)
	if err != nil {
		return err
	}
	defer sess.Close()

	for _, ohN := range opts.Mask.Slots(opts.NOHs) {
		// Program all requested GBT's on this OH
		for gbtN := range records {
			if err := sess.WriteGBTConfig(uint32(ohN), uint32(gbtN), records[gbtN][:]); err != nil {
				return fmt.Errorf("%w: failed to configure GBT%d of OH%d: %w", ErrRemote, gbtN, ohN, err)
			}
			log.Printf("configured GBT%d of OH%d from %s", gbtN, ohN, opts.Files[gbtN])
		}
	}

	return nil
}

// connect opens the single session an operation runs on.
// Liveness is checked by the Dialer; the session is trusted afterwards.
func connect(d rpc.Dialer, card string) (rpc.Session, error) {
	sess, err := d.Connect(card)
	if err != nil {
		return nil, fmt.Errorf("%w: connection to %s failed: %w", ErrRemote, card, err)
	}
	return sess, nil
}

func checkSlots(nOHs int) error {
	if nOHs < 1 || nOHs > ohmask.MaxOHs {
		return fmt.Errorf("%w: number of OH's %d out of range [1,%d]", ErrUsage, nOHs, ohmask.MaxOHs)
	}
	return nil
}
