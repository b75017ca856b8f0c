// internal/gbt/setphase.go
package gbt

import (
	"fmt"
	"log"

	"github.com/tamzrod/gbt-tool/internal/ohmask"
	"github.com/tamzrod/gbt-tool/internal/rpc"
)

// SetPhase writes the RX phase of one VFAT of one OptoHybrid.
func SetPhase(d rpc.Dialer, card string, ohN, vfatN int, phase uint8) error {
	if phase > MaxPhase {
		return fmt.Errorf("%w: phase %d out of range [0,%d]", ErrValidation, phase, MaxPhase)
	}

	sess, err := connect(d, card)
	if err != nil {
		return err
	}
	defer sess.Close()

	return writePhase(sess, ohN, vfatN, phase)
}

// SetPhaseAllVFATs writes phases[i] to VFAT i of ohN.
// Skip entries are logged and left untouched; the first failed write aborts.
func SetPhaseAllVFATs(d rpc.Dialer, card string, ohN int, phases []Phase, debug bool) error {
	sess, err := connect(d, card)
	if err != nil {
		return err
	}
	defer sess.Close()

	return writePhases(sess, ohN, phases, debug)
}

// SetPhaseAllOHs writes the phase list of every OH selected by the mask.
// Every selected OH must have an entry in phases.
func SetPhaseAllOHs(d rpc.Dialer, card string, phases map[int][]Phase, mask ohmask.Mask, nOHs int, debug bool) error {
	if err := checkSlots(nOHs); err != nil {
		return err
	}

	slots := mask.Slots(nOHs)
	for _, ohN := range slots {
		if _, ok := phases[ohN]; !ok {
			return fmt.Errorf("%w: no phases provided for OH%d", ErrValidation, ohN)
		}
	}

	sess, err := connect(d, card)
	if err != nil {
		return err
	}
	defer sess.Close()

	for _, ohN := range slots {
		if err := writePhases(sess, ohN, phases[ohN], debug); err != nil {
			return err
		}
	}
	return nil
}

func writePhases(sess rpc.Session, ohN int, phases []Phase, debug bool) error {
	for vfatN, p := range phases {
		v, ok := p.Value()
		if !ok {
			log.Printf("Bad phase for OH%d VFAT%d", ohN, vfatN)
			continue
		}

		if debug {
			log.Printf("Setting Phase %d to OH%d VFAT%d", v, ohN, vfatN)
		}

		if err := writePhase(sess, ohN, vfatN, v); err != nil {
			return err
		}
	}
	return nil
}

func writePhase(sess rpc.Session, ohN, vfatN int, phase uint8) error {
	if err := sess.WriteGBTPhase(uint32(ohN), uint32(vfatN), uint32(phase)); err != nil {
		return fmt.Errorf("%w: failed to write phase %d to VFAT%d of OH%d: %w", ErrRemote, phase, vfatN, ohN, err)
	}
	return nil
}
