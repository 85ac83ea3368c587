package flash

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-ryflash/protocol"
)

// Erase erases sectors first through last of bank, inclusive.
//
// The controllers are unlocked once, then every sector is resolved to its
// instance and erased with a ready poll. The first failure aborts the range;
// sectors already erased stay marked as StateErased and the rest keep their
// previous state.
func (d *Driver) Erase(ctx context.Context, bank *Bank, first, last int) error {
	if err := d.checkProbed(bank); err != nil {
		return err
	}
	if first < 0 || last < first || last >= len(bank.Sectors) {
		return &RangeError{
			BankID: bank.ID,
			Unit:   "sector",
			First:  uint64(max(first, 0)),
			Last:   uint64(max(last, 0)),
			Limit:  uint64(len(bank.Sectors) - 1),
		}
	}

	d.logDebug("erase", "bank", bank.ID, "first", first, "last", last)

	if err := d.checkHalted(ctx); err != nil {
		return err
	}
	if err := d.prepare(ctx); err != nil {
		return err
	}

	startTime := time.Now()
	total := last - first + 1
	for i := first; i <= last; i++ {
		addr := bank.Addr(i)
		if err := d.eraseSector(ctx, addr); err != nil {
			d.logError("sector erase failed", "bank", bank.ID, "sector", i, "error", err)
			return fmt.Errorf("erase sector %d at %s: %w", i, hex32(addr), err)
		}
		bank.Sectors[i].State = StateErased

		done := i - first + 1
		d.reportProgress(Progress{
			Operation:   OpErase,
			Done:        done,
			Total:       total,
			Percentage:  percent(done, total),
			Address:     addr,
			ElapsedTime: time.Since(startTime),
		})
	}

	d.logInfo("erase complete",
		"bank", bank.ID,
		"sectors", total,
		"elapsed", time.Since(startTime).String(),
	)
	return nil
}

func (d *Driver) eraseSector(ctx context.Context, addr uint32) error {
	loc, _, err := d.resolve(ctx, addr)
	if err != nil {
		return err
	}
	if err := d.writeSeq(ctx, protocol.BuildSectorEraseSeq(loc.Controller, addr)); err != nil {
		return err
	}
	return d.poll(ctx, loc.Controller, protocol.StatusReady, d.config.EraseTimeout)
}
