package flash

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-ryflash/protocol"
)

// EraseCheck reads sectors first through last of bank and sets each sector's
// State from its content: StateErased when every byte is 0xFF, StateDirty
// otherwise. Nothing is written to the controllers.
func (d *Driver) EraseCheck(ctx context.Context, bank *Bank, first, last int) error {
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

	d.logDebug("erase check", "bank", bank.ID, "first", first, "last", last)

	if err := d.checkHalted(ctx); err != nil {
		return err
	}

	startTime := time.Now()
	total := last - first + 1
	erased := 0
	for i := first; i <= last; i++ {
		s := &bank.Sectors[i]
		data, err := d.Read(ctx, bank, s.Offset, s.Size)
		if err != nil {
			return fmt.Errorf("erase check sector %d: %w", i, err)
		}
		if isErased(data) {
			s.State = StateErased
			erased++
		} else {
			s.State = StateDirty
		}

		done := i - first + 1
		d.reportProgress(Progress{
			Operation:   OpEraseCheck,
			Done:        done,
			Total:       total,
			Percentage:  percent(done, total),
			Address:     bank.Addr(i),
			ElapsedTime: time.Since(startTime),
		})
	}

	d.logInfo("erase check complete",
		"bank", bank.ID,
		"sectors", total,
		"erased", erased,
		"elapsed", time.Since(startTime).String(),
	)
	return nil
}

func isErased(data []byte) bool {
	for _, b := range data {
		if b != protocol.ErasedByte {
			return false
		}
	}
	return true
}
