package flash

import (
	"context"
	"fmt"

	"github.com/moffa90/go-ryflash/protocol"
)

// unlockAll writes the two-word handshake to every controller of every region.
func (d *Driver) unlockAll(ctx context.Context) error {
	for _, r := range d.dev.Regions {
		for i, ctrl := range r.Controllers {
			if err := d.writeSeq(ctx, protocol.BuildUnlockSeq(ctrl)); err != nil {
				return fmt.Errorf("unlock %s%d: %w", r.Kind, i, err)
			}
		}
	}
	return nil
}

// protectDisableAll enables writes to every sector of every controller.
func (d *Driver) protectDisableAll(ctx context.Context) error {
	for _, r := range d.dev.Regions {
		for i, ctrl := range r.Controllers {
			seq, err := protocol.BuildSectorEnableSeq(ctrl, r.SectorEnableRegs)
			if err != nil {
				return err
			}
			if err := d.writeSeq(ctx, seq); err != nil {
				return fmt.Errorf("sector enable %s%d: %w", r.Kind, i, err)
			}
		}
	}
	return nil
}

// prepare runs the unlock and protect-disable sequences, in this order.
func (d *Driver) prepare(ctx context.Context) error {
	d.logDebug("unlocking controllers")
	if err := d.unlockAll(ctx); err != nil {
		return err
	}
	return d.protectDisableAll(ctx)
}
