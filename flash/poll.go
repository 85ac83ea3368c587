package flash

import (
	"context"
	"fmt"

	"github.com/moffa90/go-ryflash/protocol"
)

// poll reads the status register of ctrl until every bit of mask is set.
// It performs at most timeout reads with one PollDelay between two reads, and
// returns a TimeoutError carrying the last status once the budget is spent.
// Cancellation of ctx is checked between reads.
func (d *Driver) poll(ctx context.Context, ctrl, mask uint32, timeout int) error {
	if timeout < 1 {
		timeout = 1
	}

	var status uint32
	for attempt := 1; ; attempt++ {
		var err error
		status, err = d.readReg(ctx, ctrl+protocol.RegFSR)
		if err != nil {
			return err
		}
		if protocol.StatusHas(status, mask) {
			return nil
		}
		if attempt >= timeout {
			d.logDebug("poll timed out",
				"controller", hex32(ctrl),
				"mask", protocol.MaskName(mask),
				"status", hex32(status),
			)
			return &TimeoutError{
				Controller: ctrl,
				Mask:       mask,
				Status:     status,
				Attempts:   attempt,
			}
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("poll cancelled: %w", err)
		}
		d.config.Sleep(d.config.PollDelay)
	}
}
