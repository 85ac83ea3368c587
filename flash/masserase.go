package flash

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/moffa90/go-ryflash/protocol"
)

// MassEraseUsage is the argument syntax of MassEraseCommand.
const MassEraseUsage = "mass_erase <group>"

// MassErase erases every controller instance of a mass-erase group, in order.
// The first failing instance aborts the rest of the group.
func (d *Driver) MassErase(ctx context.Context, group uint32) error {
	targets, ok := d.dev.MassEraseGroups[group]
	if !ok {
		return &GroupError{Group: group, Valid: d.dev.GroupIDs()}
	}

	if err := d.checkHalted(ctx); err != nil {
		return err
	}

	d.logInfo("mass erase operation on going", "group", group)

	if err := d.prepare(ctx); err != nil {
		return err
	}

	startTime := time.Now()
	for i, t := range targets {
		ctrl, ok := d.dev.Controller(t.Kind, t.Instance)
		if !ok {
			return fmt.Errorf("mass erase group %d: no controller %s%d", group, t.Kind, t.Instance)
		}

		if err := d.writeSeq(ctx, protocol.BuildMassEraseSeq(ctrl, t.Address)); err != nil {
			return fmt.Errorf("mass erase %s%d: %w", t.Kind, t.Instance, err)
		}
		if err := d.poll(ctx, ctrl, protocol.StatusReady, d.config.EraseTimeout); err != nil {
			d.logError("mass erase failed", "group", group, "instance", fmt.Sprintf("%s%d", t.Kind, t.Instance), "error", err)
			return fmt.Errorf("mass erase %s%d: %w", t.Kind, t.Instance, err)
		}

		d.reportProgress(Progress{
			Operation:   OpMassErase,
			Done:        i + 1,
			Total:       len(targets),
			Percentage:  percent(i+1, len(targets)),
			Address:     t.Address,
			ElapsedTime: time.Since(startTime),
		})
	}

	d.logInfo("mass erase operation done", "group", group, "elapsed", time.Since(startTime).String())
	return nil
}

// MassEraseCommand is the command entry point for mass erase. args must hold
// exactly one group identifier, decimal or 0x-prefixed hex. On success every
// sector of bank is marked StateErased; bank may be nil.
func (d *Driver) MassEraseCommand(ctx context.Context, bank *Bank, args []string) error {
	if len(args) != 1 {
		return &UsageError{Usage: MassEraseUsage, Reason: fmt.Sprintf("expected 1 argument, got %d", len(args))}
	}

	group, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		return &UsageError{Usage: MassEraseUsage, Reason: fmt.Sprintf("invalid group %q", args[0])}
	}
	if _, ok := d.dev.MassEraseGroups[uint32(group)]; !ok {
		return &GroupError{Group: uint32(group), Valid: d.dev.GroupIDs()}
	}

	if err := d.MassErase(ctx, uint32(group)); err != nil {
		return err
	}

	if bank != nil {
		for i := range bank.Sectors {
			bank.Sectors[i].State = StateErased
		}
	}
	d.logInfo("mass erase success", "group", group)
	return nil
}
