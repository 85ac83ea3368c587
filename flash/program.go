package flash

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-ryflash/device"
	"github.com/moffa90/go-ryflash/protocol"
)

// Write programs buf at offset inside bank.
//
// offset and len(buf) must be multiples of protocol.WordSize; misaligned input
// is rejected before any register access. The target must be halted and the
// destination is expected to be erased. Every sector touched is marked
// StateDirty. The first failure aborts the write; bytes already programmed
// remain in flash.
func (d *Driver) Write(ctx context.Context, bank *Bank, buf []byte, offset uint32) error {
	if offset%protocol.WordSize != 0 || len(buf)%protocol.WordSize != 0 {
		d.logError("write breaks alignment", "offset", offset, "length", len(buf))
		return &AlignmentError{Offset: offset, Length: len(buf)}
	}
	if err := d.checkProbed(bank); err != nil {
		return err
	}
	end := uint64(offset) + uint64(len(buf))
	if end > uint64(bank.Size) {
		return &RangeError{
			BankID: bank.ID,
			Unit:   "byte",
			First:  uint64(offset),
			Last:   end - 1,
			Limit:  uint64(bank.Size) - 1,
		}
	}

	d.logDebug("write", "bank", bank.ID, "offset", fmt.Sprintf("0x%X", offset), "length", fmt.Sprintf("0x%X", len(buf)))

	if err := d.checkHalted(ctx); err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}
	if err := d.prepare(ctx); err != nil {
		return err
	}

	startTime := time.Now()
	for pos := 0; pos < len(buf); {
		addr := bank.Base + offset + uint32(pos)
		loc, region, err := d.resolve(ctx, addr)
		if err != nil {
			return fmt.Errorf("write at %s: %w", hex32(addr), err)
		}

		// Never let one command cross the end of the instance window.
		span := loc.Window.End() - uint64(addr)
		remaining := uint64(len(buf) - pos)

		var n int
		if region.Program == device.ProgramSeries {
			lead := addr % protocol.SeriesChunkSize
			n = int(min(uint64(protocol.SeriesChunkSize-lead), remaining, span))
			bank.setState(offset+uint32(pos), uint32(n), StateDirty)
			err = d.programSeries(ctx, loc.Controller, addr-lead, protocol.PadChunk(buf[pos:pos+n], int(lead), protocol.SeriesChunkSize))
		} else {
			n = int(min(uint64(region.WordsPerOp*protocol.WordSize), remaining, span))
			bank.setState(offset+uint32(pos), uint32(n), StateDirty)
			err = d.programSingle(ctx, loc.Controller, addr, buf[pos:pos+n])
		}
		if err != nil {
			d.logError("program failed", "bank", bank.ID, "address", hex32(addr), "error", err)
			return fmt.Errorf("program at %s: %w", hex32(addr), err)
		}

		pos += n
		d.reportProgress(Progress{
			Operation:   OpProgram,
			Done:        pos,
			Total:       len(buf),
			Percentage:  percent(pos, len(buf)),
			Address:     addr,
			ElapsedTime: time.Since(startTime),
		})
	}

	d.logInfo("write complete",
		"bank", bank.ID,
		"bytes", len(buf),
		"elapsed", time.Since(startTime).String(),
	)
	return nil
}

// programSeries programs one aligned row with a series command. Each group
// waits for write-permit before it is loaded; the row ends with a ready poll.
func (d *Driver) programSeries(ctx context.Context, ctrl, rowAddr uint32, row []byte) error {
	words, err := protocol.PackWords(row)
	if err != nil {
		return err
	}

	seq, err := protocol.BuildSeriesStartSeq(ctrl, rowAddr)
	if err != nil {
		return err
	}
	if err := d.writeSeq(ctx, seq); err != nil {
		return err
	}

	for g := 0; g < len(words); g += protocol.DataRegisterCount {
		if err := d.poll(ctx, ctrl, protocol.StatusWritePermit, d.config.ProgramTimeout); err != nil {
			return err
		}
		var group [protocol.DataRegisterCount]uint32
		copy(group[:], words[g:])
		if err := d.writeSeq(ctx, protocol.BuildSeriesGroupSeq(ctrl, group)); err != nil {
			return err
		}
	}

	return d.poll(ctx, ctrl, protocol.StatusReady, d.config.ProgramTimeout)
}

// programSingle programs one to four words with a single program command.
func (d *Driver) programSingle(ctx context.Context, ctrl, addr uint32, data []byte) error {
	words, err := protocol.PackWords(data)
	if err != nil {
		return err
	}

	seq, err := protocol.BuildSingleProgramSeq(ctrl, addr, words)
	if err != nil {
		return err
	}
	if err := d.writeSeq(ctx, seq); err != nil {
		return err
	}

	return d.poll(ctx, ctrl, protocol.StatusReady, d.config.ProgramTimeout)
}
