package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-ryflash/firmware"
	"github.com/moffa90/go-ryflash/protocol"
)

var writeCmd = &cobra.Command{
	Use:   "write <image>",
	Short: "Program an image into flash",
	Long: `Program an Intel HEX (.hex) or raw binary image into flash.

HEX images carry their own addresses. Binary images are placed at --base,
which defaults to the start of bank 0. With --fill the segments are merged
into one range and the gaps between them are programmed as erased bytes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseArg, _ := cmd.Flags().GetString("base")
		eraseFirst, _ := cmd.Flags().GetBool("erase")
		verify, _ := cmd.Flags().GetBool("verify")
		fill, _ := cmd.Flags().GetBool("fill")

		ctx, cancel := commandContext()
		defer cancel()

		pb := newProgressBar()
		s, err := openSession(ctx, pb.Update)
		if err != nil {
			return err
		}
		defer s.Close()

		base := s.drv.Device().Banks[0].Base
		if baseArg != "" {
			if base, err = parseUint32(baseArg); err != nil {
				return err
			}
		}

		img, err := firmware.Load(args[0], base)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %s: %d bytes in %d segment(s)\n", args[0], img.Size(), len(img.Segments))

		if fill && len(img.Segments) > 1 {
			start, end := img.Bounds()
			if _, err := s.bankFor(start, int(end-uint64(start))); err != nil {
				return err
			}
			addr, data := img.Flatten(protocol.ErasedByte)
			img.Segments = []firmware.Segment{{Address: addr, Data: data}}
		}

		for _, seg := range img.Segments {
			seg = alignSegment(seg)
			err := writeSegment(ctx, s, seg, eraseFirst, verify)
			pb.Finish()
			if err != nil {
				return err
			}
			color.Green("0x%08X: %d bytes written, CRC16 0x%04X", seg.Address, len(seg.Data), firmware.CRC16(seg.Data))
		}
		return nil
	},
}

func writeSegment(ctx context.Context, s *session, seg firmware.Segment, eraseFirst, verify bool) error {
	bank, err := s.bankFor(seg.Address, len(seg.Data))
	if err != nil {
		return err
	}
	offset := seg.Address - bank.Base

	if eraseFirst {
		size := bank.Sectors[0].Size
		first := int(offset / size)
		last := int((offset + uint32(len(seg.Data)) - 1) / size)
		if err := s.drv.Erase(ctx, bank, first, last); err != nil {
			return err
		}
	}

	if err := s.drv.Write(ctx, bank, seg.Data, offset); err != nil {
		return err
	}

	if verify {
		got, err := s.drv.Read(ctx, bank, offset, uint32(len(seg.Data)))
		if err != nil {
			return err
		}
		if !bytes.Equal(got, seg.Data) {
			return fmt.Errorf("verify failed at 0x%08X: CRC16 0x%04X, expected 0x%04X",
				firstMismatch(got, seg.Data)+seg.Address, firmware.CRC16(got), firmware.CRC16(seg.Data))
		}
	}
	return nil
}

// alignSegment widens seg to whole words, padding with the erased value.
func alignSegment(seg firmware.Segment) firmware.Segment {
	lead := seg.Address % protocol.WordSize
	end := uint32(len(seg.Data)) + lead
	if rem := end % protocol.WordSize; rem != 0 {
		end += protocol.WordSize - rem
	}
	if lead == 0 && end == uint32(len(seg.Data)) {
		return seg
	}

	data := bytes.Repeat([]byte{protocol.ErasedByte}, int(end))
	copy(data[lead:], seg.Data)
	return firmware.Segment{Address: seg.Address - lead, Data: data}
}

func firstMismatch(a, b []byte) uint32 {
	for i := range a {
		if a[i] != b[i] {
			return uint32(i)
		}
	}
	return 0
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringP("base", "b", "", "load address of binary images, e.g. 0x10000000")
	writeCmd.Flags().BoolP("erase", "e", true, "erase the touched sectors first")
	writeCmd.Flags().BoolP("verify", "V", true, "verify memory contents")
	writeCmd.Flags().Bool("fill", false, "program the gaps between segments as erased bytes")
}
