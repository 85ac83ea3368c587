package flash

import (
	"context"
	"fmt"

	"github.com/moffa90/go-ryflash/protocol"
)

// Read returns length bytes of bank starting at offset. The range is read
// through the logical flash window with word accesses, so unaligned ranges are
// served from the enclosing words.
func (d *Driver) Read(ctx context.Context, bank *Bank, offset, length uint32) ([]byte, error) {
	if err := d.checkProbed(bank); err != nil {
		return nil, err
	}
	end := uint64(offset) + uint64(length)
	if end > uint64(bank.Size) {
		return nil, &RangeError{
			BankID: bank.ID,
			Unit:   "byte",
			First:  uint64(offset),
			Last:   end - 1,
			Limit:  uint64(bank.Size) - 1,
		}
	}
	if length == 0 {
		return []byte{}, nil
	}

	first := offset &^ (protocol.WordSize - 1)
	last := uint32((end + protocol.WordSize - 1) &^ (protocol.WordSize - 1))

	words := make([]uint32, 0, (last-first)/protocol.WordSize)
	for off := first; off < last; off += protocol.WordSize {
		v, err := d.readReg(ctx, bank.Base+off)
		if err != nil {
			return nil, fmt.Errorf("read bank %d: %w", bank.ID, err)
		}
		words = append(words, v)
	}
	buf := protocol.UnpackWords(words)

	lead := offset - first
	return buf[lead : lead+length], nil
}
