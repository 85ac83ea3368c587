package firmware

import (
	"fmt"
	"sort"

	"github.com/sigurn/crc16"
)

// Segment is a contiguous run of bytes at a logical flash address.
type Segment struct {
	// Address is the logical address of the first byte
	Address uint32

	// Data is the content to be programmed
	Data []byte
}

// End returns the address one past the last byte of the segment.
func (s Segment) End() uint64 {
	return uint64(s.Address) + uint64(len(s.Data))
}

// Image is a firmware image made of one or more segments.
type Image struct {
	// Segments in ascending address order, never overlapping
	Segments []Segment

	// Entry is the start address from a start-linear-address record, if any
	Entry uint32
}

// Size returns the number of data bytes in the image.
func (img *Image) Size() int {
	n := 0
	for _, s := range img.Segments {
		n += len(s.Data)
	}
	return n
}

// Bounds returns the lowest address and the address one past the highest byte.
func (img *Image) Bounds() (start uint32, end uint64) {
	if len(img.Segments) == 0 {
		return 0, 0
	}
	return img.Segments[0].Address, img.Segments[len(img.Segments)-1].End()
}

// Flatten returns the image as one buffer starting at the lowest address.
// Gaps between segments are filled with fill.
func (img *Image) Flatten(fill byte) (uint32, []byte) {
	start, end := img.Bounds()
	buf := make([]byte, end-uint64(start))
	for i := range buf {
		buf[i] = fill
	}
	for _, s := range img.Segments {
		copy(buf[s.Address-start:], s.Data)
	}
	return start, buf
}

// add inserts data at addr, merging with adjacent segments.
// Overlapping data is rejected.
func (img *Image) add(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if uint64(addr)+uint64(len(data)) > 1<<32 {
		return fmt.Errorf("data at 0x%08X+%d exceeds the 32-bit address space", addr, len(data))
	}

	i := sort.Search(len(img.Segments), func(i int) bool {
		return img.Segments[i].Address >= addr
	})
	end := uint64(addr) + uint64(len(data))

	if i > 0 && img.Segments[i-1].End() > uint64(addr) {
		return fmt.Errorf("data at 0x%08X overlaps segment at 0x%08X", addr, img.Segments[i-1].Address)
	}
	if i < len(img.Segments) && uint64(img.Segments[i].Address) < end {
		return fmt.Errorf("data at 0x%08X overlaps segment at 0x%08X", addr, img.Segments[i].Address)
	}

	// Append to the previous segment when contiguous
	if i > 0 && img.Segments[i-1].End() == uint64(addr) {
		prev := &img.Segments[i-1]
		prev.Data = append(prev.Data, data...)
		if i < len(img.Segments) && uint64(img.Segments[i].Address) == prev.End() {
			prev.Data = append(prev.Data, img.Segments[i].Data...)
			img.Segments = append(img.Segments[:i], img.Segments[i+1:]...)
		}
		return nil
	}

	seg := Segment{Address: addr, Data: append([]byte(nil), data...)}
	if i < len(img.Segments) && uint64(img.Segments[i].Address) == end {
		seg.Data = append(seg.Data, img.Segments[i].Data...)
		img.Segments[i] = seg
		return nil
	}

	img.Segments = append(img.Segments, Segment{})
	copy(img.Segments[i+1:], img.Segments[i:])
	img.Segments[i] = seg
	return nil
}

var crcTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// CRC16 returns the CRC-16/CCITT-FALSE checksum of data.
// It is printed after programming and verification so that images can be compared.
func CRC16(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}
