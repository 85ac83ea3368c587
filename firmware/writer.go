package firmware

import (
	"bufio"
	"fmt"
	"io"
)

// hexRecordSize is the number of data bytes per written record.
const hexRecordSize = 16

// WriteHex writes data located at addr as an Intel HEX image, switching the
// extended linear address whenever a record would cross a 64 KiB boundary.
func WriteHex(w io.Writer, addr uint32, data []byte) error {
	bw := bufio.NewWriter(w)
	upper := uint32(0)
	first := true

	for len(data) > 0 {
		if first || addr&0xFFFF0000 != upper {
			upper = addr & 0xFFFF0000
			if err := writeRecord(bw, RecordExtendedLinearAddress, 0, []byte{byte(upper >> 24), byte(upper >> 16)}); err != nil {
				return err
			}
			first = false
		}

		n := hexRecordSize
		if n > len(data) {
			n = len(data)
		}
		// Do not cross into the next 64 KiB page
		if room := 0x10000 - int(addr&0xFFFF); n > room {
			n = room
		}

		if err := writeRecord(bw, RecordData, uint16(addr), data[:n]); err != nil {
			return err
		}
		addr += uint32(n)
		data = data[n:]
	}

	if err := writeRecord(bw, RecordEOF, 0, nil); err != nil {
		return err
	}
	return bw.Flush()
}

func writeRecord(w io.Writer, typ byte, addr uint16, data []byte) error {
	rec := make([]byte, 0, 4+len(data))
	rec = append(rec, byte(len(data)), byte(addr>>8), byte(addr), typ)
	rec = append(rec, data...)

	_, err := fmt.Fprintf(w, ":%X%02X\n", rec, calculateChecksum(rec))
	return err
}
