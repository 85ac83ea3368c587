// Package firmware loads the images that are programmed into flash.
//
// Two input formats are supported: Intel HEX files, which carry their own
// addresses, and raw binaries, which are placed at a caller-supplied base address.
// Both produce an Image made of non-overlapping Segments in ascending address
// order; adjacent data is merged into one segment.
//
// # Intel HEX
//
// Every record is one line:
//
//	:[Length(2)][Address(4)][Type(2)][Data(2*Length)][Checksum(2)]
//
// Record types 00 (data), 01 (end of file), 02 (extended segment address),
// 03 (start segment address), 04 (extended linear address) and 05 (start linear
// address) are understood.
//
// # Usage
//
//	img, err := firmware.Load("app.hex", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, seg := range img.Segments {
//	    fmt.Printf("0x%08X: %d bytes, CRC 0x%04X\n",
//	        seg.Address, len(seg.Data), firmware.CRC16(seg.Data))
//	}
//
// WriteHex produces Intel HEX output, for example when dumping flash contents.
package firmware
