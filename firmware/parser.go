package firmware

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Intel HEX record types.
const (
	RecordData                   = 0x00
	RecordEOF                    = 0x01
	RecordExtendedSegmentAddress = 0x02
	RecordStartSegmentAddress    = 0x03
	RecordExtendedLinearAddress  = 0x04
	RecordStartLinearAddress     = 0x05
)

const (
	// MinimumRecordLength is the length of a record without data, in hex characters
	// after the ':' prefix: length(2) + address(4) + type(2) + checksum(2)
	MinimumRecordLength = 10

	// MaxRecordLineLength bounds the length of one input line
	MaxRecordLineLength = 1024
)

// Load reads a firmware image from path. Files ending in .hex or .ihex are parsed
// as Intel HEX; anything else is loaded as a raw binary placed at base.
//
// Example:
//
//	img, err := firmware.Load("app.hex", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d bytes in %d segments\n", img.Size(), len(img.Segments))
func Load(path string, base uint32) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihex":
		return ParseHex(f)
	default:
		return LoadBinary(f, base)
	}
}

// LoadBinary reads a raw binary image and places it at base.
func LoadBinary(r io.Reader, base uint32) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read binary: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	img := &Image{}
	if err := img.add(base, data); err != nil {
		return nil, err
	}
	return img, nil
}

// ParseHex parses an Intel HEX image from any io.Reader.
//
// Data, end-of-file, extended segment address, extended linear address and both
// start address records are understood. Parsing stops at the end-of-file record.
// Errors carry the line number of the offending record.
func ParseHex(r io.Reader) (*Image, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, MaxRecordLineLength), MaxRecordLineLength)

	img := &Image{}
	var upper uint32
	lineNum := 0
	sawEOF := false

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines
		if line == "" {
			continue
		}

		rec, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		switch rec.Type {
		case RecordData:
			if err := img.add(upper+uint32(rec.Address), rec.Data); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		case RecordEOF:
			sawEOF = true
		case RecordExtendedSegmentAddress:
			if len(rec.Data) != 2 {
				return nil, fmt.Errorf("line %d: invalid length %d for extended segment address", lineNum, len(rec.Data))
			}
			upper = (uint32(rec.Data[0])<<8 | uint32(rec.Data[1])) << 4
		case RecordExtendedLinearAddress:
			if len(rec.Data) != 2 {
				return nil, fmt.Errorf("line %d: invalid length %d for extended linear address", lineNum, len(rec.Data))
			}
			upper = (uint32(rec.Data[0])<<8 | uint32(rec.Data[1])) << 16
		case RecordStartSegmentAddress:
			if len(rec.Data) != 4 {
				return nil, fmt.Errorf("line %d: invalid length %d for start segment address", lineNum, len(rec.Data))
			}
		case RecordStartLinearAddress:
			if len(rec.Data) != 4 {
				return nil, fmt.Errorf("line %d: invalid length %d for start linear address", lineNum, len(rec.Data))
			}
			img.Entry = uint32(rec.Data[0])<<24 | uint32(rec.Data[1])<<16 | uint32(rec.Data[2])<<8 | uint32(rec.Data[3])
		default:
			return nil, fmt.Errorf("line %d: unknown record type 0x%02X", lineNum, rec.Type)
		}

		if sawEOF {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if !sawEOF {
		return nil, fmt.Errorf("missing end-of-file record")
	}
	if len(img.Segments) == 0 {
		return nil, fmt.Errorf("no data records found in file")
	}

	return img, nil
}

// record is one decoded Intel HEX line.
type record struct {
	Type    byte
	Address uint16
	Data    []byte
}

// parseRecord parses a single Intel HEX record.
//
// Record format:
//
//	:[Length(1 byte)][Address(2 bytes)][Type(1 byte)][Data(N bytes)][Checksum(1 byte)]
//
// The address is big-endian. The checksum is the two's complement of the sum of
// all preceding bytes.
//
// Example: ":0400000001020304F2"
//
//	Length: 0x04
//	Address: 0x0000
//	Type: 0x00 (data)
//	Data: [0x01, 0x02, 0x03, 0x04]
//	Checksum: 0xF2
func parseRecord(line string) (*record, error) {
	if line[0] != ':' {
		return nil, fmt.Errorf("record must start with ':'")
	}
	line = line[1:]

	if len(line) < MinimumRecordLength {
		return nil, fmt.Errorf("record too short: got %d characters, minimum is %d", len(line), MinimumRecordLength)
	}

	data, err := hex.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}

	length := int(data[0])
	if len(data) != length+5 {
		return nil, fmt.Errorf("data length mismatch: got %d bytes, expected %d", len(data)-5, length)
	}

	checksum := data[len(data)-1]
	if calculated := calculateChecksum(data[:len(data)-1]); checksum != calculated {
		return nil, fmt.Errorf("checksum mismatch: got 0x%02X, expected 0x%02X", checksum, calculated)
	}

	return &record{
		Type:    data[3],
		Address: uint16(data[1])<<8 | uint16(data[2]),
		Data:    data[4 : 4+length],
	}, nil
}

// calculateChecksum computes the two's complement of the byte sum.
func calculateChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum + 1
}
