package protocol

import (
	"fmt"
	"strings"
)

// ParseMappingMode decodes the mapping-configuration register for one region.
// dualBit enables dual mapping; selectABit then chooses DoubleA (set) or DoubleB (clear).
// A region with no dual bit always decodes as MapSingle.
func ParseMappingMode(reg, dualBit, selectABit uint32) MappingMode {
	if dualBit == 0 || reg&dualBit == 0 {
		return MapSingle
	}
	if reg&selectABit != 0 {
		return MapDoubleA
	}
	return MapDoubleB
}

// StatusHas reports whether every bit of mask is set in status.
func StatusHas(status, mask uint32) bool {
	return status&mask == mask
}

// StatusString renders the known FSR bits for diagnostics.
func StatusString(status uint32) string {
	var flags []string
	if status&StatusReady != 0 {
		flags = append(flags, "RDY")
	}
	if status&StatusWritePermit != 0 {
		flags = append(flags, "SPWP")
	}
	if len(flags) == 0 {
		return fmt.Sprintf("0x%08X", status)
	}
	return fmt.Sprintf("0x%08X (%s)", status, strings.Join(flags, "|"))
}

// MaskName returns a human-readable name for a poll mask.
func MaskName(mask uint32) string {
	switch mask {
	case StatusReady:
		return "ready"
	case StatusWritePermit:
		return "write-permit"
	default:
		return fmt.Sprintf("mask 0x%08X", mask)
	}
}
