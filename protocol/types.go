package protocol

import "fmt"

// Kind identifies a flash controller type.
type Kind int

const (
	// ProgramFlash is the code flash controller (PFU)
	ProgramFlash Kind = iota

	// DataFlash is the data flash controller (DFU)
	DataFlash
)

func (k Kind) String() string {
	switch k {
	case ProgramFlash:
		return "PFU"
	case DataFlash:
		return "DFU"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MappingMode is the address-remapping scheme active for a region.
type MappingMode int

const (
	// MapSingle maps every instance at its single-map window
	MapSingle MappingMode = iota

	// MapDoubleA is the first dual-map layout
	MapDoubleA

	// MapDoubleB is the second dual-map layout, with instance pairs swapped
	MapDoubleB
)

func (m MappingMode) String() string {
	switch m {
	case MapSingle:
		return "single"
	case MapDoubleA:
		return "double-a"
	case MapDoubleB:
		return "double-b"
	default:
		return fmt.Sprintf("MappingMode(%d)", int(m))
	}
}

// RegWrite is one 32-bit register write.
type RegWrite struct {
	// Addr is the absolute register address
	Addr uint32

	// Value is the word to write
	Value uint32
}

func (w RegWrite) String() string {
	return fmt.Sprintf("[0x%08X] <- 0x%08X", w.Addr, w.Value)
}

// Window is a half-open logical address range [Base, Base+Size).
type Window struct {
	Base uint32
	Size uint32
}

// Contains reports whether addr lies inside the window.
func (w Window) Contains(addr uint32) bool {
	return addr >= w.Base && addr-w.Base < w.Size
}

// End returns the first address past the window.
func (w Window) End() uint64 {
	return uint64(w.Base) + uint64(w.Size)
}
