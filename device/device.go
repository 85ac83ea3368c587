package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/moffa90/go-ryflash/protocol"
)

// ProgramMethod selects the data path used to program a region.
type ProgramMethod int

const (
	// ProgramSingle issues one single-program command per 1-4 words
	ProgramSingle ProgramMethod = iota

	// ProgramSeries issues one series command per 128-byte chunk
	ProgramSeries
)

func (m ProgramMethod) String() string {
	switch m {
	case ProgramSingle:
		return "single"
	case ProgramSeries:
		return "series"
	default:
		return fmt.Sprintf("ProgramMethod(%d)", int(m))
	}
}

// FixedWindow is a logical range that belongs to one instance in every mapping mode.
type FixedWindow struct {
	protocol.Window
	Instance int
}

// Region describes all controller instances of one kind.
type Region struct {
	// Kind of the controllers in this region
	Kind protocol.Kind

	// TypeBit classifies a logical address as belonging to this region
	TypeBit uint32

	// Controllers holds the register block base per instance
	Controllers []uint32

	// BlockSize is the logical window size of one instance
	BlockSize uint32

	// SectorSize is the erase unit inside the region
	SectorSize uint32

	// SectorEnableRegs is the number of SWER registers per instance
	SectorEnableRegs int

	// Maps holds the instance window bases per mapping mode.
	// MapSingle is always present.
	Maps map[protocol.MappingMode][]uint32

	// DualBit and SelectABit locate this region's bits in the mapping register.
	// DualBit is zero for regions without dual mapping.
	DualBit    uint32
	SelectABit uint32

	// Fixed windows are checked before the mode tables
	Fixed []FixedWindow

	// Program selects the data path
	Program ProgramMethod

	// WordsPerOp is the number of words per single-program command (1-4)
	WordsPerOp int
}

// Mode decodes the mapping mode of this region from the mapping register value.
func (r *Region) Mode(reg uint32) protocol.MappingMode {
	return protocol.ParseMappingMode(reg, r.DualBit, r.SelectABit)
}

// Find returns the instance whose window contains addr under mode, together
// with that window. Fixed windows match in every mode.
func (r *Region) Find(addr uint32, mode protocol.MappingMode) (int, protocol.Window, bool) {
	for _, fw := range r.Fixed {
		if fw.Contains(addr) {
			return fw.Instance, fw.Window, true
		}
	}

	for i, base := range r.Maps[mode] {
		w := protocol.Window{Base: base, Size: r.BlockSize}
		if w.Contains(addr) {
			return i, w, true
		}
	}
	return 0, protocol.Window{}, false
}

// Geometry is the static layout of one logical bank.
type Geometry struct {
	Base       uint32
	Size       uint32
	SectorSize uint32
}

// NumSectors returns the sector count of the bank.
func (g Geometry) NumSectors() int {
	if g.SectorSize == 0 {
		return 0
	}
	return int(g.Size / g.SectorSize)
}

// MassEraseTarget is one instance erased by a mass-erase group.
type MassEraseTarget struct {
	Kind     protocol.Kind
	Instance int

	// Address is written to OAR for the mass erase command
	Address uint32
}

// Descriptor is the capability description of one device variant.
type Descriptor struct {
	// Name is the driver name reported by Info
	Name string

	// Description is a short human-readable summary
	Description string

	// MapModeRegister is the mapping-configuration register, 0 if the device has none
	MapModeRegister uint32

	// Regions in unlock order
	Regions []Region

	// Banks maps bank identifiers to their geometry
	Banks map[int]Geometry

	// MassEraseGroups maps group identifiers to the instances they erase, in order
	MassEraseGroups map[uint32][]MassEraseTarget
}

// Region returns the region of the given kind.
func (d *Descriptor) Region(kind protocol.Kind) (*Region, bool) {
	for i := range d.Regions {
		if d.Regions[i].Kind == kind {
			return &d.Regions[i], true
		}
	}
	return nil, false
}

// Classify returns the region whose type bit is set in addr.
// Regions are tested in order.
func (d *Descriptor) Classify(addr uint32) (*Region, bool) {
	for i := range d.Regions {
		if addr&d.Regions[i].TypeBit != 0 {
			return &d.Regions[i], true
		}
	}
	return nil, false
}

// Controller returns the register block base of an instance.
func (d *Descriptor) Controller(kind protocol.Kind, instance int) (uint32, bool) {
	r, ok := d.Region(kind)
	if !ok || instance < 0 || instance >= len(r.Controllers) {
		return 0, false
	}
	return r.Controllers[instance], true
}

// HasDualMapping reports whether any region reads the mapping register.
func (d *Descriptor) HasDualMapping() bool {
	if d.MapModeRegister == 0 {
		return false
	}
	for i := range d.Regions {
		if d.Regions[i].DualBit != 0 {
			return true
		}
	}
	return false
}

// BankIDs returns the known bank identifiers in ascending order.
func (d *Descriptor) BankIDs() []int {
	ids := make([]int, 0, len(d.Banks))
	for id := range d.Banks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// GroupIDs returns the mass-erase group identifiers in ascending order.
func (d *Descriptor) GroupIDs() []uint32 {
	ids := make([]uint32, 0, len(d.MassEraseGroups))
	for id := range d.MassEraseGroups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

var registry = map[string]func() *Descriptor{}

// Register adds a descriptor constructor under its descriptor name.
// The constructor is called on every lookup so that callers never share tables.
func Register(fn func() *Descriptor) {
	name := strings.ToLower(fn().Name)
	if _, ok := registry[name]; ok {
		panic("Device already registered with name " + name)
	}
	registry[name] = fn
}

// ByName returns a fresh descriptor for name, or nil if unknown.
func ByName(name string) *Descriptor {
	fn, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return fn()
}

// Names returns the registered device names in ascending order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
