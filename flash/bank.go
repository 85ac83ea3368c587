package flash

import "fmt"

// EraseState is the advisory erase state of a sector.
// It is not re-verified against the hardware.
type EraseState int

const (
	// StateUnknown means nothing is known about the sector content
	StateUnknown EraseState = iota

	// StateErased means the sector was erased and not written since, or
	// read back as all 0xFF
	StateErased

	// StateDirty means the sector was written after its last erase, or holds
	// programmed bytes
	StateDirty
)

func (s EraseState) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateErased:
		return "erased"
	case StateDirty:
		return "dirty"
	default:
		return fmt.Sprintf("EraseState(%d)", int(s))
	}
}

// Sector is one erase unit of a bank.
type Sector struct {
	// Offset is relative to the bank base
	Offset uint32
	Size   uint32

	State     EraseState
	Protected bool
}

// Bank is a logical flash bank. ID is set by the caller; everything else is
// filled in by Probe.
type Bank struct {
	ID   int
	Base uint32
	Size uint32

	Sectors []Sector
}

// Addr returns the logical address of sector i.
func (b *Bank) Addr(i int) uint32 {
	return b.Base + b.Sectors[i].Offset
}

// setState updates every sector overlapping [offset, offset+length).
func (b *Bank) setState(offset, length uint32, state EraseState) {
	end := uint64(offset) + uint64(length)
	for i := range b.Sectors {
		s := &b.Sectors[i]
		if uint64(s.Offset) < end && uint64(s.Offset)+uint64(s.Size) > uint64(offset) {
			s.State = state
		}
	}
}

// Probe looks up the geometry of bank.ID and reallocates its sector list.
// Every sector starts in StateUnknown and unprotected, so previous erase
// knowledge is discarded.
func (d *Driver) Probe(bank *Bank) error {
	g, ok := d.dev.Banks[bank.ID]
	if !ok {
		d.logError("probe failed", "bank", bank.ID)
		return &UnknownBankError{ID: bank.ID, Device: d.dev.Name}
	}

	n := g.NumSectors()
	bank.Base = g.Base
	bank.Size = g.Size
	bank.Sectors = make([]Sector, n)
	for i := range bank.Sectors {
		bank.Sectors[i] = Sector{
			Offset: uint32(i) * g.SectorSize,
			Size:   g.SectorSize,
			State:  StateUnknown,
		}
	}

	d.logInfo("probed bank",
		"bank", bank.ID,
		"sectors", n,
		"sector_size", fmt.Sprintf("0x%X", g.SectorSize),
		"size", fmt.Sprintf("0x%X", g.Size),
		"base", fmt.Sprintf("0x%08X", g.Base),
	)
	return nil
}

// AutoProbe is an alias of Probe.
func (d *Driver) AutoProbe(bank *Bank) error {
	d.logDebug("auto probe", "bank", bank.ID)
	return d.Probe(bank)
}

// ProtectCheck reports every sector as unprotected. The protection state is
// not queried from the hardware.
func (d *Driver) ProtectCheck(bank *Bank) error {
	for i := range bank.Sectors {
		bank.Sectors[i].Protected = false
	}
	return nil
}

// Protect is not supported by the hardware driver.
func (d *Driver) Protect(bank *Bank, set bool, first, last int) error {
	return ErrUnsupported
}

// checkProbed rejects banks without a sector list.
func (d *Driver) checkProbed(bank *Bank) error {
	if bank == nil {
		return fmt.Errorf("bank cannot be nil")
	}
	if len(bank.Sectors) == 0 || bank.Size == 0 {
		return fmt.Errorf("bank %d is not probed", bank.ID)
	}
	return nil
}
