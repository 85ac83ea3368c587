package sim

import (
	"github.com/moffa90/go-ryflash/device"
	"github.com/moffa90/go-ryflash/protocol"
)

// controllerSpan is the size of one controller register block.
const controllerSpan = 0x400

type lockState int

const (
	locked lockState = iota
	firstKey
	unlocked
)

// controller is the register state of one flash controller instance.
type controller struct {
	region   *device.Region
	instance int
	base     uint32

	lock lockState
	swer [4]uint32

	wmr uint32
	oar uint32
	pdr [protocol.DataRegisterCount]uint32

	// loaded has bit n set when PDRn was written since the last start
	loaded uint32

	// next is the series program cursor
	next uint32

	// busy is the number of status reads left before RDY is reported; negative never clears
	busy int
}

func (c *controller) contains(addr uint32) bool {
	return addr >= c.base && addr-c.base < controllerSpan
}

// sectorEnabled reports whether the SWER bit of the sector at off is set.
func (c *controller) sectorEnabled(off uint32) bool {
	idx := off / c.region.SectorSize
	reg := idx / 32
	if int(reg) >= c.region.SectorEnableRegs || int(reg) >= len(c.swer) {
		return false
	}
	return c.swer[reg]&(1<<(idx%32)) != 0
}

func (c *controller) allSectorsEnabled() bool {
	for i := 0; i < c.region.SectorEnableRegs; i++ {
		if c.swer[i] != protocol.SectorEnableAll {
			return false
		}
	}
	return true
}

func (c *controller) readReg(off uint32) uint32 {
	switch off {
	case protocol.RegWMPR:
		if c.lock == unlocked {
			return 1
		}
		return 0
	case protocol.RegWMR:
		return c.wmr
	case protocol.RegOAR:
		return c.oar
	case protocol.RegFSR:
		if c.busy != 0 {
			if c.busy > 0 {
				c.busy--
			}
			return 0
		}
		return protocol.StatusReady | protocol.StatusWritePermit
	case protocol.RegPDR0, protocol.RegPDR1, protocol.RegPDR2, protocol.RegPDR3:
		return c.pdr[(off-protocol.RegPDR0)/protocol.WordSize]
	case protocol.RegSWER0:
		return c.swer[0]
	case protocol.RegSWER1:
		return c.swer[1]
	case protocol.RegSWER2:
		return c.swer[2]
	case protocol.RegSWER3:
		return c.swer[3]
	}
	return 0
}

// writeReg applies a register write and reports whether it started a command.
func (c *controller) writeReg(off, v uint32) bool {
	if off == protocol.RegWMPR {
		switch {
		case v == protocol.UnlockKey1:
			c.lock = firstKey
		case v == protocol.UnlockKey2 && c.lock == firstKey:
			c.lock = unlocked
		default:
			c.lock = locked
		}
		return false
	}

	if c.lock != unlocked {
		return false
	}

	switch off {
	case protocol.RegSWER0:
		c.swer[0] = v
	case protocol.RegSWER1:
		c.swer[1] = v
	case protocol.RegSWER2:
		c.swer[2] = v
	case protocol.RegSWER3:
		c.swer[3] = v
	case protocol.RegWMR:
		c.wmr = v
		c.loaded = 0
	case protocol.RegOAR:
		c.oar = v
		c.next = v
	case protocol.RegPDR0, protocol.RegPDR1, protocol.RegPDR2, protocol.RegPDR3:
		n := (off - protocol.RegPDR0) / protocol.WordSize
		c.pdr[n] = v
		c.loaded |= 1 << n
	case protocol.RegOSR:
		return v&protocol.OperationStart != 0
	}
	return false
}

// loadedWords returns the number of data registers written contiguously from PDR0.
func (c *controller) loadedWords() int {
	n := 0
	for n < protocol.DataRegisterCount && c.loaded&(1<<n) != 0 {
		n++
	}
	return n
}
