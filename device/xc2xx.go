package device

import "github.com/moffa90/go-ryflash/protocol"

// Fixed instance windows of the xc2xx. They coincide with the ry double-A layout.
const (
	xc2xxPFU0Addr = 0x10000000
	xc2xxPFU1Addr = 0x10200000
	xc2xxPFU2Addr = 0x14000000
	xc2xxPFU3Addr = 0x14200000
)

func init() {
	Register(XC2XX)
}

// XC2XX describes the Program-Flash-only device with a static instance layout.
func XC2XX() *Descriptor {
	return &Descriptor{
		Name:        "xc2xx",
		Description: "4x PFU, static mapping",
		Regions: []Region{
			{
				Kind:             protocol.ProgramFlash,
				TypeBit:          protocol.ProgramFlashTypeBit,
				Controllers:      []uint32{protocol.PFU0Base, protocol.PFU1Base, protocol.PFU2Base, protocol.PFU3Base},
				BlockSize:        protocol.PFUBlockSize,
				SectorSize:       0x4000,
				SectorEnableRegs: 4,
				Maps: map[protocol.MappingMode][]uint32{
					protocol.MapSingle: {xc2xxPFU0Addr, xc2xxPFU1Addr, xc2xxPFU2Addr, xc2xxPFU3Addr},
				},
				Program:    ProgramSingle,
				WordsPerOp: protocol.DataRegisterCount,
			},
		},
		Banks: map[int]Geometry{
			0: {Base: 0x10000000, Size: 0x400000, SectorSize: 0x4000},
			1: {Base: 0x14000000, Size: 0x400000, SectorSize: 0x4000},
		},
		MassEraseGroups: map[uint32][]MassEraseTarget{
			0: {
				{Kind: protocol.ProgramFlash, Instance: 0, Address: xc2xxPFU0Addr},
				{Kind: protocol.ProgramFlash, Instance: 1, Address: xc2xxPFU1Addr},
			},
			1: {
				{Kind: protocol.ProgramFlash, Instance: 2, Address: xc2xxPFU2Addr},
				{Kind: protocol.ProgramFlash, Instance: 3, Address: xc2xxPFU3Addr},
			},
		},
	}
}
