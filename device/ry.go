package device

import "github.com/moffa90/go-ryflash/protocol"

func init() {
	Register(RY)
}

// RY describes the dual-controller device: four Program-Flash and two Data-Flash
// instances behind the single/double-A/double-B mapping scheme.
func RY() *Descriptor {
	return &Descriptor{
		Name:            "ry",
		Description:     "4x PFU + 2x DFU, dual mapping",
		MapModeRegister: protocol.MapModeRegister,
		Regions: []Region{
			{
				Kind:             protocol.ProgramFlash,
				TypeBit:          protocol.ProgramFlashTypeBit,
				Controllers:      []uint32{protocol.PFU0Base, protocol.PFU1Base, protocol.PFU2Base, protocol.PFU3Base},
				BlockSize:        protocol.PFUBlockSize,
				SectorSize:       0x4000,
				SectorEnableRegs: 4,
				Maps: map[protocol.MappingMode][]uint32{
					protocol.MapSingle:  {protocol.PFU0AddrSingle, protocol.PFU1AddrSingle, protocol.PFU2AddrSingle, protocol.PFU3AddrSingle},
					protocol.MapDoubleA: {protocol.PFU0AddrMapA, protocol.PFU1AddrMapA, protocol.PFU2AddrMapA, protocol.PFU3AddrMapA},
					protocol.MapDoubleB: {protocol.PFU0AddrMapB, protocol.PFU1AddrMapB, protocol.PFU2AddrMapB, protocol.PFU3AddrMapB},
				},
				DualBit:    protocol.MapPFUDual,
				SelectABit: protocol.MapPFUSelectA,
				Program:    ProgramSeries,
				WordsPerOp: protocol.DataRegisterCount,
			},
			{
				Kind:             protocol.DataFlash,
				TypeBit:          protocol.DataFlashTypeBit,
				Controllers:      []uint32{protocol.DFU0Base, protocol.DFU1Base},
				BlockSize:        protocol.DFUBlockSize,
				SectorSize:       0x1000,
				SectorEnableRegs: 1,
				Maps: map[protocol.MappingMode][]uint32{
					protocol.MapSingle:  {protocol.DFU0AddrSingle, protocol.DFU1AddrSingle},
					protocol.MapDoubleA: {protocol.DFU0AddrMapA, protocol.DFU1AddrMapA},
					protocol.MapDoubleB: {protocol.DFU0AddrMapB, protocol.DFU1AddrMapB},
				},
				DualBit:    protocol.MapDFUDual,
				SelectABit: protocol.MapDFUSelectA,
				Fixed: []FixedWindow{
					{Window: protocol.Window{Base: protocol.DFU0SCSBase, Size: protocol.DFUSCSBlockSize}, Instance: 0},
				},
				Program:    ProgramSingle,
				WordsPerOp: 1,
			},
		},
		Banks: map[int]Geometry{
			0: {Base: 0x10000000, Size: 0x400000, SectorSize: 0x4000},
			1: {Base: 0x14000000, Size: 0x400000, SectorSize: 0x4000},
			2: {Base: 0x40400000, Size: 0x20000, SectorSize: 0x1000},
			3: {Base: 0x40800000, Size: 0x20000, SectorSize: 0x1000},
			4: {Base: 0x40C00000, Size: 0x4000, SectorSize: 0x1000},
		},
		// PFU mass erase takes the PFU0 single-map address on every instance.
		MassEraseGroups: map[uint32][]MassEraseTarget{
			0: {
				{Kind: protocol.ProgramFlash, Instance: 0, Address: protocol.PFU0AddrSingle},
				{Kind: protocol.ProgramFlash, Instance: 1, Address: protocol.PFU0AddrSingle},
			},
			1: {
				{Kind: protocol.ProgramFlash, Instance: 2, Address: protocol.PFU0AddrSingle},
				{Kind: protocol.ProgramFlash, Instance: 3, Address: protocol.PFU0AddrSingle},
			},
			2: {
				{Kind: protocol.DataFlash, Instance: 0, Address: protocol.DFU0AddrMapA},
			},
			3: {
				{Kind: protocol.DataFlash, Instance: 1, Address: protocol.DFU1AddrMapA},
			},
		},
	}
}
