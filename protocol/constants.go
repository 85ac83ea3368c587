package protocol

import "time"

// Flash controller register block bases.
const (
	// PFU0Base is the register block of Program-Flash controller 0
	PFU0Base = 0x40070000

	// PFU1Base is the register block of Program-Flash controller 1
	PFU1Base = 0x40070400

	// PFU2Base is the register block of Program-Flash controller 2
	PFU2Base = 0x40070800

	// PFU3Base is the register block of Program-Flash controller 3
	PFU3Base = 0x40070C00

	// DFU0Base is the register block of Data-Flash controller 0
	DFU0Base = 0x40078000

	// DFU1Base is the register block of Data-Flash controller 1
	DFU1Base = 0x40078400
)

// Register offsets relative to a controller register block.
// The layout is shared by Program-Flash and Data-Flash controllers.
const (
	// RegWMPR is the write-mode-protect register (unlock handshake target)
	RegWMPR = 0x04

	// RegRMR is the read mode register
	RegRMR = 0x08

	// RegWMR is the write mode register (command code)
	RegWMR = 0x0C

	// RegOSR is the operation start register
	RegOSR = 0x10

	// RegFSR is the flash status register
	RegFSR = 0x20

	// RegFSCR is the flash status clear register
	RegFSCR = 0x24

	// RegIER is the interrupt enable register
	RegIER = 0x28

	// RegOAR is the operation address register
	RegOAR = 0x30

	// RegPDR0 is the first of four consecutive program data registers
	RegPDR0 = 0x40
	RegPDR1 = 0x44
	RegPDR2 = 0x48
	RegPDR3 = 0x4C

	// RegSWER0 to RegSWER3 are the sector write enable registers.
	// Note the gap at 0x88.
	RegSWER0 = 0x80
	RegSWER1 = 0x84
	RegSWER2 = 0x8C
	RegSWER3 = 0x90
)

// DataRegisterCount is the number of program data registers per controller.
const DataRegisterCount = 4

// Unlock handshake words. Both must be written to WMPR, in this order.
const (
	UnlockKey1 = 0x01234567
	UnlockKey2 = 0xFEDCBA98
)

// SectorEnableAll enables writes to every sector covered by a SWER register.
const SectorEnableAll = 0xFFFFFFFF

// Write mode (WMR) command codes.
const (
	// ModeMassErase erases an entire controller instance
	ModeMassErase = 0x2

	// ModeSectorErase erases the sector containing OAR
	ModeSectorErase = 0x3

	// ModeSingleProgram programs the words loaded into PDR0..PDR3
	ModeSingleProgram = 0x6

	// ModeSeriesProgram programs consecutive 16-byte groups starting at OAR
	ModeSeriesProgram = 0xC

	// ModeWriteDisable is the WMR write-disable bit
	ModeWriteDisable = 0x80000000
)

// Status and control bits.
const (
	// StatusReady is set in FSR when the controller finished its command
	StatusReady = 0x00000100

	// StatusWritePermit is set in FSR when the controller accepts the next data group
	StatusWritePermit = 0x00000200

	// OperationStart is written to OSR to start the loaded command
	OperationStart = 0x00000001
)

// Logical address classification bits.
const (
	// ProgramFlashTypeBit marks a logical address as Program-Flash
	ProgramFlashTypeBit = 0x10000000

	// DataFlashTypeBit marks a logical address as Data-Flash
	DataFlashTypeBit = 0x40000000
)

// MapModeRegister is the shared mapping-configuration register.
const MapModeRegister = 0x4002703C

// Mapping-configuration register bits.
const (
	// MapPFUDual enables dual mapping for Program-Flash
	MapPFUDual = 0x1

	// MapDFUDual enables dual mapping for Data-Flash
	MapDFUDual = 0x2

	// MapPFUSelectA selects DoubleA (set) or DoubleB (clear) for Program-Flash
	MapPFUSelectA = 0x4

	// MapDFUSelectA selects DoubleA (set) or DoubleB (clear) for Data-Flash
	MapDFUSelectA = 0x8
)

// Controller window sizes.
const (
	// PFUBlockSize is the address window of one Program-Flash instance
	PFUBlockSize = 0x200000

	// DFUBlockSize is the address window of one Data-Flash instance
	DFUBlockSize = 0x20000

	// DFUSCSBlockSize is the size of the Data-Flash SCS control window
	DFUSCSBlockSize = 0x4000
)

// Program-Flash instance windows per mapping mode.
const (
	PFU0AddrSingle = 0x10000000
	PFU1AddrSingle = 0x10200000
	PFU2AddrSingle = 0x10400000
	PFU3AddrSingle = 0x10600000

	PFU0AddrMapA = 0x10000000
	PFU1AddrMapA = 0x10200000
	PFU2AddrMapA = 0x14000000
	PFU3AddrMapA = 0x14200000

	PFU0AddrMapB = 0x14000000
	PFU1AddrMapB = 0x14200000
	PFU2AddrMapB = 0x10000000
	PFU3AddrMapB = 0x10200000
)

// Data-Flash instance windows per mapping mode.
const (
	DFU0AddrSingle = 0x40400000
	DFU1AddrSingle = 0x40420000

	DFU0AddrMapA = 0x40400000
	DFU1AddrMapA = 0x40800000

	DFU0AddrMapB = 0x40800000
	DFU1AddrMapB = 0x40400000

	// DFU0SCSBase always belongs to Data-Flash instance 0
	DFU0SCSBase = 0x40C00000
)

// Program granularity.
const (
	// WordSize is the program and alignment unit in bytes
	WordSize = 4

	// GroupSize is the number of bytes loaded into PDR0..PDR3 per start
	GroupSize = DataRegisterCount * WordSize

	// SeriesChunkSize is the number of bytes programmed per series command
	SeriesChunkSize = 128

	// ErasedByte is the content of erased flash
	ErasedByte = 0xFF
)

// Polling defaults.
const (
	// DefaultPollTimeout is the number of status reads before giving up
	DefaultPollTimeout = 100000

	// DefaultPollDelay is the delay between two status reads
	DefaultPollDelay = 10 * time.Millisecond
)
