package protocol

import "fmt"

// BuildUnlockSeq constructs the write-mode-protect unlock handshake for one controller.
// The second key is only honoured immediately after the first one.
//
// Sequence:
//
//	[WMPR] <- UnlockKey1
//	[WMPR] <- UnlockKey2
func BuildUnlockSeq(ctrl uint32) []RegWrite {
	return []RegWrite{
		{Addr: ctrl + RegWMPR, Value: UnlockKey1},
		{Addr: ctrl + RegWMPR, Value: UnlockKey2},
	}
}

// sectorEnableRegs lists the SWER registers in write order.
var sectorEnableRegs = [...]uint32{RegSWER0, RegSWER1, RegSWER2, RegSWER3}

// BuildSectorEnableSeq constructs the writes that clear sector write protection
// on the first count SWER registers of a controller.
func BuildSectorEnableSeq(ctrl uint32, count int) ([]RegWrite, error) {
	if count < 0 || count > len(sectorEnableRegs) {
		return nil, fmt.Errorf("sector enable register count must be 0-%d, got %d", len(sectorEnableRegs), count)
	}

	seq := make([]RegWrite, 0, count)
	for _, off := range sectorEnableRegs[:count] {
		seq = append(seq, RegWrite{Addr: ctrl + off, Value: SectorEnableAll})
	}
	return seq, nil
}

// BuildSectorEraseSeq constructs a sector erase command for the sector containing addr.
//
// Sequence:
//
//	[WMR] <- ModeSectorErase
//	[OAR] <- addr
//	[OSR] <- OperationStart
func BuildSectorEraseSeq(ctrl, addr uint32) []RegWrite {
	return buildCommandSeq(ctrl, ModeSectorErase, addr)
}

// BuildMassEraseSeq constructs a mass erase command for one controller instance.
// addr is a representative address accepted by that instance.
func BuildMassEraseSeq(ctrl, addr uint32) []RegWrite {
	return buildCommandSeq(ctrl, ModeMassErase, addr)
}

func buildCommandSeq(ctrl, mode, addr uint32) []RegWrite {
	return []RegWrite{
		{Addr: ctrl + RegWMR, Value: mode},
		{Addr: ctrl + RegOAR, Value: addr},
		{Addr: ctrl + RegOSR, Value: OperationStart},
	}
}

// BuildSingleProgramSeq constructs a single program operation of one to
// DataRegisterCount words at addr.
//
// Sequence:
//
//	[WMR]  <- ModeSingleProgram
//	[OAR]  <- addr
//	[PDRn] <- words[n]
//	[OSR]  <- OperationStart
func BuildSingleProgramSeq(ctrl, addr uint32, words []uint32) ([]RegWrite, error) {
	if len(words) == 0 || len(words) > DataRegisterCount {
		return nil, fmt.Errorf("single program takes 1-%d words, got %d", DataRegisterCount, len(words))
	}
	if addr%WordSize != 0 {
		return nil, fmt.Errorf("program address 0x%08X is not word aligned", addr)
	}

	seq := make([]RegWrite, 0, 3+len(words))
	seq = append(seq,
		RegWrite{Addr: ctrl + RegWMR, Value: ModeSingleProgram},
		RegWrite{Addr: ctrl + RegOAR, Value: addr},
	)
	for i, w := range words {
		seq = append(seq, RegWrite{Addr: ctrl + RegPDR0 + uint32(i*WordSize), Value: w})
	}
	seq = append(seq, RegWrite{Addr: ctrl + RegOSR, Value: OperationStart})
	return seq, nil
}

// BuildSeriesStartSeq selects series program mode and loads the chunk address.
// Each following group is sent with BuildSeriesGroupSeq once write-permit is set.
func BuildSeriesStartSeq(ctrl, addr uint32) ([]RegWrite, error) {
	if addr%WordSize != 0 {
		return nil, fmt.Errorf("program address 0x%08X is not word aligned", addr)
	}
	return []RegWrite{
		{Addr: ctrl + RegWMR, Value: ModeSeriesProgram},
		{Addr: ctrl + RegOAR, Value: addr},
	}, nil
}

// BuildSeriesGroupSeq loads one 16-byte group into PDR0..PDR3 and starts it.
func BuildSeriesGroupSeq(ctrl uint32, group [DataRegisterCount]uint32) []RegWrite {
	seq := make([]RegWrite, 0, DataRegisterCount+1)
	for i, w := range group {
		seq = append(seq, RegWrite{Addr: ctrl + RegPDR0 + uint32(i*WordSize), Value: w})
	}
	return append(seq, RegWrite{Addr: ctrl + RegOSR, Value: OperationStart})
}
