package sim

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/moffa90/go-ryflash/device"
	"github.com/moffa90/go-ryflash/protocol"
)

func mustWrite(t *testing.T, tgt *Target, seq []protocol.RegWrite) {
	t.Helper()
	for _, w := range seq {
		if err := tgt.WriteU32(context.Background(), w.Addr, w.Value); err != nil {
			t.Fatalf("WriteU32(%v) error: %v", w, err)
		}
	}
}

func unlock(t *testing.T, tgt *Target, ctrl uint32, swer int) {
	t.Helper()
	mustWrite(t, tgt, protocol.BuildUnlockSeq(ctrl))
	seq, err := protocol.BuildSectorEnableSeq(ctrl, swer)
	if err != nil {
		t.Fatal(err)
	}
	mustWrite(t, tgt, seq)
}

func singleProgram(t *testing.T, tgt *Target, ctrl, addr uint32, words ...uint32) {
	t.Helper()
	seq, err := protocol.BuildSingleProgramSeq(ctrl, addr, words)
	if err != nil {
		t.Fatal(err)
	}
	mustWrite(t, tgt, seq)
}

func TestNewIsErasedAndHalted(t *testing.T) {
	tgt := New(device.ByName("ry"))

	halted, err := tgt.IsHalted(context.Background())
	if err != nil || !halted {
		t.Fatalf("IsHalted() = %v, %v, want true", halted, err)
	}
	v, err := tgt.ReadU32(context.Background(), 0x10000000)
	if err != nil {
		t.Fatalf("ReadU32() error: %v", err)
	}
	if v != 0xFFFFFFFF {
		t.Errorf("erased flash reads 0x%08X", v)
	}
}

func TestUnlockHandshake(t *testing.T) {
	tests := []struct {
		name string
		keys []uint32
		want bool
	}{
		{name: "both keys", keys: []uint32{protocol.UnlockKey1, protocol.UnlockKey2}, want: true},
		{name: "reversed", keys: []uint32{protocol.UnlockKey2, protocol.UnlockKey1}, want: false},
		{name: "first key only", keys: []uint32{protocol.UnlockKey1}, want: false},
		{name: "interrupted", keys: []uint32{protocol.UnlockKey1, 0, protocol.UnlockKey2}, want: false},
		{name: "retried", keys: []uint32{protocol.UnlockKey2, protocol.UnlockKey1, protocol.UnlockKey2}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt := New(device.ByName("ry"))
			for _, k := range tt.keys {
				if err := tgt.WriteU32(context.Background(), protocol.PFU1Base+protocol.RegWMPR, k); err != nil {
					t.Fatal(err)
				}
			}
			if got := tgt.Unlocked(protocol.ProgramFlash, 1); got != tt.want {
				t.Errorf("Unlocked() = %v, want %v", got, tt.want)
			}
			if tgt.Unlocked(protocol.ProgramFlash, 0) {
				t.Error("other controller unlocked")
			}
		})
	}
}

func TestLockedControllerIgnoresWrites(t *testing.T) {
	tgt := New(device.ByName("ry"))
	ctx := context.Background()

	singleProgram(t, tgt, protocol.PFU0Base, 0x10000000, 0)

	v, _ := tgt.ReadU32(ctx, 0x10000000)
	if v != 0xFFFFFFFF {
		t.Errorf("locked controller programmed flash: 0x%08X", v)
	}
	if wmr, _ := tgt.ReadU32(ctx, protocol.PFU0Base+protocol.RegWMR); wmr != 0 {
		t.Errorf("locked controller latched WMR 0x%X", wmr)
	}
}

func TestSectorEnableGating(t *testing.T) {
	tgt := New(device.ByName("ry"))
	ctx := context.Background()

	mustWrite(t, tgt, protocol.BuildUnlockSeq(protocol.DFU0Base))
	mustWrite(t, tgt, []protocol.RegWrite{{Addr: protocol.DFU0Base + protocol.RegSWER0, Value: 0x2}})

	singleProgram(t, tgt, protocol.DFU0Base, 0x40400000, 0x12345678)
	singleProgram(t, tgt, protocol.DFU0Base, 0x40401000, 0x12345678)

	if v, _ := tgt.ReadU32(ctx, 0x40400000); v != 0xFFFFFFFF {
		t.Errorf("disabled sector 0 programmed: 0x%08X", v)
	}
	if v, _ := tgt.ReadU32(ctx, 0x40401000); v != 0x12345678 {
		t.Errorf("enabled sector 1 = 0x%08X, want 0x12345678", v)
	}
	if tgt.Rejected() != 1 {
		t.Errorf("Rejected() = %d, want 1", tgt.Rejected())
	}
}

func TestProgramAndErase(t *testing.T) {
	tgt := New(device.ByName("ry"))
	ctx := context.Background()
	unlock(t, tgt, protocol.DFU0Base, 1)

	singleProgram(t, tgt, protocol.DFU0Base, 0x40400FFC, 0xF0F0F0F0)
	singleProgram(t, tgt, protocol.DFU0Base, 0x40401000, 0xAABBCCDD)
	// programming only clears bits
	singleProgram(t, tgt, protocol.DFU0Base, 0x40401000, 0x0F0F0F0F)

	if v, _ := tgt.ReadU32(ctx, 0x40401000); v != 0x0A0B0C0D {
		t.Errorf("AND programming = 0x%08X, want 0x0A0B0C0D", v)
	}

	mustWrite(t, tgt, protocol.BuildSectorEraseSeq(protocol.DFU0Base, 0x40401010))

	if v, _ := tgt.ReadU32(ctx, 0x40401000); v != 0xFFFFFFFF {
		t.Errorf("erased sector reads 0x%08X", v)
	}
	if v, _ := tgt.ReadU32(ctx, 0x40400FFC); v != 0xF0F0F0F0 {
		t.Errorf("neighbouring sector changed: 0x%08X", v)
	}
}

func TestEraseRejectsForeignAddress(t *testing.T) {
	tgt := New(device.ByName("ry"))
	unlock(t, tgt, protocol.DFU0Base, 1)
	unlock(t, tgt, protocol.DFU1Base, 1)
	singleProgram(t, tgt, protocol.DFU1Base, 0x40420000, 0)

	// 0x40420000 belongs to DFU1 in single mapping
	mustWrite(t, tgt, protocol.BuildSectorEraseSeq(protocol.DFU0Base, 0x40420000))

	if v, _ := tgt.ReadU32(context.Background(), 0x40420000); v != 0 {
		t.Errorf("DFU0 erased a DFU1 sector: 0x%08X", v)
	}
	if tgt.Rejected() != 1 {
		t.Errorf("Rejected() = %d, want 1", tgt.Rejected())
	}
}

func TestSeriesProgram(t *testing.T) {
	tgt := New(device.ByName("ry"))
	unlock(t, tgt, protocol.PFU0Base, 4)

	start, err := protocol.BuildSeriesStartSeq(protocol.PFU0Base, 0x10000100)
	if err != nil {
		t.Fatal(err)
	}
	mustWrite(t, tgt, start)
	mustWrite(t, tgt, protocol.BuildSeriesGroupSeq(protocol.PFU0Base, [4]uint32{0x03020100, 0x07060504, 0x0B0A0908, 0x0F0E0D0C}))
	mustWrite(t, tgt, protocol.BuildSeriesGroupSeq(protocol.PFU0Base, [4]uint32{0x13121110, 0x17161514, 0x1B1A1918, 0x1F1E1D1C}))

	got, err := tgt.Peek(0x10000100, 36)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]byte, 36)
	for i := 0; i < 32; i++ {
		want[i] = byte(i)
	}
	copy(want[32:], []byte{0xFF, 0xFF, 0xFF, 0xFF})
	if !bytes.Equal(got, want) {
		t.Errorf("Peek() = % X, want % X", got, want)
	}
}

func TestMassEraseNeedsAllSectors(t *testing.T) {
	tgt := New(device.ByName("ry"))
	if err := tgt.Load(0x10200000, []byte{0, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}

	mustWrite(t, tgt, protocol.BuildUnlockSeq(protocol.PFU1Base))
	mustWrite(t, tgt, []protocol.RegWrite{{Addr: protocol.PFU1Base + protocol.RegSWER0, Value: protocol.SectorEnableAll}})
	mustWrite(t, tgt, protocol.BuildMassEraseSeq(protocol.PFU1Base, 0x10000000))
	if v, _ := tgt.ReadU32(context.Background(), 0x10200000); v != 0 {
		t.Fatalf("mass erase ran with partial sector enable: 0x%08X", v)
	}

	unlock(t, tgt, protocol.PFU1Base, 4)
	mustWrite(t, tgt, protocol.BuildMassEraseSeq(protocol.PFU1Base, 0x10000000))
	if v, _ := tgt.ReadU32(context.Background(), 0x10200000); v != 0xFFFFFFFF {
		t.Errorf("mass erase left 0x%08X", v)
	}
}

func TestMappingDecodesReads(t *testing.T) {
	tgt := New(device.ByName("ry"))
	ctx := context.Background()

	// PFU2 array, visible at 0x10400000 in single mapping
	if err := tgt.Load(0x10400000, []byte{0x11, 0x22, 0x33, 0x44}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		mapReg uint32
		addr   uint32
	}{
		{mapReg: 0, addr: 0x10400000},
		{mapReg: protocol.MapPFUDual | protocol.MapPFUSelectA, addr: 0x14000000},
		{mapReg: protocol.MapPFUDual, addr: 0x10000000},
	}

	for _, tt := range tests {
		if err := tgt.WriteU32(ctx, protocol.MapModeRegister, tt.mapReg); err != nil {
			t.Fatal(err)
		}
		v, err := tgt.ReadU32(ctx, tt.addr)
		if err != nil {
			t.Fatalf("ReadU32(0x%08X) error: %v", tt.addr, err)
		}
		if v != 0x44332211 {
			t.Errorf("map 0x%X: ReadU32(0x%08X) = 0x%08X, want 0x44332211", tt.mapReg, tt.addr, v)
		}
	}

	if tgt.MapRegister() != protocol.MapPFUDual {
		t.Errorf("MapRegister() = 0x%X", tgt.MapRegister())
	}
	if _, err := tgt.ReadU32(ctx, 0x10600000); err == nil {
		t.Error("expected bus fault for an unmapped window in double-B mapping")
	}
}

func TestSCSWindow(t *testing.T) {
	tgt := New(device.ByName("ry"))
	unlock(t, tgt, protocol.DFU0Base, 1)
	tgt.SetMapRegister(protocol.MapDFUDual)

	singleProgram(t, tgt, protocol.DFU0Base, 0x40C00004, 0xCAFEF00D)

	got, err := tgt.Peek(0x40C00004, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x0D, 0xF0, 0xFE, 0xCA}) {
		t.Errorf("SCS = % X", got)
	}
	if main, _ := tgt.Peek(0x40800004, 4); !bytes.Equal(main, []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("SCS write leaked into the main array: % X", main)
	}
}

func TestBusyStatus(t *testing.T) {
	tgt := New(device.ByName("ry"))
	tgt.SetBusy(2)
	unlock(t, tgt, protocol.DFU1Base, 1)
	mustWrite(t, tgt, protocol.BuildSectorEraseSeq(protocol.DFU1Base, 0x40420000))

	ctx := context.Background()
	var got []uint32
	for i := 0; i < 3; i++ {
		v, err := tgt.ReadU32(ctx, protocol.DFU1Base+protocol.RegFSR)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, v)
	}
	if got[0] != 0 || got[1] != 0 || !protocol.StatusHas(got[2], protocol.StatusReady) {
		t.Errorf("status sequence = %08X", got)
	}
}

func TestFaultInjection(t *testing.T) {
	tgt := New(device.ByName("xc2xx"))
	ctx := context.Background()
	boom := errors.New("probe disconnected")

	tgt.SetFault(func(a Access) error {
		if a.Op == OpWrite && a.Addr == protocol.PFU0Base+protocol.RegOSR {
			return boom
		}
		return nil
	})

	if err := tgt.WriteU32(ctx, protocol.PFU0Base+protocol.RegOSR, 1); !errors.Is(err, boom) {
		t.Errorf("WriteU32() error = %v, want injected fault", err)
	}
	if err := tgt.WriteU32(ctx, protocol.PFU0Base+protocol.RegWMR, 2); err != nil {
		t.Errorf("WriteU32() error: %v", err)
	}

	log := tgt.Accesses()
	if len(log) != 1 || log[0].Addr != protocol.PFU0Base+protocol.RegWMR {
		t.Errorf("Accesses() = %v, want only the successful write", log)
	}
	tgt.ResetAccesses()
	if len(tgt.Accesses()) != 0 {
		t.Error("ResetAccesses() did not clear the log")
	}

	tgt.SetFault(nil)
	tgt.SetHalted(false)
	if halted, _ := tgt.IsHalted(ctx); halted {
		t.Error("IsHalted() = true after SetHalted(false)")
	}
}

func TestBusAccessErrors(t *testing.T) {
	tgt := New(device.ByName("xc2xx"))
	ctx := context.Background()

	if _, err := tgt.ReadU32(ctx, 0x20000000); err == nil {
		t.Error("expected bus fault reading RAM")
	}
	if _, err := tgt.ReadU32(ctx, 0x10000002); err == nil {
		t.Error("expected error for an unaligned read")
	}
	if err := tgt.WriteU32(ctx, 0x10000000, 0); err == nil {
		t.Error("expected error writing flash directly")
	}
	// xc2xx has no mapping register
	if err := tgt.WriteU32(ctx, protocol.MapModeRegister, 1); err == nil {
		t.Error("expected bus fault for the mapping register")
	}
}
