package flash

import (
	"context"
	"errors"
	"testing"

	"github.com/moffa90/go-ryflash/protocol"
)

// prepareWrites is the number of unlock and sector enable writes per device.
var prepareWrites = map[string]int{
	"ry":    4*(2+4) + 2*(2+1),
	"xc2xx": 4 * (2 + 4),
}

func probed(t *testing.T, drv *Driver, id int) *Bank {
	t.Helper()
	bank := &Bank{ID: id}
	if err := drv.Probe(bank); err != nil {
		t.Fatalf("Probe(%d) error: %v", id, err)
	}
	return bank
}

func TestPrepareSequence(t *testing.T) {
	tgt := NewMockTarget()
	drv := newTestDriver(tgt, "ry")

	if err := drv.prepare(context.Background()); err != nil {
		t.Fatalf("prepare() error: %v", err)
	}

	var want []protocol.RegWrite
	ctrls := []uint32{protocol.PFU0Base, protocol.PFU1Base, protocol.PFU2Base, protocol.PFU3Base, protocol.DFU0Base, protocol.DFU1Base}
	for _, c := range ctrls {
		want = append(want, protocol.BuildUnlockSeq(c)...)
	}
	for _, c := range ctrls {
		n := 4
		if c >= protocol.DFU0Base {
			n = 1
		}
		seq, _ := protocol.BuildSectorEnableSeq(c, n)
		want = append(want, seq...)
	}

	got := tgt.writes()
	if len(got) != len(want) || len(got) != prepareWrites["ry"] {
		t.Fatalf("prepare() wrote %d registers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("write %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPrepareAbortsOnFailure(t *testing.T) {
	tgt := NewMockTarget()
	tgt.writeErr[protocol.PFU2Base+protocol.RegWMPR] = errors.New("write failed")
	drv := newTestDriver(tgt, "ry")

	err := drv.prepare(context.Background())
	if !protocol.IsTransportError(err) {
		t.Fatalf("prepare() error = %v, want TransportError", err)
	}
	// PFU0 and PFU1 unlocked, first PFU2 key attempted
	if got := len(tgt.writes()); got != 5 {
		t.Errorf("writes = %d, want 5", got)
	}
}

func TestErase(t *testing.T) {
	tgt := NewMockTarget()
	drv := newTestDriver(tgt, "ry")
	bank := probed(t, drv, 2)

	if err := drv.Erase(context.Background(), bank, 0, 1); err != nil {
		t.Fatalf("Erase() error: %v", err)
	}

	const c = protocol.DFU0Base
	want := []call{
		{addr: protocol.MapModeRegister},
		{write: true, addr: c + protocol.RegWMR, value: protocol.ModeSectorErase},
		{write: true, addr: c + protocol.RegOAR, value: 0x40400000},
		{write: true, addr: c + protocol.RegOSR, value: protocol.OperationStart},
		{addr: c + protocol.RegFSR},
		{addr: protocol.MapModeRegister},
		{write: true, addr: c + protocol.RegWMR, value: protocol.ModeSectorErase},
		{write: true, addr: c + protocol.RegOAR, value: 0x40401000},
		{write: true, addr: c + protocol.RegOSR, value: protocol.OperationStart},
		{addr: c + protocol.RegFSR},
	}

	got := tgt.calls[prepareWrites["ry"]:]
	if len(got) != len(want) {
		t.Fatalf("got %d accesses after unlock, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("access %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	for i, s := range bank.Sectors {
		want := StateUnknown
		if i <= 1 {
			want = StateErased
		}
		if s.State != want {
			t.Errorf("sector %d state = %v, want %v", i, s.State, want)
		}
	}
}

func TestEraseFollowsMapping(t *testing.T) {
	tgt := NewMockTarget()
	tgt.regs[protocol.MapModeRegister] = protocol.MapPFUDual
	drv := newTestDriver(tgt, "ry")
	bank := probed(t, drv, 1)

	if err := drv.Erase(context.Background(), bank, 128, 128); err != nil {
		t.Fatalf("Erase() error: %v", err)
	}

	cmds := tgt.commands()
	if len(cmds) != 3 {
		t.Fatalf("commands = %v", cmds)
	}
	// 0x14200000 belongs to PFU1 in double-B mapping
	if cmds[0].Addr != protocol.PFU1Base+protocol.RegWMR || cmds[1].Value != 0x14200000 {
		t.Errorf("commands = %v, want sector erase on PFU1 at 0x14200000", cmds)
	}
}

func TestEraseInvalidRange(t *testing.T) {
	tests := []struct {
		name        string
		first, last int
	}{
		{name: "reversed", first: 3, last: 2},
		{name: "negative", first: -1, last: 2},
		{name: "past end", first: 30, last: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt := NewMockTarget()
			drv := newTestDriver(tgt, "ry")
			bank := probed(t, drv, 2)

			err := drv.Erase(context.Background(), bank, tt.first, tt.last)
			var re *RangeError
			if !errors.As(err, &re) {
				t.Fatalf("Erase() error = %v, want RangeError", err)
			}
			if len(tgt.calls) != 0 || tgt.haltCalls != 0 {
				t.Errorf("invalid range touched the target: %d accesses, %d halt queries", len(tgt.calls), tgt.haltCalls)
			}
		})
	}
}

func TestEraseUnprobedBank(t *testing.T) {
	drv := newTestDriver(NewMockTarget(), "ry")
	if err := drv.Erase(context.Background(), &Bank{ID: 0}, 0, 0); err == nil {
		t.Fatal("expected error for unprobed bank")
	}
	if err := drv.Erase(context.Background(), nil, 0, 0); err == nil {
		t.Fatal("expected error for nil bank")
	}
}

func TestNotHalted(t *testing.T) {
	ops := []struct {
		name string
		run  func(d *Driver, b *Bank) error
	}{
		{name: "erase", run: func(d *Driver, b *Bank) error { return d.Erase(context.Background(), b, 0, 0) }},
		{name: "write", run: func(d *Driver, b *Bank) error { return d.Write(context.Background(), b, make([]byte, 16), 0) }},
		{name: "empty write", run: func(d *Driver, b *Bank) error { return d.Write(context.Background(), b, nil, 0) }},
		{name: "mass erase", run: func(d *Driver, b *Bank) error { return d.MassErase(context.Background(), 0) }},
		{name: "erase check", run: func(d *Driver, b *Bank) error { return d.EraseCheck(context.Background(), b, 0, 0) }},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			tgt := NewMockTarget()
			tgt.halted = false
			drv := newTestDriver(tgt, "ry")
			bank := probed(t, drv, 0)

			err := op.run(drv, bank)
			if !errors.Is(err, ErrNotHalted) {
				t.Fatalf("error = %v, want ErrNotHalted", err)
			}
			if len(tgt.writes()) != 0 {
				t.Errorf("issued %d register writes on a running target", len(tgt.writes()))
			}
		})
	}
}

func TestHaltQueryFailure(t *testing.T) {
	tgt := NewMockTarget()
	tgt.haltErr = errors.New("connection reset")
	drv := newTestDriver(tgt, "ry")
	bank := probed(t, drv, 0)

	err := drv.Erase(context.Background(), bank, 0, 0)
	if !protocol.IsTransportError(err) {
		t.Fatalf("Erase() error = %v, want TransportError", err)
	}
	if len(tgt.calls) != 0 {
		t.Errorf("issued %d register accesses", len(tgt.calls))
	}
}

func TestEraseAbortsOnTimeout(t *testing.T) {
	tgt := NewMockTarget()
	tgt.status = func(addr uint32, n int) uint32 {
		if n == 1 {
			return protocol.StatusReady
		}
		return 0
	}
	drv := newTestDriver(tgt, "ry", WithEraseTimeout(3))
	bank := probed(t, drv, 2)
	bank.Sectors[2].State = StateDirty

	err := drv.Erase(context.Background(), bank, 0, 2)
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Erase() error = %v, want TimeoutError", err)
	}
	if te.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", te.Attempts)
	}

	if got := len(tgt.commands()); got != 6 {
		t.Errorf("commands = %d, want 6 (sectors 0 and 1 only)", got)
	}
	if bank.Sectors[0].State != StateErased {
		t.Errorf("sector 0 state = %v, want erased", bank.Sectors[0].State)
	}
	if bank.Sectors[1].State != StateUnknown {
		t.Errorf("sector 1 state = %v, want unknown", bank.Sectors[1].State)
	}
	if bank.Sectors[2].State != StateDirty {
		t.Errorf("sector 2 state = %v, want untouched dirty", bank.Sectors[2].State)
	}
}

func TestEraseProgress(t *testing.T) {
	var reports []Progress
	drv := newTestDriver(NewMockTarget(), "ry", WithProgressCallback(func(p Progress) {
		reports = append(reports, p)
	}))
	bank := probed(t, drv, 4)

	if err := drv.Erase(context.Background(), bank, 0, 3); err != nil {
		t.Fatalf("Erase() error: %v", err)
	}
	if len(reports) != 4 {
		t.Fatalf("progress reports = %d, want 4", len(reports))
	}
	for i, p := range reports {
		if p.Operation != OpErase || p.Done != i+1 || p.Total != 4 {
			t.Errorf("report %d = %+v", i, p)
		}
		if p.Address != 0x40C00000+uint32(i)*0x1000 {
			t.Errorf("report %d address = 0x%08X", i, p.Address)
		}
	}
	if reports[3].Percentage != 100 {
		t.Errorf("final percentage = %.1f, want 100", reports[3].Percentage)
	}
}

func TestMassErase(t *testing.T) {
	type target struct {
		ctrl uint32
		addr uint32
	}

	tests := []struct {
		name   string
		device string
		group  uint32
		want   []target
	}{
		{name: "ry pfu pair 0", device: "ry", group: 0, want: []target{{protocol.PFU0Base, 0x10000000}, {protocol.PFU1Base, 0x10000000}}},
		{name: "ry pfu pair 1", device: "ry", group: 1, want: []target{{protocol.PFU2Base, 0x10000000}, {protocol.PFU3Base, 0x10000000}}},
		{name: "ry dfu 0", device: "ry", group: 2, want: []target{{protocol.DFU0Base, 0x40400000}}},
		{name: "ry dfu 1", device: "ry", group: 3, want: []target{{protocol.DFU1Base, 0x40800000}}},
		{name: "xc2xx pfu pair 1", device: "xc2xx", group: 1, want: []target{{protocol.PFU2Base, 0x14000000}, {protocol.PFU3Base, 0x14200000}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt := NewMockTarget()
			drv := newTestDriver(tgt, tt.device)

			if err := drv.MassErase(context.Background(), tt.group); err != nil {
				t.Fatalf("MassErase() error: %v", err)
			}

			var want []call
			for _, w := range tt.want {
				want = append(want,
					call{write: true, addr: w.ctrl + protocol.RegWMR, value: protocol.ModeMassErase},
					call{write: true, addr: w.ctrl + protocol.RegOAR, value: w.addr},
					call{write: true, addr: w.ctrl + protocol.RegOSR, value: protocol.OperationStart},
					call{addr: w.ctrl + protocol.RegFSR},
				)
			}

			got := tgt.calls[prepareWrites[tt.device]:]
			if len(got) != len(want) {
				t.Fatalf("got %d accesses after unlock, want %d: %+v", len(got), len(want), got)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("access %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestMassEraseAbortsGroup(t *testing.T) {
	tgt := NewMockTarget()
	tgt.regs[protocol.PFU0Base+protocol.RegFSR] = 0
	drv := newTestDriver(tgt, "ry", WithEraseTimeout(4))

	err := drv.MassErase(context.Background(), 0)
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("MassErase() error = %v, want TimeoutError", err)
	}
	for _, w := range tgt.commands() {
		if w.Addr >= protocol.PFU1Base && w.Addr < protocol.PFU1Base+0x400 {
			t.Fatalf("PFU1 touched after PFU0 failed: %v", w)
		}
	}
}

func TestMassEraseUnknownGroup(t *testing.T) {
	tgt := NewMockTarget()
	drv := newTestDriver(tgt, "xc2xx")

	err := drv.MassErase(context.Background(), 2)
	var ge *GroupError
	if !errors.As(err, &ge) {
		t.Fatalf("MassErase() error = %v, want GroupError", err)
	}
	if len(ge.Valid) != 2 {
		t.Errorf("Valid = %v, want [0 1]", ge.Valid)
	}
	if len(tgt.calls) != 0 || tgt.haltCalls != 0 {
		t.Error("unknown group touched the target")
	}
}

func TestMassEraseCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUsage bool
		wantGroup bool
		wantErr   bool
	}{
		{name: "decimal", args: []string{"3"}},
		{name: "hex", args: []string{"0x1"}},
		{name: "no argument", args: nil, wantUsage: true, wantErr: true},
		{name: "two arguments", args: []string{"0", "1"}, wantUsage: true, wantErr: true},
		{name: "not a number", args: []string{"pfu"}, wantUsage: true, wantErr: true},
		{name: "unsupported group", args: []string{"4"}, wantGroup: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt := NewMockTarget()
			drv := newTestDriver(tgt, "ry")
			bank := probed(t, drv, 2)

			err := drv.MassEraseCommand(context.Background(), bank, tt.args)

			if tt.wantErr {
				var ue *UsageError
				var ge *GroupError
				if tt.wantUsage && !errors.As(err, &ue) {
					t.Fatalf("error = %v, want UsageError", err)
				}
				if tt.wantGroup && !errors.As(err, &ge) {
					t.Fatalf("error = %v, want GroupError", err)
				}
				if len(tgt.calls) != 0 {
					t.Error("invalid arguments touched the target")
				}
				if bank.Sectors[0].State != StateUnknown {
					t.Error("sectors marked after a rejected command")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for i, s := range bank.Sectors {
				if s.State != StateErased {
					t.Fatalf("sector %d state = %v, want erased", i, s.State)
				}
			}
		})
	}
}

func TestMassEraseCommandFailureKeepsState(t *testing.T) {
	tgt := NewMockTarget()
	tgt.halted = false
	drv := newTestDriver(tgt, "ry")
	bank := probed(t, drv, 0)

	err := drv.MassEraseCommand(context.Background(), bank, []string{"0"})
	if !errors.Is(err, ErrNotHalted) {
		t.Fatalf("error = %v, want ErrNotHalted", err)
	}
	if bank.Sectors[0].State != StateUnknown {
		t.Error("sectors marked after a failed mass erase")
	}
}

func TestEraseCheckRange(t *testing.T) {
	tgt := NewMockTarget()
	drv := newTestDriver(tgt, "ry")
	bank := probed(t, drv, 4)

	for _, r := range [][2]int{{-1, 0}, {1, 0}, {0, len(bank.Sectors)}} {
		err := drv.EraseCheck(context.Background(), bank, r[0], r[1])
		var re *RangeError
		if !errors.As(err, &re) {
			t.Errorf("EraseCheck(%d, %d) error = %v, want RangeError", r[0], r[1], err)
		}
	}
	if len(tgt.calls) != 0 {
		t.Errorf("rejected ranges issued %d accesses", len(tgt.calls))
	}
}
