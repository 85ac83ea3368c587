package flash

import (
	"context"

	"github.com/moffa90/go-ryflash/device"
	"github.com/moffa90/go-ryflash/protocol"
)

// Location is the controller instance owning a logical address.
type Location struct {
	Kind     protocol.Kind
	Instance int

	// Controller is the register block base of the instance
	Controller uint32

	// Mode is the mapping mode that was active during resolution
	Mode protocol.MappingMode

	// Window is the logical window of the instance containing the address
	Window protocol.Window
}

// Resolve maps a logical address to its controller instance.
// The mapping register is read on every call, so a remap between two calls is
// always observed.
func (d *Driver) Resolve(ctx context.Context, addr uint32) (Location, error) {
	loc, _, err := d.resolve(ctx, addr)
	return loc, err
}

func (d *Driver) resolve(ctx context.Context, addr uint32) (Location, *device.Region, error) {
	region, ok := d.dev.Classify(addr)
	if !ok {
		return Location{}, nil, &ResolutionError{Addr: addr, NoRegion: true}
	}

	mode := protocol.MapSingle
	if d.dev.MapModeRegister != 0 && region.DualBit != 0 {
		reg, err := d.readReg(ctx, d.dev.MapModeRegister)
		if err != nil {
			return Location{}, nil, err
		}
		mode = region.Mode(reg)
	}

	inst, win, ok := region.Find(addr, mode)
	if !ok {
		return Location{}, nil, &ResolutionError{Addr: addr, Mode: mode}
	}

	return Location{
		Kind:       region.Kind,
		Instance:   inst,
		Controller: region.Controllers[inst],
		Mode:       mode,
		Window:     win,
	}, region, nil
}
