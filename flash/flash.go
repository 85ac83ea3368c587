package flash

import (
	"context"
	"fmt"

	"github.com/moffa90/go-ryflash/device"
	"github.com/moffa90/go-ryflash/protocol"
)

// Driver erases and programs the flash controllers of one device through a Target.
// All behaviour specific to a device variant comes from its Descriptor.
//
// Driver is not safe for concurrent use. Callers serialize operations, since
// every sequence assumes exclusive use of the register channel.
type Driver struct {
	tgt    Target
	dev    *device.Descriptor
	config Config
}

// New creates a new Driver for the device described by dev.
//
// Example:
//
//	client, _ := openocd.Dial(ctx, "localhost:6666")
//	drv := flash.New(client, device.ByName("ry"),
//	    flash.WithProgressCallback(progressFunc),
//	)
func New(tgt Target, dev *device.Descriptor, opts ...Option) *Driver {
	if tgt == nil {
		panic("target cannot be nil")
	}
	if dev == nil {
		panic("device descriptor cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Driver{
		tgt:    tgt,
		dev:    dev,
		config: cfg,
	}
}

// Info returns the driver name of the device.
func (d *Driver) Info() string {
	return d.dev.Name
}

// Device returns the descriptor the driver was created with.
func (d *Driver) Device() *device.Descriptor {
	return d.dev
}

// checkHalted fails with ErrNotHalted unless the target reports a halted core.
func (d *Driver) checkHalted(ctx context.Context) error {
	halted, err := d.tgt.IsHalted(ctx)
	if err != nil {
		return &protocol.TransportError{Operation: "halt-state", Err: err}
	}
	if !halted {
		d.logError("target not halted")
		return ErrNotHalted
	}
	return nil
}

func (d *Driver) readReg(ctx context.Context, addr uint32) (uint32, error) {
	v, err := d.tgt.ReadU32(ctx, addr)
	if err != nil {
		return 0, &protocol.TransportError{Operation: "read", Addr: addr, Err: err}
	}
	return v, nil
}

func (d *Driver) writeReg(ctx context.Context, addr, value uint32) error {
	if err := d.tgt.WriteU32(ctx, addr, value); err != nil {
		return &protocol.TransportError{Operation: "write", Addr: addr, Err: err}
	}
	return nil
}

// writeSeq issues seq in order and stops at the first failure.
func (d *Driver) writeSeq(ctx context.Context, seq []protocol.RegWrite) error {
	for _, w := range seq {
		if err := d.writeReg(ctx, w.Addr, w.Value); err != nil {
			return err
		}
	}
	return nil
}

// reportProgress calls the progress callback if configured.
func (d *Driver) reportProgress(progress Progress) {
	if d.config.ProgressCallback != nil {
		d.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (d *Driver) logDebug(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (d *Driver) logInfo(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (d *Driver) logError(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Error(msg, keysAndValues...)
	}
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08X", v)
}
