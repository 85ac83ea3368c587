package flash

import "context"

// Target is the register access channel to a halted microcontroller.
// Implementations perform single 32-bit transactions and block until they complete.
//
// Example implementations are openocd.Client (a running OpenOCD server) and
// sim.Target (an in-memory model of the flash controllers).
type Target interface {
	// ReadU32 reads one 32-bit word at addr
	ReadU32(ctx context.Context, addr uint32) (uint32, error)

	// WriteU32 writes one 32-bit word at addr
	WriteU32(ctx context.Context, addr, value uint32) error

	// IsHalted reports whether the core is halted
	IsHalted(ctx context.Context) (bool, error)
}
