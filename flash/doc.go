// Package flash erases and programs the on-chip NOR flash controllers of the
// ry and xc2xx microcontroller families through a remote register interface.
//
// # Overview
//
// The Driver owns the register protocol of the flash controllers:
//   - Resolving a logical address to its controller instance under the
//     mapping mode currently selected in hardware
//   - Unlocking every controller and clearing sector write protection
//   - Sector erase, mass erase and word or series programming, each followed
//     by a bounded status poll
//   - Bank geometry lookup at probe time
//
// # Basic Usage
//
//	client, err := openocd.Dial(ctx, "localhost:6666")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	drv := flash.New(client, device.ByName("ry"))
//
//	bank := &flash.Bank{ID: 0}
//	if err := drv.Probe(bank); err != nil {
//	    log.Fatal(err)
//	}
//	if err := drv.Erase(ctx, bank, 0, 3); err != nil {
//	    log.Fatal(err)
//	}
//	if err := drv.Write(ctx, bank, image, 0); err != nil {
//	    log.Fatal(err)
//	}
//
// # Targets
//
// The driver does not implement a transport. Anything with 32-bit register
// reads and writes and a halt query satisfies Target: openocd.Client talks to
// a running OpenOCD server, sim.Target models the controllers in memory.
//
// # Error Handling
//
// Every failure aborts the running operation; nothing is retried or rolled back.
//   - protocol.TransportError: a register access failed
//   - ErrNotHalted: the core is running
//   - AlignmentError: write offset or length is not word aligned
//   - ResolutionError: no controller window contains the address
//   - TimeoutError: a status bit never appeared, carries the last status
//   - RangeError, UnknownBankError, GroupError, UsageError: invalid input
//   - ErrUnsupported: returned by Protect
package flash
