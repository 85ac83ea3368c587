// Package sim provides an in-memory model of the ry and xc2xx flash controllers.
//
// A Target answers register reads and writes the way the hardware does: it
// enforces the unlock handshake and sector write enables, executes erase and
// program commands on a backing store, reports status bits, and decodes
// logical flash reads through the mapping register. It satisfies
// flash.Target, so the driver can run against it without hardware:
//
//	dev := device.ByName("ry")
//	tgt := sim.New(dev)
//	tgt.SetMapRegister(protocol.MapPFUDual | protocol.MapPFUSelectA)
//
//	drv := flash.New(tgt, dev)
//
// Faults and slow controllers can be injected with SetFault and SetBusy, and
// every access is recorded for inspection with Accesses.
package sim
