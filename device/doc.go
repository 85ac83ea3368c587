// Package device holds the capability descriptors of the supported devices.
//
// A Descriptor lists the flash regions of a device (Program-Flash and, if present,
// Data-Flash), their controller register blocks, the instance windows for every
// mapping mode, the bank geometry table and the mass-erase groups. The flash engine
// is driven entirely by this data, so the ry and xc2xx variants share one
// implementation of erase, program and mass erase.
//
// Descriptors are looked up by name:
//
//	d := device.ByName("ry")
//	if d == nil {
//	    log.Fatal("unknown device")
//	}
//
// Every lookup builds a new Descriptor, so tables can be inspected or modified by
// the caller without affecting other users.
package device
