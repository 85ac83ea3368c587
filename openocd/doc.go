// Package openocd talks to the Tcl RPC server of a running OpenOCD instance.
//
// OpenOCD owns the debug adapter and the connection to the core; this package
// only sends Tcl commands over TCP (port 6666 by default), each terminated by
// the 0x1a byte, and reads the 0x1a-terminated result. Memory accesses use
// read_memory and write_memory on the current target, which is what
// flash.Target needs:
//
//	client, err := openocd.Dial(ctx, "localhost:6666")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Halt(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	drv := flash.New(client, device.ByName("ry"))
//
// Commands are traced with glog at verbosity 4.
package openocd
