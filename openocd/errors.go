package openocd

import "fmt"

// CommandError indicates a failed Tcl command: either the connection failed
// (Err is set) or OpenOCD answered with an unexpected result (Reply is set).
type CommandError struct {
	Command string
	Reply   string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("openocd %q: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("openocd %q: unexpected reply %q", e.Command, e.Reply)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
