package protocol

import (
	"errors"
	"fmt"
)

// TransportError represents a failed register access on the target.
// It wraps the error returned by the transport.
type TransportError struct {
	// Operation is "read", "write" or "halt-state"
	Operation string

	// Addr is the register address involved, if any
	Addr uint32

	// Err is the underlying transport error
	Err error
}

func (e *TransportError) Error() string {
	if e.Operation == "halt-state" {
		return fmt.Sprintf("query halt state failed: %v", e.Err)
	}
	return fmt.Sprintf("register %s at 0x%08X failed: %v", e.Operation, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError returns true if err is or wraps a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
