package flash

import (
	"errors"
	"fmt"
	"strings"

	"github.com/moffa90/go-ryflash/protocol"
)

var (
	// ErrNotHalted is returned when a mutating operation is requested on a running target.
	ErrNotHalted = errors.New("target not halted")

	// ErrUnsupported is returned by operations the hardware driver does not implement.
	ErrUnsupported = errors.New("operation unsupported")
)

// AlignmentError indicates that a write offset or length is not word aligned.
type AlignmentError struct {
	Offset uint32
	Length int
}

func (e *AlignmentError) Error() string {
	if e.Offset%protocol.WordSize != 0 {
		return fmt.Sprintf("offset 0x%X requires %d-byte alignment", e.Offset, protocol.WordSize)
	}
	return fmt.Sprintf("length 0x%X requires %d-byte alignment", e.Length, protocol.WordSize)
}

// ResolutionError indicates that a logical address lies outside every controller
// window for the active mapping mode.
type ResolutionError struct {
	Addr uint32

	// Mode is the mapping mode used, meaningless when the address has no region
	Mode protocol.MappingMode

	// NoRegion is set when neither type bit matched
	NoRegion bool
}

func (e *ResolutionError) Error() string {
	if e.NoRegion {
		return fmt.Sprintf("invalid address 0x%08X for device", e.Addr)
	}
	return fmt.Sprintf("address 0x%08X is outside every controller window in %s mapping", e.Addr, e.Mode)
}

// TimeoutError indicates that a status bit was not observed within the poll budget.
type TimeoutError struct {
	// Controller is the register block base that was polled
	Controller uint32

	// Mask is the awaited status bit
	Mask uint32

	// Status is the last status value read
	Status uint32

	// Attempts is the number of status reads performed
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for %s on controller 0x%08X after %d reads: status %s",
		protocol.MaskName(e.Mask), e.Controller, e.Attempts, protocol.StatusString(e.Status))
}

// RangeError indicates a sector or byte range outside the bank.
type RangeError struct {
	BankID int

	// Unit is "sector" or "byte"
	Unit  string
	First uint64
	Last  uint64
	Limit uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("bank %d: %s range %d-%d is out of range: valid range is 0-%d",
		e.BankID, e.Unit, e.First, e.Last, e.Limit)
}

// UnknownBankError indicates a bank identifier missing from the geometry table.
type UnknownBankError struct {
	ID     int
	Device string
}

func (e *UnknownBankError) Error() string {
	return fmt.Sprintf("%s: unknown bank %d", e.Device, e.ID)
}

// GroupError indicates an unsupported mass-erase group identifier.
type GroupError struct {
	Group uint32
	Valid []uint32
}

func (e *GroupError) Error() string {
	ids := make([]string, len(e.Valid))
	for i, id := range e.Valid {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("mass erase group %d is not supported: valid groups are %s",
		e.Group, strings.Join(ids, ", "))
}

// UsageError indicates malformed command arguments.
type UsageError struct {
	Usage  string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s (usage: %s)", e.Reason, e.Usage)
}
