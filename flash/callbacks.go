package flash

import "time"

// Operation names reported in Progress.
const (
	OpErase      = "erase"
	OpProgram    = "program"
	OpMassErase  = "mass-erase"
	OpEraseCheck = "erase-check"
)

// Progress contains information about a running operation.
// Passed to ProgressCallback after each unit of work.
type Progress struct {
	// Operation is one of the Op constants
	Operation string

	// Done is the number of completed units: sectors for erase and erase
	// check, bytes for program, instances for mass erase
	Done int

	// Total is the number of units of the whole operation
	Total int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// Address is the logical address of the last completed unit
	Address uint32

	// ElapsedTime is the time elapsed since the operation started
	ElapsedTime time.Duration
}

// ProgressCallback is called during erase, program and mass erase to report progress.
// Implementations should return quickly to avoid stretching register sequences.
//
// Example:
//
//	drv := flash.New(tgt, dev,
//	    flash.WithProgressCallback(func(p flash.Progress) {
//	        fmt.Printf("[%s] %d/%d\n", p.Operation, p.Done, p.Total)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the driver.
// This allows integration with any logging framework.
//
// Example with the glog package:
//
//	type glogLogger struct{}
//	func (glogLogger) Debug(msg string, kv ...interface{}) { glog.V(1).Info(msg, kv) }
//	func (glogLogger) Info(msg string, kv ...interface{})  { glog.Info(msg, kv) }
//	func (glogLogger) Error(msg string, kv ...interface{}) { glog.Error(msg, kv) }
//
//	drv := flash.New(tgt, dev, flash.WithLogger(glogLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

func percent(done, total int) float64 {
	if total <= 0 {
		return 100
	}
	return float64(done) / float64(total) * 100
}
