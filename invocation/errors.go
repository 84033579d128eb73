package invocation

import (
	"fmt"
	"time"
)

// RecoveredPanic is the error produced when a handler or middleware panics.
type RecoveredPanic struct {
	Value   any
	Command string
	Stack   []byte
}

func (e *RecoveredPanic) Error() string {
	return fmt.Sprintf("command '%s' panicked: %v", e.Command, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *RecoveredPanic) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// TimeoutError is returned when a handler exceeds the configured timeout.
type TimeoutError struct {
	Duration time.Duration
	Command  string
}

func (e *TimeoutError) Error() string {
	return "command '" + e.Command + "' timed out after " + e.Duration.String()
}
