// Package invariant provides contract assertions for crux.
//
// A violated assertion is a programming error, never a user error: malformed
// source is reported through returned errors, while a buffer index overflowing
// its range or a corrupted node stream panics here. Every helper panics with a
// "KIND VIOLATION: ..." message followed by the file:line of the caller.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
//
//	func (b *Buffer[T]) Prepend(src *Buffer[T]) {
//	    invariant.Precondition(src != b, "cannot prepend a buffer to itself")
//	    ...
//	}
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before returning.
func Postcondition(condition bool, format string, args ...any) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks internal consistency while a function runs.
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// InRange panics if value is outside [minVal, maxVal].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d", name, minVal, maxVal, value)
	}
}

// Positive panics if value <= 0.
func Positive(value int, name string) {
	if value <= 0 {
		fail("PRECONDITION", "%s must be positive, got %d", name, value)
	}
}

func fail(kind, format string, args ...any) {
	msg := kind + " VIOLATION: " + fmt.Sprintf(format, args...)

	// Skip runtime.Callers, fail and the exported wrapper.
	pc := make([]uintptr, 4)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
