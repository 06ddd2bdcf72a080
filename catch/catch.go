// Package catch isolates callers from panics raised inside a unit of work.
//
// Every function here invokes the supplied unit of work exactly once,
// synchronously, on the calling goroutine. A panic raised by the work stops
// at this boundary and is converted into a normal return; the catching call
// itself never panics because of a failure inside the work.
package catch

import (
	"fmt"
	"runtime/debug"
)

// Recovered describes a panic intercepted at the catch boundary.
type Recovered struct {
	// Value is the value the unit of work panicked with.
	Value any
	// Stack is the debug.Stack() capture taken at the point of recovery.
	Stack []byte
}

// Error renders the panic value; Recovered satisfies error so intercepted
// panics can travel through ordinary error returns.
func (r *Recovered) Error() string {
	return fmt.Sprintf("panic: %v", r.Value)
}

// Unwrap exposes the panic value when the unit of work panicked with an
// error, so errors.Is/As keep working across the boundary.
func (r *Recovered) Unwrap() error {
	if err, ok := r.Value.(error); ok {
		return err
	}
	return nil
}

// Run invokes work and returns its value. If work panics, Run returns the
// zero value of T instead.
//
// Callers must treat a zero result as ambiguous between "work legitimately
// produced the zero value" and "work aborted" unless work's own contract
// rules the former out; use Try when the distinction matters.
func Run[T any](work func() T) T {
	v, _ := Try(work)
	return v
}

// Try invokes work and returns its value, plus a non-nil *Recovered when a
// panic aborted it. On a panic the returned value is the zero value of T.
func Try[T any](work func() T) (v T, rec *Recovered) {
	defer func() {
		if r := recover(); r != nil {
			rec = &Recovered{Value: r, Stack: debug.Stack()}
		}
	}()
	return work(), nil
}

// Do invokes an error-returning unit of work, converting a panic into a
// *Recovered error. The error result is nil only if work returned nil and
// did not panic.
func Do[T any](work func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Recovered{Value: r, Stack: debug.Stack()}
		}
	}()
	return work()
}

// Catch invokes a void unit of work and reports the panic that aborted it,
// if any.
func Catch(work func()) *Recovered {
	_, rec := Try(func() struct{} {
		work()
		return struct{}{}
	})
	return rec
}
