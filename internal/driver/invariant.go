package driver

import (
	"fmt"

	"riptide/internal/sema"
)

// InternalError wraps a recovered invariant failure so callers can
// errors.As for it. It is never produced for source-level problems;
// those stay diagnostics.
type InternalError struct {
	// Module names the module being processed when the invariant
	// tripped, empty for single-file entry points.
	Module string
	Cause  *sema.InvariantError
}

func (e *InternalError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("internal error in module %q: %v", e.Module, e.Cause)
	}
	return fmt.Sprintf("internal error: %v", e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }

// recoverInvariant converts a sema.InvariantError panic into an
// InternalError written to *errp. Other panics propagate.
func recoverInvariant(module string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if inv, ok := r.(*sema.InvariantError); ok {
		*errp = &InternalError{Module: module, Cause: inv}
		return
	}
	panic(r)
}
