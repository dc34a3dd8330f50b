package sema

import "fmt"

// InvariantError is panicked when the checker's own bookkeeping is
// broken: an arena id with no payload, a kind outside its enum, a
// state machine in an impossible state. It is not a source-level
// problem; the driver recovers it once at its boundary and surfaces it
// as an internal error distinct from diagnostics.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "sema invariant violation: " + e.Msg
}

func invariantf(format string, args ...any) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}
