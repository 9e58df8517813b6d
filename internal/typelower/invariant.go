package typelower

import "fmt"

// InvariantError is the panic value raised when the lowering bookkeeping is
// inconsistent. It is never produced by well-formed input and is not reported
// as a diagnostic.
type InvariantError struct {
	Decl string
	Msg  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("type lowering invariant violated in %s: %s", e.Decl, e.Msg)
}

func (l *lowering) invariantf(format string, args ...any) {
	panic(&InvariantError{Decl: l.name, Msg: fmt.Sprintf(format, args...)})
}
