package types

import (
	"fmt"
	"github.com/pkg/errors"
)

// ErrBindingCycle is returned when setting an InfiniBinding would make it refer to itself
var ErrBindingCycle = errors.New("InfiniBinding cycle")

// Failure is an irrecoverable, unexpected scenario that a correct
// front end should never hit, like mutating a frozen TypeShape.
//
// Failures are raised with panic and should only abort the type-checking
// pass of the current compilation unit, see Recover and Guard
type Failure struct {
	cause error
}

func (f *Failure) Error() string { return "type lattice failure: " + f.cause.Error() }
func (f *Failure) Unwrap() error { return f.cause }

// Format prints the stack of the failure with %+v
func (f *Failure) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = fmt.Fprintf(s, "type lattice failure: %+v", f.cause)
		return
	}
	_, _ = fmt.Fprint(s, f.Error())
}

func fail(format string, args ...any) {
	err := errors.Errorf(format, args...)
	logger.Error("failure in type lattice", "message", err.Error())
	panic(&Failure{cause: err})
}

// Recover turns a Failure panic into an error stored in errp.
// It must be deferred directly; panics which are not a Failure keep unwinding
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if f, ok := r.(*Failure); ok {
		*errp = f
		return
	}
	panic(r)
}

// Guard runs body and reports a Failure raised while running it as an error
func Guard[T any](body func() T) (result T, err error) {
	defer Recover(&err)
	return body(), nil
}
