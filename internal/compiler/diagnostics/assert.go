package diagnostics

import "fmt"

// InternalError is raised when the compiler itself is in an impossible state.
// It is never caused by user input.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal compiler error: " + e.Message
}

// Assert aborts the pass with an InternalError when cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(&InternalError{Message: fmt.Sprintf(format, args...)})
	}
}

// Recover converts an InternalError panic into *err. Any other panic is
// re-raised. Use it deferred at API boundaries:
//
//	defer diagnostics.Recover(&err)
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ie, ok := r.(*InternalError); ok {
		*err = ie
		return
	}
	panic(r)
}
