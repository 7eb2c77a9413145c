package narrow

import (
	"errors"
	"fmt"
)

// ErrInvariant reports a mismatch between dispatch and the catalog. It
// signals a defect in the engine, never an unrecognized program.
var ErrInvariant = errors.New("narrow: internal invariant violated")

// InvariantError carries the call that tripped an invariant.
type InvariantError struct {
	Call   string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvariant, e.Call, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}
