package jsval

import "fmt"

// InvalidStateError is the panic value raised when a literal-only accessor
// is used on a non-literal Value.
type InvalidStateError struct {
	Op   string
	Kind Kind
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("jsval: %s called on %s value", e.Op, e.Kind)
}

// TypeMismatchError is the panic value raised when a Value is accessed as
// a variant it does not hold.
type TypeMismatchError struct {
	Op   string
	Want Kind
	Got  Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("jsval: %s wants %s value, got %s", e.Op, e.Want, e.Got)
}
