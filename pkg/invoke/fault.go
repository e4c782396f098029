package invoke

import (
	"fmt"
)

// Fault is returned when code of the module panicked. Value is the raw
// panic value and Stack the stack of the panicking goroutine.
type Fault struct {
	Target string
	Value  interface{}
	Stack  []byte
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s panicked: %v", f.Target, f.Value)
}

// Unwrap returns the panic value if it is an error.
func (f *Fault) Unwrap() error {
	err, _ := f.Value.(error)
	return err
}
