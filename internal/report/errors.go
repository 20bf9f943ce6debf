package report

import "fmt"

// PanicError wraps a value recovered while reading a repository.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("repository reader panicked: %v", e.Value)
}
