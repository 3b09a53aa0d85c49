package perturb

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter indicates a generation parameter outside its
// documented domain. It is raised before any file is read or written.
var ErrInvalidParameter = errors.New("perturb: invalid parameter")

// ParameterError names the offending parameter and its value.
type ParameterError struct {
	Name  string
	Value interface{}
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%v: %s = %v", ErrInvalidParameter, e.Name, e.Value)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}
