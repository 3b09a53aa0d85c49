package vasp

import (
	"errors"
	"fmt"
)

// Domain errors for trajectory parsing.
var (
	// ErrMalformedTrajectory indicates input that does not follow the
	// POSCAR/XDATCAR block layout.
	ErrMalformedTrajectory = errors.New("vasp: malformed trajectory")

	// ErrUnsupportedFormat indicates a recognizable but unsupported
	// variant, such as a VASP4 header without species symbols.
	ErrUnsupportedFormat = errors.New("vasp: unsupported format")
)

// ParseError wraps a parse failure with its location in the input file.
// Frame is the zero-based index of the configuration being read, or -1
// while reading the header.
type ParseError struct {
	Path    string
	Frame   int
	Line    int
	Wrapped error
}

func (e *ParseError) Error() string {
	if e.Frame >= 0 {
		return fmt.Sprintf("%s: frame %d, line %d: %v", e.Path, e.Frame, e.Line, e.Wrapped)
	}
	return fmt.Sprintf("%s: line %d: %v", e.Path, e.Line, e.Wrapped)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

func malformed(path string, frame, line int, format string, args ...interface{}) error {
	return &ParseError{
		Path:    path,
		Frame:   frame,
		Line:    line,
		Wrapped: fmt.Errorf("%w: %s", ErrMalformedTrajectory, fmt.Sprintf(format, args...)),
	}
}
