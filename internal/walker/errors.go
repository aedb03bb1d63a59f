package walker

import "fmt"

// TraversalError reports a directory that could not be read during the walk.
type TraversalError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *TraversalError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *TraversalError) Unwrap() error {
	return e.Err
}
