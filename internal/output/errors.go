// Package output writes harvested records and per-run URL logs to disk.
package output

import "fmt"

// WriteError represents a failure to create, write or close an output file.
type WriteError struct {
	Path    string
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("output error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("output error for %s: %s", e.Path, e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
