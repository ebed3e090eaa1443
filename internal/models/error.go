package models

import "fmt"

// URLValidationError represents an error during URL validation of a task
// target.
type URLValidationError struct {
	URL     string
	Message string
}

// Error returns the error message for URLValidationError.
func (e *URLValidationError) Error() string {
	return fmt.Sprintf("invalid URL %s: %s", e.URL, e.Message)
}
