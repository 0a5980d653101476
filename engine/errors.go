package engine

import "fmt"

// ValidationError marks an operation rejected by an engine invariant.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrContractCompleted is returned for any mutation attempted after the
// contract has been finalized. Status only moves forward; completed is
// terminal for editing.
var ErrContractCompleted = &ValidationError{Message: "contract is completed and can no longer be edited"}

// ServiceError wraps a failure from one of the external collaborators
// (persistence, extraction, generation). Message is safe to show to an end
// user; the wrapped error carries the transport detail.
type ServiceError struct {
	Op      string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
