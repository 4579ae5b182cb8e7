package host

import "fmt"

// Error codes surfaced by the host runtime model.
const (
	// ErrCodeBadHandle indicates a handle that does not reference a live
	// object in this runtime (stale generation, foreign runtime, or out of
	// range).
	ErrCodeBadHandle = "BAD_HANDLE"

	// ErrCodeWrongType indicates a handle whose registered type does not
	// match what the caller expected.
	ErrCodeWrongType = "WRONG_TYPE"

	// ErrCodeBorrowConflict indicates an attempt to open an access window
	// that overlaps an incompatible window already open on the same object.
	ErrCodeBorrowConflict = "BORROW_CONFLICT"

	// ErrCodeTypeNotRegistered indicates an object creation against a type
	// name the runtime has never seen.
	ErrCodeTypeNotRegistered = "TYPE_NOT_REGISTERED"

	// ErrCodeTypeAlreadyRegistered indicates a duplicate type registration.
	ErrCodeTypeAlreadyRegistered = "TYPE_ALREADY_REGISTERED"

	// ErrCodeSlotMissing indicates a slot dispatch against a capability the
	// type never declared.
	ErrCodeSlotMissing = "SLOT_MISSING"

	// ErrCodeUnconvertible indicates a native value with no host
	// representation.
	ErrCodeUnconvertible = "UNCONVERTIBLE"
)

// HostError provides structured error information for host-side failures.
type HostError struct {
	Code    string // e.g. "BORROW_CONFLICT"
	Message string // Human-readable error message
	Details string // Additional error context
}

// Error implements the error interface.
func (e *HostError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Message + " - " + e.Details
	}
	return e.Code + ": " + e.Message
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
