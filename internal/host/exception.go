package host

import "fmt"

// ExcKind identifies a well-known host exception kind. Kinds compare by
// identity, like the runtime's exception type objects, so two kinds with the
// same name are still distinct.
type ExcKind struct {
	name string
}

// Well-known exception kinds. ExcStopIteration is the termination signal:
// it marks successful exhaustion of an iterator, not a failure.
var (
	ExcStopIteration = NewKind("StopIteration")
	ExcTypeError     = NewKind("TypeError")
	ExcRuntimeError  = NewKind("RuntimeError")
	ExcSystemError   = NewKind("SystemError")
)

// NewKind creates a distinct exception kind. Embedders use this to raise
// their own kinds through the pending-error channel.
func NewKind(name string) *ExcKind {
	return &ExcKind{name: name}
}

// Name returns the kind's display name.
func (k *ExcKind) Name() string {
	return k.name
}

// New constructs an exception of this kind carrying a payload. A payload of
// None is valid and common (an exhaustion signal with nothing attached).
func (k *ExcKind) New(payload Value) *Exception {
	return &Exception{Kind: k, Payload: payload}
}

// NewMsg constructs an exception of this kind carrying a message and no
// payload.
func (k *ExcKind) NewMsg(format string, args ...any) *Exception {
	return &Exception{Kind: k, Payload: None, Message: fmt.Sprintf(format, args...)}
}

// Exception is a host-level error object. It travels on the runtime's
// pending-error channel rather than as a slot return value.
type Exception struct {
	Kind    *ExcKind
	Payload Value
	Message string
}

// Error implements the error interface so native code can return an
// Exception directly and have it pass through to the host unchanged.
func (e *Exception) Error() string {
	if e.Message != "" {
		return e.Kind.name + ": " + e.Message
	}
	return e.Kind.name
}

// Is reports whether the exception is of the given kind.
func (e *Exception) Is(kind *ExcKind) bool {
	return e.Kind == kind
}
