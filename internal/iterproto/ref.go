// Package iterproto adapts native Go iterator logic to the host runtime's
// slot-table ABI. A native type declares which iterator capabilities it
// implements through a Protocol, and the package generates the ABI-shaped
// slot functions: bind a typed receiver from the opaque handle, run the
// user's logic, and encode the result as either a raw host value or
// "no value, with the termination exception pending".
package iterproto

import (
	"fmt"

	"github.com/embedkit/iterslot/internal/host"
)

// Ref is the call-scoped receiver: a typed, access-checked view of the
// native object behind a host handle. It is created immediately before user
// logic runs and released before the enclosing slot call returns, on every
// exit path. It must never be retained beyond the call.
type Ref[T any] struct {
	obj     *T
	handle  host.Handle
	release func()
}

// Object returns the bound native object.
func (r *Ref[T]) Object() *T {
	return r.obj
}

// Handle returns the host handle the receiver was bound from.
func (r *Ref[T]) Handle() host.Handle {
	return r.handle
}

// bindRef recovers a typed receiver from an opaque handle. The runtime
// checks liveness and opens the access window; the type assertion checks
// that the arena object really is a *T. Any failure is surfaced as an
// error, never as undefined access.
func bindRef[T any](rt *host.Runtime, h host.Handle, mode host.AccessMode) (*Ref[T], error) {
	obj, typeName, release, err := rt.Acquire(h, mode)
	if err != nil {
		return nil, err
	}

	typed, ok := obj.(*T)
	if !ok {
		release()
		return nil, &host.HostError{
			Code:    host.ErrCodeWrongType,
			Message: fmt.Sprintf("object registered as %s is not a %T", typeName, typed),
		}
	}

	return &Ref[T]{obj: typed, handle: h, release: release}, nil
}
