package iterproto

import (
	"context"
	"errors"

	"github.com/embedkit/iterslot/internal/host"
)

// trampoline wraps one declared capability in the ABI slot shape: bind the
// typed receiver from the opaque handle, run user logic, encode the result,
// and return either a raw value or "no value with the pending channel set".
// A panic raised anywhere inside the call is intercepted here; it must
// never cross into host code.
func trampoline[T any](typeName string, id host.SlotID, mode host.AccessMode, call capabilityCall[T]) host.UnarySlot {
	return func(ctx context.Context, rt *host.Runtime, self host.Handle) (value host.Value, produced bool) {
		defer func() {
			if r := recover(); r != nil {
				rt.SetPending(host.ExcSystemError.NewMsg("panic in %s.%s: %v", typeName, id, r))
				value, produced = host.None, false
			}
		}()

		ref, err := bindRef[T](rt, self, mode)
		if err != nil {
			rt.SetPending(bindFailure(err))
			return host.None, false
		}
		// The access window closes before the deferred recover runs, so a
		// panicking call still releases its borrow.
		defer ref.release()

		v, ok, err := call(ctx, rt, ref)
		if err != nil {
			rt.SetPending(asException(err))
			return host.None, false
		}
		return v, ok
	}
}

// bindFailure maps a receiver-binding failure to the host's "bad internal
// state" error kind. Bind failures are never retried here; the host decides
// what to do with them.
func bindFailure(err error) *host.Exception {
	return host.ExcRuntimeError.NewMsg("failed to bind receiver: %v", err)
}

// asException shapes an error from user logic or value conversion for the
// pending channel. A host exception passes through unchanged in meaning;
// conversion failures become the host's type error; anything else becomes a
// runtime error carrying the message.
func asException(err error) *host.Exception {
	var exc *host.Exception
	if errors.As(err, &exc) {
		return exc
	}

	var hostErr *host.HostError
	if errors.As(err, &hostErr) && hostErr.Code == host.ErrCodeUnconvertible {
		return host.ExcTypeError.NewMsg("%s", hostErr.Error())
	}

	return host.ExcRuntimeError.NewMsg("%s", err.Error())
}
