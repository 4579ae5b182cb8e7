package iterproto

import "github.com/embedkit/iterslot/internal/host"

// Outcome is one step of iteration: either Yield carrying the next element,
// or Stop carrying an optional termination payload. It is the idiomatic
// shape of an advance operation's result, before encoding into the ABI's
// value-or-pending-exception representation.
type Outcome[E any] struct {
	value   E
	payload any
	stopped bool
}

// Yield produces the next element; iteration continues.
func Yield[E any](v E) Outcome[E] {
	return Outcome[E]{value: v}
}

// Stop ends iteration with a termination payload. The payload must be
// convertible to the host's value representation; nil means "no payload"
// and converts to the host's None singleton.
func Stop[E any](payload any) Outcome[E] {
	return Outcome[E]{payload: payload, stopped: true}
}

// Exhausted ends iteration with no payload. It is Stop(nil) by another
// name.
func Exhausted[E any]() Outcome[E] {
	return Stop[E](nil)
}

// Stopped reports whether the outcome ends iteration.
func (o Outcome[E]) Stopped() bool {
	return o.stopped
}

// advanceToHost encodes an outcome in the ABI's two representations: the
// raw converted value for Yield, or no value with a StopIteration carrying
// the converted payload pending on rt for Stop. A conversion failure of the
// contained value or payload is returned as the call's error; it is never
// folded into a successful Yield or Stop.
func advanceToHost[E any](rt *host.Runtime, out Outcome[E]) (host.Value, bool, error) {
	if !out.stopped {
		v, err := host.ToHost(out.value)
		if err != nil {
			return host.None, false, err
		}
		return v, true, nil
	}

	payload, err := host.ToHost(out.payload)
	if err != nil {
		return host.None, false, err
	}
	rt.SetPending(host.ExcStopIteration.New(payload))
	return host.None, false, nil
}

// optionToHost is the presence/absence projection of advanceToHost: a
// present value behaves exactly like Yield, an absent one exactly like
// Stop with no payload.
func optionToHost[E any](rt *host.Runtime, v E, ok bool) (host.Value, bool, error) {
	if ok {
		return advanceToHost(rt, Yield(v))
	}
	return advanceToHost(rt, Exhausted[E]())
}
