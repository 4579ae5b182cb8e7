package iterproto

import (
	"context"
	"fmt"

	"github.com/embedkit/iterslot/internal/host"
)

// Capability names one optional protocol behavior a native type may
// declare.
type Capability string

const (
	// CapIterBegin produces the iterator object for self.
	CapIterBegin Capability = "begin-iteration"
	// CapIterAdvance produces the next outcome for self.
	CapIterAdvance Capability = "advance-iteration"
)

// BeginFunc produces the iterator representation for self. The result is
// converted through the host value model; returning self.Handle() declares
// the object to be its own iterator.
type BeginFunc[T any] func(ctx context.Context, self *Ref[T]) (any, error)

// AdvanceFunc produces the next outcome for self.
type AdvanceFunc[T, E any] func(ctx context.Context, self *Ref[T]) (Outcome[E], error)

// OptionFunc is the presence/absence form of an advance operation: ok
// false means iteration ended with no payload.
type OptionFunc[T, E any] func(ctx context.Context, self *Ref[T]) (E, bool, error)

// Protocol declares the iterator capabilities of native type T with element
// type E, and generates the type's ABI slot table. Declarations are fixed
// before registration; a capability left undeclared produces no slot entry
// at all, so the host never sees a slot whose behavior is "always fail".
//
// Receiver access per capability: begin binds the receiver shared (it reads
// self to produce the iterator), advance binds it exclusive (it steps the
// iteration state).
type Protocol[T, E any] struct {
	name    string
	begin   capabilityCall[T]
	advance capabilityCall[T]
	err     error
}

// capabilityCall is a declared capability lowered to a uniform shape: run
// user logic against the bound receiver and produce the ABI encoding.
type capabilityCall[T any] func(ctx context.Context, rt *host.Runtime, self *Ref[T]) (host.Value, bool, error)

// New starts a protocol declaration for the native type registered under
// name.
func New[T, E any](name string) *Protocol[T, E] {
	return &Protocol[T, E]{name: name}
}

// Name returns the host-visible type name the protocol declares for.
func (p *Protocol[T, E]) Name() string {
	return p.name
}

// Begin declares the begin-iteration capability.
func (p *Protocol[T, E]) Begin(fn BeginFunc[T]) *Protocol[T, E] {
	if p.begin != nil {
		p.fail(CapIterBegin)
		return p
	}
	p.begin = func(ctx context.Context, _ *host.Runtime, self *Ref[T]) (host.Value, bool, error) {
		result, err := fn(ctx, self)
		if err != nil {
			return host.None, false, err
		}
		v, err := host.ToHost(result)
		if err != nil {
			return host.None, false, err
		}
		return v, true, nil
	}
	return p
}

// BeginSelf declares begin-iteration as "the object is its own iterator":
// the slot returns the receiver's own handle.
func (p *Protocol[T, E]) BeginSelf() *Protocol[T, E] {
	return p.Begin(func(_ context.Context, self *Ref[T]) (any, error) {
		return self.Handle(), nil
	})
}

// Advance declares the advance-iteration capability with an explicit
// Yield/Stop outcome.
func (p *Protocol[T, E]) Advance(fn AdvanceFunc[T, E]) *Protocol[T, E] {
	if p.advance != nil {
		p.fail(CapIterAdvance)
		return p
	}
	p.advance = func(ctx context.Context, rt *host.Runtime, self *Ref[T]) (host.Value, bool, error) {
		out, err := fn(ctx, self)
		if err != nil {
			return host.None, false, err
		}
		return advanceToHost(rt, out)
	}
	return p
}

// AdvanceOption declares the advance-iteration capability in
// presence/absence form. An absent value has the same observable host
// effects as an explicit Stop with no payload.
func (p *Protocol[T, E]) AdvanceOption(fn OptionFunc[T, E]) *Protocol[T, E] {
	if p.advance != nil {
		p.fail(CapIterAdvance)
		return p
	}
	p.advance = func(ctx context.Context, rt *host.Runtime, self *Ref[T]) (host.Value, bool, error) {
		v, ok, err := fn(ctx, self)
		if err != nil {
			return host.None, false, err
		}
		return optionToHost(rt, v, ok)
	}
	return p
}

// Declares reports whether the capability has been declared.
func (p *Protocol[T, E]) Declares(c Capability) bool {
	switch c {
	case CapIterBegin:
		return p.begin != nil
	case CapIterAdvance:
		return p.advance != nil
	default:
		return false
	}
}

// Declared returns the declared capabilities.
func (p *Protocol[T, E]) Declared() []Capability {
	var caps []Capability
	if p.begin != nil {
		caps = append(caps, CapIterBegin)
	}
	if p.advance != nil {
		caps = append(caps, CapIterAdvance)
	}
	return caps
}

// Slots generates the slot table for the declared capabilities. Declaring
// nothing, or declaring a capability twice, is a registration-time error,
// not a runtime one.
func (p *Protocol[T, E]) Slots() (host.SlotTable, error) {
	if p.err != nil {
		return host.SlotTable{}, p.err
	}
	if p.begin == nil && p.advance == nil {
		return host.SlotTable{}, fmt.Errorf("type %s declares no iterator capabilities", p.name)
	}

	table := host.NewSlotTable()
	if p.begin != nil {
		table.Set(host.SlotIter, trampoline(p.name, host.SlotIter, host.AccessShared, p.begin))
	}
	if p.advance != nil {
		table.Set(host.SlotIterNext, trampoline(p.name, host.SlotIterNext, host.AccessExclusive, p.advance))
	}
	return table, nil
}

// Register generates the slot table and registers the type with the
// runtime.
func (p *Protocol[T, E]) Register(rt *host.Runtime) error {
	slots, err := p.Slots()
	if err != nil {
		return fmt.Errorf("failed to generate slots for %s: %w", p.name, err)
	}
	return rt.RegisterType(host.TypeSpec{Name: p.name, Slots: slots})
}

func (p *Protocol[T, E]) fail(c Capability) {
	if p.err == nil {
		p.err = fmt.Errorf("capability %s declared twice for type %s", c, p.name)
	}
}
