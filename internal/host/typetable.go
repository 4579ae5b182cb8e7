package host

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SlotID names a protocol slot in a registered type's slot table.
type SlotID int

const (
	// SlotIter is the begin-iteration slot: produce the iterator object.
	SlotIter SlotID = iota
	// SlotIterNext is the advance-iteration slot: produce the next value.
	SlotIterNext
)

// String returns the slot's display name.
func (id SlotID) String() string {
	switch id {
	case SlotIter:
		return "iter"
	case SlotIterNext:
		return "next"
	default:
		return fmt.Sprintf("slot(%d)", int(id))
	}
}

// UnarySlot is the ABI shape of a protocol slot: one opaque receiver in,
// one opaque value out. A false second return means no value was produced
// and the runtime's pending-error channel records why — which may be a
// failure, or the well-known StopIteration termination signal.
type UnarySlot func(ctx context.Context, rt *Runtime, self Handle) (Value, bool)

// SlotTable maps slot IDs to implementations. A capability the type never
// declared has no entry at all; it is not present-but-erroring.
type SlotTable struct {
	entries map[SlotID]UnarySlot
}

// NewSlotTable creates an empty slot table.
func NewSlotTable() SlotTable {
	return SlotTable{entries: make(map[SlotID]UnarySlot)}
}

// Set populates a slot entry.
func (t SlotTable) Set(id SlotID, fn UnarySlot) {
	t.entries[id] = fn
}

// Lookup returns the slot implementation, if populated.
func (t SlotTable) Lookup(id SlotID) (UnarySlot, bool) {
	fn, ok := t.entries[id]
	return fn, ok
}

// Has reports whether the slot is populated.
func (t SlotTable) Has(id SlotID) bool {
	_, ok := t.entries[id]
	return ok
}

// Len returns the number of populated slots.
func (t SlotTable) Len() int {
	return len(t.entries)
}

// TypeSpec describes a registered native type: its host-visible name and
// the protocol slots it populates.
type TypeSpec struct {
	Name  string
	Slots SlotTable
}

// RegisterType adds a native type to the runtime's type table.
func (rt *Runtime) RegisterType(spec TypeSpec) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, exists := rt.types[spec.Name]; exists {
		return &HostError{
			Code:    ErrCodeTypeAlreadyRegistered,
			Message: fmt.Sprintf("type %s already registered", spec.Name),
		}
	}

	rt.types[spec.Name] = spec
	return nil
}

// TypeSpecOf returns the registered type spec for a name.
func (rt *Runtime) TypeSpecOf(name string) (TypeSpec, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	spec, ok := rt.types[name]
	return spec, ok
}

// CallSlot dispatches a protocol slot call against the object behind a
// handle, the way the embedder's interpreter loop would. Routing failures
// surface on the pending-error channel like any other slot failure: no
// value is returned and the channel records why.
func (rt *Runtime) CallSlot(ctx context.Context, self Handle, id SlotID) (Value, bool) {
	rt.mu.Lock()
	slot, err := rt.slotFor(self)
	var spec TypeSpec
	var typeName string
	if err == nil {
		typeName = slot.typeName
		spec = rt.types[typeName]
	}
	rt.mu.Unlock()

	if err != nil {
		rt.SetPending(ExcRuntimeError.NewMsg("slot call on invalid handle: %v", err))
		return None, false
	}

	fn, ok := spec.Slots.Lookup(id)
	if !ok {
		rt.SetPending(ExcTypeError.NewMsg("'%s' object does not support '%s'", typeName, id))
		return None, false
	}

	ctx, span := rt.tracer.Start(ctx, fmt.Sprintf("slot.%s.%s", typeName, id))
	defer span.End()

	start := time.Now()
	value, produced := fn(ctx, rt, self)
	duration := time.Since(start)

	attrs := []attribute.KeyValue{
		attribute.String("type", typeName),
		attribute.String("slot", id.String()),
		attribute.Bool("produced", produced),
	}

	callCounter, _ := rt.meter.Int64Counter("host_slot_calls")
	callCounter.Add(ctx, 1, metric.WithAttributes(attrs...))

	durationHistogram, _ := rt.meter.Float64Histogram("host_slot_duration_ms")
	durationHistogram.Record(ctx, float64(duration.Microseconds())/1000.0, metric.WithAttributes(attrs[:2]...))

	if !produced {
		if exc := rt.Pending(); exc != nil && !exc.Is(ExcStopIteration) {
			span.RecordError(exc)
		}
	}

	rt.logger.Debug().
		Str("type", typeName).
		Stringer("slot", id).
		Bool("produced", produced).
		Dur("duration", duration).
		Msg("slot call")

	return value, produced
}
