package host

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Runtime is an in-memory rendition of the embedding runtime's collaborator
// surface: the object arena behind opaque handles, the registered type
// table, and the pending-error channel. Slot calls against a single object
// are expected to be serialized by the embedder; the runtime's locking
// protects its own bookkeeping, while the per-object access windows detect
// reentrancy violations.
type Runtime struct {
	id     uuid.UUID
	logger zerolog.Logger
	tracer trace.Tracer
	meter  metric.Meter

	mu      sync.Mutex
	pending *Exception
	types   map[string]TypeSpec
	objects []objectSlot
	free    []uint32
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime's logger. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(rt *Runtime) { rt.logger = logger }
}

// WithTracer sets the tracer used for slot dispatch spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(rt *Runtime) { rt.tracer = tracer }
}

// WithMeter sets the meter used for slot dispatch metrics.
func WithMeter(meter metric.Meter) Option {
	return func(rt *Runtime) { rt.meter = meter }
}

// NewRuntime creates an empty runtime with no registered types.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		id:     uuid.New(),
		logger: zerolog.Nop(),
		tracer: tracenoop.NewTracerProvider().Tracer("iterslot/host"),
		meter:  metricnoop.NewMeterProvider().Meter("iterslot/host"),
		types:  make(map[string]TypeSpec),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// ID returns the runtime's instance identity. Handles are bound to it.
func (rt *Runtime) ID() uuid.UUID {
	return rt.id
}

// SetPending places an exception on the pending-error channel, replacing
// any exception already there. A slot that returns "no value" must have set
// the channel first.
func (rt *Runtime) SetPending(exc *Exception) {
	rt.mu.Lock()
	rt.pending = exc
	rt.mu.Unlock()

	rt.logger.Debug().
		Str("kind", exc.Kind.Name()).
		Str("message", exc.Message).
		Msg("pending error set")
}

// TakePending returns the pending exception and clears the channel, or nil
// if no error is pending.
func (rt *Runtime) TakePending() *Exception {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	exc := rt.pending
	rt.pending = nil
	return exc
}

// Pending returns the pending exception without clearing it.
func (rt *Runtime) Pending() *Exception {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	return rt.pending
}
