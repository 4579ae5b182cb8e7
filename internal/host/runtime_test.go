package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan:
// 1. Test pending channel set/peek/take semantics
// 2. Test pending channel replacement on a second set
// 3. Test type registration and duplicate prevention
// 4. Test exception kind identity and construction
// 5. Test runtime identity is distinct per instance

// Test: Pending channel set/peek/take semantics
func TestRuntime_PendingChannel(t *testing.T) {
	rt := NewRuntime()
	assert.Nil(t, rt.Pending())
	assert.Nil(t, rt.TakePending())

	exc := ExcRuntimeError.NewMsg("something broke")
	rt.SetPending(exc)

	// Peek does not clear
	assert.Same(t, exc, rt.Pending())
	assert.Same(t, exc, rt.Pending())

	// Take clears
	assert.Same(t, exc, rt.TakePending())
	assert.Nil(t, rt.Pending())
	assert.Nil(t, rt.TakePending())
}

// Test: A second set replaces the pending exception
func TestRuntime_PendingReplaced(t *testing.T) {
	rt := NewRuntime()

	rt.SetPending(ExcTypeError.NewMsg("first"))
	second := ExcRuntimeError.NewMsg("second")
	rt.SetPending(second)

	assert.Same(t, second, rt.TakePending())
}

// Test: Type registration and duplicate prevention
func TestRuntime_RegisterType(t *testing.T) {
	rt := NewRuntime()

	err := rt.RegisterType(TypeSpec{Name: "counter", Slots: NewSlotTable()})
	require.NoError(t, err)

	_, ok := rt.TypeSpecOf("counter")
	assert.True(t, ok)
	_, ok = rt.TypeSpecOf("missing")
	assert.False(t, ok)

	err = rt.RegisterType(TypeSpec{Name: "counter", Slots: NewSlotTable()})
	require.Error(t, err)
	var hostErr *HostError
	require.ErrorAs(t, err, &hostErr)
	assert.Equal(t, ErrCodeTypeAlreadyRegistered, hostErr.Code)
}

// Test: Exception kinds compare by identity, not by name
func TestExcKind_Identity(t *testing.T) {
	custom := NewKind("StopIteration")
	assert.Equal(t, ExcStopIteration.Name(), custom.Name())
	assert.False(t, ExcStopIteration.New(None).Is(custom))
	assert.True(t, ExcStopIteration.New(None).Is(ExcStopIteration))
}

// Test: Exceptions carry payloads, even empty ones
func TestException_Construction(t *testing.T) {
	payload, err := ToHost("ended")
	require.NoError(t, err)

	exc := ExcStopIteration.New(payload)
	assert.True(t, exc.Is(ExcStopIteration))
	assert.Equal(t, "ended", FromHost(exc.Payload))
	assert.Equal(t, "StopIteration", exc.Error())

	// A payload of "no value" is still a full exception instance.
	empty := ExcStopIteration.New(None)
	assert.True(t, empty.Payload.IsNone())

	withMsg := ExcSystemError.NewMsg("panic in %s: %v", "counter.next", "boom")
	assert.Equal(t, "SystemError: panic in counter.next: boom", withMsg.Error())
}

// Test: Runtime identity is distinct per instance
func TestRuntime_DistinctIdentity(t *testing.T) {
	a := NewRuntime()
	b := NewRuntime()
	assert.NotEqual(t, a.ID(), b.ID())
}
