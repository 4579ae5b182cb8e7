package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan:
// 1. Test conversion of supported native values
// 2. Test None mapping for nil and the singleton's identity
// 3. Test passthrough of values already in host form
// 4. Test IntoHost implementations
// 5. Test conversion failure for unsupported values
// 6. Test FromHost projection and AsHandle extraction

type hostable struct {
	name string
}

func (h hostable) IntoHost() (Value, error) {
	return ToHost(h.name)
}

type brokenHostable struct{}

func (brokenHostable) IntoHost() (Value, error) {
	return None, &HostError{Code: ErrCodeUnconvertible, Message: "always fails"}
}

// Test: Conversion of supported native values
func TestToHost_SupportedValues(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"bool", true},
		{"string", "hello"},
		{"int", 42},
		{"uint32", uint32(7)},
		{"int64", int64(-3)},
		{"float64", 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ToHost(tt.input)
			require.NoError(t, err)
			assert.False(t, v.IsNone())
			assert.Equal(t, tt.input, FromHost(v))
		})
	}
}

// Test: nil maps to the None singleton
func TestToHost_NilIsNone(t *testing.T) {
	v, err := ToHost(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNone())
	assert.True(t, v.Equal(None))
	assert.Nil(t, FromHost(v))
}

// Test: values already in host form pass through unchanged
func TestToHost_Passthrough(t *testing.T) {
	original, err := ToHost("payload")
	require.NoError(t, err)

	again, err := ToHost(original)
	require.NoError(t, err)
	assert.True(t, original.Equal(again))
}

// Test: IntoHost implementations are used
func TestToHost_IntoHost(t *testing.T) {
	v, err := ToHost(hostable{name: "custom"})
	require.NoError(t, err)
	assert.Equal(t, "custom", FromHost(v))

	_, err = ToHost(brokenHostable{})
	require.Error(t, err)
	var hostErr *HostError
	require.ErrorAs(t, err, &hostErr)
	assert.Equal(t, ErrCodeUnconvertible, hostErr.Code)
}

// Test: unsupported values fail loudly, never fall back
func TestToHost_Unconvertible(t *testing.T) {
	_, err := ToHost(struct{ X int }{X: 1})
	require.Error(t, err)

	var hostErr *HostError
	require.ErrorAs(t, err, &hostErr)
	assert.Equal(t, ErrCodeUnconvertible, hostErr.Code)
	assert.Contains(t, hostErr.Details, "struct")
}

// Test: handles convert to host object references
func TestToHost_Handle(t *testing.T) {
	rt := NewRuntime()
	require.NoError(t, rt.RegisterType(TypeSpec{Name: "thing", Slots: NewSlotTable()}))

	h, err := rt.NewObject("thing", &struct{}{})
	require.NoError(t, err)

	v, err := ToHost(h)
	require.NoError(t, err)
	assert.False(t, v.IsNone())

	extracted, ok := AsHandle(v)
	assert.True(t, ok)
	assert.Equal(t, h, extracted)

	_, ok = AsHandle(None)
	assert.False(t, ok)
}
