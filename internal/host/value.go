package host

// Value is the runtime's uniform, opaque object representation. Native Go
// values cross the slot boundary only after conversion through ToHost; host
// code never sees the underlying Go value directly.
type Value struct {
	v     any
	valid bool
}

// None is the host's "no value" singleton. It is a real value (the zero
// Value), not the absence of one: a termination payload of None still
// constructs a full exception instance.
var None = Value{}

// IsNone reports whether v is the "no value" singleton.
func (v Value) IsNone() bool {
	return !v.valid
}

// Equal reports whether two host values wrap the same underlying value.
func (v Value) Equal(other Value) bool {
	if v.valid != other.valid {
		return false
	}
	return v.v == other.v
}

// IntoHost is implemented by native types that provide their own host
// representation.
type IntoHost interface {
	IntoHost() (Value, error)
}

// ToHost converts a native Go value into the host's value representation.
// Values already in host form pass through unchanged; nil maps to None;
// handles convert to host object references. Anything the host value model
// cannot represent is a conversion error, never a silent fallback.
func ToHost(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return None, nil
	case Value:
		return x, nil
	case Handle:
		return Value{v: x, valid: true}, nil
	case IntoHost:
		return x.IntoHost()
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Value{v: x, valid: true}, nil
	default:
		return None, &HostError{
			Code:    ErrCodeUnconvertible,
			Message: "value has no host representation",
			Details: typeName(v),
		}
	}
}

// FromHost projects a host value back to its underlying Go value. None
// projects to nil.
func FromHost(v Value) any {
	if !v.valid {
		return nil
	}
	return v.v
}

// AsHandle extracts an object reference from a host value, if it holds one.
func AsHandle(v Value) (Handle, bool) {
	h, ok := v.v.(Handle)
	return h, ok
}
