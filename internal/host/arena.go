package host

import (
	"fmt"

	"github.com/google/uuid"
)

// AccessMode is the kind of access window a caller needs on an object.
type AccessMode int

const (
	// AccessShared allows any number of concurrent shared windows.
	AccessShared AccessMode = iota
	// AccessExclusive allows exactly one window, shared with nothing.
	AccessExclusive
)

// String returns the mode's display name.
func (m AccessMode) String() string {
	if m == AccessExclusive {
		return "exclusive"
	}
	return "shared"
}

// Handle is the opaque reference the host holds to an arena object. It
// carries no Go pointer; recovering the object goes back through the issuing
// runtime's checked registry, so a stale or foreign handle fails loudly
// instead of dereferencing freed state.
type Handle struct {
	runtime uuid.UUID
	index   uint32
	gen     uint32
}

// String returns a debug form of the handle.
func (h Handle) String() string {
	return fmt.Sprintf("handle(%d#%d)", h.index, h.gen)
}

// objectSlot is one arena entry. borrow tracks the open access windows:
// 0 free, -1 exclusive, n>0 shared readers.
type objectSlot struct {
	typeName string
	obj      any
	gen      uint32
	live     bool
	borrow   int32
}

// NewObject places a native object into the arena under a registered type
// and returns the opaque handle the host will use to reference it.
func (rt *Runtime) NewObject(typeName string, obj any) (Handle, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, ok := rt.types[typeName]; !ok {
		return Handle{}, &HostError{
			Code:    ErrCodeTypeNotRegistered,
			Message: fmt.Sprintf("type %s is not registered", typeName),
		}
	}

	var index uint32
	if n := len(rt.free); n > 0 {
		index = rt.free[n-1]
		rt.free = rt.free[:n-1]
		slot := &rt.objects[index]
		slot.typeName = typeName
		slot.obj = obj
		slot.live = true
		slot.borrow = 0
	} else {
		index = uint32(len(rt.objects))
		rt.objects = append(rt.objects, objectSlot{
			typeName: typeName,
			obj:      obj,
			live:     true,
		})
	}

	rt.logger.Debug().
		Str("type", typeName).
		Uint32("index", index).
		Msg("object created")

	return Handle{runtime: rt.id, index: index, gen: rt.objects[index].gen}, nil
}

// Release frees the object behind a handle and bumps the slot's generation
// so stale handles are rejected. Releasing an object with an open access
// window is a borrow conflict.
func (rt *Runtime) Release(h Handle) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	slot, err := rt.slotFor(h)
	if err != nil {
		return err
	}
	if slot.borrow != 0 {
		return &HostError{
			Code:    ErrCodeBorrowConflict,
			Message: fmt.Sprintf("cannot release %s with an open access window", h),
		}
	}

	slot.live = false
	slot.obj = nil
	slot.gen++
	rt.free = append(rt.free, h.index)
	return nil
}

// Acquire opens an access window on the object behind a handle and returns
// the stored object, its registered type name, and a release func. The
// release func must run on every exit path of the enclosing call; it is
// safe to call more than once.
func (rt *Runtime) Acquire(h Handle, mode AccessMode) (any, string, func(), error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	slot, err := rt.slotFor(h)
	if err != nil {
		return nil, "", nil, err
	}

	switch {
	case mode == AccessExclusive && slot.borrow != 0:
		return nil, "", nil, &HostError{
			Code:    ErrCodeBorrowConflict,
			Message: fmt.Sprintf("%s object already borrowed", slot.typeName),
			Details: fmt.Sprintf("requested exclusive access on %s", h),
		}
	case mode == AccessShared && slot.borrow < 0:
		return nil, "", nil, &HostError{
			Code:    ErrCodeBorrowConflict,
			Message: fmt.Sprintf("%s object already exclusively borrowed", slot.typeName),
			Details: fmt.Sprintf("requested shared access on %s", h),
		}
	}

	if mode == AccessExclusive {
		slot.borrow = -1
	} else {
		slot.borrow++
	}

	index := h.index
	released := false
	release := func() {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		if released {
			return
		}
		released = true
		s := &rt.objects[index]
		if mode == AccessExclusive {
			s.borrow = 0
		} else {
			s.borrow--
		}
	}

	return slot.obj, slot.typeName, release, nil
}

// slotFor validates a handle and returns its live arena slot. Callers hold
// rt.mu.
func (rt *Runtime) slotFor(h Handle) (*objectSlot, error) {
	if h.runtime != rt.id {
		return nil, &HostError{
			Code:    ErrCodeBadHandle,
			Message: "handle was issued by a different runtime",
			Details: h.String(),
		}
	}
	if int(h.index) >= len(rt.objects) {
		return nil, &HostError{
			Code:    ErrCodeBadHandle,
			Message: "handle index out of range",
			Details: h.String(),
		}
	}
	slot := &rt.objects[h.index]
	if !slot.live || slot.gen != h.gen {
		return nil, &HostError{
			Code:    ErrCodeBadHandle,
			Message: "handle references a released object",
			Details: h.String(),
		}
	}
	return slot, nil
}
