// Package handle implements a reference-counted integer handle registry,
// the same block/slot allocator the engine uses to hand out stable
// integer identities for banks, waves, programs, voices and every other
// object an application can hold a reference to across the API/engine
// boundary.
//
// A Manager is deliberately not safe for concurrent use: per the
// concurrency model, all handle mutation happens on the API thread. The
// audio thread only ever dereferences handles it was handed in advance
// (see the "detached" type in the voice package), never allocates or
// frees them.
package handle

import "github.com/olofson/audiality2-sub001/pkg/a2err"

const (
	// MaxBlocks bounds how many blocks of handles can ever be allocated.
	MaxBlocks = 4096
	// BlockSizePow2 is the log2 of how many handles live in one block.
	BlockSizePow2 = 8
	// BlockSize is the number of handles per block (256).
	BlockSize = 1 << BlockSizePow2
	// blockMask masks the intra-block index out of a handle value.
	blockMask = BlockSize - 1
)

// TypeCode identifies the kind of object a handle refers to.
type TypeCode uint8

// Disposition is returned by a Destructor to say whether the handle may
// actually be recycled.
type Disposition int

const (
	// DispositionOK means the object was destroyed and the slot may be
	// returned to the free pool.
	DispositionOK Disposition = iota
	// DispositionRefuse means the destructor declined; the handle stays
	// allocated (used when an object needs to linger, e.g. a detached
	// voice still being drained by the audio thread).
	DispositionRefuse
)

// Destructor is called when a handle's reference count drops to zero.
// It returns DispositionRefuse to keep the handle alive anyway.
type Destructor func(data interface{}) Disposition

// slot is one entry of a block. While free, next holds the index of the
// next free slot (or -1), forming a LIFO free list; while allocated, it
// holds the object, its type and its reference count.
type slot struct {
	data     interface{}
	refcount uint16
	userbits uint8
	typ      TypeCode
	free     bool
	next     int32
}

// Manager is a block/slot handle registry with reference counting.
type Manager struct {
	blocks      [][]slot
	freeHead    int32
	numHandles  int32
	destructors map[TypeCode]Destructor
}

// New creates an empty Manager.
func New() *Manager {
	return &Manager{
		freeHead:    -1,
		destructors: make(map[TypeCode]Destructor),
	}
}

// RegisterType associates a Destructor with a TypeCode. Handles of types
// with no registered destructor are simply dropped when their refcount
// reaches zero.
func (m *Manager) RegisterType(t TypeCode, d Destructor) {
	m.destructors[t] = d
}

func (m *Manager) slotAt(h int32) *slot {
	block := h >> BlockSizePow2
	idx := h & blockMask
	if int(block) >= len(m.blocks) {
		return nil
	}
	return &m.blocks[block][idx]
}

func (m *Manager) growBlock() (int32, error) {
	if len(m.blocks) >= MaxBlocks {
		return 0, a2err.New(a2err.OutOfHandles)
	}
	base := int32(len(m.blocks)) << BlockSizePow2
	nb := make([]slot, BlockSize)
	for i := range nb {
		nb[i].free = true
		if i == BlockSize-1 {
			nb[i].next = -1
		} else {
			nb[i].next = base + int32(i) + 1
		}
	}
	m.blocks = append(m.blocks, nb)
	return base, nil
}

// NewEx allocates a handle of the given type bound to data and
// userbits, with an initial reference count of one. It returns a2err.OutOfHandles if the
// registry has exhausted MaxBlocks*BlockSize slots.
func (m *Manager) NewEx(t TypeCode, userbits uint8, data interface{}) (int32, error) {
	if m.freeHead < 0 {
		base, err := m.growBlock()
		if err != nil {
			return 0, err
		}
		m.freeHead = base
	}
	h := m.freeHead
	s := m.slotAt(h)
	m.freeHead = s.next
	s.free = false
	s.data = data
	s.typ = t
	s.userbits = userbits
	s.refcount = 1
	m.numHandles++
	return h, nil
}

// New is NewEx with userbits set to zero.
func (m *Manager) New(t TypeCode, data interface{}) (int32, error) {
	return m.NewEx(t, 0, data)
}

// Locate validates a handle and returns its slot, or
// a2err.InvalidHandle/a2err.FreeHandle if it does not refer to a live
// object.
func (m *Manager) Locate(h int32) (*slot, error) {
	if h < 0 {
		return nil, a2err.New(a2err.InvalidHandle)
	}
	s := m.slotAt(h)
	if s == nil {
		return nil, a2err.New(a2err.InvalidHandle)
	}
	if s.free {
		return nil, a2err.New(a2err.FreeHandle)
	}
	return s, nil
}

// Type returns the TypeCode of a live handle.
func (m *Manager) Type(h int32) (TypeCode, error) {
	s, err := m.Locate(h)
	if err != nil {
		return 0, err
	}
	return s.typ, nil
}

// Grab returns the data bound to h without touching its reference count,
// for read-only peeking (e.g. type checks before a Retain).
func (m *Manager) Grab(h int32) (interface{}, error) {
	s, err := m.Locate(h)
	if err != nil {
		return nil, err
	}
	return s.data, nil
}

// Retain increments h's reference count and returns the bound data.
func (m *Manager) Retain(h int32) (interface{}, error) {
	s, err := m.Locate(h)
	if err != nil {
		return nil, err
	}
	s.refcount++
	return s.data, nil
}

// Release decrements h's reference count. At zero, the type's
// Destructor (if any) runs; unless it returns DispositionRefuse, the
// slot is pushed back onto the free list and h may be reissued by a
// later New/NewEx call. A refusal leaves the slot live with its
// reference count at zero; releasing it again runs the destructor again.
func (m *Manager) Release(h int32) error {
	s, err := m.Locate(h)
	if err != nil {
		return err
	}
	if s.refcount > 0 {
		s.refcount--
		if s.refcount > 0 {
			return nil
		}
	}
	if d, ok := m.destructors[s.typ]; ok {
		if d(s.data) == DispositionRefuse {
			return nil
		}
	}
	m.free(h, s)
	return nil
}

// Free immediately recycles h regardless of its reference count,
// bypassing the destructor. This mirrors rchm_Free, used only in
// teardown paths where the destructor has already run out-of-band.
func (m *Manager) Free(h int32) error {
	s, err := m.Locate(h)
	if err != nil {
		return err
	}
	m.free(h, s)
	return nil
}

func (m *Manager) free(h int32, s *slot) {
	s.data = nil
	s.free = true
	s.refcount = 0
	s.next = m.freeHead
	m.freeHead = h
	m.numHandles--
}

// Count returns the number of currently live handles.
func (m *Manager) Count() int32 {
	return m.numHandles
}
