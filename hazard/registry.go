package hazard

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/min1324/lockfree/metrics"
)

var (
	// ErrSlotNotHeld is raised when a slot is released twice.
	ErrSlotNotHeld = errors.New("hazard: slot not held")
	// ErrDoubleFree is raised by the checked allocator when a node is freed twice.
	ErrDoubleFree = errors.New("hazard: double free")
	// ErrUseAfterFree is raised by the checked allocator when a freed node is
	// dereferenced.
	ErrUseAfterFree = errors.New("hazard: use after free")
)

// tickets hands out slot owner identities; 0 marks a free slot.
var tickets atomic.Uint64

// Slot publishes the node one operation is about to dereference.
type Slot[N any] struct {
	owner atomic.Uint64
	ptr   atomic.Pointer[N]
	_     [6]uint64
}

// Publish marks n as in use by the slot owner.
func (s *Slot[N]) Publish(n *N) {
	s.ptr.Store(n)
}

// Clear withdraws the published node but keeps the slot.
func (s *Slot[N]) Clear() {
	s.ptr.Store(nil)
}

// Protect loads src, publishes it and loads src again until both loads
// agree. The returned node was reachable from src after it was published,
// so a remover scanning the registry afterwards will see it.
func (s *Slot[N]) Protect(src *atomic.Pointer[N]) *N {
	p := src.Load()
	for {
		s.ptr.Store(p)
		q := src.Load()
		if q == p {
			return p
		}
		p = q
	}
}

// Release clears the slot and gives it back to the registry.
func (s *Slot[N]) Release() {
	s.ptr.Store(nil)
	if s.owner.Swap(0) == 0 {
		panic(fmt.Errorf("release: %w", ErrSlotNotHeld))
	}
}

// Registry is a fixed set of hazard slots.
type Registry[N any] struct {
	slots []Slot[N]
	hint  atomic.Uint32
	obs   metrics.Observer
}

// NewRegistry returns a registry with size slots, at least one.
func NewRegistry[N any](size int, obs metrics.Observer) *Registry[N] {
	if size < 1 {
		size = 1
	}
	if obs == nil {
		obs = metrics.Nop{}
	}
	return &Registry[N]{
		slots: make([]Slot[N], size),
		obs:   obs,
	}
}

// Size is the number of slots.
func (r *Registry[N]) Size() int {
	return len(r.slots)
}

// Acquire claims a free slot. When every slot is owned it keeps scanning
// until one is released; it never fails.
func (r *Registry[N]) Acquire() *Slot[N] {
	id := tickets.Add(1)
	if id == 0 {
		id = tickets.Add(1)
	}
	n := uint32(len(r.slots))
	start := r.hint.Add(1)
	for {
		for i := uint32(0); i < n; i++ {
			s := &r.slots[(start+i)%n]
			if s.owner.Load() == 0 && s.owner.CompareAndSwap(0, id) {
				return s
			}
		}
		r.obs.SlotWait()
		// more goroutines than slots: let the owners run.
		runtime.Gosched()
	}
}

// Protected reports whether any slot currently publishes n.
func (r *Registry[N]) Protected(n *N) bool {
	if n == nil {
		return false
	}
	for i := range r.slots {
		if r.slots[i].ptr.Load() == n {
			return true
		}
	}
	return false
}
