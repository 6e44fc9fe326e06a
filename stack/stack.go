package stack

import (
	"sync"
	"sync/atomic"

	"github.com/min1324/lockfree/hazard"
	"github.com/min1324/lockfree/metrics"
)

// DefaultHazardSlots is the hazard slot count used when Options leaves it 0.
const DefaultHazardSlots = 32

// Options configures a Stack. Zero fields take defaults.
type Options struct {
	// HazardSlots bounds how many pops can protect a node at the same time.
	// Further pops spin until a slot is released.
	HazardSlots int

	// Observer receives push/pop/reclaim events. Defaults to metrics.Nop.
	Observer metrics.Observer

	// Debug never reuses nodes and panics on double free or use after free.
	Debug bool
}

// Stack is a lock-free concurrent LIFO stack. The zero value is an empty
// stack ready to use.
type Stack[T any] struct {
	Options

	once sync.Once
	len  atomic.Int64            // stack value num.
	top  atomic.Pointer[node[T]] // point to the latest value pushed.
	hp   *hazard.Domain[node[T]]
}

// New returns an empty stack configured by the first opts, if any.
func New[T any](opts ...Options) *Stack[T] {
	s := &Stack[T]{}
	if len(opts) > 0 {
		s.Options = opts[0]
	}
	s.onceInit()
	return s
}

func (s *Stack[T]) onceInit() {
	s.once.Do(func() {
		s.init()
	})
}

func (s *Stack[T]) init() {
	if s.HazardSlots < 1 {
		s.HazardSlots = DefaultHazardSlots
	}
	if s.Observer == nil {
		s.Observer = metrics.Nop{}
	}
	s.hp = s.newDomain()
}

func (s *Stack[T]) newDomain() *hazard.Domain[node[T]] {
	return hazard.NewDomain(hazard.Config[node[T]]{
		Slots:    s.HazardSlots,
		Reset:    (*node[T]).free,
		Debug:    s.Debug,
		Observer: s.Observer,
	})
}

// Push puts the given value at the top of the stack.
func (s *Stack[T]) Push(val T) {
	s.onceInit()
	// the node is complete before anything shared is touched.
	slot := s.hp.Alloc()
	slot.store(val)
	for {
		top := s.top.Load()
		slot.next.Store(top)
		if s.top.CompareAndSwap(top, slot) {
			break
		}
	}
	s.len.Add(1)
	s.Observer.Pushed()
}

// Pop removes and returns the value at the top of the stack.
// ok is false if the stack is empty.
func (s *Stack[T]) Pop() (val T, ok bool) {
	s.onceInit()
	hp := s.hp.Acquire()
	var top *node[T]
	for {
		top = hp.Protect(&s.top)
		if top == nil {
			break
		}
		s.hp.Check(top)
		if s.top.CompareAndSwap(top, top.next.Load()) {
			break
		}
	}
	hp.Release()

	if top == nil {
		s.Observer.Popped(false)
		return val, false
	}
	s.len.Add(-1)
	val = top.take()
	s.hp.Retire(top)
	s.hp.Collect()
	s.Observer.Popped(true)
	return val, true
}

// Empty reports whether the stack holds no value. The answer may be stale
// by the time the caller sees it.
func (s *Stack[T]) Empty() bool {
	return s.top.Load() == nil
}

// Size stack element's number
func (s *Stack[T]) Size() int {
	return int(s.len.Load())
}

// Pending is the number of popped nodes waiting for their hazard to clear.
func (s *Stack[T]) Pending() int {
	s.onceInit()
	return s.hp.Pending()
}

// Collect frees every deferred node that is no longer protected and returns
// how many it freed.
func (s *Stack[T]) Collect() int {
	s.onceInit()
	return s.hp.Collect()
}

// Init discards every value in the stack. It is safe to call concurrently
// with Push and Pop; values pushed meanwhile may survive.
func (s *Stack[T]) Init() {
	s.onceInit()
	top := s.top.Swap(nil)
	for top != nil {
		next := top.next.Load()
		s.len.Add(-1)
		top.take()
		s.hp.Retire(top)
		top = next
	}
	s.hp.Collect()
}

// Move returns a new stack holding every value of s in the same order and
// leaves s empty and ready for reuse. The new stack also takes over the
// nodes s still has on its garbage list. Move must not run concurrently
// with any other call on s.
func (s *Stack[T]) Move() *Stack[T] {
	s.onceInit()
	d := New[T](s.Options)
	d.top.Store(s.top.Swap(nil))
	d.len.Store(s.len.Swap(0))
	s.hp, d.hp = d.hp, s.hp
	return d
}
