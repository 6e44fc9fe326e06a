package queue

import (
	"sync"
	"sync/atomic"

	"github.com/min1324/lockfree/hazard"
	"github.com/min1324/lockfree/metrics"
)

const (
	// DefaultHazardSlots is the hazard slot count used when Options leaves it 0.
	DefaultHazardSlots = 16
	// DefaultGarbageSoftLimit is the garbage length that triggers a drain.
	DefaultGarbageSoftLimit = 1 << 10
)

// Options configures a Queue. Zero fields take defaults.
type Options struct {
	// HazardSlots bounds how many pushes and pops can protect a node at the
	// same time. Further calls spin until a slot is released.
	HazardSlots int

	// GarbageSoftLimit is the number of deferred nodes that makes a pop
	// drain the garbage list. It is not a cap: protected nodes stay listed.
	GarbageSoftLimit int

	// Observer receives push/pop/reclaim events. Defaults to metrics.Nop.
	Observer metrics.Observer

	// Debug never reuses nodes and panics on double free or use after free.
	Debug bool
}

// Queue is a lock-free concurrent FIFO queue. The zero value is an empty
// queue ready to use.
type Queue[T any] struct {
	Options

	once sync.Once
	len  atomic.Int64 // len is num of value store in queue

	// head is the next node to pop. tail is the dummy waiting for the next
	// push. Neither is ever nil once initialized.
	head atomic.Pointer[node[T]]
	_    [7]uint64
	tail atomic.Pointer[node[T]]
	_    [7]uint64

	// consumed replaces the box of a popped node.
	consumed *box[T]
	hp       *hazard.Domain[node[T]]
}

// New returns an empty queue configured by the first opts, if any.
func New[T any](opts ...Options) *Queue[T] {
	q := &Queue[T]{}
	if len(opts) > 0 {
		q.Options = opts[0]
	}
	q.onceInit()
	return q
}

// onceInit initialize queue
// if use var q Queue statement struct
// user may forget Init Queue,
// so use a once func in Push to init queue.
func (q *Queue[T]) onceInit() {
	q.once.Do(func() {
		q.init()
	})
}

func (q *Queue[T]) init() {
	if q.HazardSlots < 1 {
		q.HazardSlots = DefaultHazardSlots
	}
	if q.GarbageSoftLimit < 1 {
		q.GarbageSoftLimit = DefaultGarbageSoftLimit
	}
	if q.Observer == nil {
		q.Observer = metrics.Nop{}
	}
	q.consumed = &box[T]{}
	q.hp = hazard.NewDomain(hazard.Config[node[T]]{
		Slots:    q.HazardSlots,
		Reset:    (*node[T]).free,
		Debug:    q.Debug,
		Observer: q.Observer,
	})
	dummy := q.hp.Alloc()
	q.head.Store(dummy)
	q.tail.Store(dummy)
}

// Push puts the given value at the tail of the queue.
func (q *Queue[T]) Push(val T) {
	q.onceInit()
	// allocate before touching the tail so a failed allocation changes nothing.
	b := &box[T]{v: val}
	dummy := q.hp.Alloc()

	hp := q.hp.Acquire()
	for {
		tail := hp.Protect(&q.tail)
		q.hp.Check(tail)
		// only the filler of tail may link the next dummy.
		if tail.value.CompareAndSwap(nil, b) {
			tail.next.Store(dummy)
			q.tail.Store(dummy)
			break
		}
	}
	hp.Release()
	q.len.Add(1)
	q.Observer.Pushed()
}

// Pop removes and returns the value at the head of the queue.
// ok is false if the queue is empty.
func (q *Queue[T]) Pop() (val T, ok bool) {
	q.onceInit()
	hp := q.hp.Acquire()
	var head *node[T]
	for {
		head = hp.Protect(&q.head)
		q.hp.Check(head)
		taken := head.taken.Swap(true)
		// the winner owns head from here on; nobody else frees it.
		hp.Clear()
		if !taken {
			break
		}
	}
	hp.Release()

	if head == q.tail.Load() {
		// only the dummy: give it back.
		head.taken.Store(false)
		q.Observer.Popped(false)
		return val, false
	}

	// head is behind tail, so it has been filled and linked.
	q.head.Store(head.next.Load())
	b := head.value.Swap(q.consumed)
	val, b.v = b.v, val
	q.len.Add(-1)

	q.hp.Retire(head)
	if q.hp.Pending() >= q.GarbageSoftLimit {
		q.hp.Collect()
	}
	q.Observer.Popped(true)
	return val, true
}

// Empty reports whether the queue holds no value. The answer may be stale
// by the time the caller sees it.
func (q *Queue[T]) Empty() bool {
	q.onceInit()
	return q.head.Load() == q.tail.Load()
}

// Size queue element's number
func (q *Queue[T]) Size() int {
	return int(q.len.Load())
}

// Pending is the number of popped nodes waiting for their hazard to clear.
func (q *Queue[T]) Pending() int {
	q.onceInit()
	return q.hp.Pending()
}

// Collect frees every deferred node that is no longer protected and returns
// how many it freed.
func (q *Queue[T]) Collect() int {
	q.onceInit()
	return q.hp.Collect()
}

// Init discards every value in the queue. It is safe to call concurrently
// with Push and Pop; values pushed meanwhile may survive.
func (q *Queue[T]) Init() {
	q.onceInit()
	for {
		if _, ok := q.Pop(); !ok {
			break
		}
	}
	q.hp.Collect()
}

// Move returns a new queue holding every value of q in the same order and
// leaves q empty and ready for reuse. The new queue also takes over the
// nodes q still has on its garbage list. Move must not run concurrently
// with any other call on q.
func (q *Queue[T]) Move() *Queue[T] {
	q.onceInit()
	d := New[T](q.Options)

	head, tail := q.head.Load(), q.tail.Load()
	q.head.Store(d.head.Load())
	q.tail.Store(d.tail.Load())
	d.head.Store(head)
	d.tail.Store(tail)

	d.len.Store(q.len.Swap(0))
	q.hp, d.hp = d.hp, q.hp
	return d
}
