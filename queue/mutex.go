package queue

import (
	"sync"
	"sync/atomic"
)

// 双锁链表队列
// Push只需保证修改tail是最后一步。
//
// MutexQueue is a concurrent unbounded queue which uses the two-lock
// concurrent queue algorithm. It is the baseline the lock-free Queue is
// measured against. The zero value is an empty queue ready to use.
type MutexQueue[T any] struct {
	once sync.Once
	deMu sync.Mutex // Pop操作锁
	enMu sync.Mutex // Push操作锁

	len  atomic.Int64
	head *listNode[T]                // 只能由Pop操作更改
	tail atomic.Pointer[listNode[T]] // 只能由Push操作更改，Pop只读
}

type listNode[T any] struct {
	value T
	next  atomic.Pointer[listNode[T]]
}

func (q *MutexQueue[T]) onceInit() {
	q.once.Do(func() {
		q.head = &listNode[T]{}
		q.tail.Store(q.head)
	})
}

// Init discards every value.
func (q *MutexQueue[T]) Init() {
	q.enMu.Lock()
	defer q.enMu.Unlock()
	q.deMu.Lock()
	defer q.deMu.Unlock()
	q.onceInit()

	head := q.head
	tail := q.tail.Load()
	q.head = tail
	q.len.Store(0)
	// free queue [head ->...-> tail]
	for head != tail {
		n := head
		head = n.next.Load()
		n.next.Store(nil)
	}
	var zero T
	tail.value = zero
}

func (q *MutexQueue[T]) Empty() bool {
	return q.len.Load() == 0
}

func (q *MutexQueue[T]) Size() int {
	return int(q.len.Load())
}

func (q *MutexQueue[T]) Push(val T) {
	slot := &listNode[T]{value: val}
	q.enMu.Lock()
	defer q.enMu.Unlock()
	q.onceInit()

	// tail只能由Push更改，无竞争,Pop只读
	q.tail.Load().next.Store(slot)
	q.len.Add(1)
	q.tail.Store(slot)
}

func (q *MutexQueue[T]) Pop() (val T, ok bool) {
	q.deMu.Lock()
	defer q.deMu.Unlock()
	q.onceInit()

	// tail不需要最新，即便tail更改了，Pop操作无影响。只需保证队列非空即可出队.
	next := q.head.next.Load()
	if next == nil {
		return
	}
	q.head.next.Store(nil)
	q.head = next
	val = next.value
	var zero T
	next.value = zero
	q.len.Add(-1)
	return val, true
}
