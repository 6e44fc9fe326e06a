package stack

import (
	"sync"
)

// mutex list stack

// MutexStack is an unbounded single-lock list stack. It is the baseline the
// lock-free Stack is measured against.
type MutexStack[T any] struct {
	mu sync.Mutex

	len int
	top *listNode[T]
}

type listNode[T any] struct {
	value T
	next  *listNode[T]
}

func (q *MutexStack[T]) init() {
	top := q.top
	q.top = nil
	q.len = 0
	for top != nil {
		freeNode := top
		top = freeNode.next
		freeNode.next = nil
	}
}

// Init discards every value.
func (q *MutexStack[T]) Init() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.init()
}

func (q *MutexStack[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.len == 0
}

func (q *MutexStack[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.len
}

func (q *MutexStack[T]) Push(val T) {
	slot := &listNode[T]{value: val}
	q.mu.Lock()
	defer q.mu.Unlock()
	slot.next = q.top
	q.top = slot
	q.len += 1
}

func (q *MutexStack[T]) Pop() (val T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.top == nil {
		return
	}
	slot := q.top
	q.top = slot.next
	q.len -= 1
	val = slot.value
	slot.next = nil
	return val, true
}
