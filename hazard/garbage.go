package hazard

import "sync/atomic"

type record[N any] struct {
	node *N
	next *record[N]
}

// List is a lock-free stack of retired nodes waiting to be freed.
type List[N any] struct {
	head atomic.Pointer[record[N]]
	size atomic.Int64
}

// Push adds n to the list.
func (l *List[N]) Push(n *N) {
	l.push(&record[N]{node: n})
}

func (l *List[N]) push(r *record[N]) {
	// count first so a concurrent Drain never drives size below zero.
	l.size.Add(1)
	for {
		r.next = l.head.Load()
		if l.head.CompareAndSwap(r.next, r) {
			return
		}
	}
}

// Len is the number of nodes on the list. It may be momentarily high while
// a Push is in flight.
func (l *List[N]) Len() int {
	return int(l.size.Load())
}

// Drain detaches the whole list and frees every node protected reports
// false for. Protected nodes are pushed back for a later pass.
func (l *List[N]) Drain(protected func(*N) bool, free func(*N)) (freed, kept int) {
	r := l.head.Swap(nil)
	for r != nil {
		next := r.next
		r.next = nil
		l.size.Add(-1)
		if protected(r.node) {
			l.push(r)
			kept++
		} else {
			free(r.node)
			r.node = nil
			freed++
		}
		r = next
	}
	return freed, kept
}
