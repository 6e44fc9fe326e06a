package stack

import "sync/atomic"

// node is owned by at most one next edge at a time. value is written before
// the node is published and moved out by the pop that unlinks it.
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// take moves the value out. next stays intact for readers that still
// protect the node.
func (n *node[T]) take() T {
	var zero T
	val := n.value
	n.value = zero
	return val
}

func (n *node[T]) store(val T) {
	n.value = val
}

// free drops the value and the link so a recycled node starts clean.
func (n *node[T]) free() {
	var zero T
	n.value = zero
	n.next.Store(nil)
}
