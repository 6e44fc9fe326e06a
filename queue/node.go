// package queue
// linklist queue node

package queue

import (
	"sync/atomic"
)

// box carries a pushed value so the value slot can be filled by CAS.
type box[T any] struct {
	v T
}

// 链表节点
type node[T any] struct {
	// value 只能由 nil 变为非 nil 一次。
	// 成功 cas(nil, box) 的 Push 获得链接 next 和移动 tail 的权限。
	// 出队后被替换为队列的 consumed 哨兵，而不是 nil，
	// 这样仍持有该节点的 Push 的 cas 必然失败。
	value atomic.Pointer[box[T]]
	next  atomic.Pointer[node[T]]

	// taken 由 Pop 通过 swap(true) 争夺，成功者独占该节点。
	taken atomic.Bool
}

// 释放node,状态回到新建
func (n *node[T]) free() {
	n.value.Store(nil)
	n.next.Store(nil)
	n.taken.Store(false)
}
