// Package stack provides a lock-free LIFO stack whose removed nodes are
// reclaimed through hazard pointers, plus a mutex stack used as a baseline.
package stack

/*
type Stack[T] struct {
	top  atomic.Pointer[node]	// 栈顶, nil 表示栈空
	hp   *hazard.Domain[node]	// 回收域: hazard slot + garbage list + allocator
}

type node[T] struct {
	value T
	next  atomic.Pointer[node]
}

push:
	slot := alloc()
	slot.value = val
	slot.next = top, 然后 cas(top, slot.next, slot), 失败重试。

pop:
	取得 hazard slot，发布 top 后再读 top，两次一致才可使用。
	top == nil 栈空，释放slot返回。
	cas(top, top, top.next) 成功则摘下节点。
	释放 slot，取出 value。
	如果节点仍被其他 slot 发布，放入 garbage，否则直接释放。
	最后扫描 garbage，释放不再受保护的节点。

空条件:
名称				空
链表			top == nil
*/
