// Package queue provides a lock-free FIFO queue whose removed nodes are
// reclaimed through hazard pointers, plus a mutex queue used as a baseline.
//
// The queue always holds a dummy node at its tail. A push claims the dummy by
// filling its value slot with CAS, then links a fresh dummy behind it and
// moves the tail. Losing pushers retry on the new tail, so a push is
// obstruction-free rather than lock-free: a pusher that stalls between its
// value CAS and its tail store holds up every other pusher until it resumes.
package queue

/*
type Queue[T] struct {
	head atomic.Pointer[node]	// 第一个出队的 node, 永远不为 nil
	tail atomic.Pointer[node]	// dummy node, value 为空, 等待下一个 Push 填充
}

队列空条件：
名称				空
链表		head == tail

Push:
	先分配新的 dummy node。
	slot 发布 tail，再读 tail 确认。
	cas(tail.value, nil, val) 成功者:
		tail.next = dummy
		tail = dummy
	失败则重试。

Pop:
	slot 发布 head，再读 head 确认。
	swap(head.taken, true)，之后立即清除 slot 的发布。
	taken 已被设置，说明其他 Pop 赢得该节点，重试。
	head == tail，只有 dummy，恢复 taken 并返回空。
	否则 head = head.next，取出 value，回收旧 head。
	garbage 达到 GarbageSoftLimit 时扫描回收。
*/
