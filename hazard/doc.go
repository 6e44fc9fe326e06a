// Package hazard implements hazard-pointer reclamation for the lock-free
// collections in this module.
//
// A node removed from a lock-free structure may still be read by another
// goroutine that loaded it a moment earlier. Freeing it (handing it back to
// the node allocator for reuse) at that point turns the stale reader's next
// CAS into an ABA bug. Hazard pointers close that window: a reader publishes
// the node in a Slot before dereferencing it, and the remover only frees a
// node that no slot publishes. Nodes that are still published wait on a
// garbage List until a later drain finds them unprotected.
package hazard

/*
回收流程:

读取方:
	slot := Acquire()
	for {
		p := load(src)
		slot.Publish(p)
		if p == load(src) { break }	// 发布之后再读一次，保证p在发布时仍然可达
	}
	... 使用 p ...
	slot.Release()

删除方:
	cas 摘下节点 n
	if Protected(n) {
		garbage.Push(n)		// 还有读取方，延迟释放
	} else {
		free(n)
	}
	Collect()				// 扫描garbage，释放不再受保护的节点

slot状态：
owner == 0			空闲
owner == ticket		被某次操作占用，ptr 为该操作正在使用的节点
*/
