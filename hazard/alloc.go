package hazard

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Allocator hands out nodes and takes them back once they are safe to reuse.
type Allocator[N any] interface {
	New() *N
	Free(n *N)
}

// Pool recycles nodes through a sync.Pool. reset runs on every freed node
// before it is put back.
type Pool[N any] struct {
	pool  sync.Pool
	reset func(*N)
}

// NewPool returns a recycling allocator.
func NewPool[N any](reset func(*N)) *Pool[N] {
	return &Pool[N]{reset: reset}
}

func (p *Pool[N]) New() *N {
	if n, ok := p.pool.Get().(*N); ok {
		return n
	}
	return new(N)
}

func (p *Pool[N]) Free(n *N) {
	if p.reset != nil {
		p.reset(n)
	}
	p.pool.Put(n)
}

// Checked is a debugging allocator. It never reuses a node, poisons freed
// nodes and panics on double free or on Check of a freed node.
type Checked[N any] struct {
	freed  sync.Map
	poison func(*N)
	allocs atomic.Int64
	frees  atomic.Int64
}

// NewChecked returns a checked allocator. poison may be nil.
func NewChecked[N any](poison func(*N)) *Checked[N] {
	return &Checked[N]{poison: poison}
}

func (c *Checked[N]) New() *N {
	c.allocs.Add(1)
	return new(N)
}

func (c *Checked[N]) Free(n *N) {
	if _, loaded := c.freed.LoadOrStore(n, struct{}{}); loaded {
		panic(fmt.Errorf("free %p: %w", n, ErrDoubleFree))
	}
	if c.poison != nil {
		c.poison(n)
	}
	c.frees.Add(1)
}

// Check panics if n has been freed.
func (c *Checked[N]) Check(n *N) {
	if c.Freed(n) {
		panic(fmt.Errorf("access %p: %w", n, ErrUseAfterFree))
	}
}

// Freed reports whether n has been freed.
func (c *Checked[N]) Freed(n *N) bool {
	_, ok := c.freed.Load(n)
	return ok
}

// Allocs is the number of nodes handed out.
func (c *Checked[N]) Allocs() int64 { return c.allocs.Load() }

// Frees is the number of nodes given back.
func (c *Checked[N]) Frees() int64 { return c.frees.Load() }

// Live is Allocs minus Frees.
func (c *Checked[N]) Live() int64 { return c.allocs.Load() - c.frees.Load() }
