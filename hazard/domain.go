package hazard

import "github.com/min1324/lockfree/metrics"

// Config describes a Domain.
type Config[N any] struct {
	// Slots is the number of hazard slots.
	Slots int
	// Reset clears a node before it is reused. In debug mode it poisons
	// freed nodes instead.
	Reset func(*N)
	// Debug selects the Checked allocator.
	Debug bool
	// Allocator overrides the allocator picked by Debug.
	Allocator Allocator[N]
	Observer  metrics.Observer
}

// Domain bundles what one structure needs to reclaim its nodes: the hazard
// registry, the garbage list and the node allocator.
type Domain[N any] struct {
	*Registry[N]

	garbage List[N]
	alloc   Allocator[N]
	checked *Checked[N]
	obs     metrics.Observer
}

// NewDomain builds a Domain from cfg.
func NewDomain[N any](cfg Config[N]) *Domain[N] {
	obs := cfg.Observer
	if obs == nil {
		obs = metrics.Nop{}
	}
	d := &Domain[N]{
		Registry: NewRegistry[N](cfg.Slots, obs),
		obs:      obs,
	}
	switch {
	case cfg.Allocator != nil:
		d.alloc = cfg.Allocator
		d.checked, _ = cfg.Allocator.(*Checked[N])
	case cfg.Debug:
		d.checked = NewChecked(cfg.Reset)
		d.alloc = d.checked
	default:
		d.alloc = NewPool(cfg.Reset)
	}
	return d
}

// Alloc returns a node ready for use.
func (d *Domain[N]) Alloc() *N {
	return d.alloc.New()
}

// Allocator exposes the node allocator, a *Checked in debug mode.
func (d *Domain[N]) Allocator() Allocator[N] {
	return d.alloc
}

// Check asserts n has not been freed. It does nothing outside debug mode.
func (d *Domain[N]) Check(n *N) {
	if d.checked != nil && n != nil {
		d.checked.Check(n)
	}
}

// Retire disposes of a node that is no longer reachable from the structure:
// it is freed at once unless some slot publishes it, in which case it waits
// on the garbage list. It reports whether the node was deferred.
func (d *Domain[N]) Retire(n *N) bool {
	if d.Protected(n) {
		d.garbage.Push(n)
		d.obs.Retired(true)
		return true
	}
	d.alloc.Free(n)
	d.obs.Retired(false)
	return false
}

// Collect drains the garbage list once and returns how many nodes it freed.
func (d *Domain[N]) Collect() int {
	if d.garbage.Len() == 0 {
		return 0
	}
	freed, kept := d.garbage.Drain(d.Protected, d.alloc.Free)
	d.obs.Collected(freed, kept)
	return freed
}

// Pending is the number of retired nodes not yet freed.
func (d *Domain[N]) Pending() int {
	return d.garbage.Len()
}
