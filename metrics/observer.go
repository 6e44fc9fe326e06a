// Package metrics reports what the lock-free collections do: pushes, pops,
// node retirement and hazard-slot contention.
package metrics

// Observer receives one call per event. Implementations must be safe for
// concurrent use and must not block: they run inside push/pop.
type Observer interface {
	// Pushed is called after a value is linked in.
	Pushed()
	// Popped is called after every pop; ok is false when it found nothing.
	Popped(ok bool)
	// Retired is called when a node leaves the structure. deferred reports
	// whether it went to the garbage list instead of being freed.
	Retired(deferred bool)
	// Collected is called after a garbage drain pass.
	Collected(freed, kept int)
	// SlotWait is called when a full scan found no free hazard slot.
	SlotWait()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Pushed()            {}
func (Nop) Popped(bool)        {}
func (Nop) Retired(bool)       {}
func (Nop) Collected(int, int) {}
func (Nop) SlotWait()          {}
