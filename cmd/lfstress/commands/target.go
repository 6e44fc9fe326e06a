package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/min1324/lockfree/internal/stress"
	"github.com/min1324/lockfree/metrics"
	"github.com/min1324/lockfree/queue"
	"github.com/min1324/lockfree/stack"
)

const (
	implLockFree = "lockfree"
	implMutex    = "mutex"

	kindStack = "stack"
	kindQueue = "queue"
)

var ErrUnknownTarget = errors.New("unknown structure or implementation")

// target is one structure under test together with what the metrics and
// the report need to sample from it.
type target struct {
	name    string
	fifo    bool
	c       stress.Collection
	size    func() int
	pending func() int
	collect func() int
}

func none() int { return 0 }

func newTarget(kind string, obs metrics.Observer) (*target, error) {
	impl := viper.GetString("impl")
	t := &target{name: kind + "/" + impl, fifo: kind == kindQueue}
	switch {
	case kind == kindStack && impl == implLockFree:
		s := stack.New[uint64](stack.Options{
			HazardSlots: viper.GetInt("slots"),
			Observer:    obs,
			Debug:       viper.GetBool("debug"),
		})
		t.c, t.size, t.pending, t.collect = s, s.Size, s.Pending, s.Collect
	case kind == kindStack && impl == implMutex:
		s := &stack.MutexStack[uint64]{}
		t.c, t.size, t.pending, t.collect = s, s.Size, none, none
	case kind == kindQueue && impl == implLockFree:
		q := queue.New[uint64](queue.Options{
			HazardSlots:      viper.GetInt("slots"),
			GarbageSoftLimit: viper.GetInt("garbage-limit"),
			Observer:         obs,
			Debug:            viper.GetBool("debug"),
		})
		t.c, t.size, t.pending, t.collect = q, q.Size, q.Pending, q.Collect
	case kind == kindQueue && impl == implMutex:
		q := &queue.MutexQueue[uint64]{}
		t.c, t.size, t.pending, t.collect = q, q.Size, none, none
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, t.name)
	}
	return t, nil
}
