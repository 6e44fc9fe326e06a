// Package stress hammers a concurrent collection with tagged values and
// checks afterwards that every pushed value came out exactly once.
package stress

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrLost      = errors.New("stress: value lost")
	ErrDuplicate = errors.New("stress: value popped twice")
	ErrForeign   = errors.New("stress: value never pushed")
	ErrOrder     = errors.New("stress: values of one pusher popped out of order")
)

// Collection is what Run drives. stack.Stack, queue.Queue and their mutex
// baselines all satisfy it when instantiated with uint64.
type Collection interface {
	Push(uint64)
	Pop() (uint64, bool)
}

// Config describes one run.
type Config struct {
	Pushers   int
	Poppers   int
	PerPusher int

	// Work is the number of busy iterations between two operations.
	Work int

	// CheckOrder requires every popper to see the values of one pusher in
	// push order. Only FIFO collections pass.
	CheckOrder bool
}

func (cfg *Config) normalize() {
	if cfg.Pushers < 1 {
		cfg.Pushers = 1
	}
	if cfg.Poppers < 1 {
		cfg.Poppers = 1
	}
	if cfg.PerPusher < 0 {
		cfg.PerPusher = 0
	}
}

// Report is the outcome of a run that passed verification.
type Report struct {
	Pushed  int64
	Popped  int64
	Drained int64 // popped after every worker stopped
	Empty   int64 // pops that found nothing
	Elapsed time.Duration
}

// Ops is the number of successful pushes and pops.
func (r Report) Ops() int64 { return r.Pushed + r.Popped + r.Drained }

const seqBits = 32

func tag(pusher, seq int) uint64 { return uint64(pusher)<<seqBits | uint64(seq) }

func untag(v uint64) (pusher, seq int) {
	return int(v >> seqBits), int(v & (1<<seqBits - 1))
}

// Run pushes cfg.PerPusher values from each of cfg.Pushers goroutines while
// cfg.Poppers goroutines pop, then drains c and verifies the multiset of
// popped values equals the pushed one. Canceling ctx stops the pushers
// early; what they did push is still verified.
func Run(ctx context.Context, c Collection, cfg Config) (Report, error) {
	cfg.normalize()
	var (
		rep      Report
		pushing  sync.WaitGroup
		popping  sync.WaitGroup
		finished atomic.Bool
		empty    atomic.Int64
	)
	pushed := make([]int, cfg.Pushers)
	popped := make([][]uint64, cfg.Poppers)

	start := time.Now()
	for p := 0; p < cfg.Pushers; p++ {
		pushing.Add(1)
		go func(p int) {
			defer pushing.Done()
			for seq := 0; seq < cfg.PerPusher; seq++ {
				if seq&1023 == 0 && ctx.Err() != nil {
					return
				}
				c.Push(tag(p, seq))
				pushed[p] = seq + 1
				simulateWork(cfg.Work)
			}
		}(p)
	}
	for i := 0; i < cfg.Poppers; i++ {
		popping.Add(1)
		go func(i int) {
			defer popping.Done()
			var misses int64
			for {
				done := finished.Load()
				v, ok := c.Pop()
				if !ok {
					misses++
					if done {
						break
					}
					runtime.Gosched()
					continue
				}
				popped[i] = append(popped[i], v)
				simulateWork(cfg.Work)
			}
			empty.Add(misses)
		}(i)
	}

	pushing.Wait()
	finished.Store(true)
	popping.Wait()

	var rest []uint64
	for {
		v, ok := c.Pop()
		if !ok {
			break
		}
		rest = append(rest, v)
	}
	rep.Elapsed = time.Since(start)
	rep.Empty = empty.Load()

	for _, n := range pushed {
		rep.Pushed += int64(n)
	}
	for _, vs := range popped {
		rep.Popped += int64(len(vs))
	}
	rep.Drained = int64(len(rest))

	if err := verify(pushed, append(popped, rest), cfg.CheckOrder); err != nil {
		return rep, err
	}
	return rep, nil
}

// verify checks that the streams together hold each pushed value once. With
// order set, each stream must list one pusher's values in increasing order.
func verify(pushed []int, streams [][]uint64, order bool) error {
	seen := make([][]bool, len(pushed))
	for p, n := range pushed {
		seen[p] = make([]bool, n)
	}
	for _, vs := range streams {
		last := make([]int, len(pushed))
		for i := range last {
			last[i] = -1
		}
		for _, v := range vs {
			p, seq := untag(v)
			if p >= len(pushed) || seq >= pushed[p] {
				return fmt.Errorf("%w: pusher %d seq %d", ErrForeign, p, seq)
			}
			if seen[p][seq] {
				return fmt.Errorf("%w: pusher %d seq %d", ErrDuplicate, p, seq)
			}
			seen[p][seq] = true
			if order && seq < last[p] {
				return fmt.Errorf("%w: pusher %d seq %d after %d", ErrOrder, p, seq, last[p])
			}
			last[p] = seq
		}
	}
	for p := range seen {
		for seq, ok := range seen[p] {
			if !ok {
				return fmt.Errorf("%w: pusher %d seq %d", ErrLost, p, seq)
			}
		}
	}
	return nil
}

func simulateWork(amount int) {
	foo := 1
	for i := 0; i < amount; i++ {
		foo *= 2
		foo /= 2
	}
	if amount > 0 {
		runtime.Gosched()
	}
}
