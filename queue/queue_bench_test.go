package queue_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/min1324/lockfree/queue"
)

type Interface interface {
	Push(int)
	Pop() (int, bool)
	Size() int
}

type bench struct {
	setup func(*testing.B, Interface)
	perG  func(b *testing.B, pb *testing.PB, i int, m Interface)
}

var impls = []struct {
	name string
	new  func() Interface
}{
	{"MutexQueue", func() Interface { return &queue.MutexQueue[int]{} }},
	{"Queue", func() Interface { return queue.New[int]() }},
	{"QueueSmallGarbage", func() Interface {
		return queue.New[int](queue.Options{GarbageSoftLimit: 16})
	}},
}

func benchMap(b *testing.B, bench bench) {
	for _, impl := range impls {
		b.Run(impl.name, func(b *testing.B) {
			m := impl.new()
			if bench.setup != nil {
				bench.setup(b, m)
			}

			b.ResetTimer()

			var i int64
			b.RunParallel(func(pb *testing.PB) {
				id := int(atomic.AddInt64(&i, 1) - 1)
				bench.perG(b, pb, id*b.N, m)
			})
		})
	}
}

const queueSize = 1 << 10

func prefill(_ *testing.B, m Interface) {
	for i := 0; i < queueSize; i++ {
		m.Push(i)
	}
}

func BenchmarkPush(b *testing.B) {
	benchMap(b, bench{
		setup: prefill,
		perG: func(b *testing.B, pb *testing.PB, i int, m Interface) {
			for ; pb.Next(); i++ {
				m.Push(i)
			}
		},
	})
}

func BenchmarkPop(b *testing.B) {
	benchMap(b, bench{
		setup: prefill,
		perG: func(b *testing.B, pb *testing.PB, i int, m Interface) {
			for ; pb.Next(); i++ {
				m.Pop()
			}
		},
	})
}

func BenchmarkMostlyPush(b *testing.B) {
	benchMap(b, bench{
		setup: prefill,
		perG: func(b *testing.B, pb *testing.PB, i int, m Interface) {
			for ; pb.Next(); i++ {
				m.Push(i)
				if i%4 == 0 {
					m.Pop()
				}
			}
		},
	})
}

func BenchmarkPushPopBalance(b *testing.B) {
	benchMap(b, bench{
		setup: prefill,
		perG: func(b *testing.B, pb *testing.PB, i int, m Interface) {
			for ; pb.Next(); i++ {
				m.Push(i)
				m.Pop()
			}
		},
	})
}

// BenchmarkPipeline runs one dedicated consumer against parallel producers.
func BenchmarkPipeline(b *testing.B) {
	for _, impl := range impls {
		b.Run(impl.name, func(b *testing.B) {
			m := impl.new()
			var done atomic.Bool
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for !done.Load() || m.Size() > 0 {
					m.Pop()
				}
			}()

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for i := 0; pb.Next(); i++ {
					m.Push(i)
				}
			})
			done.Store(true)
			wg.Wait()
		})
	}
}
