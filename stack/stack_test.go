package stack_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/min1324/lockfree/stack"
)

func TestInit(t *testing.T) {
	var s stack.Stack[int]
	t.Run("init", func(t *testing.T) {
		if s.Size() != 0 {
			t.Fatalf("init size != 0 :%d", s.Size())
		}
		if !s.Empty() {
			t.Fatalf("init Empty() = false")
		}
		if v, ok := s.Pop(); ok {
			t.Fatalf("init Pop ok :%v", v)
		}
		p := 1
		s.Push(p)
		v, ok := s.Pop()
		if !ok || v != p {
			t.Fatalf("init push want:%d, real:%v", p, v)
		}
		s.Push(1)
		s.Push(2)
		s.Init()
		if s.Size() != 0 {
			t.Fatalf("init after Init err,size!=0,%d", s.Size())
		}
		if v, ok := s.Pop(); ok {
			t.Fatalf("init after Init err,Pop ok,%v", v)
		}
	})
}

func TestLIFO(t *testing.T) {
	s := stack.New[int]()
	for _, v := range []int{1, 2, 3} {
		s.Push(v)
	}
	for _, want := range []int{3, 2} {
		v, ok := s.Pop()
		if !ok || v != want {
			t.Fatalf("Pop want:%d, real:%v,%v", want, v, ok)
		}
	}
	if v, ok := s.Pop(); !ok || v != 1 {
		t.Fatalf("Pop want:1, real:%v,%v", v, ok)
	}
	if v, ok := s.Pop(); ok {
		t.Fatalf("Pop on drained stack returned %v", v)
	}
}

func TestPopEmptyRepeated(t *testing.T) {
	s := stack.New[string]()
	for i := 0; i < 100; i++ {
		if v, ok := s.Pop(); ok {
			t.Fatalf("Pop %d on empty stack returned %q", i, v)
		}
	}
	if s.Size() != 0 || !s.Empty() || s.Pending() != 0 {
		t.Fatalf("empty pops changed state: size:%d empty:%v pending:%d", s.Size(), s.Empty(), s.Pending())
	}
}

func TestPointerValues(t *testing.T) {
	s := stack.New[*int]()
	s.Push(nil)
	p := new(int)
	s.Push(p)
	if v, ok := s.Pop(); !ok || v != p {
		t.Fatalf("pointer want:%p, real:%p", p, v)
	}
	if v, ok := s.Pop(); !ok || v != nil {
		t.Fatalf("push nil want:nil,true real:%v,%v", v, ok)
	}
}

func TestMove(t *testing.T) {
	src := stack.New[int](stack.Options{HazardSlots: 4})
	for i := 0; i < 10; i++ {
		src.Push(i)
	}
	dst := src.Move()

	if !src.Empty() || src.Size() != 0 {
		t.Fatalf("moved-from stack not empty, size:%d", src.Size())
	}
	if v, ok := src.Pop(); ok {
		t.Fatalf("moved-from Pop returned %d", v)
	}
	if dst.Size() != 10 {
		t.Fatalf("moved-to size want:10, real:%d", dst.Size())
	}
	if dst.HazardSlots != 4 {
		t.Fatalf("moved-to options lost, slots:%d", dst.HazardSlots)
	}

	// the source is reusable and independent.
	src.Push(100)
	for i := 9; i >= 0; i-- {
		v, ok := dst.Pop()
		if !ok || v != i {
			t.Fatalf("moved-to Pop want:%d, real:%v,%v", i, v, ok)
		}
	}
	if v, ok := src.Pop(); !ok || v != 100 {
		t.Fatalf("reused source want:100, real:%v,%v", v, ok)
	}
}

func TestConcurrentPush(t *testing.T) {
	var s stack.Stack[int]
	var wg sync.WaitGroup

	n := 100
	m := 100

	for i := 0; i < m; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n; i++ {
				s.Push(i)
			}
		}()
	}
	wg.Wait()
	if s.Size() != m*n {
		t.Fatalf("TestConcurrentPush err,push:%d,real:%d", n*m, s.Size())
	}
}

func TestConcurrentPop(t *testing.T) {
	s := stack.New[int](stack.Options{HazardSlots: 8})
	var wg sync.WaitGroup

	n := 100
	m := 100
	var sum int64
	for i := 0; i < m*n; i++ {
		s.Push(i)
	}

	for i := 0; i < m; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, ok := s.Pop(); !ok {
					return
				}
				atomic.AddInt64(&sum, 1)
			}
		}()
	}
	wg.Wait()

	if sum != int64(m*n) {
		t.Fatalf("TestConcurrentPop err,push:%d,pop:%d", n*m, sum)
	}
	if s.Pending() != 0 {
		s.Collect()
	}
	if s.Pending() != 0 {
		t.Fatalf("garbage left after quiescence:%d", s.Pending())
	}
}

func TestConcurrentPushPop(t *testing.T) {
	// push routine push total sumPush item into it.
	// pop routine pop until recive push's finish signal
	// finally check if s.Size()+sumPop == sumPush
	var s stack.Stack[int]
	var popWG sync.WaitGroup
	var pushWG sync.WaitGroup

	n := 1000
	m := 100
	exit := make(chan struct{}, m)

	var sumPush, sumPop int64
	for i := 0; i < m; i++ {
		pushWG.Add(1)
		go func() {
			defer pushWG.Done()
			for j := 0; j < n; j++ {
				s.Push(j)
				atomic.AddInt64(&sumPush, 1)
			}
		}()
		popWG.Add(1)
		go func() {
			defer popWG.Done()
			for {
				select {
				case <-exit:
					return
				default:
					if _, ok := s.Pop(); ok {
						atomic.AddInt64(&sumPop, 1)
					}
				}
			}
		}()
	}
	pushWG.Wait()
	close(exit)
	popWG.Wait()

	if sumPop+int64(s.Size()) != sumPush {
		t.Fatalf("TestConcurrentPushPop err,Push:%d,pop:%d,instack:%d", sumPush, sumPop, s.Size())
	}
}

func TestFewerSlotsThanPoppers(t *testing.T) {
	s := stack.New[int](stack.Options{HazardSlots: 1})
	var wg sync.WaitGroup
	var sum int64
	const total = 1 << 12
	for i := 0; i < total; i++ {
		s.Push(i)
	}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, ok := s.Pop(); !ok {
					return
				}
				atomic.AddInt64(&sum, 1)
			}
		}()
	}
	wg.Wait()
	if sum != total {
		t.Fatalf("single slot pop want:%d, real:%d", total, sum)
	}
}
