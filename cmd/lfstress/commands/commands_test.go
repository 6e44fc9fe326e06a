package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/min1324/lockfree/internal/stress"
	"github.com/min1324/lockfree/metrics"
)

func TestNewTarget(t *testing.T) {
	defer viper.Reset()
	for _, kind := range []string{kindStack, kindQueue} {
		for _, impl := range []string{implLockFree, implMutex} {
			viper.Set("impl", impl)
			tg, err := newTarget(kind, metrics.Nop{})
			if err != nil {
				t.Fatalf("%s/%s: %v", kind, impl, err)
			}
			tg.c.Push(7)
			if tg.size() != 1 {
				t.Fatalf("%s size want:1, real:%d", tg.name, tg.size())
			}
			if v, ok := tg.c.Pop(); !ok || v != 7 {
				t.Fatalf("%s Pop want:7, real:%v,%v", tg.name, v, ok)
			}
			if tg.fifo != (kind == kindQueue) {
				t.Fatalf("%s fifo:%v", tg.name, tg.fifo)
			}
		}
	}

	viper.Set("impl", "spin")
	if _, err := newTarget(kindStack, metrics.Nop{}); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("unknown impl err:%v", err)
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, "queue/lockfree", stress.Report{Pushed: 10, Popped: 8, Drained: 2}, 0, 0, nil)
	if !strings.Contains(buf.String(), "exactly once") {
		t.Fatalf("report:\n%s", buf.String())
	}

	buf.Reset()
	printReport(&buf, "queue/lockfree", stress.Report{}, 0, 0, stress.ErrLost)
	if !strings.Contains(buf.String(), "FAIL") {
		t.Fatalf("failed report:\n%s", buf.String())
	}
}

func TestRootStress(t *testing.T) {
	defer viper.Reset()
	for _, args := range [][]string{
		{"stack", "--ops", "512", "--pushers", "2", "--poppers", "2"},
		{"queue", "--ops", "512", "--pushers", "2", "--poppers", "2", "--debug", "--garbage-limit", "8"},
		{"queue", "--impl", "mutex", "--ops", "512"},
		{"latency", "--kind", "stack", "--samples", "100", "--pushers", "2"},
		{"version"},
	} {
		var out bytes.Buffer
		RootCmd.SetOut(&out)
		RootCmd.SetArgs(args)
		if err := RootCmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if out.Len() == 0 {
			t.Fatalf("%v printed nothing", args)
		}
	}
}
