package commands

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/loov/hrtime"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/min1324/lockfree/metrics"
)

var (
	latencyKind    string
	latencySamples int
	latencyBins    int
)

// latencyCmd represents the latency command
var latencyCmd = &cobra.Command{
	Use:   "latency",
	Short: "Measure push+pop latency per goroutine and print a histogram",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := newTarget(latencyKind, metrics.Nop{})
		if err != nil {
			return err
		}
		procs := viper.GetInt("pushers")
		if procs < 1 {
			procs = 1
		}
		log.Printf("measuring %s: %d goroutines x %d samples", t.name, procs, latencySamples)

		hrs := make([]*hrtime.BenchmarkTSC, procs)
		for i := range hrs {
			hrs[i] = hrtime.NewBenchmarkTSC(latencySamples)
		}

		var wg sync.WaitGroup
		wg.Add(procs)
		for i := 0; i < procs; i++ {
			go func(b *hrtime.BenchmarkTSC, p uint64) {
				defer wg.Done()
				v := p << 32
				for b.Next() {
					t.c.Push(v)
					t.c.Pop()
					v++
				}
			}(hrs[i], uint64(i))
		}
		wg.Wait()

		var laps []time.Duration
		for _, hr := range hrs {
			laps = append(laps, hr.Laps()...)
		}
		hist := hrtime.NewDurationHistogram(laps, &hrtime.HistogramOptions{
			BinCount:        latencyBins,
			NiceRange:       true,
			ClampPercentile: 0.999,
		})

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, color.New(color.Bold, color.FgCyan).Sprint(t.name, " push+pop"))
		fmt.Fprint(w, hist.String())
		return nil
	},
}

func init() {
	latencyCmd.Flags().StringVar(&latencyKind, "kind", kindQueue, "structure to measure (stack, queue)")
	latencyCmd.Flags().IntVar(&latencySamples, "samples", 10000, "samples per goroutine")
	latencyCmd.Flags().IntVar(&latencyBins, "bins", 10, "histogram bins")
}
