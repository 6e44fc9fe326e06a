package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/min1324/lockfree/internal/stress"
	"github.com/min1324/lockfree/metrics"
)

// stackCmd represents the stack command
var stackCmd = &cobra.Command{
	Use:   "stack",
	Short: "Stress the stack and verify no value is lost or duplicated",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStress(cmd, kindStack)
	},
}

// queueCmd represents the queue command
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Stress the queue and verify no value is lost, duplicated or reordered",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStress(cmd, kindQueue)
	},
}

func runStress(cmd *cobra.Command, kind string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d := viper.GetDuration("timeout"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	structure := kind + "/" + viper.GetString("impl")
	var (
		obs metrics.Observer = metrics.Nop{}
		m   *metrics.Metrics
	)
	if addr := viper.GetString("metrics-addr"); addr != "" {
		var shutdown func()
		var err error
		obs, m, shutdown, err = instrument(addr, structure)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	t, err := newTarget(kind, obs)
	if err != nil {
		return err
	}
	if m != nil {
		if err := m.Track(t.name, t.size, t.pending); err != nil {
			return err
		}
	}

	cfg := stress.Config{
		Pushers:    viper.GetInt("pushers"),
		Poppers:    viper.GetInt("poppers"),
		PerPusher:  viper.GetInt("ops"),
		Work:       viper.GetInt("work"),
		CheckOrder: t.fifo,
	}
	log.Printf("stressing %s: %d pushers x %d values, %d poppers", t.name, cfg.Pushers, cfg.PerPusher, cfg.Poppers)

	rep, err := stress.Run(ctx, t.c, cfg)
	pending := t.pending()
	freed := t.collect()
	printReport(cmd.OutOrStdout(), t.name, rep, pending, freed, err)
	return err
}

func printReport(w io.Writer, name string, rep stress.Report, pending, freed int, err error) {
	title := color.New(color.Bold, color.FgCyan).SprintFunc()
	fmt.Fprintln(w, title(name))
	fmt.Fprintf(w, "  pushed   %d\n", rep.Pushed)
	fmt.Fprintf(w, "  popped   %d (+%d drained, %d empty pops)\n", rep.Popped, rep.Drained, rep.Empty)
	fmt.Fprintf(w, "  elapsed  %v\n", rep.Elapsed)
	if secs := rep.Elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(w, "  rate     %.0f ops/s\n", float64(rep.Ops())/secs)
	}
	fmt.Fprintf(w, "  garbage  %d pending, %d freed by final collect\n", pending, freed)
	if err != nil {
		fmt.Fprintln(w, color.RedString("  FAIL %v", err))
		return
	}
	fmt.Fprintln(w, color.GreenString("  OK every value popped exactly once"))
}
