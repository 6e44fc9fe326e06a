package commands

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set by the linker.
var Version = "v0.1.0"

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "lfstress",
	Short: "Stress and measure the lock-free stack and queue",
	Long: `lfstress drives the lock-free stack and queue with concurrent pushers and
poppers, verifies that every pushed value comes out exactly once and reports
throughput, reclamation activity and per-operation latency.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./lfstress.yaml)")
	flags.Int("pushers", 4, "pushing goroutines")
	flags.Int("poppers", 4, "popping goroutines")
	flags.Int("ops", 1<<16, "values pushed by each pusher")
	flags.Int("work", 0, "busy iterations between two operations")
	flags.String("impl", implLockFree, "implementation to drive (lockfree, mutex)")
	flags.Bool("debug", false, "use the checked allocator: never reuse nodes, panic on misuse")
	flags.Int("slots", 0, "hazard slots (0 for the structure default)")
	flags.Int("garbage-limit", 0, "queue garbage length that triggers a drain (0 for default)")
	flags.Duration("timeout", 0, "stop pushing after this long (0 for no limit)")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address, e.g. :9100")

	RootCmd.AddCommand(stackCmd)
	RootCmd.AddCommand(queueCmd)
	RootCmd.AddCommand(latencyCmd)
	RootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	viper.SetDefault("pushers", 4)
	viper.SetDefault("poppers", 4)
	viper.SetDefault("ops", 1<<16)
	viper.SetDefault("impl", implLockFree)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lfstress")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("LFSTRESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.Fatalf("bind flags: %v", err)
	}
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		log.Fatalf("read config: %v", err)
	}
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "lfstress", Version)
	},
}
