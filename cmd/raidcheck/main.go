package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"raidcheck/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "raidcheck",
	Short: "MegaRAID controller health checker",
	Long: `raidcheck inspects every MegaRAID controller on the host through the
storcli tool, validates controller, virtual drive, physical drive and
cache backup unit states against configurable allow-lists, and reports
controller events newer than the last run.

Exit codes: 0 all checks passed, 1 at least one finding, 2 run error.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(debug)
	},
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level})))
}

// loadConfig loads the configuration and re-applies the log level in
// case the file enables debug
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		setupLogging(true)
	}
	return cfg, nil
}

func init() {
	// accept underscore spellings of flag names, matching the config keys
	rootCmd.PersistentFlags().SetNormalizeFunc(
		func(f *pflag.FlagSet, name string) pflag.NormalizedName {
			return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
		})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is /etc/raidcheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
