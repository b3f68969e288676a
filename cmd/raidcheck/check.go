package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"raidcheck/internal/check"
	"raidcheck/internal/config"
	"raidcheck/internal/history"
	"raidcheck/internal/report"
	"raidcheck/internal/runner"
	"raidcheck/internal/watermark"
)

var ignoreFlag []int

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the health check once and deliver the report",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(2)
		}
		if len(ignoreFlag) > 0 {
			cfg.IgnoreControllers = ignoreFlag
		}

		rn := runner.NewExecRunner(cfg.StorcliPath, "")
		if !rn.Available() {
			slog.Error("no storcli binary found, install storcli64 or set storcli_path")
			os.Exit(2)
		}

		pass, err := executeCheck(cfg, rn, rn.Version(),
			watermark.NewFileStore(cfg.WatermarkPath), buildSinks(cfg))
		if err != nil {
			slog.Error("check run failed", "error", err)
			os.Exit(2)
		}
		if !pass {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().IntSliceVar(&ignoreFlag, "ignore", nil,
		"controller indices to exclude from checking")
}

// executeCheck runs one full check cycle: load the watermark, check
// every controller, deliver the report, persist history. The watermark
// is saved to the run start time exactly once, after all controller
// work, whether the check passed or not.
func executeCheck(cfg *config.Config, rn runner.Runner, storcliVersion string,
	wm watermark.Store, sinks []report.Sink) (bool, error) {

	since, err := wm.Load()
	if err != nil {
		slog.Warn("failed to load watermark, treating as first run", "error", err)
	}
	runStart := time.Now()
	defer func() {
		if err := wm.Save(runStart); err != nil {
			slog.Error("failed to save watermark", "error", err)
		}
	}()

	checker := check.New(rn, cfg.AllowLists, cfg.SupportedDrivers)
	result := checker.CheckHost(since, cfg.IgnoreControllers)

	rep := report.New(context.Background(), &result, version, storcliVersion)
	if !report.DeliverAll(sinks, rep) {
		slog.Warn("one or more report sinks failed")
	}

	recordHistory(cfg.HistoryPath, rep.RunID, &result)

	return result.Pass, nil
}

// recordHistory persists the run. History problems are never run
// failures.
func recordHistory(path, runID string, result *check.HostResult) {
	store, err := history.Open(path)
	if err != nil {
		slog.Warn("failed to open history database", "path", path, "error", err)
		return
	}
	defer store.Close()
	if err := store.RecordRun(runID, result); err != nil {
		slog.Warn("failed to record run history", "error", err)
	}
}

func buildSinks(cfg *config.Config) []report.Sink {
	var sinks []report.Sink
	for _, name := range cfg.Report.Sinks {
		switch name {
		case "stdout":
			sinks = append(sinks, report.StdoutSink{})
		case "file":
			sinks = append(sinks, report.FileSink{
				Path:       cfg.Report.Path,
				BundlePath: cfg.Report.BundlePath,
			})
		case "email":
			sinks = append(sinks, report.EmailSink{
				Server:    cfg.Report.Email.Server,
				From:      cfg.Report.Email.From,
				To:        cfg.Report.Email.To,
				Username:  cfg.Report.Email.Username,
				Password:  cfg.Report.Email.Password,
				OnSuccess: cfg.Report.Email.EmailOnSuccess,
			})
		}
	}
	return sinks
}
