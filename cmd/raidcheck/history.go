package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"raidcheck/internal/history"
)

var (
	historyLimit    int
	historyJSON     bool
	historyFindings bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent check runs from the history database",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(2)
		}

		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			slog.Error("failed to open history database", "error", err)
			os.Exit(2)
		}
		defer store.Close()

		if historyFindings {
			printFindings(store)
		} else {
			printRuns(store)
		}
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().BoolVar(&historyFindings, "findings", false,
		"list individual findings instead of runs")
}

func printRuns(store *history.Store) {
	runs, err := store.RecentRuns(historyLimit)
	if err != nil {
		slog.Error("failed to query runs", "error", err)
		os.Exit(2)
	}
	if historyJSON {
		json.NewEncoder(os.Stdout).Encode(runs)
		return
	}
	for _, run := range runs {
		verdict := "PASS"
		if !run.Pass {
			noun := "findings"
			if run.Findings == 1 {
				noun = "finding"
			}
			verdict = fmt.Sprintf("FAIL (%d %s)", run.Findings, noun)
		}
		fmt.Printf("%s  %-14s  %d controllers  %s\n",
			run.Started.Format("2006-01-02 15:04:05"), humanize.Time(run.Started),
			run.Controllers, verdict)
	}
}

func printFindings(store *history.Store) {
	findings, err := store.RecentFindings(historyLimit)
	if err != nil {
		slog.Error("failed to query findings", "error", err)
		os.Exit(2)
	}
	if historyJSON {
		json.NewEncoder(os.Stdout).Encode(findings)
		return
	}
	for _, f := range findings {
		where := fmt.Sprintf("c%d", f.Controller)
		if f.Controller < 0 {
			where = "host"
		}
		fmt.Printf("%s  %-4s [%s] %s\n",
			f.Started.Format("2006-01-02 15:04:05"), where, f.Category, f.Message)
	}
}
