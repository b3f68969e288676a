package check

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"raidcheck/internal/health"
	"raidcheck/internal/runner"
	"raidcheck/internal/storcli"
	"raidcheck/internal/watermark"
	"raidcheck/pkg/types"
)

// DefaultSupportedDrivers lists the kernel drivers whose controllers
// are RAID-capable and get health-evaluated. Controllers on other
// drivers (HBA passthrough such as mpt3sas) are skipped but still
// counted so controller indices stay aligned.
var DefaultSupportedDrivers = []string{"megaraid_sas"}

// ControllerResult is one controller's verdict plus the raw material
// needed to render and persist it
type ControllerResult struct {
	Index      int
	Snapshot   *storcli.Snapshot // nil when parsing failed
	Skipped    bool              // driver outside the supported set
	Ignored    bool              // excluded by configuration
	Pass       bool
	Findings   []types.Finding
	NewEvents  []storcli.EventRecord
	RawShowAll []byte
	RawEvents  []byte
}

// Checker drives the per-controller check pipeline
type Checker struct {
	runner           runner.Runner
	lists            health.AllowLists
	supportedDrivers []string
}

// New creates a checker. An empty driver list falls back to the
// default supported set.
func New(r runner.Runner, lists health.AllowLists, drivers []string) *Checker {
	if len(drivers) == 0 {
		drivers = DefaultSupportedDrivers
	}
	return &Checker{runner: r, lists: lists, supportedDrivers: drivers}
}

// CheckController runs the staged pipeline for one controller: fetch
// and parse the dump, check driver support, evaluate entity health,
// merge in new event-log entries. A stage failure aborts the later
// stages for this controller; evaluation itself never short-circuits.
func (c *Checker) CheckController(index int, since time.Time) ControllerResult {
	res := ControllerResult{Index: index, Pass: true}

	out, err := c.runner.Run(fmt.Sprintf("/c%d", index), "show", "all")
	res.RawShowAll = out
	if err != nil {
		slog.Error("failed to fetch controller dump", "controller", index, "error", err)
		return failResult(res, types.CategoryParse,
			fmt.Sprintf("controller %d: failed to fetch dump: %v", index, err))
	}

	snap, err := storcli.ParseSnapshot(index, out)
	if err != nil {
		slog.Error("failed to parse controller dump", "controller", index, "error", err)
		return failResult(res, types.CategoryParse, err.Error())
	}
	res.Snapshot = snap

	if !c.driverSupported(snap.Controller.DriverName) {
		slog.Info("skipping controller with unsupported driver",
			"controller", index, "driver", snap.Controller.DriverName)
		res.Skipped = true
		return res
	}

	res.Findings = health.Evaluate(snap, c.lists)

	evOut, err := c.runner.Run(fmt.Sprintf("/c%d", index),
		"show", "events", "filter=warning,critical,fatal")
	res.RawEvents = evOut
	if err != nil {
		slog.Error("failed to fetch controller event log", "controller", index, "error", err)
		res.Findings = append(res.Findings, types.NewFinding(types.CategoryParse,
			fmt.Sprintf("controller %d: failed to fetch event log: %v", index, err)))
	} else {
		res.NewEvents = storcli.FilterSince(storcli.SplitEvents(evOut), since)
		for _, ev := range res.NewEvents {
			res.Findings = append(res.Findings, types.NewFinding(types.CategoryEvent,
				fmt.Sprintf("%s: %s", ev.Time.Format(watermark.Layout), ev.Description)))
		}
	}

	res.Pass = len(res.Findings) == 0
	return res
}

func (c *Checker) driverSupported(driver string) bool {
	for _, d := range c.supportedDrivers {
		if strings.EqualFold(d, driver) {
			return true
		}
	}
	return false
}

func failResult(res ControllerResult, category, message string) ControllerResult {
	res.Pass = false
	res.Findings = append(res.Findings, types.NewFinding(category, message))
	return res
}
