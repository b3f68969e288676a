package check

import (
	"fmt"
	"log/slog"
	"time"

	"raidcheck/internal/storcli"
	"raidcheck/pkg/types"
)

// HostResult reduces all controller verdicts into one host-wide
// verdict. Pass is the logical AND across controllers; findings
// concatenate in controller-index order, derived, never mutated
// independently.
type HostResult struct {
	Started          time.Time
	Finished         time.Time
	Pass             bool
	TopologyFindings []types.Finding
	Controllers      []ControllerResult
}

// Findings returns topology-level findings followed by each
// controller's findings in index order
func (h *HostResult) Findings() []types.Finding {
	findings := append([]types.Finding{}, h.TopologyFindings...)
	for _, ctrl := range h.Controllers {
		findings = append(findings, ctrl.Findings...)
	}
	return findings
}

// NewEventCount totals the retained event records across controllers
func (h *HostResult) NewEventCount() int {
	n := 0
	for _, ctrl := range h.Controllers {
		n += len(ctrl.NewEvents)
	}
	return n
}

// CheckHost enumerates all controllers, runs the per-controller
// pipeline for every index not in the ignore list, and reduces the
// verdicts. A host with no checkable controllers fails.
func (c *Checker) CheckHost(since time.Time, ignore []int) HostResult {
	res := HostResult{Started: time.Now(), Pass: true}

	out, err := c.runner.Run("show", "ctrlcount")
	if err != nil {
		return failHost(res, fmt.Sprintf("failed to enumerate controllers: %v", err))
	}
	count, err := storcli.ParseControllerCount(out)
	if err != nil {
		return failHost(res, fmt.Sprintf("failed to enumerate controllers: %v", err))
	}

	ignored := make(map[int]bool, len(ignore))
	for _, idx := range ignore {
		ignored[idx] = true
	}

	checked := 0
	for idx := 0; idx < count; idx++ {
		if ignored[idx] {
			slog.Info("ignoring controller by configuration", "controller", idx)
			res.Controllers = append(res.Controllers,
				ControllerResult{Index: idx, Ignored: true, Pass: true})
			continue
		}

		ctrl := c.CheckController(idx, since)
		res.Controllers = append(res.Controllers, ctrl)
		if !ctrl.Pass {
			res.Pass = false
		}
		checked++
	}

	if checked == 0 {
		return failHost(res, "no controllers found on this host")
	}

	res.Finished = time.Now()
	return res
}

func failHost(res HostResult, message string) HostResult {
	res.Pass = false
	res.TopologyFindings = append(res.TopologyFindings,
		types.NewFinding(types.CategoryTopology, message))
	res.Finished = time.Now()
	return res
}
