package check

import (
	"time"

	"raidcheck/pkg/types"
)

// HealthResponse converts a host result into the JSON payload served
// in exporter mode
func (h *HostResult) HealthResponse(service, version, hostname string) *types.HealthResponse {
	resp := &types.HealthResponse{
		Status:    "ok",
		Service:   service,
		Version:   version,
		Timestamp: h.Finished.Format(time.RFC3339),
		Hostname:  hostname,
		Pass:      h.Pass,
	}
	if !h.Pass {
		resp.Status = "fail"
	}

	resp.Summary.Controllers = len(h.Controllers)
	resp.Summary.Findings = len(h.Findings())
	resp.Summary.NewEvents = h.NewEventCount()

	for _, ctrl := range h.Controllers {
		ch := types.ControllerHealth{
			Index:     ctrl.Index,
			Skipped:   ctrl.Skipped || ctrl.Ignored,
			Pass:      ctrl.Pass,
			Findings:  ctrl.Findings,
			NewEvents: len(ctrl.NewEvents),
		}
		if ctrl.Snapshot != nil {
			ch.Model = ctrl.Snapshot.Controller.Model
			ch.Serial = ctrl.Snapshot.Controller.Serial
			ch.Driver = ctrl.Snapshot.Controller.DriverName
			ch.Status = ctrl.Snapshot.Controller.Status

			resp.Summary.VirtualDrives += len(ctrl.Snapshot.VirtualDrives)
			resp.Summary.PhysicalDrives += len(ctrl.Snapshot.PhysicalDrives)
		}
		if ch.Skipped {
			resp.Summary.Skipped++
		}
		resp.Controllers = append(resp.Controllers, ch)
	}

	return resp
}
