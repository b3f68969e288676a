package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"raidcheck/internal/check"
	"raidcheck/pkg/types"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	ControllerStatus *prometheus.GaugeVec
	VDStatus         *prometheus.GaugeVec
	PDStatus         *prometheus.GaugeVec
	BackupUnitStatus *prometheus.GaugeVec
	NewEvents        *prometheus.GaugeVec
	CheckPass        prometheus.Gauge
	Findings         prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
	Up               prometheus.Gauge
}

// New creates all metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ControllerStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "raidcheck_controller_status",
				Help: "Controller status (0=unknown, 1=ok, 2=warning, 3=critical)",
			},
			[]string{"controller", "model", "serial", "state"},
		),
		VDStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "raidcheck_virtual_drive_status",
				Help: "Virtual drive status (0=unknown, 1=ok, 2=warning, 3=critical)",
			},
			[]string{"controller", "vd", "raid_level", "state"},
		),
		PDStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "raidcheck_physical_drive_status",
				Help: "Physical drive status (0=unknown, 1=ok, 2=warning, 3=critical)",
			},
			[]string{"controller", "pd", "model", "state"},
		),
		BackupUnitStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "raidcheck_backup_unit_status",
				Help: "Cache backup unit status (0=unknown, 1=ok, 2=warning, 3=critical)",
			},
			[]string{"controller", "kind", "model", "state"},
		),
		NewEvents: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "raidcheck_new_events",
				Help: "Event log entries newer than the watermark, per controller",
			},
			[]string{"controller"},
		),
		CheckPass: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "raidcheck_pass",
				Help: "Whether the last check passed (1) or failed (0)",
			},
		),
		Findings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "raidcheck_findings",
				Help: "Number of findings in the last check",
			},
		),
		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "raidcheck_last_run_timestamp_seconds",
				Help: "Unix timestamp of the last completed check",
			},
		),
		Up: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "raidcheck_up",
				Help: "Whether raidcheck is up and running",
			},
		),
	}

	reg.MustRegister(
		m.ControllerStatus,
		m.VDStatus,
		m.PDStatus,
		m.BackupUnitStatus,
		m.NewEvents,
		m.CheckPass,
		m.Findings,
		m.LastRunTimestamp,
		m.Up,
	)

	return m
}

// Reset clears the per-entity metrics so drives removed between runs
// do not linger
func (m *Metrics) Reset() {
	m.ControllerStatus.Reset()
	m.VDStatus.Reset()
	m.PDStatus.Reset()
	m.BackupUnitStatus.Reset()
	m.NewEvents.Reset()
}

// Update resets the per-entity metrics and re-sets them from one host
// result
func (m *Metrics) Update(result *check.HostResult) {
	m.Reset()

	for _, ctrl := range result.Controllers {
		idx := formatIndex(ctrl.Index)
		m.NewEvents.WithLabelValues(idx).Set(float64(len(ctrl.NewEvents)))

		if ctrl.Snapshot == nil || ctrl.Skipped || ctrl.Ignored {
			continue
		}
		info := ctrl.Snapshot.Controller
		m.ControllerStatus.WithLabelValues(idx, info.Model, info.Serial, info.Status).
			Set(float64(types.StatusFromState(info.Status)))

		for _, vd := range ctrl.Snapshot.VirtualDrives {
			m.VDStatus.WithLabelValues(idx, vd.ID(), vd.Level, vd.State).
				Set(float64(types.StatusFromState(vd.State)))
		}
		for _, pd := range ctrl.Snapshot.PhysicalDrives {
			m.PDStatus.WithLabelValues(idx, pd.ID(), pd.Model, pd.State).
				Set(float64(types.StatusFromState(pd.State)))
		}
		if bu := ctrl.Snapshot.BackupUnit; bu != nil {
			m.BackupUnitStatus.WithLabelValues(idx, string(bu.Kind), bu.Model, bu.State).
				Set(float64(types.StatusFromState(bu.State)))
		}
	}

	if result.Pass {
		m.CheckPass.Set(1)
	} else {
		m.CheckPass.Set(0)
	}
	m.Findings.Set(float64(len(result.Findings())))
	m.LastRunTimestamp.Set(float64(result.Finished.Unix()))
}

func formatIndex(idx int) string {
	return strconv.Itoa(idx)
}
