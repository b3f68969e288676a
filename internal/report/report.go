package report

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/host"

	"raidcheck/internal/check"
	"raidcheck/internal/storcli"
	"raidcheck/internal/watermark"
)

// HostInfo is the report header block describing the machine the
// check ran on
type HostInfo struct {
	Hostname string
	OS       string
	Kernel   string
	BootTime time.Time
}

// CollectHostInfo gathers the header block. Failures degrade to an
// empty block, they never fail the run.
func CollectHostInfo(ctx context.Context) HostInfo {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}
	}
	return HostInfo{
		Hostname: info.Hostname,
		OS:       fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion),
		Kernel:   info.KernelVersion,
		BootTime: time.Unix(int64(info.BootTime), 0),
	}
}

// Report bundles one host check result with the identity needed to
// render and persist it
type Report struct {
	RunID          string
	Host           HostInfo
	Version        string
	StorcliVersion string
	Result         *check.HostResult
}

// New stamps a host result with a fresh run id and the host header
func New(ctx context.Context, result *check.HostResult, version, storcliVersion string) *Report {
	return &Report{
		RunID:          uuid.NewString(),
		Host:           CollectHostInfo(ctx),
		Version:        version,
		StorcliVersion: storcliVersion,
		Result:         result,
	}
}

// Verdict returns the leading verdict line, "PASS" or
// "FAIL (n findings)"
func (r *Report) Verdict() string {
	if r.Result.Pass {
		return "PASS"
	}
	return "FAIL " + countFindings(len(r.Result.Findings()))
}

func countFindings(n int) string {
	if n == 1 {
		return "(1 finding)"
	}
	return fmt.Sprintf("(%d findings)", n)
}

// Subject returns the one-line summary used for email subjects
func (r *Report) Subject() string {
	verdict := "PASS"
	if !r.Result.Pass {
		verdict = "FAIL"
	}
	return fmt.Sprintf("[raidcheck] %s: %s", r.Host.Hostname, verdict)
}

// RenderText writes the plain text report
func (r *Report) RenderText(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", r.Verdict())
	fmt.Fprintf(&b, "Host:     %s (%s, kernel %s, up %s)\n",
		r.Host.Hostname, r.Host.OS, r.Host.Kernel, humanize.Time(r.Host.BootTime))
	fmt.Fprintf(&b, "Run:      %s at %s\n",
		r.RunID, r.Result.Started.Format(watermark.Layout))
	fmt.Fprintf(&b, "Tool:     raidcheck %s, storcli %s\n", r.Version, r.StorcliVersion)

	for _, f := range r.Result.TopologyFindings {
		fmt.Fprintf(&b, "\n[%s] %s\n", f.Category, f.Message)
	}

	for _, ctrl := range r.Result.Controllers {
		fmt.Fprintf(&b, "\nController %d", ctrl.Index)
		switch {
		case ctrl.Ignored:
			b.WriteString(" (ignored by configuration)\n")
			continue
		case ctrl.Snapshot == nil:
			b.WriteString(" (dump not parseable)\n")
		default:
			info := ctrl.Snapshot.Controller
			fmt.Fprintf(&b, ": %s SN %s PCI %s\n", info.Model, info.Serial, info.PCIAddress)
			fmt.Fprintf(&b, "  firmware %s, driver %s %s, status %s\n",
				info.FirmwareBuild, info.DriverName, info.DriverVersion, info.Status)
		}
		if ctrl.Skipped {
			b.WriteString("  skipped: driver not in the supported set\n")
			continue
		}

		if ctrl.Snapshot != nil {
			for _, vd := range ctrl.Snapshot.VirtualDrives {
				fmt.Fprintf(&b, "  VD %-5s %-6s %-5s %9s  %s\n",
					vd.ID(), vd.Level, vd.State, humanize.IBytes(uint64(vd.SizeBytes)), vd.Name)
			}
			for _, pd := range ctrl.Snapshot.PhysicalDrives {
				fmt.Fprintf(&b, "  PD %-8s %-6s %9s %s %s  %s\n",
					pd.ID(), pd.State, humanize.IBytes(uint64(pd.SizeBytes)),
					pd.Interface, pd.Medium, pd.Model)
			}
			b.WriteString("  backup unit: " + backupLine(ctrl.Snapshot.BackupUnit) + "\n")
		}

		if len(ctrl.NewEvents) > 0 {
			fmt.Fprintf(&b, "  new events (%d):\n", len(ctrl.NewEvents))
			for _, ev := range ctrl.NewEvents {
				fmt.Fprintf(&b, "    %s  %s\n",
					ev.Time.Format(watermark.Layout), ev.Description)
			}
		}
		if len(ctrl.Findings) > 0 {
			b.WriteString("  findings:\n")
			for _, f := range ctrl.Findings {
				fmt.Fprintf(&b, "    [%s] %s\n", f.Category, f.Message)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func backupLine(bu *storcli.BackupUnit) string {
	if bu == nil {
		return "not present"
	}
	line := fmt.Sprintf("%s %s, state %s, temp %s", bu.Kind, bu.Model, bu.State, bu.Temp)
	if bu.RetentionTime != "" {
		line += ", retention " + bu.RetentionTime
	}
	return line
}

var htmlReport = template.Must(template.New("report").Parse(`<html><body>
<h2>{{.Verdict}}</h2>
<p>{{.Hostname}}: raidcheck {{.Version}} at {{.Started}}</p>
{{range .Controllers}}<h3>Controller {{.Index}}{{if .Note}} ({{.Note}}){{end}}</h3>
{{if .Identity}}<p>{{.Identity}}</p>{{end}}
{{if .Findings}}<table border="1" cellpadding="4">
<tr><th>Category</th><th>Finding</th></tr>
{{range .Findings}}<tr><td>{{.Category}}</td><td>{{.Message}}</td></tr>
{{end}}</table>{{else}}<p>healthy</p>{{end}}
{{end}}</body></html>
`))

type htmlController struct {
	Index    int
	Note     string
	Identity string
	Findings []htmlFinding
}

type htmlFinding struct {
	Category string
	Message  string
}

// RenderHTML writes the minimal HTML rendering used for email bodies
func (r *Report) RenderHTML(w io.Writer) error {
	data := struct {
		Verdict     string
		Hostname    string
		Version     string
		Started     string
		Controllers []htmlController
	}{
		Verdict:  r.Verdict(),
		Hostname: r.Host.Hostname,
		Version:  r.Version,
		Started:  r.Result.Started.Format(watermark.Layout),
	}

	for _, ctrl := range r.Result.Controllers {
		hc := htmlController{Index: ctrl.Index}
		switch {
		case ctrl.Ignored:
			hc.Note = "ignored"
		case ctrl.Skipped:
			hc.Note = "skipped"
		}
		if ctrl.Snapshot != nil {
			info := ctrl.Snapshot.Controller
			hc.Identity = fmt.Sprintf("%s SN %s, firmware %s, status %s",
				info.Model, info.Serial, info.FirmwareBuild, info.Status)
		}
		for _, f := range ctrl.Findings {
			hc.Findings = append(hc.Findings, htmlFinding{Category: f.Category, Message: f.Message})
		}
		data.Controllers = append(data.Controllers, hc)
	}

	return htmlReport.Execute(w, data)
}
