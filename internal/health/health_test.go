package health

import (
	"strings"
	"testing"

	"raidcheck/internal/storcli"
	"raidcheck/pkg/types"
)

func healthySnapshot() *storcli.Snapshot {
	return &storcli.Snapshot{
		Controller: storcli.ControllerInfo{
			Index:      0,
			Model:      "AVAGO MegaRAID SAS9361-8i",
			Serial:     "SV52907245",
			PCIAddress: "00:02:00:00",
			Status:     "Optimal",
			DriverName: "megaraid_sas",
		},
		VirtualDrives: []storcli.VirtualDrive{
			{Group: 0, Index: 0, Level: "RAID1", State: "Optl"},
		},
		PhysicalDrives: []storcli.PhysicalDrive{
			{Enclosure: "62", Slot: 0, DeviceID: 9, State: "Onln"},
		},
		ExpectedVDs: 1,
		ExpectedPDs: 1,
	}
}

func TestEvaluateHealthy(t *testing.T) {
	findings := Evaluate(healthySnapshot(), Defaults())
	if len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}
}

func TestEvaluateCaseInsensitive(t *testing.T) {
	snap := healthySnapshot()
	snap.Controller.Status = "OPTIMAL"
	snap.VirtualDrives[0].State = "OPTL"
	snap.PhysicalDrives[0].State = "ONLN"

	if findings := Evaluate(snap, Defaults()); len(findings) != 0 {
		t.Errorf("expected case-folded match, got %v", findings)
	}
}

func TestEvaluateFailedPhysicalDrive(t *testing.T) {
	snap := healthySnapshot()
	snap.PhysicalDrives[0].State = "Failed"

	findings := Evaluate(snap, Defaults())
	if len(findings) != 1 {
		t.Fatalf("expected exactly 1 finding, got %v", findings)
	}
	want := "PD(62:0:9) state: 'Failed' not in ['onln', 'ugood', 'dhs', 'ghs']"
	if findings[0].Message != want {
		t.Errorf("message = %q, expected %q", findings[0].Message, want)
	}
	if findings[0].Category != types.CategoryPD {
		t.Errorf("category = %q", findings[0].Category)
	}
}

func TestEvaluateControllerStatus(t *testing.T) {
	snap := healthySnapshot()
	snap.Controller.Status = "Needs Attention"

	findings := Evaluate(snap, Defaults())
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %v", findings)
	}
	if !strings.Contains(findings[0].Message, "'Needs Attention'") {
		t.Errorf("raw state missing from message: %q", findings[0].Message)
	}
}

func TestEvaluateCollectsAllFindings(t *testing.T) {
	snap := healthySnapshot()
	snap.Controller.Status = "Degraded"
	snap.VirtualDrives[0].State = "Dgrd"
	snap.PhysicalDrives = append(snap.PhysicalDrives,
		storcli.PhysicalDrive{Enclosure: "62", Slot: 1, DeviceID: 10, State: "Offln"})

	findings := Evaluate(snap, Defaults())
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d: %v", len(findings), findings)
	}
	// order stable: controller, VDs, PDs
	if findings[0].Category != types.CategoryController ||
		findings[1].Category != types.CategoryVD ||
		findings[2].Category != types.CategoryPD {
		t.Errorf("findings out of order: %v", findings)
	}
}

func TestEvaluateEmptyDriveLists(t *testing.T) {
	snap := healthySnapshot()
	snap.VirtualDrives = nil
	snap.PhysicalDrives = nil

	findings := Evaluate(snap, Defaults())
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings for empty lists, got %v", findings)
	}
	if !strings.Contains(findings[0].Message, "no virtual drives") ||
		!strings.Contains(findings[1].Message, "no physical drives") {
		t.Errorf("unexpected messages: %v", findings)
	}
}

func TestEvaluateBackupUnit(t *testing.T) {
	lists := Defaults()
	lists.RequireBackupUnit = true

	// required but absent
	snap := healthySnapshot()
	findings := Evaluate(snap, lists)
	if len(findings) != 1 || !strings.Contains(findings[0].Message, "not present") {
		t.Errorf("expected missing-backup finding, got %v", findings)
	}

	// present and healthy
	snap.BackupUnit = &storcli.BackupUnit{
		Kind: storcli.BackupUnitCachevault, Model: "CVPM02", State: "Optimal",
	}
	if findings := Evaluate(snap, lists); len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}

	// present but failed, reported whether required or not
	snap.BackupUnit.State = "Failed"
	findings = Evaluate(snap, Defaults())
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %v", findings)
	}
	want := "cachevault(CVPM02) state: 'Failed' not in ['optimal']"
	if findings[0].Message != want {
		t.Errorf("message = %q, expected %q", findings[0].Message, want)
	}

	// absent and not required: fine
	snap.BackupUnit = nil
	if findings := Evaluate(snap, Defaults()); len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}
}
