package health

import (
	"fmt"
	"strings"

	"raidcheck/internal/storcli"
	"raidcheck/pkg/types"
)

// AllowLists holds the acceptable state strings per entity kind.
// Comparison is case-insensitive; the raw state is preserved in
// findings for operator readability.
type AllowLists struct {
	Controller        []string `yaml:"controller"`
	VirtualDrive      []string `yaml:"virtual_drive"`
	PhysicalDrive     []string `yaml:"physical_drive"`
	BackupUnit        []string `yaml:"backup_unit"`
	RequireBackupUnit bool     `yaml:"require_backup_unit"`
}

// Defaults returns the allow-lists for a healthy MegaRAID setup
func Defaults() AllowLists {
	return AllowLists{
		Controller:    []string{"optimal"},
		VirtualDrive:  []string{"optl"},
		PhysicalDrive: []string{"onln", "ugood", "dhs", "ghs"},
		BackupUnit:    []string{"optimal"},
	}
}

// Evaluate applies the allow-lists to one controller snapshot and
// returns the findings in entity order. It never short-circuits: all
// offending entities are reported. Evaluation is pure; the same
// snapshot and lists always produce the same findings.
func Evaluate(snap *storcli.Snapshot, lists AllowLists) []types.Finding {
	var findings []types.Finding
	idx := snap.Controller.Index

	if !allowed(lists.Controller, snap.Controller.Status) {
		findings = append(findings, types.NewFinding(types.CategoryController,
			fmt.Sprintf("controller %d status: '%s' not in %s",
				idx, snap.Controller.Status, formatList(lists.Controller))))
	}

	// an empty drive list cannot be healthy, it means the topology or
	// the parse went wrong
	if len(snap.VirtualDrives) == 0 {
		findings = append(findings, types.NewFinding(types.CategoryVD,
			fmt.Sprintf("controller %d: no virtual drives found", idx)))
	}
	for _, vd := range snap.VirtualDrives {
		if !allowed(lists.VirtualDrive, vd.State) {
			findings = append(findings, types.NewFinding(types.CategoryVD,
				fmt.Sprintf("VD(%s) state: '%s' not in %s",
					vd.ID(), vd.State, formatList(lists.VirtualDrive))))
		}
	}

	if len(snap.PhysicalDrives) == 0 {
		findings = append(findings, types.NewFinding(types.CategoryPD,
			fmt.Sprintf("controller %d: no physical drives found", idx)))
	}
	for _, pd := range snap.PhysicalDrives {
		if !allowed(lists.PhysicalDrive, pd.State) {
			findings = append(findings, types.NewFinding(types.CategoryPD,
				fmt.Sprintf("PD(%s) state: '%s' not in %s",
					pd.ID(), pd.State, formatList(lists.PhysicalDrive))))
		}
	}

	switch {
	case snap.BackupUnit == nil:
		if lists.RequireBackupUnit {
			findings = append(findings, types.NewFinding(types.CategoryBackup,
				fmt.Sprintf("controller %d: backup unit required but not present", idx)))
		}
	case !allowed(lists.BackupUnit, snap.BackupUnit.State):
		findings = append(findings, types.NewFinding(types.CategoryBackup,
			fmt.Sprintf("%s(%s) state: '%s' not in %s",
				snap.BackupUnit.Kind, snap.BackupUnit.Model,
				snap.BackupUnit.State, formatList(lists.BackupUnit))))
	}

	return findings
}

func allowed(list []string, state string) bool {
	for _, ok := range list {
		if strings.EqualFold(ok, state) {
			return true
		}
	}
	return false
}

// formatList renders an allow-list the way it appears in findings,
// e.g. ['onln', 'ugood', 'dhs', 'ghs']
func formatList(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
