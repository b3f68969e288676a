package storcli

import "fmt"

// ParseSnapshot parses one controller's "show all" dump into a
// Snapshot. Missing identity sections and table/count divergence are
// fatal; missing drive tables and backup unit blocks are not (they
// yield empty entity lists for the evaluator to judge).
func ParseSnapshot(index int, dump []byte) (*Snapshot, error) {
	text := string(dump)
	sections := splitSections(text)

	basics := parseKeyValues(sections["basics"])
	version := parseKeyValues(sections["version"])
	status := parseKeyValues(sections["status"])

	ctrl := ControllerInfo{
		Index:         index,
		Model:         basics["model"],
		Serial:        basics["serial number"],
		PCIAddress:    basics["pci address"],
		FirmwareBuild: version["firmware package build"],
		Status:        status["controller status"],
		DriverName:    version["driver name"],
		DriverVersion: version["driver version"],
	}

	switch {
	case ctrl.Model == "" || ctrl.Serial == "" || ctrl.PCIAddress == "":
		return nil, &SectionError{Controller: index, Section: "Basics"}
	case ctrl.DriverName == "" || ctrl.DriverVersion == "" || ctrl.FirmwareBuild == "":
		return nil, &SectionError{Controller: index, Section: "Version"}
	case ctrl.Status == "":
		return nil, &SectionError{Controller: index, Section: "Status"}
	}

	snap := &Snapshot{
		Controller:  ctrl,
		ExpectedVDs: scanCount(text, "virtual drives"),
		ExpectedPDs: scanCount(text, "physical drives"),
	}

	for _, line := range sections["vd list"] {
		if vd, ok := decodeVDRow(line); ok {
			snap.VirtualDrives = append(snap.VirtualDrives, vd)
		}
	}
	for _, line := range sections["pd list"] {
		if pd, ok := decodePDRow(line); ok {
			snap.PhysicalDrives = append(snap.PhysicalDrives, pd)
		}
	}

	if snap.ExpectedVDs >= 0 && len(snap.VirtualDrives) != snap.ExpectedVDs {
		return nil, &CountMismatchError{
			Controller: index,
			Kind:       "virtual drive",
			Expected:   snap.ExpectedVDs,
			Actual:     len(snap.VirtualDrives),
		}
	}
	if snap.ExpectedPDs >= 0 && len(snap.PhysicalDrives) != snap.ExpectedPDs {
		return nil, &CountMismatchError{
			Controller: index,
			Kind:       "physical drive",
			Expected:   snap.ExpectedPDs,
			Actual:     len(snap.PhysicalDrives),
		}
	}

	// at most one backup unit per controller; a battery block wins over
	// a cachevault block if a dump ever carries both
	for _, line := range sections["bbu_info"] {
		if bbu, ok := decodeBBURow(line); ok {
			snap.BackupUnit = &bbu
			break
		}
	}
	if snap.BackupUnit == nil {
		for _, line := range sections["cachevault_info"] {
			if cv, ok := decodeCachevaultRow(line); ok {
				snap.BackupUnit = &cv
				break
			}
		}
	}

	return snap, nil
}

// ParseControllerCount extracts N from the "Controller Count = N" line
// of a "show ctrlcount" invocation.
func ParseControllerCount(out []byte) (int, error) {
	n := scanCount(string(out), "controller count")
	if n < 0 {
		return 0, fmt.Errorf("no controller count found in output")
	}
	return n, nil
}
