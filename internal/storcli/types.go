package storcli

import (
	"fmt"
	"time"
)

// ControllerInfo holds controller identity parsed from the Basics,
// Version and Status blocks of a "show all" dump
type ControllerInfo struct {
	Index         int
	Model         string
	Serial        string
	PCIAddress    string
	FirmwareBuild string
	Status        string
	DriverName    string
	DriverVersion string
}

// VirtualDrive represents one row of the VD LIST table
type VirtualDrive struct {
	Group     int
	Index     int
	Level     string // TYPE column, e.g. RAID1
	State     string
	Access    string
	Consist   string
	Cache     string
	Size      string // raw, e.g. "446.102 GB"
	SizeBytes int64
	Name      string
}

// ID returns the DG/VD identity key as printed by the tool
func (v VirtualDrive) ID() string {
	return fmt.Sprintf("%d/%d", v.Group, v.Index)
}

// PhysicalDrive represents one row of the PD LIST table
type PhysicalDrive struct {
	Enclosure  string // blank for direct-attached drives
	Slot       int
	DeviceID   int
	State      string
	DriveGroup string // "-" when unconfigured
	Size       string
	SizeBytes  int64
	Interface  string
	Medium     string
	SectorSize string
	Model      string
	Spun       string
}

// ID returns the enclosure:slot:device-id identity key
func (p PhysicalDrive) ID() string {
	return fmt.Sprintf("%s:%d:%d", p.Enclosure, p.Slot, p.DeviceID)
}

// BackupUnitKind distinguishes the two backup energy source variants
type BackupUnitKind string

const (
	BackupUnitBattery    BackupUnitKind = "battery"
	BackupUnitCachevault BackupUnitKind = "cachevault"
)

// BackupUnit represents the controller's cache backup energy source,
// parsed from either a BBU_Info or a Cachevault_Info block
type BackupUnit struct {
	Kind          BackupUnitKind
	Model         string
	State         string
	Temp          string
	Mode          string
	MfgDate       string
	RetentionTime string // battery only
	NextLearn     string // battery only
}

// EventRecord is one entry of the controller event log
type EventRecord struct {
	SeqNum      string
	Time        time.Time
	Description string
}

// Snapshot is everything parsed from one controller's "show all" dump.
// Drive slices preserve the textual order of the dump. Expected counts
// are -1 when the dump carries no corresponding count line.
type Snapshot struct {
	Controller     ControllerInfo
	VirtualDrives  []VirtualDrive
	PhysicalDrives []PhysicalDrive
	BackupUnit     *BackupUnit // nil when no backup unit block is present
	ExpectedVDs    int
	ExpectedPDs    int
}

// SectionError reports a required dump section that could not be found
// or was missing one of its mandatory fields
type SectionError struct {
	Controller int
	Section    string
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("controller %d: required section %q not found in dump", e.Controller, e.Section)
}

// CountMismatchError reports decoded table rows diverging from the
// count the dump itself reports
type CountMismatchError struct {
	Controller int
	Kind       string
	Expected   int
	Actual     int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("controller %d: expected %d %s entries, decoded %d",
		e.Controller, e.Expected, e.Kind, e.Actual)
}
