package types

import "strings"

// HealthStatus represents entity health status values
type HealthStatus int

const (
	HealthStatusUnknown  HealthStatus = 0
	HealthStatusOK       HealthStatus = 1
	HealthStatusWarning  HealthStatus = 2
	HealthStatusCritical HealthStatus = 3
)

// Finding categories, used for metric labels and history rows
const (
	CategoryParse      = "parse"
	CategoryController = "controller"
	CategoryVD         = "virtual_drive"
	CategoryPD         = "physical_drive"
	CategoryBackup     = "backup_unit"
	CategoryEvent      = "event"
	CategoryTopology   = "topology"
)

// Finding is one health-check failure attributed to a single entity.
// The message carries the entity identity and its raw state so the
// operator can act on it without re-running the tool.
type Finding struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// NewFinding creates a finding for the given category
func NewFinding(category, message string) Finding {
	return Finding{Category: category, Message: message}
}

// Messages flattens findings into their message strings, in order
func Messages(findings []Finding) []string {
	msgs := make([]string, len(findings))
	for i, f := range findings {
		msgs[i] = f.Message
	}
	return msgs
}

// StatusFromState converts a RAID entity state string to a numeric
// status value. Matching is exact on the known state vocabulary so a
// state that merely contains a known word (say, a vendor adding
// "Broken") stays Unknown rather than misclassifying.
func StatusFromState(state string) HealthStatus {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "OPTIMAL", "OPTL", "ONLN", "ONLINE", "UGOOD", "DHS", "GHS", "OK", "GOOD":
		return HealthStatusOK
	case "DEGRADED", "DGRD", "PDGD", "REBUILDING", "RBLD",
		"LEARNING", "LEARN", "CHARGING", "NEEDS ATTENTION":
		return HealthStatusWarning
	case "FAILED", "FAIL", "OFFLN", "OFFLINE", "UBAD", "UBUNSP", "MISSING", "MSNG":
		return HealthStatusCritical
	default:
		return HealthStatusUnknown
	}
}
