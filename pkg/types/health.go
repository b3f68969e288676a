package types

// HealthResponse represents the JSON health response served in exporter mode
type HealthResponse struct {
	Status      string             `json:"status"`
	Service     string             `json:"service"`
	Version     string             `json:"version"`
	Timestamp   string             `json:"timestamp"`
	Hostname    string             `json:"hostname"`
	Pass        bool               `json:"pass"`
	Summary     HealthSummary      `json:"summary"`
	Controllers []ControllerHealth `json:"controllers"`
}

// HealthSummary provides host-wide totals across all controllers
type HealthSummary struct {
	Controllers    int `json:"controllers"`
	Skipped        int `json:"skipped"`
	VirtualDrives  int `json:"virtual_drives"`
	PhysicalDrives int `json:"physical_drives"`
	Findings       int `json:"findings"`
	NewEvents      int `json:"new_events"`
}

// ControllerHealth represents one controller's verdict in JSON
type ControllerHealth struct {
	Index     int       `json:"index"`
	Model     string    `json:"model,omitempty"`
	Serial    string    `json:"serial,omitempty"`
	Driver    string    `json:"driver,omitempty"`
	Status    string    `json:"status,omitempty"`
	Skipped   bool      `json:"skipped"`
	Pass      bool      `json:"pass"`
	Findings  []Finding `json:"findings,omitempty"`
	NewEvents int       `json:"new_events"`
}
