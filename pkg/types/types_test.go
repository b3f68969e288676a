package types

import "testing"

func TestStatusFromState(t *testing.T) {
	tests := []struct {
		state    string
		expected HealthStatus
	}{
		{"Optimal", HealthStatusOK},
		{"Optl", HealthStatusOK},
		{"Onln", HealthStatusOK},
		{"UGood", HealthStatusOK},
		{"GHS", HealthStatusOK},
		{"DHS", HealthStatusOK},
		{"Dgrd", HealthStatusWarning},
		{"Degraded", HealthStatusWarning},
		{"Rbld", HealthStatusWarning},
		{"Charging", HealthStatusWarning},
		{"Failed", HealthStatusCritical},
		{"Offln", HealthStatusCritical},
		{"UBad", HealthStatusCritical},
		{"Missing", HealthStatusCritical},
		{"", HealthStatusUnknown},
		{"Pdgd", HealthStatusWarning},
		{"Needs Attention", HealthStatusWarning},
		{"SomethingElse", HealthStatusUnknown},
		// exact-token matching: containing a known word is not enough
		{"Broken", HealthStatusUnknown},
		{"NotFailed", HealthStatusUnknown},
	}

	for _, test := range tests {
		result := StatusFromState(test.state)
		if result != test.expected {
			t.Errorf("StatusFromState(%q) = %d, expected %d", test.state, result, test.expected)
		}
	}
}

func TestMessages(t *testing.T) {
	findings := []Finding{
		NewFinding(CategoryVD, "first"),
		NewFinding(CategoryPD, "second"),
	}

	msgs := Messages(findings)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0] != "first" || msgs[1] != "second" {
		t.Errorf("messages out of order: %v", msgs)
	}

	if got := Messages(nil); len(got) != 0 {
		t.Errorf("expected no messages for nil findings, got %v", got)
	}
}
