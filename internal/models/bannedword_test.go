package models

import "testing"

func TestSeverityValid(t *testing.T) {
	tests := []struct {
		severity Severity
		want     bool
	}{
		{SeverityLow, true},
		{SeverityMedium, true},
		{SeverityHigh, true},
		{Severity(0), false},
		{Severity(4), false},
		{Severity(-1), false},
	}

	for _, tt := range tests {
		if got := tt.severity.Valid(); got != tt.want {
			t.Errorf("Severity(%d).Valid() = %v, want %v", tt.severity, got, tt.want)
		}
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityLow, "Low"},
		{SeverityMedium, "Medium"},
		{SeverityHigh, "High"},
		{Severity(7), "Severity(7)"},
	}

	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}
