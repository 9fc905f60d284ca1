package domain

import (
	"testing"
	"time"
)

func TestNewReportDefaults(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	r := NewReport(now)
	if r.Date != "2024-03-05" {
		t.Fatalf("date = %q, want 2024-03-05", r.Date)
	}
	if r.PilotName != "" || r.HoistOperator != "" || r.CrewMembers != "" {
		t.Fatalf("expected empty scalar fields, got %+v", r)
	}
	if len(r.Sections) != 0 {
		t.Fatalf("expected empty section map, got %v", r.Sections)
	}
}

func TestSetField(t *testing.T) {
	r := NewReport(time.Now())
	for name, want := range map[string]string{
		FieldDate:          "2024-03-05",
		FieldPilotName:     "J. Smith",
		FieldHoistOperator: "A. Lee",
		FieldCrewMembers:   "B. Kahale",
	} {
		if err := r.SetField(name, want); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	if r.Date != "2024-03-05" || r.PilotName != "J. Smith" || r.HoistOperator != "A. Lee" || r.CrewMembers != "B. Kahale" {
		t.Fatalf("fields not applied: %+v", r)
	}
	if err := r.SetField("altitude", "5000"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestSetSectionNoCrossTalk(t *testing.T) {
	r := NewReport(time.Now())
	r.PilotName = "J. Smith"
	r.SetSection("communications", "radio was clear")
	r.SetSection("incident-summary", "dispatched 0630")

	if got := r.Sections["communications"]; got != "radio was clear" {
		t.Fatalf("communications = %q", got)
	}
	if got := r.Sections["incident-summary"]; got != "dispatched 0630" {
		t.Fatalf("incident-summary = %q", got)
	}
	if r.PilotName != "J. Smith" {
		t.Fatalf("scalar field changed: %q", r.PilotName)
	}
	if len(r.Sections) != 2 {
		t.Fatalf("unexpected extra sections: %v", r.Sections)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := NewReport(time.Now())
	r.SetSection("communications", "original")
	snap := r.Clone()

	r.SetSection("communications", "edited later")
	r.SetSection("environmental-conditions", "windy")
	r.PilotName = "changed"

	if snap.Sections["communications"] != "original" {
		t.Fatalf("snapshot mutated: %q", snap.Sections["communications"])
	}
	if _, ok := snap.Sections["environmental-conditions"]; ok {
		t.Fatal("snapshot picked up a later section edit")
	}
	if snap.PilotName != "" {
		t.Fatalf("snapshot picked up a later field edit: %q", snap.PilotName)
	}
}

func TestMissionDetailsComplete(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   bool
	}{
		{"all set", Report{Date: "2024-03-05", PilotName: "J. Smith", HoistOperator: "A. Lee"}, true},
		{"missing date", Report{PilotName: "J. Smith", HoistOperator: "A. Lee"}, false},
		{"blank pilot", Report{Date: "2024-03-05", PilotName: "   ", HoistOperator: "A. Lee"}, false},
		{"blank hoist operator", Report{Date: "2024-03-05", PilotName: "J. Smith", HoistOperator: "\t"}, false},
		{"crew optional", Report{Date: "2024-03-05", PilotName: "J. Smith", HoistOperator: "A. Lee", CrewMembers: ""}, true},
	}
	for _, tc := range tests {
		if got := tc.report.MissionDetailsComplete(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDisplayDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024-03-05", "03/05/2024"},
		{"2025-12-31", "12/31/2025"},
		{"", "Unknown Date"},
		{"20240305", "Unknown Date"},
	}
	for _, tc := range tests {
		if got := DisplayDate(tc.in); got != tc.want {
			t.Errorf("DisplayDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
