package domain

import (
	"errors"
	"strings"
	"time"
)

// Report is the full after-action review record built across the form.
// Wire keys match the reference HTTP contract (camelCase). Every field is
// schema-optional: an absent sections key is a valid no-notes state, and
// missing mission details are caught at submit time with an actionable
// message rather than by schema validation.
type Report struct {
	Date          string            `json:"date" required:"false" doc:"Mission date, YYYY-MM-DD"`
	PilotName     string            `json:"pilotName" required:"false"`
	HoistOperator string            `json:"hoistOperator" required:"false"`
	CrewMembers   string            `json:"crewMembers,omitempty"`
	Sections      map[string]string `json:"sections" required:"false"`
}

// Scalar field names accepted by Report.SetField.
const (
	FieldDate          = "date"
	FieldPilotName     = "pilotName"
	FieldHoistOperator = "hoistOperator"
	FieldCrewMembers   = "crewMembers"
)

var ErrUnknownField = errors.New("unknown report field")

// NewReport returns a fresh default report: today's date, everything else empty.
func NewReport(now time.Time) Report {
	return Report{
		Date:     now.Format("2006-01-02"),
		Sections: map[string]string{},
	}
}

// SetField sets one top-level scalar field, leaving the rest untouched.
// No validation happens here; transient invalid states are allowed while typing.
func (r *Report) SetField(name, value string) error {
	switch name {
	case FieldDate:
		r.Date = value
	case FieldPilotName:
		r.PilotName = value
	case FieldHoistOperator:
		r.HoistOperator = value
	case FieldCrewMembers:
		r.CrewMembers = value
	default:
		return ErrUnknownField
	}
	return nil
}

// SetSection replaces the note text for one section identifier.
func (r *Report) SetSection(sectionID, text string) {
	if r.Sections == nil {
		r.Sections = map[string]string{}
	}
	r.Sections[sectionID] = text
}

// Clone returns a deep, independent copy. Later edits to the original never
// reach the copy; this is the concurrency boundary for in-flight submissions.
func (r Report) Clone() Report {
	out := r
	out.Sections = make(map[string]string, len(r.Sections))
	for k, v := range r.Sections {
		out.Sections[k] = v
	}
	return out
}

// MissionDetailsComplete reports whether the required mission-detail fields
// are filled in: date present, pilot and hoist operator non-blank after trim.
// This is both the step-0 advance guard and the submit-time re-check.
func (r Report) MissionDetailsComplete() bool {
	return r.Date != "" &&
		strings.TrimSpace(r.PilotName) != "" &&
		strings.TrimSpace(r.HoistOperator) != ""
}

// DisplayDate formats a stored YYYY-MM-DD date as MM/DD/YYYY for the email
// subject and on-screen summaries. Empty or malformed input displays as a
// fixed placeholder.
func DisplayDate(date string) string {
	parts := strings.SplitN(date, "-", 3)
	if date == "" || len(parts) != 3 {
		return "Unknown Date"
	}
	return parts[1] + "/" + parts[2] + "/" + parts[0]
}
