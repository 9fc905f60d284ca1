package session

import (
	"errors"
	"testing"
	"time"

	"github.com/windwardaviation/rescue10-aar/internal/config"
	"github.com/windwardaviation/rescue10-aar/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	st := NewStore(config.Default())
	st.Now = fixedNow
	return st.Create()
}

func fillMissionDetails(t *testing.T, s *Session) {
	t.Helper()
	for field, value := range map[string]string{
		domain.FieldDate:          "2024-03-05",
		domain.FieldPilotName:     "J. Smith",
		domain.FieldHoistOperator: "A. Lee",
	} {
		if err := s.SetField(field, value); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}
}

func TestAdvanceBlockedUntilMissionDetailsComplete(t *testing.T) {
	s := newTestSession(t)

	if step, moved := s.Advance(); moved || step != StepMissionDetails {
		t.Fatalf("advance with blank pilot moved to %d", step)
	}
	if err := s.SetField(domain.FieldPilotName, "   "); err != nil {
		t.Fatal(err)
	}
	if err := s.SetField(domain.FieldHoistOperator, "A. Lee"); err != nil {
		t.Fatal(err)
	}
	if _, moved := s.Advance(); moved {
		t.Fatal("advance moved with whitespace-only pilot name")
	}

	fillMissionDetails(t, s)
	step, moved := s.Advance()
	if !moved || step != 1 {
		t.Fatalf("advance after filling details: step=%d moved=%v", step, moved)
	}
}

func TestStepStaysInRange(t *testing.T) {
	s := newTestSession(t)
	fillMissionDetails(t, s)

	// Hammer the sequencer well past both ends.
	for i := 0; i < 20; i++ {
		s.Advance()
	}
	if got := s.View().Step; got != s.StepConfirmation() {
		t.Fatalf("step after repeated advance = %d, want %d", got, s.StepConfirmation())
	}
	for i := 0; i < 20; i++ {
		s.Retreat()
	}
	if got := s.View().Step; got != StepMissionDetails {
		t.Fatalf("step after repeated retreat = %d, want 0", got)
	}
}

func TestRetreatFromStartIsNoOp(t *testing.T) {
	s := newTestSession(t)
	if step := s.Retreat(); step != StepMissionDetails {
		t.Fatalf("retreat from 0 gave %d", step)
	}
}

func TestGoTo(t *testing.T) {
	s := newTestSession(t)
	if err := s.GoTo(s.StepReview()); err != nil {
		t.Fatalf("goto review: %v", err)
	}
	if got := s.View().Step; got != s.StepReview() {
		t.Fatalf("step = %d, want review %d", got, s.StepReview())
	}
	// Edit link back to a section, no downstream re-validation.
	if err := s.GoTo(3); err != nil {
		t.Fatalf("goto 3: %v", err)
	}
	if err := s.GoTo(-1); err == nil {
		t.Fatal("expected error for negative step")
	}
	if err := s.GoTo(s.StepConfirmation() + 1); err == nil {
		t.Fatal("expected error for step past confirmation")
	}
}

func TestSetSectionRejectsUnknownID(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetSection("communications", "all clear"); err != nil {
		t.Fatalf("known section: %v", err)
	}
	err := s.SetSection("fuel-burn", "n/a")
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if got := s.View().Report.Sections["communications"]; got != "all clear" {
		t.Fatalf("section text = %q", got)
	}
}

func TestReset(t *testing.T) {
	s := newTestSession(t)
	fillMissionDetails(t, s)
	if err := s.SetField(domain.FieldCrewMembers, "B. Kahale"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSection("incident-summary", "notes"); err != nil {
		t.Fatal(err)
	}
	s.Advance()
	s.Reset()

	v := s.View()
	if v.Step != StepMissionDetails {
		t.Fatalf("step after reset = %d", v.Step)
	}
	if v.Report.PilotName != "" || v.Report.HoistOperator != "" || v.Report.CrewMembers != "" {
		t.Fatalf("scalar fields survived reset: %+v", v.Report)
	}
	if len(v.Report.Sections) != 0 {
		t.Fatalf("sections survived reset: %v", v.Report.Sections)
	}
	if v.Report.Date != "2024-03-05" {
		t.Fatalf("reset date = %q, want current date", v.Report.Date)
	}
}

func TestSnapshotImmuneToLaterEdits(t *testing.T) {
	s := newTestSession(t)
	fillMissionDetails(t, s)
	if err := s.SetSection("communications", "before submit"); err != nil {
		t.Fatal(err)
	}

	snapshot, err := s.BeginSubmit()
	if err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	// Editing while the attempt is in flight is allowed and must not reach
	// the snapshot.
	if err := s.SetField(domain.FieldPilotName, "Someone Else"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSection("communications", "after submit"); err != nil {
		t.Fatal(err)
	}

	if snapshot.PilotName != "J. Smith" {
		t.Fatalf("snapshot pilot = %q", snapshot.PilotName)
	}
	if snapshot.Sections["communications"] != "before submit" {
		t.Fatalf("snapshot section = %q", snapshot.Sections["communications"])
	}
	s.EndSubmit(true)
}

func TestDoubleSubmitGuard(t *testing.T) {
	s := newTestSession(t)
	fillMissionDetails(t, s)

	if _, err := s.BeginSubmit(); err != nil {
		t.Fatalf("first begin: %v", err)
	}
	if _, err := s.BeginSubmit(); !errors.Is(err, ErrAlreadySubmitting) {
		t.Fatalf("second begin: got %v, want ErrAlreadySubmitting", err)
	}

	// Failure keeps the draft and allows a retry.
	s.EndSubmit(false)
	if v := s.View(); v.Step == s.StepConfirmation() || v.Report.PilotName != "J. Smith" {
		t.Fatalf("failed submit changed state: %+v", v)
	}
	if _, err := s.BeginSubmit(); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	s.EndSubmit(true)
	if got := s.View().Step; got != s.StepConfirmation() {
		t.Fatalf("step after success = %d, want confirmation", got)
	}
}

func TestStoreLifecycle(t *testing.T) {
	st := NewStore(config.Default())
	st.Now = fixedNow

	s := st.Create()
	if s.ID == "" {
		t.Fatal("session id empty")
	}
	got, err := st.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("get: %v", err)
	}
	st.Delete(s.ID)
	if _, err := st.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("store len = %d", st.Len())
	}
}
