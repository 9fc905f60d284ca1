package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/windwardaviation/rescue10-aar/internal/domain"
)

// Step is one position in the linear form sequence.
type Step int

const (
	// StepMissionDetails is the first step; advancing past it requires the
	// required mission-detail fields to be filled in.
	StepMissionDetails Step = 0
	// Section steps occupy 1..SectionCount, followed by review and confirmation.
)

var (
	ErrUnknownSection    = errors.New("unknown section id")
	ErrAlreadySubmitting = errors.New("submission already in flight")
)

// Session holds the draft report and current step for one form session.
// All mutating operations are serialized by a mutex; an HTTP caller may race
// requests even though the reference UI never does.
type Session struct {
	ID string

	sectionIDs []string
	now        func() time.Time

	mu         sync.Mutex
	step       Step
	draft      domain.Report
	submitting bool
}

// StepReview returns the review step index for this session's catalog.
func (s *Session) StepReview() Step { return Step(len(s.sectionIDs) + 1) }

// StepConfirmation returns the terminal step index.
func (s *Session) StepConfirmation() Step { return Step(len(s.sectionIDs) + 2) }

func (s *Session) lastStep() Step { return s.StepConfirmation() }

// View is an immutable snapshot of session state for callers.
type View struct {
	ID         string        `json:"id"`
	Step       Step          `json:"step"`
	Submitting bool          `json:"submitting"`
	Report     domain.Report `json:"report"`
}

// View returns the current step and a deep copy of the draft.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{ID: s.ID, Step: s.step, Submitting: s.submitting, Report: s.draft.Clone()}
}

// Advance moves forward one step if the guard for the current step passes.
// Only the mission-details step has a guard; section notes are optional, so
// every later step advances unconditionally, capped at confirmation.
// Returns the resulting step and whether the session actually moved.
func (s *Session) Advance() (Step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepMissionDetails && !s.draft.MissionDetailsComplete() {
		return s.step, false
	}
	if s.step >= s.lastStep() {
		return s.step, false
	}
	s.step++
	return s.step, true
}

// Retreat moves back one step, floored at mission details. Stepping backward
// cannot invalidate already-entered data, so there is no guard.
func (s *Session) Retreat() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > StepMissionDetails {
		s.step--
	}
	return s.step
}

// GoTo jumps to any valid step; used by the review screen's Edit links.
// Downstream data is not re-validated.
func (s *Session) GoTo(step Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if step < StepMissionDetails || step > s.lastStep() {
		return fmt.Errorf("step %d out of range [0,%d]", step, s.lastStep())
	}
	s.step = step
	return nil
}

// SetField sets one scalar report field. Unknown names are a caller error.
func (s *Session) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.SetField(name, value)
}

// SetSection replaces the note text for one catalog section.
func (s *Session) SetSection(sectionID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.knownSection(sectionID) {
		return fmt.Errorf("%w: %s", ErrUnknownSection, sectionID)
	}
	s.draft.SetSection(sectionID, text)
	return nil
}

func (s *Session) knownSection(id string) bool {
	for _, known := range s.sectionIDs {
		if known == id {
			return true
		}
	}
	return false
}

// Reset replaces the draft with a fresh default (new current date) and
// returns to the first step. Used after confirmation or an explicit restart.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = domain.NewReport(s.now())
	s.step = StepMissionDetails
}

// BeginSubmit takes a deep snapshot of the draft and marks the session as
// submitting. A second call before EndSubmit fails, which is the double-submit
// guard. The snapshot, not a lock, protects the in-flight payload: the caller
// may keep editing the draft while the submission runs.
func (s *Session) BeginSubmit() (domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return domain.Report{}, ErrAlreadySubmitting
	}
	s.submitting = true
	return s.draft.Clone(), nil
}

// EndSubmit clears the submitting flag. On success the session moves to the
// confirmation step; the draft is left untouched either way, so a failed
// attempt loses no data and a confirmed one can still show prior values.
func (s *Session) EndSubmit(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if success {
		s.step = s.StepConfirmation()
	}
}
