package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"github.com/windwardaviation/rescue10-aar/internal/engine"
	"github.com/windwardaviation/rescue10-aar/internal/session"
)

// sessionPath is the input for operations whose only input is the session id.
// Operations that also carry a body inline the path tag instead; huma does not
// resolve path params from embedded structs.
type sessionPath struct {
	SessionID string `path:"session_id"`
}

func registerSessions(api huma.API, store *session.Store, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-session",
		Method:        http.MethodPost,
		Path:          "/sessions",
		Summary:       "Start a form session",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, _ *struct{}) (*sessionResponse, error) {
		s := store.Create()
		return &sessionResponse{Body: s.View()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/sessions/{session_id}",
		Summary:     "Session state",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *sessionPath) (*sessionResponse, error) {
		s, err := store.Get(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		return &sessionResponse{Body: s.View()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-session",
		Method:      http.MethodDelete,
		Path:        "/sessions/{session_id}",
		Summary:     "End a session",
		Description: "Discards the draft. Nothing is persisted.",
	}, func(ctx context.Context, input *sessionPath) (*struct{}, error) {
		store.Delete(input.SessionID)
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-report-field",
		Method:      http.MethodPatch,
		Path:        "/sessions/{session_id}/report",
		Summary:     "Set one report field",
		Description: "Sets a single scalar field without validating it; validation happens when advancing past mission details.",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		SessionID string             `path:"session_id"`
		Body      UpdateFieldRequest `json:"body"`
	}) (*sessionResponse, error) {
		s, err := store.Get(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := s.SetField(input.Body.Field, input.Body.Value); err != nil {
			return nil, handleError(err)
		}
		return &sessionResponse{Body: s.View()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-section",
		Method:      http.MethodPut,
		Path:        "/sessions/{session_id}/sections/{section_id}",
		Summary:     "Set section notes",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		SessionID string               `path:"session_id"`
		SectionID string               `path:"section_id"`
		Body      UpdateSectionRequest `json:"body"`
	}) (*sessionResponse, error) {
		s, err := store.Get(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := s.SetSection(input.SectionID, input.Body.Text); err != nil {
			return nil, handleError(err)
		}
		return &sessionResponse{Body: s.View()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "advance-step",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/advance",
		Summary:     "Advance one step",
		Description: "Blocked at mission details until date, pilot name, and hoist operator are filled in. moved=false means the guard held.",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *sessionPath) (*stepResponse, error) {
		s, err := store.Get(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		_, moved := s.Advance()
		return &stepResponse{Body: StepBody{View: s.View(), Moved: moved}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "retreat-step",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/retreat",
		Summary:     "Go back one step",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *sessionPath) (*stepResponse, error) {
		s, err := store.Get(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		before := s.View().Step
		after := s.Retreat()
		return &stepResponse{Body: StepBody{View: s.View(), Moved: after != before}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "goto-step",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/goto",
		Summary:     "Jump to a step",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		SessionID string      `path:"session_id"`
		Body      GoToRequest `json:"body"`
	}) (*sessionResponse, error) {
		s, err := store.Get(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := s.GoTo(session.Step(input.Body.Step)); err != nil {
			return nil, newAPIError(http.StatusBadRequest, err.Error())
		}
		return &sessionResponse{Body: s.View()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reset-session",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/reset",
		Summary:     "Start over",
		Description: "Replaces the draft with a fresh default report and returns to mission details.",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *sessionPath) (*sessionResponse, error) {
		s, err := store.Get(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		s.Reset()
		return &sessionResponse{Body: s.View()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "submit-session",
		Method:      http.MethodPost,
		Path:        "/sessions/{session_id}/submit",
		Summary:     "Submit the session's report",
		Description: "Takes a snapshot of the draft and runs the submission pipeline. The draft stays editable while the attempt is in flight; the delivered report reflects the snapshot. A second submit before the first resolves is rejected.",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *sessionPath) (*submitResponse, error) {
		s, err := store.Get(input.SessionID)
		if err != nil {
			return nil, handleError(err)
		}
		snapshot, err := s.BeginSubmit()
		if err != nil {
			return nil, handleError(err)
		}
		err = e.Submit(ctx, snapshot)
		s.EndSubmit(err == nil)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("session", s.ID).Err(err).Msg("submission failed")
			return nil, handleError(err)
		}
		return &submitResponse{Body: successBody{Success: true}}, nil
	})
}
