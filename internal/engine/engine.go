package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/windwardaviation/rescue10-aar/internal/config"
	"github.com/windwardaviation/rescue10-aar/internal/domain"
	"github.com/windwardaviation/rescue10-aar/internal/mail"
	"github.com/windwardaviation/rescue10-aar/internal/render"
)

// RejectedError means the report itself is not submittable: required
// mission-detail fields are missing. The message is user-actionable and no
// collaborator was invoked.
type RejectedError struct {
	Message string
}

func (e RejectedError) Error() string { return e.Message }

// TransientError means the attempt failed in a collaborator or an unexpected
// fault; the snapshot was not consumed and the whole submit may be retried.
// The message is deliberately generic: the internal cause is logged
// server-side and never reaches the caller.
type TransientError struct {
	Message string
}

func (e TransientError) Error() string { return e.Message }

const (
	missingFieldsMessage = "Missing required fields: date, pilot name, and hoist operator are required."
	sendFailedMessage    = "Failed to send email. Please try again."
	unexpectedMessage    = "An unexpected error occurred. Please try again."
)

// Engine is the submission orchestrator: it turns a report snapshot into a
// rendered document and a delivered notification. It never touches session
// state; advancing to confirmation is the caller's job on success.
type Engine struct {
	Config   *config.Config
	Renderer render.Renderer
	Mailer   mail.Sender
	Log      zerolog.Logger
}

// New wires an engine from its collaborators.
func New(cfg *config.Config, r render.Renderer, m mail.Sender, log zerolog.Logger) Engine {
	return Engine{
		Config:   cfg,
		Renderer: r,
		Mailer:   m,
		Log:      log,
	}
}

// Submit runs the one-shot submission transaction on a snapshot.
// Returns nil on success, RejectedError when required fields are missing,
// TransientError on any render/send failure. Panics anywhere in the path are
// caught and mapped to TransientError so the process never dies mid-request.
func (e Engine) Submit(ctx context.Context, report domain.Report) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e.Log.Error().Interface("panic", rec).Msg("submit panicked")
			err = TransientError{Message: unexpectedMessage}
		}
	}()

	// The review step is only reachable after the guard passed once, but
	// fields stay editable afterwards, so re-validation here is mandatory.
	if !report.MissionDetailsComplete() {
		return RejectedError{Message: missingFieldsMessage}
	}

	pdf, err := e.Renderer.Render(ctx, report)
	if err != nil {
		e.Log.Error().Err(err).Msg("render failed")
		return TransientError{Message: unexpectedMessage}
	}

	env := e.buildEnvelope(report, pdf)
	if err := e.Mailer.Send(ctx, env); err != nil {
		e.Log.Error().Err(err).Str("subject", env.Subject).Msg("send failed")
		return TransientError{Message: sendFailedMessage}
	}

	e.Log.Info().
		Str("pilot", report.PilotName).
		Str("mission_date", report.Date).
		Int("pdf_bytes", len(pdf)).
		Msg("report submitted")
	return nil
}

func (e Engine) buildEnvelope(report domain.Report, pdf []byte) mail.Envelope {
	displayDate := domain.DisplayDate(report.Date)
	return mail.Envelope{
		From:    e.Config.Mail.From,
		To:      e.Config.Mail.Recipients,
		Subject: fmt.Sprintf("%s — %s", e.Config.Product.Name, displayDate),
		Text: fmt.Sprintf(
			"An After Action Review has been submitted by %s for the mission on %s. The full report is attached as a PDF.",
			report.PilotName, displayDate),
		Attachments: []mail.Attachment{{
			Filename:    fmt.Sprintf("%s_AAR_%s.pdf", e.Config.Product.ShortName, report.Date),
			Content:     pdf,
			ContentType: "application/pdf",
		}},
	}
}
