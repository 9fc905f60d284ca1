package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Attachment is one file carried by an Envelope. Content is raw bytes; the
// transport base64-encodes it on the wire.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Envelope is a fully-addressed outbound message.
type Envelope struct {
	From        string
	To          []string
	Subject     string
	Text        string
	Attachments []Attachment
}

// Sender delivers an envelope. Implementations must not retry internally;
// the caller decides whether an attempt is repeated.
type Sender interface {
	Send(ctx context.Context, env Envelope) error
}

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender builds a sender for the given API key.
func NewResendSender(apiKey string) (*ResendSender, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key is required")
	}
	return &ResendSender{client: resend.NewClient(apiKey)}, nil
}

func (s *ResendSender) Send(ctx context.Context, env Envelope) error {
	params := &resend.SendEmailRequest{
		From:    env.From,
		To:      env.To,
		Subject: env.Subject,
		Text:    env.Text,
	}
	for _, a := range env.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
