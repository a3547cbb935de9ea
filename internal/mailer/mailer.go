// Package mailer delivers the approval email with the guest's QR
// credential embedded inline.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"event-rsvp/internal/models"
)

// Config holds the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EventInfoSource supplies the current event details at send time, so
// edits in the admin panel reach emails without a restart.
type EventInfoSource interface {
	EventInfo(ctx context.Context) (models.EventInfo, error)
}

// Mailer sends approval emails over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	events EventInfoSource
	log    zerolog.Logger
}

// New creates a mailer for the given SMTP configuration.
func New(cfg Config, events EventInfoSource, log zerolog.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		events: events,
		log:    log.With().Str("component", "mailer").Logger(),
	}
}

// SendApprovalEmail sends the confirmation email with the QR code
// embedded as an inline image.
func (m *Mailer) SendApprovalEmail(ctx context.Context, to, name string, hasCompanion bool, qrImage []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := m.events.EventInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to load event info: %w", err)
	}

	var body bytes.Buffer
	if err := approvalTemplate.Execute(&body, approvalData{
		Name:         name,
		HasCompanion: hasCompanion,
		Event:        info,
	}); err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Your attendance is confirmed — %s", info.Name))
	msg.SetBody("text/html", body.String())
	msg.Embed(qrAttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(qrImage)
		return err
	}))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.log.Info().Str("to", to).Msg("Approval email sent")
	return nil
}

// LogNotifier is the fallback notifier when SMTP is not configured: it
// records the approval instead of sending, so approvals still succeed
// in local or degraded setups.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) SendApprovalEmail(_ context.Context, to, name string, _ bool, _ []byte) error {
	n.Log.Info().Str("to", to).Str("name", name).Msg("SMTP not configured, skipping approval email")
	return nil
}
