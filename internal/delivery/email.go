// Package delivery sends finished reports to patients over external
// channels. Each sender checks its own configuration and fails fast with a
// sentinel error when the channel is not set up, so handlers can map the
// condition to a service-unavailable response instead of a transport error.
package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// ErrEmailNotConfigured is returned when SMTP settings are absent.
var ErrEmailNotConfigured = errors.New("email delivery is not configured")

const attachmentName = "health-report.pdf"

// EmailConfig holds the SMTP settings for outbound report mail. Host and
// From are required for the sender to be considered configured; Username and
// Password are optional for relays that accept unauthenticated mail.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EmailSender delivers report PDFs as mail attachments.
type EmailSender struct {
	config EmailConfig
	logger *zap.Logger
}

// NewEmailSender creates a new EmailSender.
func NewEmailSender(config EmailConfig, logger *zap.Logger) *EmailSender {
	return &EmailSender{
		config: config,
		logger: logger,
	}
}

// Configured reports whether the sender has enough settings to dial.
func (s *EmailSender) Configured() bool {
	return s.config.Host != "" && s.config.From != ""
}

// Send mails the rendered PDF to the recipient with the given subject and
// plain-text body.
func (s *EmailSender) Send(ctx context.Context, to, subject, body string, pdf []byte) error {
	if !s.Configured() {
		return ErrEmailNotConfigured
	}

	msg := mail.NewMsg()
	if err := msg.From(s.config.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if err := msg.AttachReader(attachmentName, bytes.NewReader(pdf)); err != nil {
		return fmt.Errorf("failed to attach report: %w", err)
	}

	opts := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if s.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
		)
	}

	client, err := mail.NewClient(s.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("failed to send report email",
			zap.String("host", s.config.Host),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send report email: %w", err)
	}

	s.logger.Info("report email sent",
		zap.String("to", to),
		zap.Int("attachment_bytes", len(pdf)),
	)
	return nil
}
