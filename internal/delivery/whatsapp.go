package delivery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// ErrWhatsAppNotConfigured is returned when Twilio credentials are absent.
var ErrWhatsAppNotConfigured = errors.New("WhatsApp delivery is not configured")

// WhatsAppConfig holds the Twilio settings for WhatsApp notifications.
type WhatsAppConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// WhatsAppSender delivers report notifications over Twilio's WhatsApp API.
type WhatsAppSender struct {
	config WhatsAppConfig
	logger *zap.Logger
}

// NewWhatsAppSender creates a new WhatsAppSender.
func NewWhatsAppSender(config WhatsAppConfig, logger *zap.Logger) *WhatsAppSender {
	return &WhatsAppSender{
		config: config,
		logger: logger,
	}
}

// Configured reports whether Twilio credentials and a sender number are set.
func (s *WhatsAppSender) Configured() bool {
	return s.config.AccountSID != "" && s.config.AuthToken != "" && s.config.From != ""
}

// Send posts a WhatsApp message to the recipient and returns the provider's
// message SID. Numbers are normalized to the whatsapp: addressing scheme so
// callers may pass plain E.164 numbers.
func (s *WhatsAppSender) Send(to, body string) (string, error) {
	if !s.Configured() {
		return "", ErrWhatsAppNotConfigured
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.config.AccountSID,
		Password: s.config.AuthToken,
	})

	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(normalizeWhatsAppNumber(s.config.From))
	params.SetTo(normalizeWhatsAppNumber(to))
	params.SetBody(body)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		s.logger.Error("failed to send WhatsApp message", zap.Error(err))
		return "", fmt.Errorf("failed to send WhatsApp message: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}

	s.logger.Info("WhatsApp message sent", zap.String("sid", sid))
	return sid, nil
}

func normalizeWhatsAppNumber(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
