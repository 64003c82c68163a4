// Package mail sends plain-text email over SMTP, or logs a mock send when
// no credentials are configured.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Messages returned to clients.
const (
	MockSentMessage = "Mock email sent"
	SentMessage     = "Email sent successfully"
)

// ErrInvalidMessage is returned for messages missing a recipient.
var ErrInvalidMessage = errors.New("recipient is required")

// Message is an outbound email.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Dialer delivers composed messages.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Sender dispatches email. Without credentials it only logs.
type Sender struct {
	from   string
	dialer Dialer
	logger *slog.Logger
}

// NewSender creates a Sender. Empty Username or Password selects mock mode.
// gomail upgrades to STARTTLS when the server offers it.
func NewSender(cfg Config, logger *slog.Logger) *Sender {
	s := &Sender{from: cfg.Username, logger: logger}
	if cfg.Username != "" && cfg.Password != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

// Mock reports whether the sender only logs messages.
func (s *Sender) Mock() bool {
	return s.dialer == nil
}

// Send delivers msg and returns the status message for the caller.
func (s *Sender) Send(ctx context.Context, msg Message) (string, error) {
	if msg.Recipient == "" {
		return "", ErrInvalidMessage
	}

	if s.Mock() {
		s.logger.InfoContext(ctx, "mock email sent", "recipient", msg.Recipient, "subject", msg.Subject)
		return MockSentMessage, nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}

	s.logger.InfoContext(ctx, "email sent", "recipient", msg.Recipient)
	return SentMessage, nil
}
