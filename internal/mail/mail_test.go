package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSender_MockWithoutCredentials(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	s := NewSender(Config{Host: "smtp.example.com", Port: 587, Username: "me@example.com"}, slog.New(slog.NewTextHandler(&logs, nil)))
	require.True(t, s.Mock())

	got, err := s.Send(context.Background(), Message{Recipient: "you@example.com", Subject: "Notes", Body: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Mock email sent", got)
	assert.Contains(t, logs.String(), "you@example.com")
}

func TestSender_SendsPlainText(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{}
	s := &Sender{from: "me@example.com", dialer: dialer, logger: discard()}

	got, err := s.Send(context.Background(), Message{Recipient: "you@example.com", Subject: "Notes", Body: "Action items attached"})
	require.NoError(t, err)
	assert.Equal(t, "Email sent successfully", got)

	require.Len(t, dialer.sent, 1)
	m := dialer.sent[0]
	assert.Equal(t, []string{"me@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"you@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Notes"}, m.GetHeader("Subject"))

	var body bytes.Buffer
	_, err = m.WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "text/plain")
	assert.Contains(t, body.String(), "Action items attached")
}

func TestSender_DeliveryFailure(t *testing.T) {
	t.Parallel()

	s := &Sender{from: "me@example.com", dialer: &fakeDialer{err: errors.New("535 auth failed")}, logger: discard()}
	_, err := s.Send(context.Background(), Message{Recipient: "you@example.com"})
	assert.ErrorContains(t, err, "535 auth failed")
}

func TestSender_RequiresRecipient(t *testing.T) {
	t.Parallel()

	s := NewSender(Config{}, discard())
	_, err := s.Send(context.Background(), Message{})
	assert.True(t, errors.Is(err, ErrInvalidMessage))
}

func TestNewSender_RealModeWithCredentials(t *testing.T) {
	t.Parallel()

	s := NewSender(Config{Host: "smtp.gmail.com", Port: 587, Username: "me@example.com", Password: "app-password"}, discard())
	assert.False(t, s.Mock())
}
