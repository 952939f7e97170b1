package email

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	subject, body, from string
	to                  []string
}

type fakeTransport struct {
	sent []sent
	err  error
}

func (f *fakeTransport) Send(ctx context.Context, subject, body, from string, to []string) error {
	f.sent = append(f.sent, sent{subject, body, from, to})
	return f.err
}

func TestConsoleTransport(t *testing.T) {
	var buf bytes.Buffer
	tr := NewConsoleTransport(&buf)

	require.NoError(t, tr.Send(context.Background(), "Hi", "Body text", "from@x.com", []string{"a@x.com", "b@x.com"}))

	out := buf.String()
	assert.Contains(t, out, "From: from@x.com")
	assert.Contains(t, out, "To: a@x.com, b@x.com")
	assert.Contains(t, out, "Subject: Hi")
	assert.Contains(t, out, "Body text")
}

func TestConsoleTransport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewConsoleTransport(&bytes.Buffer{}).Send(ctx, "s", "b", "f", []string{"a@x.com"}), context.Canceled)
}

func TestMailer_Links(t *testing.T) {
	tr := &fakeTransport{}
	m := NewMailer(tr, "noreply@x.com", "https://mail.example.com/")

	require.NoError(t, m.SendVerification(context.Background(), "a@x.com", "abc123"))
	require.NoError(t, m.SendPasswordReset(context.Background(), "a@x.com", "def456"))

	require.Len(t, tr.sent, 2)
	assert.Equal(t, []string{"a@x.com"}, tr.sent[0].to)
	assert.Equal(t, "noreply@x.com", tr.sent[0].from)
	assert.Contains(t, tr.sent[0].body, "https://mail.example.com/api/v1/auth/confirm/abc123")
	assert.Contains(t, tr.sent[1].body, "https://mail.example.com/api/v1/auth/password-reset/def456")
}

func TestMailer_TransportError(t *testing.T) {
	m := NewMailer(&fakeTransport{err: errors.New("relay denied")}, "f", "http://x")
	err := m.SendVerification(context.Background(), "a@x.com", "t")
	assert.ErrorContains(t, err, "relay denied")
}

func TestSMTPTransport_NoRecipients(t *testing.T) {
	tr := NewSMTPTransport(SMTPConfig{Host: "localhost", Port: 2525})
	assert.Error(t, tr.Send(context.Background(), "s", "b", "f", nil))
}
