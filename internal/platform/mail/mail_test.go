package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHeadersAndBody(t *testing.T) {
	now := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)
	raw := string(Render("shop@example.com", Message{
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Reset\r\nBcc: evil@example.com",
		Body:    "line one\nline two",
	}, now))

	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Subject: Reset  Bcc: evil@example.com\r\n")
	assert.Contains(t, raw, "line one\r\nline two")
}

func TestSMTPSenderUsesRelay(t *testing.T) {
	sender := NewSMTPSender(Config{Host: "smtp.example.com", Username: "u", Password: "p", From: "shop@example.com"})
	var gotAddr string
	var gotTo []string
	sender.sendMail = func(addr string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		gotAddr, gotTo = addr, to
		return nil
	}

	require.NoError(t, sender.Send(context.Background(), Message{To: []string{"c@example.com"}, Subject: "hi"}))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"c@example.com"}, gotTo)

	sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay down") }
	err := sender.Send(context.Background(), Message{To: []string{"c@example.com"}})
	require.ErrorContains(t, err, "relay down")

	require.Error(t, sender.Send(context.Background(), Message{}))
}

func TestNewFallsBackToLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	sender := New(Config{}, logger)
	require.IsType(t, &LogSender{}, sender)
	require.NoError(t, sender.Send(context.Background(), Message{To: []string{"x@example.com"}, Subject: "Reset your password"}))
	assert.Contains(t, buf.String(), "Reset your password")
}
