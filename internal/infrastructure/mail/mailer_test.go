package mail

import (
	"bytes"
	"context"
	"testing"

	"belezure-api/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer_SelectsBackend(t *testing.T) {
	log := logrus.New()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	m := NewMailer(config.MailConfig{}, log)
	require.IsType(t, &LogMailer{}, m)

	require.NoError(t, m.Send(context.Background(), "ana@example.com", "Hello", "<p>hi</p>"))
	assert.Contains(t, buf.String(), "ana@example.com")

	m = NewMailer(config.MailConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@belezure.com"}, log)
	assert.IsType(t, &SMTPMailer{}, m)
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m := NewMailer(config.MailConfig{Host: "smtp.invalid", Port: 25}, logrus.New())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, "ana@example.com", "s", "b"), context.Canceled)
}
