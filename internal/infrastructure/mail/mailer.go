package mail

import (
	"context"

	"belezure-api/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NewMailer returns an SMTP mailer, or a log-only one when no SMTP host is configured
func NewMailer(cfg config.MailConfig, log *logrus.Logger) Mailer {
	if cfg.Host == "" {
		log.Info("SMTP_HOST not set, emails will only be logged")
		return &LogMailer{log: log}
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

type LogMailer struct {
	log *logrus.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email not sent (no SMTP configured)")
	return nil
}
