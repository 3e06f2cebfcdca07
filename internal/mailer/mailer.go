// Package mailer sends transactional email, with a log-only fallback for
// environments without an SMTP relay.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"devmate/internal/middleware"
)

// Mailer delivers a single plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// New returns an SMTP-backed mailer when addr is set, otherwise a mailer
// that only logs. addr is host:port of the relay.
func New(addr, from string) Mailer {
	if addr == "" {
		return &logMailer{from: from}
	}
	return &smtpMailer{addr: addr, from: from}
}

type smtpMailer struct {
	addr string
	from string
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// logMailer logs instead of sending. Used in development and tests.
type logMailer struct {
	from string
}

func (m *logMailer) Send(to, subject, body string) error {
	middleware.Logger.Info("mail (log only)",
		"from", m.from,
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
