package mailer

import (
	"fmt"
	"log"
	"net/smtp"
)

// Mailer delivers magic-link sign-in mail.
type Mailer interface {
	SendMagicLink(to, confirmURL string) error
}

// NewSMTPMailer creates a mailer that sends through the given SMTP
// server. addr is host:port.
func NewSMTPMailer(addr, from string) Mailer {
	return &smtpMailer{addr: addr, from: from}
}

type smtpMailer struct {
	addr string
	from string
}

func (m *smtpMailer) SendMagicLink(to, confirmURL string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your sign-in link\r\n\r\nClick to sign in:\r\n\r\n%s\r\n\r\nThe link can be used once and expires shortly.\r\n",
		m.from, to, confirmURL,
	)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send magic link mail: %w", err)
	}
	return nil
}

// NewLogMailer creates a mailer that only logs the confirm URL. Used when
// no SMTP server is configured (local development).
func NewLogMailer() Mailer {
	return &logMailer{}
}

type logMailer struct{}

func (m *logMailer) SendMagicLink(to, confirmURL string) error {
	log.Printf("magic link for %s: %s", to, confirmURL)
	return nil
}
