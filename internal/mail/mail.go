// Package mail delivers one-time passcodes to users.
package mail

import (
	"fmt"
	"log"
	"net/smtp"
)

type Mailer interface {
	SendOTP(email, code string) error
}

// SMTPMailer sends OTP mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
	}
}

func (m *SMTPMailer) SendOTP(email, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your SkyVault verification code\r\n\r\n"+
			"Your one-time code is: %s\r\n\r\nIt expires shortly. If you did not request it, ignore this message.\r\n",
		m.from, email, code,
	)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{email}, []byte(msg))
}

// LogMailer writes codes to the server log instead of sending mail.
// Useful for local development without an SMTP relay.
type LogMailer struct{}

func (LogMailer) SendOTP(email, code string) error {
	log.Printf("OTP for %s: %s", email, code)
	return nil
}
