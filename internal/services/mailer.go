package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers outbound notification email. It is injected into
// services at construction so tests and alternative providers can
// swap it out.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", m.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %v", to, err)
	}
	return nil
}

func confirmationEmailBody(fullName, otp string) string {
	return fmt.Sprintf(`
      <h1>Confirm Your Email!</h1>
      <p>Thank you for registering, %s!</p>
      <p>Your confirmation code is: <strong>%s</strong></p>
      `, fullName, otp)
}

func passwordResetEmailBody(fullName, otp string) string {
	return fmt.Sprintf(`
      <h1>Password Reset Request</h1>
      <p>Hello %s,</p>
      <p>Your password reset code is: <strong>%s</strong></p>
      <p>If you didn't request this, please ignore this email.</p>
      `, fullName, otp)
}
