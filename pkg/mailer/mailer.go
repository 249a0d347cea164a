package mailer

import (
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email
type Mailer interface {
	SendOTP(email, code string) error
}

// SMTPMailer sends mail through an SMTP relay using gomail
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPMailer creates a mailer from SMTP connection settings. Port falls
// back to 587 when unparseable.
func NewSMTPMailer(host, port, user, pass, from string) *SMTPMailer {
	p, err := strconv.Atoi(port)
	if err != nil {
		p = 587
	}
	return &SMTPMailer{
		host: host,
		port: p,
		user: user,
		pass: pass,
		from: from,
	}
}

// SendOTP emails a one-time verification code
func (m *SMTPMailer) SendOTP(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your verification code")
	msg.SetBody("text/html", fmt.Sprintf(`
		<h2>Email Verification</h2>
		<p>Your verification code is:</p>
		<h1 style="letter-spacing: 4px;">%s</h1>
		<p>This code expires in 15 minutes. If you did not request it, you can ignore this email.</p>
	`, code))

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}
