package service

import (
	"fmt"
	"html"
	"time"

	mail "github.com/go-mail/mail/v2"
)

type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends transactional mail over SMTP with mandatory STARTTLS.
type Mailer struct {
	dialer *mail.Dialer
	from   string
	site   string
}

func NewMailer(opt SMTPOptions, siteName string) *Mailer {
	d := mail.NewDialer(opt.Host, opt.Port, opt.Username, opt.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.Timeout = 10 * time.Second
	if siteName == "" {
		siteName = "Company Profile"
	}
	return &Mailer{dialer: d, from: opt.From, site: siteName}
}

// WelcomeMessage builds the registration greeting for a new account.
func (m *Mailer) WelcomeMessage(to, name string) *mail.Message {
	if name == "" {
		name = to
	}
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Welcome to %s", m.site))
	msg.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\nYour %s account has been created.\n", name, m.site))
	msg.AddAlternative("text/html", fmt.Sprintf("<p>Hi %s,</p><p>Your %s account has been created.</p>",
		html.EscapeString(name), html.EscapeString(m.site)))
	return msg
}

func (m *Mailer) SendWelcome(to, name string) error {
	if err := m.dialer.DialAndSend(m.WelcomeMessage(to, name)); err != nil {
		return fmt.Errorf("send welcome mail to %s: %w", to, err)
	}
	return nil
}
