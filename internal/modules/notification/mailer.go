package notification

import (
	"fmt"
	"net/smtp"
)

// MailerConfig holds the SMTP transport settings used by the worker.
type MailerConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Mailer delivers pre-rendered HTML notification emails over SMTP.
type Mailer struct {
	config MailerConfig
	server string
	auth   smtp.Auth
}

func NewMailer(config MailerConfig) *Mailer {
	var auth smtp.Auth
	if config.Username != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	return &Mailer{
		config: config,
		server: config.Host + ":" + config.Port,
		auth:   auth,
	}
}

func (m *Mailer) IsConfigured() bool {
	return m.config.Host != "" && m.config.Port != "" && m.config.From != ""
}

func (m *Mailer) SendHTML(to, subject, htmlBody string) error {
	if !m.IsConfigured() {
		return fmt.Errorf("mailer not configured")
	}

	from := m.config.From
	if m.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.config.FromName, m.config.From)
	}

	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		to,
		from,
		subject,
		htmlBody,
	))

	return smtp.SendMail(m.server, m.auth, m.config.From, []string{to}, msg)
}
