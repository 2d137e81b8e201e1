package auth

import (
	"fmt"
	"net/smtp"

	"github.com/sublingo/sublingo/internal/config"
	"github.com/sublingo/sublingo/internal/logging"
)

// LogMailer writes reset links to the log instead of sending mail. Used
// when SMTP is not configured, typically in development.
type LogMailer struct {
	Logger *logging.Logger
}

func (m *LogMailer) SendPasswordReset(email, resetURL string) error {
	m.Logger.WithField("email", email).WithField("reset_url", resetURL).Info("SMTP not configured, logging reset link")
	return nil
}

// SMTPMailer sends password reset mail over plain SMTP with optional auth.
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer creates a mailer from config.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendPasswordReset delivers the reset link to the given address.
func (m *SMTPMailer) SendPasswordReset(email, resetURL string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Password Reset Request\r\n\r\n"+
			"A password reset was requested for your account.\r\n\r\n"+
			"Open the link below to choose a new password. The link expires in one hour\r\n"+
			"and can be used once.\r\n\r\n%s\r\n\r\n"+
			"If you did not request this, ignore this message.\r\n",
		m.cfg.From, email, resetURL,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var a smtp.Auth
	if m.cfg.Username != "" {
		a = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, a, m.cfg.From, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
