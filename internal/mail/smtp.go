// Package mail implements the outbound email contract. Sends are
// fire-and-forget from the caller's point of view: a failure is returned
// for logging but must never block the surrounding flow.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/i-himanshu29/Authentication-System/config"
)

type SMTPMailer struct {
	addr        string
	auth        smtp.Auth
	sender      string
	frontendURL string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	return &SMTPMailer{
		addr:        fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth:        auth,
		sender:      cfg.SenderEmail,
		frontendURL: cfg.FrontendURL,
	}
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/verify/%s", m.frontendURL, token)
	body := fmt.Sprintf("Verify your account by opening the link below:\r\n\r\n%s\r\n", link)

	return m.send(ctx, to, "Verify your account", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s", m.frontendURL, token)
	body := fmt.Sprintf("Reset your password by opening the link below:\r\n\r\n%s\r\n", link)

	return m.send(ctx, to, "Reset your password", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.sender, to, subject, body)

	if err := smtp.SendMail(m.addr, m.auth, m.sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}
