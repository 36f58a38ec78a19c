// Package mail delivers transactional email over SMTP.
package mail

import (
	"bytes"
	"context"
	"html/template"

	"authpal/config"
	"authpal/internal/domain/service"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"
)

const otpTemplateText = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verify your email</h2>
  <p>Hi {{.FirstName}},</p>
  <p>Use the code below to verify your email address:</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
  <p>The code expires in {{.TTLMinutes}} minutes. If you did not create an account, you can ignore this email.</p>
</body>
</html>`

const resetTemplateText = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Reset your password</h2>
  <p>Hi {{.FirstName}},</p>
  <p>We received a request to reset your password. Click the link below to continue:</p>
  <p><a href="{{.ResetURL}}">Reset password</a></p>
  <p>The link expires in 15 minutes. If you did not request a reset, you can ignore this email.</p>
</body>
</html>`

var (
	otpTemplate   = template.Must(template.New("otp").Parse(otpTemplateText))
	resetTemplate = template.Must(template.New("reset").Parse(resetTemplateText))
)

// SMTPMailer sends email through a configured SMTP relay.
type SMTPMailer struct {
	client     *gomail.Client
	from       string
	fromName   string
	otpMinutes int
}

// NewSMTPMailer builds the mailer from configuration.
func NewSMTPMailer(cfg *config.Config) (service.Mailer, error) {
	if cfg == nil || cfg.SMTP == nil {
		return nil, errors.New("smtp configuration missing")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTP.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.SMTP.Username),
		gomail.WithPassword(cfg.SMTP.Password),
	}

	client, err := gomail.NewClient(cfg.SMTP.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create smtp client")
	}

	otpMinutes := int(config.DefaultOTPTTL.Minutes())
	if cfg.Auth != nil && cfg.Auth.OTPTTL > 0 {
		otpMinutes = int(cfg.Auth.OTPTTL.Minutes())
	}

	return &SMTPMailer{
		client:     client,
		from:       cfg.SMTP.From,
		fromName:   cfg.SMTP.FromName,
		otpMinutes: otpMinutes,
	}, nil
}

// SendOTPEmail sends the verification-code email.
func (m *SMTPMailer) SendOTPEmail(ctx context.Context, to, firstName, code string) error {
	body, err := renderTemplate(otpTemplate, map[string]any{
		"FirstName":  firstName,
		"Code":       code,
		"TTLMinutes": m.otpMinutes,
	})
	if err != nil {
		return err
	}

	return m.send(ctx, to, "Verify your email", body)
}

// SendPasswordResetEmail sends the reset link embedding the raw token.
func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, firstName, resetURL string) error {
	body, err := renderTemplate(resetTemplate, map[string]any{
		"FirstName": firstName,
		"ResetURL":  resetURL,
	})
	if err != nil {
		return err
	}

	return m.send(ctx, to, "Reset your password", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return errors.Wrap(err, "set from address")
	}
	if err := msg.To(to); err != nil {
		return errors.Wrap(err, "set recipient")
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "send email")
	}

	return nil
}

func renderTemplate(tmpl *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "render email template")
	}

	return buf.String(), nil
}
