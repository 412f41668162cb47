// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

/*
Package mail delivers transactional email for the account lifecycle.

Two messages exist today: the address-confirmation email sent after
registration, and the password-reset email. Both carry a signed token
embedded in a link back to the API.

Delivery is best-effort: callers fire sends in a background goroutine and
a failed send never fails the HTTP request that triggered it. A user who
never receives the email can request another one.
*/
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer sends the application's transactional messages.
type Mailer interface {
	// SendVerification emails a confirmation link containing token to address.
	SendVerification(ctx context.Context, address, username, token string) error
	// SendPasswordReset emails a password-reset link containing token to address.
	SendPasswordReset(ctx context.Context, address, username, token string) error
}

// Config carries SMTP connection settings and link construction data.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// BaseURL is the externally reachable root of the API, used to build
	// the links embedded in messages.
	BaseURL string
}

// templateData is the payload handed to both HTML templates.
type templateData struct {
	Username string
	Link     string
}

// # SMTP Implementation

// SMTPMailer delivers messages over implicit-TLS SMTP.
type SMTPMailer struct {
	config    Config
	logger    *slog.Logger
	templates *template.Template
}

// NewSMTPMailer parses the embedded templates and returns a ready mailer.
func NewSMTPMailer(config Config, logger *slog.Logger) (*SMTPMailer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail: failed to parse templates: %w", err)
	}

	return &SMTPMailer{
		config:    config,
		logger:    logger,
		templates: templates,
	}, nil
}

// SendVerification emails the address-confirmation link.
func (mailer *SMTPMailer) SendVerification(ctx context.Context, address, username, token string) error {
	link := fmt.Sprintf("%s/api/users/confirmed_email/%s", mailer.config.BaseURL, token)
	return mailer.send(ctx, address, "Confirm your email", "verify_email.html", templateData{
		Username: username,
		Link:     link,
	})
}

// SendPasswordReset emails the password-reset link.
func (mailer *SMTPMailer) SendPasswordReset(ctx context.Context, address, username, token string) error {
	link := fmt.Sprintf("%s/api/auth/reset_password/%s", mailer.config.BaseURL, token)
	return mailer.send(ctx, address, "Reset your password", "reset_password.html", templateData{
		Username: username,
		Link:     link,
	})
}

func (mailer *SMTPMailer) send(ctx context.Context, address, subject, templateName string, data templateData) error {

	// 1. Render the HTML body
	var body bytes.Buffer
	if err := mailer.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("mail: failed to render %s: %w", templateName, err)
	}

	// 2. Build the message
	message := gomail.NewMsg()
	if err := message.FromFormat(mailer.config.FromName, mailer.config.From); err != nil {
		return fmt.Errorf("mail: invalid from address: %w", err)
	}
	if err := message.To(address); err != nil {
		return fmt.Errorf("mail: invalid recipient address: %w", err)
	}
	message.Subject(subject)
	message.SetBodyString(gomail.TypeTextHTML, body.String())

	// 3. Deliver over implicit TLS (port 465 style)
	client, err := gomail.NewClient(mailer.config.Host,
		gomail.WithPort(mailer.config.Port),
		gomail.WithSSLPort(false),
		gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
		gomail.WithUsername(mailer.config.Username),
		gomail.WithPassword(mailer.config.Password),
	)
	if err != nil {
		return fmt.Errorf("mail: failed to create client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("mail: delivery failed: %w", err)
	}

	mailer.logger.Info("email_sent",
		slog.String("template", templateName),
		slog.String("to", address),
	)

	return nil
}

// # Noop Implementation

// NoopMailer logs instead of sending. Used in development and tests
// where no SMTP server is configured.
type NoopMailer struct {
	logger *slog.Logger
}

// NewNoopMailer returns a mailer that only logs.
func NewNoopMailer(logger *slog.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// SendVerification logs the would-be confirmation email.
func (mailer *NoopMailer) SendVerification(_ context.Context, address, username, token string) error {
	mailer.logger.Info("email_skipped_no_smtp",
		slog.String("kind", "verification"),
		slog.String("to", address),
		slog.String("username", username),
		slog.String("token", token),
	)
	return nil
}

// SendPasswordReset logs the would-be reset email.
func (mailer *NoopMailer) SendPasswordReset(_ context.Context, address, username, token string) error {
	mailer.logger.Info("email_skipped_no_smtp",
		slog.String("kind", "password_reset"),
		slog.String("to", address),
		slog.String("username", username),
		slog.String("token", token),
	)
	return nil
}
