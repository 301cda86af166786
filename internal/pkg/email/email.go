package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/hirestack/ats-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Delivery is retried up to maxAttempts times with retryDelay between
// attempts. Dispatch never blocks the caller and failures never surface to
// it; an invite or OTP stays valid even when its email is lost.
const (
	maxAttempts = 3
	retryDelay  = 10 * time.Second
)

// OTP purposes, selecting subject and body copy
const (
	PurposeVerify = "verify"
	PurposeReset  = "reset"
)

// Dispatcher sends transactional emails asynchronously, best effort.
type Dispatcher interface {
	// DispatchInvite sends an invitation email for a company and role
	DispatchInvite(to, companyName, role string)

	// DispatchOTP sends a one-time code for the given purpose
	DispatchOTP(to, purpose, code string)
}

type dispatcherImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewDispatcher creates a new email dispatcher instance
func NewDispatcher(cfg config.SMTPConfig) (Dispatcher, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &dispatcherImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type inviteEmailData struct {
	CompanyName string
	Role        string
}

// DispatchInvite implements Dispatcher.
func (d *dispatcherImpl) DispatchInvite(to, companyName, role string) {
	data := inviteEmailData{
		CompanyName: companyName,
		Role:        role,
	}

	var body bytes.Buffer
	if err := d.templates.ExecuteTemplate(&body, "invite.html", data); err != nil {
		slog.Error("Failed to render invite email", "to", to, "error", err)
		return
	}

	go d.sendWithRetry(to, fmt.Sprintf("You are invited to join %s", companyName), body.String())
}

type otpEmailData struct {
	Intro string
	Code  string
}

// DispatchOTP implements Dispatcher.
func (d *dispatcherImpl) DispatchOTP(to, purpose, code string) {
	subject := "Your OTP"
	intro := "Use this OTP to continue."
	switch purpose {
	case PurposeVerify:
		subject = "Verify your email"
		intro = "Use this OTP to verify your email."
	case PurposeReset:
		subject = "Reset your password"
		intro = "Use this OTP to reset your password."
	}

	var body bytes.Buffer
	if err := d.templates.ExecuteTemplate(&body, "otp.html", otpEmailData{Intro: intro, Code: code}); err != nil {
		slog.Error("Failed to render OTP email", "to", to, "error", err)
		return
	}

	go d.sendWithRetry(to, subject, body.String())
}

func (d *dispatcherImpl) sendWithRetry(to, subject, htmlBody string) {
	// Skip sending if SMTP is not configured
	if d.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return
	}

	from := d.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", d.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return
		}

		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", err,
		)

		if attempt < maxAttempts {
			time.Sleep(retryDelay)
		}
	}
}
