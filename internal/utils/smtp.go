package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// EmailConfig holds the configuration for the email server
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// MaxConcurrent caps simultaneous SMTP sessions.
	MaxConcurrent int
}

// Mail is a plain text message.
type Mail struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// EmailHandler handles sending emails via SMTP
type EmailHandler struct {
	config EmailConfig
	slots  chan struct{}
	send   func(addr string, a sasl.Client, from string, to []string, msg *bytes.Reader) error
}

// NewEmailHandler creates a new EmailHandler
func NewEmailHandler(config EmailConfig) *EmailHandler {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	return &EmailHandler{
		config: config,
		slots:  make(chan struct{}, config.MaxConcurrent),
		send: func(addr string, a sasl.Client, from string, to []string, msg *bytes.Reader) error {
			return smtp.SendMail(addr, a, from, to, msg)
		},
	}
}

// Send delivers mail, giving up when ctx is done. The SMTP session itself
// cannot be interrupted, so a session outliving ctx finishes in the background.
func (h *EmailHandler) Send(ctx context.Context, mail Mail) error {
	if h.config.Host == "" {
		return errors.New("smtp host is not configured")
	}
	if mail.From == "" {
		mail.From = h.config.From
	}
	if mail.From == "" || len(mail.To) == 0 {
		return errors.New("mail needs a sender and at least one recipient")
	}

	select {
	case h.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	var auth sasl.Client
	if h.config.Username != "" {
		auth = sasl.NewPlainClient("", h.config.Username, h.config.Password)
	}
	addr := fmt.Sprintf("%s:%d", h.config.Host, h.config.Port)
	msg := bytes.NewReader(BuildMessage(mail, time.Now()))

	done := make(chan error, 1)
	go func() {
		defer func() { <-h.slots }()
		done <- h.send(addr, auth, mail.From, mail.To, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}

// BuildMessage renders mail as an RFC 5322 message with CRLF line endings.
func BuildMessage(mail Mail, date time.Time) []byte {
	var b strings.Builder
	writeHeader := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	writeHeader("From", mail.From)
	writeHeader("To", strings.Join(mail.To, ", "))
	if mail.ReplyTo != "" {
		writeHeader("Reply-To", mail.ReplyTo)
	}
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", mail.Subject))
	writeHeader("Date", date.Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", "text/plain; charset=UTF-8")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(mail.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
