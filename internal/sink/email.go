package sink

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/factory"
	"NetSentinel/internal/model"
	"NetSentinel/internal/notification"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/gomarkdown/markdown"
)

func init() {
	factory.RegisterSink("email", func(def config.SinkDef) (notification.Sink, error) {
		if def.SMTP.Host == "" {
			return nil, fmt.Errorf("smtp host is required for the email sink")
		}
		return NewEmailSink(NewEmailNotifier(def.SMTP)), nil
	})
}

// EmailNotifier implements the Notifier interface for sending emails.
type EmailNotifier struct {
	cfg  config.SMTPConfig
	auth smtp.Auth
}

// NewEmailNotifier creates a new EmailNotifier.
func NewEmailNotifier(cfg config.SMTPConfig) model.Notifier {
	// PlainAuth will not send credentials until the server identifies itself as a trusted one.
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	return &EmailNotifier{cfg: cfg, auth: auth}
}

// Send sends an email to the configured recipients.
func (n *EmailNotifier) Send(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	recipients := strings.Split(n.cfg.To, ",")

	msg := []byte("To: " + n.cfg.To + "\r\n" +
		"From: " + n.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body)

	if err := smtp.SendMail(addr, n.auth, n.cfg.From, recipients, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// EmailSink sends one HTML digest per batch of notifications.
type EmailSink struct {
	notifier model.Notifier
}

// NewEmailSink creates a sink delivering through notifier.
func NewEmailSink(notifier model.Notifier) *EmailSink {
	return &EmailSink{notifier: notifier}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Write(events []notification.LoggedNotification) error {
	if len(events) == 0 {
		return nil
	}
	subject := fmt.Sprintf("NetSentinel Notification Digest (%d)", len(events))
	body := markdown.ToHTML([]byte(Digest(events)), nil, nil)
	return s.notifier.Send(subject, string(body))
}

func (s *EmailSink) Close() error { return nil }

// Digest renders events as a markdown document, one section per kind.
func Digest(events []notification.LoggedNotification) string {
	var b strings.Builder
	b.WriteString("# NetSentinel notifications\n\n")

	for _, kind := range []notification.Kind{
		notification.KindPacketsThresholdExceeded,
		notification.KindBytesThresholdExceeded,
		notification.KindFavoriteTransmitted,
	} {
		var lines []string
		for _, ev := range events {
			if ev.Kind() == kind {
				lines = append(lines, fmt.Sprintf("- **%s** %s\n", ev.Meta().Timestamp, ev.Summary()))
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s (%d)\n\n", digestTitle(kind), len(lines))
		for _, l := range lines {
			b.WriteString(l)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func digestTitle(k notification.Kind) string {
	switch k {
	case notification.KindPacketsThresholdExceeded:
		return "Packets threshold"
	case notification.KindBytesThresholdExceeded:
		return "Bytes threshold"
	default:
		return "Favorite hosts"
	}
}
