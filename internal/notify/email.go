package notify

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
)

// EmailConfig holds SMTP settings. Defaults target Zoho Mail, which the
// production deployment uses.
type EmailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	UseTLS    bool
	DefaultTo string
}

// Email sends lead notifications over SMTP.
type Email struct {
	cfg EmailConfig
}

// NewEmail builds the email channel.
func NewEmail(cfg EmailConfig) *Email {
	return &Email{cfg: cfg}
}

// Configured reports whether credentials are present.
func (e *Email) Configured() bool {
	return e.cfg.Host != "" && e.cfg.Username != "" && e.cfg.Password != ""
}

// Send delivers the lead to the tenant's target address, falling back to
// the system-wide default recipient.
func (e *Email) Send(ctx context.Context, lead *chat.LeadRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}
	if !e.Configured() {
		return fmt.Errorf("email notifier not configured")
	}

	to := lead.TargetEmail
	if to == "" {
		to = e.cfg.DefaultTo
	}
	if to == "" {
		return fmt.Errorf("no target email for client %s", lead.ClientID)
	}

	msg := buildLeadEmail(e.cfg, to, lead)
	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	auth := smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)

	if e.cfg.UseTLS {
		return e.sendWithTLS(addr, auth, to, msg)
	}
	if err := smtp.SendMail(addr, auth, e.cfg.Username, []string{to}, msg); err != nil {
		return fmt.Errorf("send lead email: %w", err)
	}
	return nil
}

func (e *Email) sendWithTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: e.cfg.Host}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("start TLS: %w", err)
	}
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication: %w", err)
	}
	if err = client.Mail(e.cfg.Username); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("set recipient %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	return client.Quit()
}

// buildLeadEmail renders the notification mail. Kept as a free function so
// tests can check the rendering without an SMTP server.
func buildLeadEmail(cfg EmailConfig, to string, lead *chat.LeadRecord) []byte {
	var b strings.Builder
	from := cfg.Username
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.Username)
	}

	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: =?UTF-8?B?%s?=\r\n", encodeSubject("🎯 ליד חדש - "+lead.ClientID)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("שם: %s\n", lead.Name))
	b.WriteString(fmt.Sprintf("אמצעי התקשרות: %s\n", lead.Contact))
	b.WriteString(fmt.Sprintf("לקוח: %s\n", lead.ClientID))
	b.WriteString(fmt.Sprintf("כוונה: %s\n", lead.Intent))
	b.WriteString(fmt.Sprintf("ביטחון: %d\n", lead.Confidence))
	b.WriteString(fmt.Sprintf("ציון ליד: %d\n", lead.LeadScore))
	b.WriteString(fmt.Sprintf("התקבל: %s\n", lead.Timestamp.Format("2006-01-02 15:04:05 MST")))
	return []byte(b.String())
}

// encodeSubject base64-encodes the subject so Hebrew survives SMTP headers.
func encodeSubject(subject string) string {
	return base64.StdEncoding.EncodeToString([]byte(subject))
}
