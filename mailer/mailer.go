// Package mailer delivers transactional e-mail for the shop. SMTP settings
// live in the admin settings store with environment fallbacks, so the shop
// owner can point the backend at a new provider without a redeploy.
package mailer

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"proudshop/config"
	"proudshop/store"
)

const dialTimeout = 20 * time.Second

type SMTPConfig struct {
	Host      string
	Port      int
	Secure    bool
	User      string
	Password  string
	FromEmail string
	FromName  string
}

// Missing lists the essential settings that are not configured.
func (c SMTPConfig) Missing() []string {
	missing := []string{}
	if c.Host == "" {
		missing = append(missing, "smtp_host")
	}
	if c.User == "" {
		missing = append(missing, "smtp_user")
	}
	if c.Password == "" {
		missing = append(missing, "smtp_password")
	}
	return missing
}

type Mailer struct {
	settings store.SettingStore
	cfg      *config.Config
}

func NewMailer(settings store.SettingStore, cfg *config.Config) *Mailer {
	return &Mailer{settings: settings, cfg: cfg}
}

func (m *Mailer) setting(ctx context.Context, key, fallback string) string {
	s, err := m.settings.Get(ctx, key)
	if err != nil || s.Value == nil || *s.Value == "" {
		return fallback
	}
	return *s.Value
}

func (m *Mailer) Config(ctx context.Context) SMTPConfig {
	portStr := m.setting(ctx, "smtp_port", m.cfg.SMTPPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 587
	}
	secureStr := strings.ToLower(m.setting(ctx, "smtp_secure", "false"))
	secure := secureStr == "1" || secureStr == "true" || secureStr == "yes" || secureStr == "on"

	user := m.setting(ctx, "smtp_user", m.cfg.SMTPUser)
	return SMTPConfig{
		Host:      m.setting(ctx, "smtp_host", m.cfg.SMTPHost),
		Port:      port,
		Secure:    secure,
		User:      user,
		Password:  m.setting(ctx, "smtp_password", m.cfg.SMTPPassword),
		FromEmail: m.setting(ctx, "smtp_from_email", firstNonEmpty(m.cfg.SMTPFromEmail, user)),
		FromName:  m.setting(ctx, "smtp_from_name", m.cfg.SMTPFromName),
	}
}

// Send attempts delivery and reports success. It is fire-and-forget by
// contract: configuration gaps, dial errors and authentication failures all
// come back as false, never as a panic or error, so order workflows stay
// unaffected by mail trouble.
func (m *Mailer) Send(ctx context.Context, to []string, subject, html string) bool {
	c := m.Config(ctx)
	if len(c.Missing()) > 0 || c.FromEmail == "" {
		return false
	}
	if err := m.deliver(c, to, subject, html, c.FromEmail, c.FromName); err != nil {
		log.Printf("Mail delivery failed: %v", err)
		return false
	}
	return true
}

// SendFrom is the raw admin send with an optional sender override; unlike
// Send it surfaces the failure so diagnostics endpoints can report it.
func (m *Mailer) SendFrom(ctx context.Context, to []string, subject, html, fromEmail, fromName string) error {
	c := m.Config(ctx)
	if len(c.Missing()) > 0 {
		return fmt.Errorf("SMTP settings are not configured")
	}
	if fromEmail == "" {
		fromEmail = c.FromEmail
	}
	if fromName == "" {
		fromName = c.FromName
	}
	if fromEmail == "" {
		return fmt.Errorf("SMTP settings are not configured")
	}
	return m.deliver(c, to, subject, html, fromEmail, fromName)
}

func (m *Mailer) deliver(c SMTPConfig, to []string, subject, html, fromEmail, fromName string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(fromName, fromEmail); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	opts := []mail.Option{
		mail.WithPort(c.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.User),
		mail.WithPassword(c.Password),
		mail.WithTimeout(dialTimeout),
	}
	if c.Secure && c.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(c.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// MaskEmail hides the local part of an address except its first and last
// character, for diagnostics output.
func MaskEmail(addr string) string {
	if addr == "" {
		return ""
	}
	local, domain, found := strings.Cut(addr, "@")
	var masked string
	if len(local) <= 2 {
		masked = local[:1] + "*"
	} else {
		masked = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	}
	if found {
		return masked + "@" + domain
	}
	return masked
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
