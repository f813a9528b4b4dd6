package services

import (
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"bridgeway_site_echo/internal/config"
)

// ErrSMTPNotConfigured is returned when no SMTP host is set
var ErrSMTPNotConfigured = errors.New("SMTP credentials not fully configured")

type EmailService struct {
	host     string
	port     string
	user     string
	password string
	from     string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		from:     cfg.From,
		send:     smtp.SendMail,
	}
}

// Configured reports whether mail can be sent
func (s *EmailService) Configured() bool {
	return s.host != "" && s.port != ""
}

// SendEmail sends a plain-text message. Authentication is skipped when no
// SMTP user is set, for local relays.
func (s *EmailService) SendEmail(to []string, subject, body string) error {
	if !s.Configured() {
		return ErrSMTPNotConfigured
	}
	if len(to) == 0 {
		return errors.New("no recipients")
	}

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}

	message := buildMessage(s.from, to, subject, body, time.Now())
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := s.send(addr, auth, s.from, to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildMessage(from string, to []string, subject, body string, now time.Time) []byte {
	// Header values must not carry line breaks.
	clean := strings.NewReplacer("\r", " ", "\n", " ")

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", clean.Replace(from))
	fmt.Fprintf(&b, "To: %s\r\n", clean.Replace(strings.Join(to, ", ")))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", clean.Replace(subject)))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
