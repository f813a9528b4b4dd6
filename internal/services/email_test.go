package services

import (
	"errors"
	"mime"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridgeway_site_echo/internal/config"
)

func TestBuildMessage(t *testing.T) {
	now := time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)
	msg := string(buildMessage(
		"website@example.org",
		[]string{"a@example.org", "b@example.org"},
		"Hello\r\nBcc: evil@example.org",
		"line one\nline two",
		now,
	))

	assert.True(t, strings.HasPrefix(msg, "From: website@example.org\r\n"))
	assert.Contains(t, msg, "To: a@example.org, b@example.org\r\n")
	assert.Contains(t, msg, "Subject: Hello  Bcc: evil@example.org\r\n")
	assert.NotContains(t, msg, "\r\nBcc:")
	assert.Contains(t, msg, "Date: Mon, 01 Jul 2024 09:30:00 +0000\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\nContent-Transfer-Encoding: 8bit\r\n\r\nline one\r\nline two\r\n")
}

func TestBuildMessageEncodesNonASCIISubject(t *testing.T) {
	tests := []string{
		"New volunteer enquiry from Mai Nguyễn",
		"New volunteer enquiry from 李伟",
		"New volunteer enquiry from أمينة",
	}

	for _, subject := range tests {
		t.Run(subject, func(t *testing.T) {
			msg := string(buildMessage("website@example.org", []string{"a@example.org"}, subject, "Xin chào", time.Now()))
			headers, body, found := strings.Cut(msg, "\r\n\r\n")
			require.True(t, found)

			var line string
			for _, h := range strings.Split(headers, "\r\n") {
				if strings.HasPrefix(h, "Subject: ") {
					line = strings.TrimPrefix(h, "Subject: ")
				}
			}
			for _, r := range line {
				assert.Less(t, r, rune(128), "subject header must be ASCII: %q", line)
			}

			decoded, err := new(mime.WordDecoder).DecodeHeader(line)
			require.NoError(t, err)
			assert.Equal(t, subject, decoded)
			// The body stays raw UTF-8 under the 8bit transfer encoding.
			assert.Equal(t, "Xin chào\r\n", body)
		})
	}
}

func TestSendEmail(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.SMTPConfig
		sendErr  error
		wantErr  error
		wantAuth bool
		sent     bool
	}{
		{
			name:    "not configured",
			cfg:     config.SMTPConfig{Port: "587"},
			wantErr: ErrSMTPNotConfigured,
		},
		{
			name: "local relay without auth",
			cfg:  config.SMTPConfig{Host: "localhost", Port: "25", From: "site@example.org"},
			sent: true,
		},
		{
			name:     "authenticated",
			cfg:      config.SMTPConfig{Host: "smtp.example.org", Port: "587", User: "u", Password: "p", From: "site@example.org"},
			wantAuth: true,
			sent:     true,
		},
		{
			name:    "send failure wrapped",
			cfg:     config.SMTPConfig{Host: "smtp.example.org", Port: "587", From: "site@example.org"},
			sendErr: errors.New("connection refused"),
			sent:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEmailService(tt.cfg)
			var (
				called  bool
				gotAddr string
				gotAuth smtp.Auth
				gotFrom string
				gotTo   []string
			)
			svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
				called = true
				gotAddr, gotAuth, gotFrom, gotTo = addr, a, from, to
				return tt.sendErr
			}

			err := svc.SendEmail([]string{"coordinator@example.org"}, "Subject", "Body")
			assert.Equal(t, tt.sent, called)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.sendErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.sendErr)
				assert.Contains(t, err.Error(), "failed to send email")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.cfg.Host+":"+tt.cfg.Port, gotAddr)
				assert.Equal(t, tt.cfg.From, gotFrom)
				assert.Equal(t, []string{"coordinator@example.org"}, gotTo)
				assert.Equal(t, tt.wantAuth, gotAuth != nil)
			}
		})
	}
}
