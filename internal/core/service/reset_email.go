package service

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/projectlv/accounts/internal/core/ports"
)

const resetEmailSubject = "Password Reset - Project LV"

var resetEmailTmpl = template.Must(template.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Password Reset Request</h2>
  <p>Hello {{.Fullname}},</p>
  <p>You requested a password reset for your Project LV account.</p>
  <p>Click the button below to reset your password:</p>
  <a href="{{.Link}}" style="display: inline-block; background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; margin: 20px 0;">Reset Password</a>
  <p>Or copy and paste this link in your browser:</p>
  <p style="word-break: break-all; color: #666;">{{.Link}}</p>
  <p style="color: #999; font-size: 12px;">This link will expire in {{.ExpiresIn}}.</p>
  <p style="color: #999; font-size: 12px;">If you didn't request this, please ignore this email.</p>
</div>`))

type resetEmailData struct {
	Fullname  string
	Link      string
	ExpiresIn string
}

// resetLink appends the reset path and token to the front-end base URL.
func resetLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	}
	return d.String()
}

func composeResetEmail(to, fullname, link string, ttl time.Duration) (ports.EmailMessage, error) {
	var buf bytes.Buffer
	err := resetEmailTmpl.Execute(&buf, resetEmailData{
		Fullname:  fullname,
		Link:      link,
		ExpiresIn: humanDuration(ttl),
	})
	if err != nil {
		return ports.EmailMessage{}, fmt.Errorf("render reset email: %w", err)
	}
	return ports.EmailMessage{To: to, Subject: resetEmailSubject, HTML: buf.String()}, nil
}
