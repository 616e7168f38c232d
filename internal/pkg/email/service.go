// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
)

// EmailService renders and delivers transactional mail
type EmailService struct {
	config *config.Config
	logger logrus.FieldLogger
	send   func(email *Email) error
}

// NewEmailService creates an email service for the configured provider
func NewEmailService(cfg *config.Config, logger logrus.FieldLogger) *EmailService {
	s := &EmailService{
		config: cfg,
		logger: logger.WithField("component", "email"),
	}

	switch strings.ToLower(cfg.Email.Provider) {
	case "smtp":
		s.send = s.sendSMTPEmail
	default:
		s.send = s.logEmail
	}

	return s
}

// SendPasswordReset mails a recovery link carrying token
func (s *EmailService) SendPasswordReset(to, userName, token string) error {
	data := passwordResetData{
		templateData: s.baseData(to, userName),
		ResetURL:     fmt.Sprintf("%s/admin/reset-password?token=%s", strings.TrimRight(s.config.App.BaseURL, "/"), url.QueryEscape(token)),
		ExpiresIn:    s.config.JWT.RecoveryExpiry.String(),
	}

	html, err := render(passwordResetTemplate, data)
	if err != nil {
		return err
	}

	return s.Send(&Email{
		To:          []string{to},
		Subject:     fmt.Sprintf("Reset your %s password", s.config.App.Name),
		HTMLContent: html,
		Type:        EmailTypePasswordReset,
	})
}

// SendWelcome greets a newly registered user
func (s *EmailService) SendWelcome(to, userName string) error {
	data := welcomeData{
		templateData: s.baseData(to, userName),
		LoginURL:     strings.TrimRight(s.config.App.BaseURL, "/") + s.config.Server.LoginPath,
	}

	html, err := render(welcomeTemplate, data)
	if err != nil {
		return err
	}

	return s.Send(&Email{
		To:          []string{to},
		Subject:     fmt.Sprintf("Welcome to %s", s.config.App.Name),
		HTMLContent: html,
		Type:        EmailTypeWelcome,
	})
}

// Send delivers an already rendered email
func (s *EmailService) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	if err := s.send(email); err != nil {
		return fmt.Errorf("failed to send %s email: %w", email.Type, err)
	}

	s.logger.WithFields(logrus.Fields{
		"type": email.Type,
		"to":   strings.Join(email.To, ","),
	}).Info("email sent")
	return nil
}

// logEmail is the development provider: the message is only logged
func (s *EmailService) logEmail(email *Email) error {
	s.logger.WithFields(logrus.Fields{
		"type":    email.Type,
		"to":      strings.Join(email.To, ","),
		"subject": email.Subject,
	}).Debug(email.HTMLContent)
	return nil
}

func (s *EmailService) baseData(to, userName string) templateData {
	return templateData{
		SiteName:  s.config.App.Name,
		SiteURL:   s.config.App.BaseURL,
		UserName:  userName,
		UserEmail: to,
		Year:      time.Now().Year(),
	}
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Hi {{.UserName}},</h2>
    <p>We received a request to reset the password of your {{.SiteName}} account ({{.UserEmail}}).</p>
    <p><a href="{{.ResetURL}}" style="background:#222;color:#fff;padding:10px 18px;text-decoration:none;">Choose a new password</a></p>
    <p>The link expires in {{.ExpiresIn}}. If you did not ask for it, ignore this email.</p>
    <p style="font-size:12px;color:#999;">&copy; {{.Year}} {{.SiteName}}</p>
</body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Welcome, {{.UserName}}!</h2>
    <p>Your {{.SiteName}} account ({{.UserEmail}}) is ready.</p>
    <p><a href="{{.LoginURL}}">Sign in</a></p>
    <p style="font-size:12px;color:#999;">&copy; {{.Year}} {{.SiteName}}</p>
</body>
</html>`))
