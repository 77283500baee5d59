// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/your-org/gardenops-backend/internal/config"
)

// Service handles all email operations
type Service struct {
	config   *config.Config
	template *template.Template
	client   *http.Client
}

// NewService creates a new email service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config:   cfg,
		template: template.Must(template.New("notification").Parse(notificationTemplate)),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendEmail sends an email using the configured provider
func (s *Service) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.External.Email.Provider {
	case "smtp":
		return s.sendSMTPEmail(email)
	case "resend":
		return s.sendResendEmail(email)
	case "sendgrid":
		return s.sendSendGridEmail(email)
	case "mailersend":
		return s.sendMailerSendEmail(email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.External.Email.Provider)
	}
}

// SendNotificationEmail wraps a rendered notification message in the
// shared HTML layout and delivers it. Satisfies the notifier's email
// channel.
func (s *Service) SendNotificationEmail(ctx context.Context, to, name, subject, body string) error {
	htmlContent, err := s.renderLayout(name, subject, body)
	if err != nil {
		return fmt.Errorf("failed to render notification email: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{to},
		Subject:     subject,
		HTMLContent: htmlContent,
		TextContent: body,
		Type:        EmailTypeNotification,
	})
}

// renderLayout wraps title and body in the company email layout
func (s *Service) renderLayout(name, title, body string) (string, error) {
	data := struct {
		CompanyName string
		Website     string
		UserName    string
		Title       string
		Body        string
		Year        int
	}{
		CompanyName: s.config.External.Company.Name,
		Website:     s.config.External.Company.Website,
		UserName:    name,
		Title:       title,
		Body:        body,
		Year:        time.Now().Year(),
	}

	var buf bytes.Buffer
	if err := s.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute notification template: %w", err)
	}
	return buf.String(), nil
}

const notificationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.CompanyName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f0f4ef;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #4a7c3f;">{{.CompanyName}}</h1>
        {{if .UserName}}<p>Hello {{.UserName}},</p>{{end}}
        <h2 style="color: #333; font-size: 16px;">{{.Title}}</h2>
        <p>{{.Body}}</p>
        <p>Best regards,<br>{{.CompanyName}} Team</p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            &copy; {{.Year}} {{.CompanyName}}. All rights reserved.
            {{if .Website}}<br><a href="{{.Website}}">{{.Website}}</a>{{end}}
        </p>
    </div>
</body>
</html>`
