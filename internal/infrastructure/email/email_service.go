package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/storelaunch/storelaunch/internal/core/ports"
)

// EmailConfig holds email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyName    string
	BaseURL        string
}

// EmailService sends transactional mail through SendGrid
type EmailService struct {
	config  *EmailConfig
	logger  *logrus.Logger
	client  *sendgrid.Client
	welcome *template.Template
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>Welcome to {{.CompanyName}}, {{.UserName}}!</h2>
  <p>Your account is ready. Head over to your dashboard to launch your first store.</p>
  <p><a href="{{.DashboardURL}}">Open dashboard</a></p>
  <p>— The {{.CompanyName}} team</p>
</body>
</html>`))

// NewEmailService creates a new email service instance
func NewEmailService(config *EmailConfig, logger *logrus.Logger) (ports.EmailService, error) {
	if config == nil || config.SendGridAPIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	return &EmailService{
		config:  config,
		logger:  logger,
		client:  sendgrid.NewSendClient(config.SendGridAPIKey),
		welcome: welcomeTemplate,
	}, nil
}

// WelcomeEmailData holds data for the welcome template
type WelcomeEmailData struct {
	CompanyName  string
	UserName     string
	DashboardURL string
}

// SendWelcomeEmail sends the post-registration welcome email
func (e *EmailService) SendWelcomeEmail(_ context.Context, email, userName string) error {
	data := WelcomeEmailData{
		CompanyName:  e.config.CompanyName,
		UserName:     userName,
		DashboardURL: fmt.Sprintf("%s/dashboard", e.config.BaseURL),
	}

	var buf bytes.Buffer
	if err := e.welcome.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}

	subject := fmt.Sprintf("Welcome to %s", e.config.CompanyName)
	return e.sendEmail(email, subject, buf.String())
}

// sendEmail sends an email using SendGrid
func (e *EmailService) sendEmail(to, subject, htmlContent string) error {
	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.Send(message)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"error":   err,
		}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"to":          to,
		"subject":     subject,
		"status_code": response.StatusCode,
	}).Info("Email sent successfully")

	return nil
}
