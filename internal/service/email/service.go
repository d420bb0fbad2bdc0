package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/domain"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config holds email service configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	// From email address
	FromEmail string
	FromName  string

	// Clinician inbox receiving consultation summaries
	ToEmail string

	// SendGrid configuration
	SendGridAPIKey string

	// SMTP configuration (for Mailhog or other SMTP servers)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
}

// DefaultConfig returns a default configuration for development (Mailhog)
func DefaultConfig() *Config {
	return &Config{
		Provider:   "smtp",
		FromEmail:  "noreply@arogya-bot.in",
		FromName:   "Arogya Bot",
		SMTPHost:   "localhost",
		SMTPPort:   1025, // Mailhog default port
		SMTPUseTLS: false,
	}
}

// Service emails a summary of each completed consultation to the configured
// clinician inbox. It implements ports.Notifier; delivery is best effort and
// never blocks the conversation outcome.
type Service struct {
	config   *Config
	provider Provider
	tmpl     *template.Template
	log      *zap.Logger
}

// NewService creates a new email service
func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Service{
		config: config,
		tmpl:   template.Must(template.New("consultation").Parse(consultationTemplate)),
		log:    log,
	}

	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	return s, nil
}

// ConsultationCompleted sends the consultation summary email.
func (s *Service) ConsultationCompleted(ctx context.Context, rec *domain.ConsultationRecord) error {
	if s.config.ToEmail == "" {
		return nil
	}

	data := map[string]interface{}{
		"ID":        rec.ID,
		"Name":      rec.Name,
		"Age":       rec.Age,
		"Phone":     rec.Phone,
		"Gender":    rec.Gender,
		"Language":  rec.Language,
		"Symptoms":  rec.Symptoms,
		"Advice":    rec.Advice,
		"CreatedAt": rec.CreatedAt.Format("2006-01-02 15:04:05 MST"),
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("New consultation: %s (%s)", rec.Name, rec.Language)

	s.log.Info("Sending consultation notification",
		zap.String("to", s.config.ToEmail),
		zap.String("consultation_id", rec.ID),
	)

	if err := s.provider.Send(ctx, s.config.ToEmail, subject, buf.String(), true); err != nil {
		s.log.Error("Failed to send consultation notification",
			zap.String("consultation_id", rec.ID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
