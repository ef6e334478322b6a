package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventcatalog/internal/domain"
)

const signUpConfirmationTemplate = "signup_confirmation"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendSignUpConfirmation renders the "signup_confirmation" template and mails it to the attendee.
func (s *emailService) SendSignUpConfirmation(ctx context.Context, data *domain.SignUpConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("sign-up confirmation data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("sign-up confirmation: recipient email is empty")
	}
	subject, htmlBody, textBody, err := s.renderer.Render(signUpConfirmationTemplate, data)
	if err != nil {
		return fmt.Errorf("render sign-up confirmation template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send sign-up confirmation email: %w", err)
	}
	s.logger.InfoContext(ctx, "sign-up confirmation sent", "to", data.Email, "title", data.Title)
	return nil
}
