package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// SignUpConfirmationEmailData holds data for the sign-up confirmation email.
type SignUpConfirmationEmailData struct {
	Email     string
	Name      string
	EventType string
	Title     string
	Host      string
	DateTime  string
	Platform  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendSignUpConfirmation(ctx context.Context, data *SignUpConfirmationEmailData) error
}
