package ports

import "context"

// EmailService defines the interface for outbound email
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, email, userName string) error
}
