// Package mail dispatches password-reset emails. The core only cares about
// the event "a reset email was sent to address X with link Y"; the transport
// behind it is SES in production and a logger in development.
package mail

import "context"

// Mailer sends account-related emails.
type Mailer interface {
	// SendPasswordResetEmail sends a reset email to email containing link.
	SendPasswordResetEmail(ctx context.Context, email string, link string) error
}
