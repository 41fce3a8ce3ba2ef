// Package users implements account storage, credential verification, and the
// password-reset workflow.
package users

import (
	"context"

	"github.com/dmitrijs2005/keybackup/internal/server/models"
)

// Repository persists account records keyed by email. Implementations expect
// the email to be normalized (trimmed, lower-cased) by the caller.
type Repository interface {
	// Create stores a fresh record for email. Returns common.ErrAlreadyExists
	// when a record for email is already present.
	Create(ctx context.Context, email string, user *models.User) error

	// Fetch returns the record for email, or (nil, nil) when the email was
	// never registered.
	Fetch(ctx context.Context, email string) (*models.User, error)

	// Save overwrites the full record for email. Idempotent.
	Save(ctx context.Context, email string, user *models.User) error
}
