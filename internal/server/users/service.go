package users

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/keybackup/internal/common"
	"github.com/dmitrijs2005/keybackup/internal/logging"
	"github.com/dmitrijs2005/keybackup/internal/server/mail"
	"github.com/dmitrijs2005/keybackup/internal/server/models"
)

// resetCodeBytes is the entropy of a reset code before hex encoding.
const resetCodeBytes = 32

// Hasher hashes and verifies passwords against opaque serialized records.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(record string, password string) (bool, error)
}

// Service provides account operations:
//   - Register: create accounts
//   - Authenticate: verify Basic-Auth credentials for a request
//   - IssueReset / ConsumeReset: the single-use password-reset workflow
type Service struct {
	repo    Repository
	hasher  Hasher
	mailer  mail.Mailer
	baseURL string
	logger  logging.Logger
}

// NewService constructs a Service. baseURL is the externally reachable root
// of the service, used to build reset links.
func NewService(repo Repository, hasher Hasher, mailer mail.Mailer, baseURL string, logger logging.Logger) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With("module", "users"),
	}
}

// NormalizeEmail trims and lower-cases email. Emails are case-insensitive
// throughout the service and always keyed in lower case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account. Returns common.ErrAlreadyExists when the
// email is already registered, regardless of password.
func (s *Service) Register(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.repo.Create(ctx, email, &models.User{PasswordHash: hash}); err != nil {
		return err
	}

	s.logger.Info(ctx, "account registered", "email", email)
	return nil
}

// Authenticate verifies email/password credentials and returns the
// authenticated principal (the normalized email). An unknown account and a
// wrong password both yield common.ErrUnauthorized, so the response shape
// does not reveal whether the email is registered.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return "", common.ErrUnauthorized
	}

	user, err := s.repo.Fetch(ctx, email)
	if err != nil {
		return "", fmt.Errorf("fetching account: %w", err)
	}
	if user == nil {
		return "", common.ErrUnauthorized
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		// malformed hash record is a backend failure, not a bad password
		return "", fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return "", common.ErrUnauthorized
	}

	return email, nil
}

// IssueReset starts a password reset for email. For an unregistered email it
// silently succeeds without touching storage or sending mail, to avoid
// leaking which addresses hold accounts. Issuing again before the previous
// code is consumed replaces it.
func (s *Service) IssueReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	user, err := s.repo.Fetch(ctx, email)
	if err != nil {
		return fmt.Errorf("fetching account: %w", err)
	}
	if user == nil {
		s.logger.Info(ctx, "reset requested for unknown email, not sending", "email", email)
		return nil
	}

	code, err := common.MakeRandHexString(resetCodeBytes)
	if err != nil {
		return fmt.Errorf("generating reset code: %w", err)
	}

	user.ResetCode = code
	if err := s.repo.Save(ctx, email, user); err != nil {
		return err
	}

	link := s.baseURL + "/password/reset.html?email=" + url.QueryEscape(email) + "&reset_code=" + url.QueryEscape(code)
	if err := s.mailer.SendPasswordResetEmail(ctx, email, link); err != nil {
		return fmt.Errorf("dispatching reset email: %w", err)
	}

	s.logger.Info(ctx, "reset email dispatched", "email", email)
	return nil
}

// ConsumeReset completes a pending reset: on an exact match of code against
// the stored reset code it hashes newPassword, clears the code, and persists
// the record. The code is single-use; after success the same code fails with
// common.ErrInvalidResetCode. A wrong code leaves the pending state intact.
func (s *Service) ConsumeReset(ctx context.Context, email, code, newPassword string) error {
	email = NormalizeEmail(email)

	user, err := s.repo.Fetch(ctx, email)
	if err != nil {
		return fmt.Errorf("fetching account: %w", err)
	}
	if user == nil {
		return common.ErrInvalidAccount
	}
	// exact string equality, no normalization; an absent code never matches
	if !user.ResetPending() || user.ResetCode != code {
		return common.ErrInvalidResetCode
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user.PasswordHash = hash
	user.ResetCode = ""
	if err := s.repo.Save(ctx, email, user); err != nil {
		return err
	}

	s.logger.Info(ctx, "password reset completed", "email", email)
	return nil
}
