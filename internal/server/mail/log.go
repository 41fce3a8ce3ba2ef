package mail

import (
	"context"

	"github.com/dmitrijs2005/keybackup/internal/logging"
)

// LogMailer logs reset links instead of sending them. Used in development and
// tests, where a real SES sender identity is not available.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(l logging.Logger) *LogMailer {
	return &LogMailer{logger: l.With("module", "mail")}
}

func (m *LogMailer) SendPasswordResetEmail(ctx context.Context, email string, link string) error {
	m.logger.Info(ctx, "password reset email (not sent)", "email", email, "link", link)
	return nil
}
