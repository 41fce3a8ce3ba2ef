package users

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/dmitrijs2005/keybackup/internal/common"
	"github.com/dmitrijs2005/keybackup/internal/logging"
	"github.com/dmitrijs2005/keybackup/internal/server/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

// fakeHasher avoids argon2 cost in service tests; hashing correctness is
// covered in cryptox.
type fakeHasher struct {
	hashErr   error
	verifyErr error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Verify(record, password string) (bool, error) {
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	return record == "hashed:"+password, nil
}

type captureMailer struct {
	emails []string
	links  []string
	err    error
}

func (m *captureMailer) SendPasswordResetEmail(ctx context.Context, email, link string) error {
	if m.err != nil {
		return m.err
	}
	m.emails = append(m.emails, email)
	m.links = append(m.links, link)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestService(t *testing.T) (*Service, *BlobRepository, *captureMailer) {
	t.Helper()
	repo := NewBlobRepository(blob.NewMemoryStore())
	mailer := &captureMailer{}
	svc := NewService(repo, &fakeHasher{}, mailer, "https://kb.example.org/", testLogger())
	return svc, repo, mailer
}

// --- tests ---

func TestRegister_DuplicateFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	require.NoError(t, svc.Register(ctx, "a@b.com", "p1"))

	err := svc.Register(ctx, "a@b.com", "different")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	// case-insensitive: the upper-cased variant is the same account
	err = svc.Register(ctx, "A@B.COM", "p2")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestAuthenticate_Flows(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	require.NoError(t, svc.Register(ctx, "a@b.com", "p1"))

	// unknown account → unauthorized
	_, err := svc.Authenticate(ctx, "ghost@b.com", "p1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// wrong password → unauthorized
	_, err = svc.Authenticate(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// empty credentials after trimming → unauthorized
	_, err = svc.Authenticate(ctx, "   ", "p1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = svc.Authenticate(ctx, "a@b.com", "  ")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// success returns the normalized principal
	principal, err := svc.Authenticate(ctx, "  A@B.com ", "p1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", principal)
}

func TestAuthenticate_HasherFailureIsNotUnauthorized(t *testing.T) {
	ctx := context.Background()
	repo := NewBlobRepository(blob.NewMemoryStore())
	svc := NewService(repo, &fakeHasher{verifyErr: errors.New("malformed record")}, &captureMailer{}, "https://kb.example.org", testLogger())

	require.NoError(t, svc.Register(ctx, "a@b.com", "p1"))

	_, err := svc.Authenticate(ctx, "a@b.com", "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrUnauthorized)
}

func TestIssueReset_UnknownEmailSilentNoop(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemoryStore()
	repo := NewBlobRepository(store)
	mailer := &captureMailer{}
	svc := NewService(repo, &fakeHasher{}, mailer, "https://kb.example.org", testLogger())

	require.NoError(t, svc.IssueReset(ctx, "ghost@b.com"))

	assert.Empty(t, mailer.emails, "no mail for unknown email")
	keys, err := store.ListKeys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys, "no storage mutation for unknown email")
}

func TestIssueReset_StoresCodeAndSendsLink(t *testing.T) {
	ctx := context.Background()
	svc, repo, mailer := newTestService(t)

	require.NoError(t, svc.Register(ctx, "a+c@b.com", "p1"))
	require.NoError(t, svc.IssueReset(ctx, "a+c@b.com"))

	user, err := repo.Fetch(ctx, "a+c@b.com")
	require.NoError(t, err)
	require.True(t, user.ResetPending())
	assert.Len(t, user.ResetCode, 64, "32 random bytes, hex-encoded")

	require.Len(t, mailer.links, 1)
	link := mailer.links[0]
	assert.True(t, strings.HasPrefix(link, "https://kb.example.org/password/reset.html?"), link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "a+c@b.com", u.Query().Get("email"))
	assert.Equal(t, user.ResetCode, u.Query().Get("reset_code"))
}

func TestConsumeReset_SingleUse(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	require.NoError(t, svc.Register(ctx, "a@b.com", "p1"))
	require.NoError(t, svc.IssueReset(ctx, "a@b.com"))

	user, err := repo.Fetch(ctx, "a@b.com")
	require.NoError(t, err)
	code := user.ResetCode

	require.NoError(t, svc.ConsumeReset(ctx, "a@b.com", code, "p2"))

	// old password no longer authenticates, new one does
	_, err = svc.Authenticate(ctx, "a@b.com", "p1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	principal, err := svc.Authenticate(ctx, "a@b.com", "p2")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", principal)

	// the code is permanently consumed
	err = svc.ConsumeReset(ctx, "a@b.com", code, "p3")
	assert.ErrorIs(t, err, common.ErrInvalidResetCode)
}

func TestConsumeReset_Failures(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	require.NoError(t, svc.Register(ctx, "a@b.com", "p1"))

	// no account
	err := svc.ConsumeReset(ctx, "ghost@b.com", "code", "p2")
	assert.ErrorIs(t, err, common.ErrInvalidAccount)

	// no pending reset: empty submitted code must not match the absent one
	err = svc.ConsumeReset(ctx, "a@b.com", "", "p2")
	assert.ErrorIs(t, err, common.ErrInvalidResetCode)

	require.NoError(t, svc.IssueReset(ctx, "a@b.com"))

	// wrong code leaves the pending state unchanged
	err = svc.ConsumeReset(ctx, "a@b.com", "wrong", "p2")
	assert.ErrorIs(t, err, common.ErrInvalidResetCode)

	user, err := repo.Fetch(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, user.ResetPending())

	// old password still works
	_, err = svc.Authenticate(ctx, "a@b.com", "p1")
	assert.NoError(t, err)
}

func TestIssueReset_ReissueReplacesCode(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	require.NoError(t, svc.Register(ctx, "a@b.com", "p1"))
	require.NoError(t, svc.IssueReset(ctx, "a@b.com"))

	first, err := repo.Fetch(ctx, "a@b.com")
	require.NoError(t, err)

	require.NoError(t, svc.IssueReset(ctx, "a@b.com"))

	second, err := repo.Fetch(ctx, "a@b.com")
	require.NoError(t, err)
	assert.NotEqual(t, first.ResetCode, second.ResetCode)

	// the overwritten code is dead
	err = svc.ConsumeReset(ctx, "a@b.com", first.ResetCode, "p2")
	assert.ErrorIs(t, err, common.ErrInvalidResetCode)
}
