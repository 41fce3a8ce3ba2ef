package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// small parameters to keep the test fast; the logic does not depend on cost
func testHasher() *Hasher {
	return NewHasher(Params{Time: 1, Memory: 8, Threads: 1, KeyLen: 16, SaltLen: 8})
}

func TestHashVerify_RoundTrip(t *testing.T) {
	h := testHasher()

	record, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record, "$argon2id$v="))

	ok, err := h.Verify(record, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_WrongPassword(t *testing.T) {
	h := testHasher()

	record, err := h.Hash("s3cret")
	require.NoError(t, err)

	for _, wrong := range []string{"S3cret", "s3cret ", " s3cret", "other", ""} {
		ok, err := h.Verify(record, wrong)
		require.NoError(t, err)
		assert.False(t, ok, "password %q must not verify", wrong)
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	h := testHasher()

	r1, err := h.Hash("same")
	require.NoError(t, err)
	r2, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, r1, r2)

	ok, err := h.Verify(r2, "same")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_MalformedRecord(t *testing.T) {
	h := testHasher()

	for _, record := range []string{
		"",
		"not-a-record",
		"$argon2i$v=19$m=8,t=1,p=1$c2FsdA$ZGlnZXN0",
		"$argon2id$v=18$m=8,t=1,p=1$c2FsdA$ZGlnZXN0",
		"$argon2id$v=19$m=8,t=1,p=1$!!!$ZGlnZXN0",
		"$argon2id$v=19$m=8,t=1,p=1$c2FsdA$",
	} {
		_, err := h.Verify(record, "whatever")
		assert.ErrorIs(t, err, ErrMalformedHash, "record %q", record)
	}
}

func TestVerify_ParamsFromRecordNotHasher(t *testing.T) {
	// record hashed with one parameter set must verify under a hasher
	// configured with another
	old := NewHasher(Params{Time: 2, Memory: 16, Threads: 1, KeyLen: 24, SaltLen: 8})
	record, err := old.Hash("pw")
	require.NoError(t, err)

	ok, err := testHasher().Verify(record, "pw")
	require.NoError(t, err)
	assert.True(t, ok)
}
