// Package cryptox implements password hashing for account credentials.
//
// Hashes are produced with Argon2id, a deliberately slow and memory-hard
// algorithm, and serialized as self-contained records in the standard PHC
// format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<base64 salt>$<base64 digest>
//
// The record carries the salt and every cost parameter, so it can be stored
// as an opaque string inside a user record and verified later even after the
// server's default parameters change.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/keybackup/internal/common"
	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash reports a hash record that cannot be parsed. It is a
// backend failure, never a "wrong password" outcome.
var ErrMalformedHash = errors.New("malformed password hash record")

// Params holds the tunable Argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultParams mirrors the parameters the rest of the project uses for key
// derivation: 64 MiB memory, 1 pass, 4 lanes, 32-byte digest.
func DefaultParams() Params {
	return Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}
}

// Hasher hashes and verifies passwords with a fixed set of parameters.
// Safe for concurrent use.
type Hasher struct {
	params Params
}

func NewHasher(p Params) *Hasher {
	return &Hasher{params: p}
}

// Hash derives a fresh salted Argon2id digest of password and returns the
// encoded record. Two calls with the same password produce different records.
func (h *Hasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(int(h.params.SaltLen))
	digest := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	record := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest))

	return record, nil
}

// Verify recomputes the digest of password using the salt and cost parameters
// stored in record and compares in constant time. A malformed record is an
// error; a mismatched password is (false, nil).
func (h *Hasher) Verify(record string, password string) (bool, error) {
	salt, digest, p, err := decodeRecord(record)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(digest)))

	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}

func decodeRecord(record string) (salt, digest []byte, p Params, err error) {
	parts := strings.Split(record, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, p, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, p, ErrMalformedHash
	}
	if version != argon2.Version {
		return nil, nil, p, fmt.Errorf("%w: unsupported argon2 version %d", ErrMalformedHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return nil, nil, p, ErrMalformedHash
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, p, ErrMalformedHash
	}
	digest, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, p, ErrMalformedHash
	}
	if len(digest) == 0 {
		return nil, nil, p, ErrMalformedHash
	}

	return salt, digest, p, nil
}
