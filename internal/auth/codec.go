package auth

import (
	"errors"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidToken covers every verification failure: malformed token,
// signature mismatch, expired timestamp, or a claim that resolves to
// no user. Callers never learn which check failed.
var ErrInvalidToken = errors.New("invalid token")

// TokenCodec signs and verifies compact tokens carrying an identity
// claim. Issue and Verify are pure functions of claim + secret; no
// server-side state is involved.
//
// Implementations: PasetoCodec (v4.local, encrypted payload) and
// JWTCodec (HS256, visible payload).
type TokenCodec interface {
	Issue(claim []byte) (string, error)
	Verify(token string) ([]byte, error)
}

// keyDerivationSalt is fixed: the derivation only stretches a
// configured secret of arbitrary length into key material, it is not
// a per-record salt.
var keyDerivationSalt = []byte("authgate/token/v1")

// DeriveKey stretches the configured token secret into a 32-byte key.
// A secret that is already 32 bytes is used as-is, so operators can
// supply raw key material directly.
func DeriveKey(secret []byte) []byte {
	if len(secret) == 32 {
		out := make([]byte, 32)
		copy(out, secret)
		return out
	}
	return argon2.IDKey(secret, keyDerivationSalt, 3, 64*1024, 4, 32)
}
