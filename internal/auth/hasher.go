package auth

import (
	"crypto/sha512"
	"encoding/hex"
)

// CredentialHasher turns a plaintext password into a storable digest.
// Implementations must be deterministic: token resolution re-hashes
// the embedded claim and looks the user up by the resulting digest,
// which only works when equal inputs produce equal outputs.
type CredentialHasher interface {
	Hash(plaintext string) string
}

// SHA512Hasher is a plain, unsalted SHA-512 hex digest. Identical
// passwords therefore produce identical digests across users; see the
// README for why this weakness is kept rather than fixed.
type SHA512Hasher struct{}

func NewSHA512Hasher() SHA512Hasher {
	return SHA512Hasher{}
}

func (SHA512Hasher) Hash(plaintext string) string {
	sum := sha512.Sum512([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
