package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const pasetoClaimKey = "claim"

// PasetoCodec issues PASETO v4.local tokens. The payload is encrypted
// with XChaCha20-Poly1305, so the embedded claim is unreadable without
// the server key. This is the default codec.
type PasetoCodec struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
}

// NewPasetoCodec builds a codec from the configured secret. ttl of
// zero issues non-expiring tokens.
func NewPasetoCodec(secret []byte, ttl time.Duration) (*PasetoCodec, error) {
	key, err := paseto.V4SymmetricKeyFromBytes(DeriveKey(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoCodec{key: key, ttl: ttl}, nil
}

func (c *PasetoCodec) Issue(claim []byte) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetString(pasetoClaimKey, string(claim))
	if c.ttl > 0 {
		token.SetExpiration(now.Add(c.ttl))
	}

	return token.V4Encrypt(c.key, nil), nil
}

func (c *PasetoCodec) Verify(tokenStr string) ([]byte, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	if c.ttl > 0 {
		parser = paseto.NewParser()
	}

	token, err := parser.ParseV4Local(c.key, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claim, err := token.GetString(pasetoClaimKey)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return []byte(claim), nil
}
