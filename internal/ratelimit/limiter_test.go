package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Redis-backed behavior is covered by integration environments; the
// disabled limiter must be a strict no-op so the service runs without
// Redis.
func TestDisabledLimiter(t *testing.T) {
	t.Parallel()

	limiter := NewDisabledLimiter()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.RecordIPRequest(ctx, "10.0.0.1", "login"))

		exceeded, err := limiter.CheckIPRateLimit(ctx, "10.0.0.1", "login")
		require.NoError(t, err)
		assert.False(t, exceeded)
	}
}
