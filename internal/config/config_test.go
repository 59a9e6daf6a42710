package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, StoreFile, cfg.Store.Driver)
	assert.Equal(t, "db.json", cfg.Store.Path)
	assert.Equal(t, CodecPaseto, cfg.Token.Codec)
	assert.Equal(t, []byte("secret"), cfg.Token.Secret)
	assert.Equal(t, time.Duration(0), cfg.Token.TTL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "another secret")
	t.Setenv("TOKEN_CODEC", "jwt")
	t.Setenv("TOKEN_TTL", "3600")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "users")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("TRUSTED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, CodecJWT, cfg.Token.Codec)
	assert.Equal(t, time.Hour, cfg.Token.TTL)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Contains(t, cfg.Store.ConnectionString(), "host=db.internal")
	assert.Contains(t, cfg.Store.ConnectionString(), "dbname=users")
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Address())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.TrustedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown store driver", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "secret")
		t.Setenv("STORE_DRIVER", "mongodb")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown token codec", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "secret")
		t.Setenv("TOKEN_CODEC", "fernet")
		_, err := Load()
		assert.Error(t, err)
	})
}
