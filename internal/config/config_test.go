package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/charities?sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTTokenTTL)
	assert.Equal(t, 5*time.Second, cfg.OutboundTimeout)
	assert.Equal(t, "https://accounts.google.com", cfg.GoogleIssuer)
	assert.Len(t, cfg.CORSOrigins, 2)
}

func TestLoadMissingRequired(t *testing.T) {
	// t.Setenv registers restore; unset to simulate a missing variable.
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("DATABASE_DSN")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	require.Error(t, err)
}
