package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("IDENTITY_JWT_SECRET", "")
	t.Setenv("IDENTITY_WEBHOOK_SECRET", "")

	_, err := Load()
	require.ErrorContains(t, err, "IDENTITY_JWT_SECRET")

	t.Setenv("IDENTITY_JWT_SECRET", "jwt-secret")
	_, err = Load()
	require.ErrorContains(t, err, "IDENTITY_WEBHOOK_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IDENTITY_JWT_SECRET", "jwt-secret")
	t.Setenv("IDENTITY_WEBHOOK_SECRET", "whsec_c2VjcmV0")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "convo", cfg.AppName)
	require.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr())
	require.Equal(t, "convo.db", cfg.DatabasePath)
	require.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("IDENTITY_JWT_SECRET", "jwt-secret")
	t.Setenv("IDENTITY_WEBHOOK_SECRET", "whsec_c2VjcmV0")
	t.Setenv("HTTP_HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", "9001")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9001", cfg.HTTPAddr())
	require.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSOrigins)
}
