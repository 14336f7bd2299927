package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1200, cfg.RequestDelayMs)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 15, cfg.TimeoutSeconds)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	require.Contains(t, cfg.Providers, "espn")
	assert.Equal(t, AuthNone, cfg.Providers["espn"].AuthType)
}

func TestLoadProviderOverrides(t *testing.T) {
	t.Setenv("PROVIDER_SPORTSDATA_BASE_URL", "https://api.sportsdata.example")
	t.Setenv("PROVIDER_SPORTSDATA_API_KEY", "secret")
	t.Setenv("PROVIDER_SPORTSDATA_AUTH_TYPE", "api_key_header")
	t.Setenv("PROVIDER_SPORTSDATA_AUTH_HEADER", "Ocp-Apim-Subscription-Key")
	t.Setenv("PROVIDER_SPORTSDATA_REQUEST_DELAY_MS", "2500")
	t.Setenv("PROVIDER_SPORTSDATA_HEADERS", "Accept: application/json, X-Trace: on")

	cfg, err := Load()
	require.NoError(t, err)

	p := cfg.Providers["sportsdata"]
	assert.Equal(t, "https://api.sportsdata.example", p.BaseURL)
	assert.Equal(t, AuthAPIKeyHeader, p.AuthType)
	assert.Equal(t, "Ocp-Apim-Subscription-Key", p.AuthHeaderName)
	assert.Equal(t, 2500, p.RequestDelayMs)
	assert.Equal(t, "application/json", p.Headers["Accept"])
	assert.Equal(t, "on", p.Headers["X-Trace"])
	assert.Equal(t, 2500*time.Millisecond, cfg.RequestDelay("sportsdata"))
	assert.Equal(t, 1200*time.Millisecond, cfg.RequestDelay("espn"))
}

func TestLoadRejectsUnknownAuthType(t *testing.T) {
	t.Setenv("PROVIDER_ESPN_AUTH_TYPE", "hmac")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported auth type")
}

func TestLoadRequiresHeaderNameForAPIKeyAuth(t *testing.T) {
	t.Setenv("PROVIDER_PFR_AUTH_TYPE", "api_key_header")

	_, err := Load()
	require.Error(t, err)
}
