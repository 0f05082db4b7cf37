package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendkit/sendkit/pkg/observability"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SENDKIT_OIDC_ISSUER_URL", "https://issuer.example.com")
	t.Setenv("SENDKIT_POSTGRES_URL", "postgres://localhost/sendkit")
	t.Setenv("SENDKIT_SECRET_KEY", strings.Repeat("k", 32))
}

func TestLoadConfig_Defaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.OpsPort)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, observability.InfoLevel, cfg.LogLevel)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SENDKIT_PORT", "8888")
	t.Setenv("SENDKIT_READ_TIMEOUT", "5s")
	t.Setenv("SENDKIT_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8888", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, observability.DebugLevel, cfg.LogLevel)
}

func TestLoadConfig_MissingSecretKeyIsFatal(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SENDKIT_SECRET_KEY", "")

	cfg, err := LoadConfig()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SENDKIT_SECRET_KEY")
}

func TestLoadConfig_ShortSecretKeyIsFatal(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SENDKIT_SECRET_KEY", strings.Repeat("k", 31))

	cfg, err := LoadConfig()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestLoadConfig_MissingIssuer(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SENDKIT_OIDC_ISSUER_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SENDKIT_OIDC_ISSUER_URL")
}

func TestValidate_PortClash(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SENDKIT_PORT", "9090")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be different")
}
