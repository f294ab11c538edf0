package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"PATTERNHUB_PRIMARY.ENV":                     "test",
		"PATTERNHUB_SERVER.PORT":                     "8080",
		"PATTERNHUB_SERVER.READ_TIMEOUT":             "30",
		"PATTERNHUB_SERVER.WRITE_TIMEOUT":            "30",
		"PATTERNHUB_SERVER.IDLE_TIMEOUT":             "60",
		"PATTERNHUB_SERVER.CORS_ALLOWED_ORIGINS":     "http://localhost:3000",
		"PATTERNHUB_DATABASE.HOST":                   "localhost",
		"PATTERNHUB_DATABASE.PORT":                   "5432",
		"PATTERNHUB_DATABASE.USER":                   "postgres",
		"PATTERNHUB_DATABASE.PASSWORD":               "postgres",
		"PATTERNHUB_DATABASE.NAME":                   "patternhub",
		"PATTERNHUB_DATABASE.SSL_MODE":               "disable",
		"PATTERNHUB_DATABASE.MAX_OPEN_CONNS":         "25",
		"PATTERNHUB_DATABASE.MAX_IDLE_CONNS":         "25",
		"PATTERNHUB_DATABASE.CONN_MAX_LIFETIME":      "300",
		"PATTERNHUB_DATABASE.CONN_MAX_IDLE_TIME":     "300",
		"PATTERNHUB_REDIS.ADDRESS":                   "localhost:6379",
		"PATTERNHUB_AUTH.SECRET_KEY":                 "sk_test_123",
		"PATTERNHUB_AUTH.SESSION_SECRET":             "0123456789abcdef0123456789abcdef",
		"PATTERNHUB_INTEGRATION.RESEND_API_KEY":      "re_test",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
	t.Setenv("PATTERNHUB_INTEGRATION.CONSULTING_NOTIFY_EMAIL", "sales@patternhub.dev")
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "test", cfg.Observability.Environment)
	require.NotNil(t, cfg.RateLimit)
	assert.Equal(t, 5, cfg.RateLimit.Waitlist.Limit)
	assert.Equal(t, time.Hour, cfg.RateLimit.Waitlist.Window)
	assert.Equal(t, DefaultSessionMaxAge, cfg.Auth.SessionMaxAge)
	assert.Equal(t, DefaultEmailFrom, cfg.Integration.EmailFrom)
}

func TestLoadConfig_PartialRateLimitKeepsDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PATTERNHUB_RATE_LIMIT.WAITLIST.LIMIT", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.RateLimit.Disabled)
	assert.Equal(t, 10, cfg.RateLimit.Waitlist.Limit)
	assert.Equal(t, time.Hour, cfg.RateLimit.Waitlist.Window)
	assert.Equal(t, 3, cfg.RateLimit.Consulting.Limit)
}

func TestLoadConfig_ShortSessionSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PATTERNHUB_AUTH.SESSION_SECRET", "short")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SessionSecret")
}

func TestObservabilityConfig_Validate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.SlowQueryThreshold = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Logging.Level = "warn"
	assert.Equal(t, "warn", cfg.GetLogLevel())
}

func TestObservabilityConfig_HasCheck(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HasCheck("redis"))
	assert.False(t, cfg.HasCheck("kafka"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HasCheck("database"))
}
