package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"EVENT_DATA_FILE", "EVENT_STORE_BACKEND", "DATABASE_URL", "SEARCH_THRESHOLD",
	"EMAIL_PROVIDER", "EMAIL_FROM_ADDRESS", "EMAIL_FROM_NAME",
	"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "SES_INSECURE_SKIP_VERIFY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GO_ENV", "production")
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "EventFile.txt", cfg.DataFile)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, defaultDBUrl, cfg.DBUrl)
	assert.Equal(t, 0.75, cfg.SearchThreshold)
	assert.Equal(t, MailConfig{Provider: "noop", FromAddress: "events@localhost", FromName: "Event Catalog"}, cfg.Mail)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("EVENT_DATA_FILE", "/var/lib/events.txt")
	t.Setenv("EVENT_STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://db/events")
	t.Setenv("SEARCH_THRESHOLD", "0.6")
	t.Setenv("EMAIL_PROVIDER", "SES")
	t.Setenv("EMAIL_FROM_ADDRESS", "noreply@example.com")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("SES_INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/events.txt", cfg.DataFile)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, "postgres://db/events", cfg.DBUrl)
	assert.Equal(t, 0.6, cfg.SearchThreshold)
	assert.Equal(t, MailConfig{
		Provider:    "ses",
		FromAddress: "noreply@example.com",
		FromName:    "Event Catalog",
		SES: SESConfig{
			Region:             "eu-west-1",
			AccessKeyID:        "key",
			SecretAccessKey:    "secret",
			InsecureSkipVerify: true,
		},
	}, cfg.Mail)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown backend", "EVENT_STORE_BACKEND", "mongo", "unknown event store backend"},
		{"threshold not a number", "SEARCH_THRESHOLD", "high", "SEARCH_THRESHOLD"},
		{"threshold zero", "SEARCH_THRESHOLD", "0", "SEARCH_THRESHOLD"},
		{"threshold above one", "SEARCH_THRESHOLD", "1.5", "SEARCH_THRESHOLD"},
		{"skip verify not a bool", "SES_INSECURE_SKIP_VERIFY", "maybe", "SES_INSECURE_SKIP_VERIFY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateBackend(t *testing.T) {
	assert.NoError(t, (&Config{Backend: BackendFile}).ValidateBackend())
	assert.NoError(t, (&Config{Backend: BackendPostgres}).ValidateBackend())
	assert.ErrorIs(t, (&Config{Backend: ""}).ValidateBackend(), ErrInvalidConfig)
}

func TestNewLogger(t *testing.T) {
	t.Run("production writes json", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("production", "", &buf).Info("events loaded", "count", 2)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "events loaded", entry["msg"])
		assert.Equal(t, float64(2), entry["count"])
	})

	t.Run("development writes text", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("", "", &buf).Info("events loaded", "count", 2)
		assert.Contains(t, buf.String(), `msg="events loaded" count=2`)
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger("", "warn", &buf)
		logger.Info("hidden")
		logger.Warn("shown")
		assert.False(t, strings.Contains(buf.String(), "hidden"))
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("debug enabled", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("", "debug", &buf).Debug("event created")
		assert.Contains(t, buf.String(), "event created")
	})
}
