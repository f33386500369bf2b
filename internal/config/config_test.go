package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.Set("DB_HOST", "localhost")
	v.Set("DB_NAME", "jobhub")
	v.Set("DB_USER", "jobhub")
	v.Set("JWT_ACCESS_SECRET", "access")
	v.Set("JWT_REFRESH_SECRET", "refresh")
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(baseViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiresIn)
	assert.Equal(t, int32(10), cfg.Database.PoolMaxConns)
	assert.Equal(t, "log", cfg.Mail.Transport)
	assert.Equal(t, 4, cfg.Mail.Workers)
	assert.Equal(t, 5.0, cfg.Mail.PerSecond)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, 10, cfg.RateLimit.ApplyPerMinute)
}

func TestLoad_MissingRequired(t *testing.T) {
	v := baseViper()
	v.Set("JWT_ACCESS_SECRET", "")
	v.Set("DB_HOST", "  ")

	_, err := Load(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestLoad_HTTPMailRequiresCredentials(t *testing.T) {
	v := baseViper()
	v.Set("MAIL_TRANSPORT", "HTTP")

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAIL_API_URL")

	v.Set("MAIL_API_URL", "https://api.mail.example.com/send")
	v.Set("MAIL_API_KEY", "key")
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Mail.Transport)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("JOBHUB_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("JOBHUB_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), p))
	assert.Equal(t, "loaded", os.Getenv("JOBHUB_TEST_DOTENV"))
}
