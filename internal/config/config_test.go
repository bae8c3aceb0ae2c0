package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
env: "dev"
storage_path: "postgres://localhost/polls"
http:
  port: 9000
auth:
  secret: "s3cret"
scheduler:
  poll_interval: 2s
  backoff: 30s
notify:
  driver: "smtp"
  smtp_host: "mail.local"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRead_FileAndDefaults(t *testing.T) {
	cfg, err := Read(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "postgres://localhost/polls", cfg.StoragePath)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 2*time.Second, cfg.Scheduler.PollInterval)
	assert.Equal(t, 50, cfg.Scheduler.BatchSize)
	assert.Equal(t, 5, cfg.Scheduler.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Backoff)
	assert.Equal(t, "smtp", cfg.Notify.Driver)
	assert.Equal(t, 25, cfg.Notify.SMTPPort)
	assert.Equal(t, 9091, cfg.Worker.HealthPort)
}

func TestRead_EnvOverride(t *testing.T) {
	t.Setenv("AUTH_SECRET", "from-env")
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("SCHEDULER_BACKOFF", "1m")

	cfg, err := Read(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, 7000, cfg.HTTP.Port)
	assert.Equal(t, time.Minute, cfg.Scheduler.Backoff)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, defaultPath, Path(""))

	t.Setenv("CONFIG_PATH", "/etc/polls.yaml")
	assert.Equal(t, "/etc/polls.yaml", Path(""))
	assert.Equal(t, "flag.yaml", Path("flag.yaml"))
}
