package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"AWS_ACCESS_KEY": "ak",
		"AWS_SECRET_KEY": "sk",
	}))
	require.NoError(t, err)

	assert.Equal(t, "Stevenson", cfg.HomeTeam)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "hockeystats", cfg.S3.Bucket)
	assert.Equal(t, "hockey.xlsx", cfg.S3.WorkbookKey)
	assert.Equal(t, 30*time.Second, cfg.S3.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Empty(t, cfg.ProjectID)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"AWS_ACCESS_KEY": "ak",
		"AWS_SECRET_KEY": "sk",
		"HOME_TEAM":      "Lakers",
		"SYNC_INTERVAL":  "30s",
		"CACHE_TTL":      "2m",
		"REDIS_URL":      "redis://localhost:6379/0",
	}))
	require.NoError(t, err)

	assert.Equal(t, "Lakers", cfg.HomeTeam)
	assert.Equal(t, 30*time.Second, cfg.SyncInterval)
	assert.Equal(t, 2*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestFromEnvReportsEveryProblem(t *testing.T) {
	_, err := FromEnv(lookupFrom(map[string]string{
		"SYNC_INTERVAL":   "soon",
		"SLACK_BOT_TOKEN": "xoxb",
	}))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "AWS_ACCESS_KEY")
	assert.Contains(t, msg, "AWS_SECRET_KEY")
	assert.Contains(t, msg, "SYNC_INTERVAL")
	assert.Contains(t, msg, "SLACK_CHANNEL_ID")
}
