package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file. A
// missing or malformed required variable stops the process.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from lookup, reporting every problem at once.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var errs []error

	// A helper function to get a required env var.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		errs = append(errs, fmt.Errorf("required environment variable %s is not set", key))
		return ""
	}
	getEnvDefault := func(key, def string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return def
	}
	getDuration := func(key string, def time.Duration) time.Duration {
		raw, ok := lookup(key)
		if !ok || raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive duration, got %q", key, raw))
			return def
		}
		return d
	}

	cfg := Config{
		DBName:   getEnvDefault("DB_NAME", "rinkstats.db"),
		Port:     getEnvDefault("PORT", "8080"),
		HomeTeam: getEnvDefault("HOME_TEAM", "Stevenson"),
		Slack: SlackConfig{
			Token:         getEnvDefault("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvDefault("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnvDefault("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		S3: S3Config{
			Bucket:       getEnvDefault("S3_BUCKET", "hockeystats"),
			Region:       getEnvDefault("AWS_REGION", "us-east-1"),
			AccessKey:    getEnv("AWS_ACCESS_KEY"),
			SecretKey:    getEnv("AWS_SECRET_KEY"),
			Endpoint:     getEnvDefault("S3_ENDPOINT", ""),
			WorkbookKey:  getEnvDefault("WORKBOOK_KEY", "hockey.xlsx"),
			BackupPrefix: getEnvDefault("BACKUP_PREFIX", "temp/"),
			Timeout:      getDuration("S3_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:      getEnvDefault("REDIS_URL", ""),
			Prefix:   getEnvDefault("REDIS_PREFIX", "rinkstats:"),
			CacheTTL: getDuration("CACHE_TTL", time.Minute),
		},
		ProjectID:    getEnvDefault("GCP_PROJECT", ""),
		SyncInterval: getDuration("SYNC_INTERVAL", 5*time.Minute),
	}
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID == "" {
		errs = append(errs, errors.New("SLACK_CHANNEL_ID is required when SLACK_BOT_TOKEN is set"))
	}
	return cfg, errors.Join(errs...)
}
