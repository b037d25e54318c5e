package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName   string
	Port     string
	HomeTeam string
	Slack    SlackConfig
	Turso    TursoConfig
	S3       S3Config
	Redis    RedisConfig
	// ProjectID enables Google Pub/Sub. Empty means in-process dispatch.
	ProjectID    string
	SyncInterval time.Duration
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type S3Config struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	Endpoint     string
	WorkbookKey  string
	BackupPrefix string
	Timeout      time.Duration
}

type RedisConfig struct {
	URL      string
	Prefix   string
	CacheTTL time.Duration
}
