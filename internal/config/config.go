package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string
	Host        string
	Port        int
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres (sync journal)
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// redis (sessions, rate limiting)
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// fitness backend
	FitnessApiURL        string   `toml:"fitness_api_url"`
	FitnessApiTimeoutSec int      `toml:"fitness_api_timeout_sec"`
	AllowedOrigins       []string `toml:"allowed_origins"`
	// sessions
	SessionTTLHours int `toml:"session_ttl_hours"`
	// auth endpoints
	AuthRateLimitAllowedPerMin int `toml:"auth_rate_limit_allowed_per_min"`
	// activities retrieve cache, 0 disables it
	ActivitiesCacheSizeMB int `toml:"activities_cache_size_mb"`
	// chat polling
	ChatPollInitialMs   int `toml:"chat_poll_initial_ms"`
	ChatPollMaxMs       int `toml:"chat_poll_max_ms"`
	ChatPollMaxAttempts int `toml:"chat_poll_max_attempts"`
	ChatPollMaxWaitSec  int `toml:"chat_poll_max_wait_sec"`
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	if cfg.FitnessApiURL == "" {
		return nil, fmt.Errorf("fitness_api_url not set for env: %s", env)
	}

	return cfg, nil
}

func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 0
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) FitnessApiTimeout() time.Duration {
	if c.FitnessApiTimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.FitnessApiTimeoutSec) * time.Second
}

// ChatPoll overrides the given defaults with whatever is set.
func (c *Config) ChatPoll(defaults ChatPollSettings) ChatPollSettings {
	s := defaults
	if c.ChatPollInitialMs > 0 {
		s.Initial = time.Duration(c.ChatPollInitialMs) * time.Millisecond
	}
	if c.ChatPollMaxMs > 0 {
		s.Max = time.Duration(c.ChatPollMaxMs) * time.Millisecond
	}
	if c.ChatPollMaxAttempts > 0 {
		s.MaxAttempts = c.ChatPollMaxAttempts
	}
	if c.ChatPollMaxWaitSec > 0 {
		s.MaxWait = time.Duration(c.ChatPollMaxWaitSec) * time.Second
	}
	return s
}

type ChatPollSettings struct {
	Initial     time.Duration
	Max         time.Duration
	MaxAttempts int
	MaxWait     time.Duration
}
