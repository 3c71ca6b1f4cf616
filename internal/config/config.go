package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port      string         `yaml:"port" env:"PORT" env-default:"4000"`
	LogLevel  string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string         `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	Roster    RosterConfig   `yaml:"roster"`
	Stats     StatsConfig    `yaml:"stats"`
	Snapshots SnapshotConfig `yaml:"snapshots"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Card      CardConfig     `yaml:"card"`
}

// Load reads configuration from environment variables with sensible defaults.
// When CONFIG_PATH names a YAML file it is read first and the environment
// overrides it.
func Load() (Config, error) {
	var cfg Config
	if path := os.Getenv(envConfigPath); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Roster.RefreshInterval = durationOrDefault(c.Roster.RefreshInterval, defaultRosterRefresh)
	c.Roster.MinRetirementYear = intOrDefault(c.Roster.MinRetirementYear, defaultMinRetirement)
	c.Stats.MinInterval = durationOrDefault(c.Stats.MinInterval, defaultStatsMinInterval)
	c.Stats.Timeout = durationOrDefault(c.Stats.Timeout, defaultStatsTimeout)
	c.Snapshots.RetentionDays = intOrDefault(c.Snapshots.RetentionDays, defaultRetentionDays)
	c.Card.FetchTimeout = durationOrDefault(c.Card.FetchTimeout, defaultCardFetchTimeout)
	c.Card.ProbeTimeout = durationOrDefault(c.Card.ProbeTimeout, defaultCardProbeTimeout)
	c.Card.SessionTTL = durationOrDefault(c.Card.SessionTTL, defaultCardSessionTTL)
	if c.Card.APIBaseURL == "" {
		c.Card.APIBaseURL = "http://localhost:" + c.Port
	}
	if c.Card.ProbeOrigin == "" {
		c.Card.ProbeOrigin = "http://localhost:" + c.Port
	}
}

// Usage renders the env var reference for --help style output.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
