package config

// StatsConfig controls how career stats are fetched.
type StatsConfig struct {
	Provider    string   `yaml:"provider" env:"STATS_PROVIDER" env-default:"fixture" env-description:"career stats provider: fixture or nbastats"`
	BaseURL     string   `yaml:"base_url" env:"NBA_STATS_BASE_URL" env-default:"https://stats.nba.com/stats"`
	MinInterval Duration `yaml:"min_interval" env:"NBA_STATS_MIN_INTERVAL" env-default:"1s"`
	Timeout     Duration `yaml:"timeout" env:"NBA_STATS_TIMEOUT" env-default:"15s"`
}
