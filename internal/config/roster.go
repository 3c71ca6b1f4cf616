package config

// RosterConfig controls where the All-Star pool is loaded from.
type RosterConfig struct {
	// Source is one of fixture, sqlite, postgres.
	Source          string   `yaml:"source" env:"ROSTER_SOURCE" env-default:"fixture" env-description:"roster source: fixture, sqlite or postgres"`
	DBPath          string   `yaml:"db_path" env:"ROSTER_DB_PATH" env-default:"data/nba_players.db"`
	FilteredDBPath  string   `yaml:"filtered_db_path" env:"ROSTER_FILTERED_DB_PATH" env-default:"data/nba_players_filtered.db"`
	PostgresDSN     string   `yaml:"postgres_dsn" env:"ROSTER_POSTGRES_DSN"`
	RefreshInterval Duration `yaml:"refresh_interval" env:"ROSTER_REFRESH_INTERVAL" env-default:"10m"`
	// MinRetirementYear is used by the filter tool.
	MinRetirementYear int `yaml:"min_retirement_year" env:"ROSTER_MIN_RETIREMENT_YEAR" env-default:"1980"`
}
