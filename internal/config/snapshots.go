package config

// SnapshotConfig controls where roster snapshots are persisted.
type SnapshotConfig struct {
	// Store is one of fs, redis, none.
	Store         string `yaml:"store" env:"SNAPSHOT_STORE" env-default:"fs"`
	Folder        string `yaml:"folder" env:"SNAPSHOT_FOLDER" env-default:"data/snapshots"`
	RedisURL      string `yaml:"redis_url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	RetentionDays int    `yaml:"retention_days" env:"SNAPSHOT_RETENTION_DAYS" env-default:"7"`
	AdminToken    string `yaml:"admin_token" env:"ADMIN_TOKEN"`
}
