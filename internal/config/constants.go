package config

import "time"

const (
	envConfigPath = "CONFIG_PATH"

	// Fallbacks applied when a duration env var is unparsable or non-positive.
	defaultRosterRefresh    = 10 * time.Minute
	defaultStatsMinInterval = time.Second
	defaultStatsTimeout     = 15 * time.Second
	defaultCardFetchTimeout = 10 * time.Second
	defaultCardProbeTimeout = 5 * time.Second
	defaultCardSessionTTL   = 30 * time.Minute
	defaultRetentionDays    = 7
	defaultMinRetirement    = 1980
)
