package config

// CardConfig controls the player card page and its fetch client.
type CardConfig struct {
	// APIBaseURL is where the card fetches /api/generate; defaults to this server.
	APIBaseURL   string   `yaml:"api_base_url" env:"CARD_API_BASE_URL"`
	FetchTimeout Duration `yaml:"fetch_timeout" env:"CARD_FETCH_TIMEOUT" env-default:"10s"`
	ProbeImages  bool     `yaml:"probe_images" env:"CARD_PROBE_IMAGES" env-default:"true"`
	ProbeTimeout Duration `yaml:"probe_timeout" env:"CARD_PROBE_TIMEOUT" env-default:"5s"`
	// ProbeOrigin is the Origin sent with image checks; defaults to this server.
	ProbeOrigin    string   `yaml:"probe_origin" env:"CARD_PROBE_ORIGIN"`
	SessionTTL     Duration `yaml:"session_ttl" env:"CARD_SESSION_TTL" env-default:"30m"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}
