package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "4000" {
		t.Fatalf("expected default port 4000, got %s", cfg.Port)
	}
	if cfg.Roster.Source != "fixture" {
		t.Fatalf("expected fixture roster source, got %s", cfg.Roster.Source)
	}
	if cfg.Roster.RefreshInterval.Std() != 10*time.Minute {
		t.Fatalf("expected default refresh interval 10m, got %s", cfg.Roster.RefreshInterval)
	}
	if cfg.Roster.MinRetirementYear != 1980 {
		t.Fatalf("expected min retirement year 1980, got %d", cfg.Roster.MinRetirementYear)
	}
	if cfg.Stats.BaseURL != "https://stats.nba.com/stats" {
		t.Fatalf("unexpected stats base url %s", cfg.Stats.BaseURL)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != "9090" {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
	if cfg.Card.APIBaseURL != "http://localhost:4000" {
		t.Fatalf("expected card api base to default to self, got %s", cfg.Card.APIBaseURL)
	}
	if cfg.Card.ProbeOrigin != "http://localhost:4000" {
		t.Fatalf("expected probe origin to default to self, got %s", cfg.Card.ProbeOrigin)
	}
	if len(cfg.Card.AllowedOrigins) != 1 || cfg.Card.AllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors default, got %v", cfg.Card.AllowedOrigins)
	}
	if cfg.Snapshots.AdminToken != "" {
		t.Fatalf("expected empty admin token by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("ROSTER_SOURCE", "sqlite")
	t.Setenv("ROSTER_REFRESH_INTERVAL", "45s")
	t.Setenv("STATS_PROVIDER", "nbastats")
	t.Setenv("SNAPSHOT_STORE", "redis")
	t.Setenv("ADMIN_TOKEN", "secret")
	t.Setenv("CARD_FETCH_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5000" || cfg.Card.APIBaseURL != "http://localhost:5000" {
		t.Fatalf("expected port override to flow into card api base, got %s / %s", cfg.Port, cfg.Card.APIBaseURL)
	}
	if cfg.Card.ProbeOrigin != "http://localhost:5000" {
		t.Fatalf("expected port override to flow into probe origin, got %s", cfg.Card.ProbeOrigin)
	}
	if cfg.Roster.Source != "sqlite" || cfg.Roster.RefreshInterval.Std() != 45*time.Second {
		t.Fatalf("unexpected roster config %+v", cfg.Roster)
	}
	if cfg.Stats.Provider != "nbastats" {
		t.Fatalf("expected nbastats provider, got %s", cfg.Stats.Provider)
	}
	if cfg.Snapshots.Store != "redis" || cfg.Snapshots.AdminToken != "secret" {
		t.Fatalf("unexpected snapshot config %+v", cfg.Snapshots)
	}
	if cfg.Card.FetchTimeout.Std() != 3*time.Second {
		t.Fatalf("expected 3s fetch timeout, got %s", cfg.Card.FetchTimeout)
	}
	if len(cfg.Card.AllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.Card.AllowedOrigins)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("expected metrics disabled")
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("ROSTER_REFRESH_INTERVAL", "not-a-duration")
	t.Setenv("CARD_FETCH_TIMEOUT", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Roster.RefreshInterval.Std() != defaultRosterRefresh {
		t.Fatalf("expected default refresh interval on invalid value, got %s", cfg.Roster.RefreshInterval)
	}
	if cfg.Card.FetchTimeout.Std() != defaultCardFetchTimeout {
		t.Fatalf("expected default fetch timeout on non-positive value, got %s", cfg.Card.FetchTimeout)
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "port: \"7000\"\nroster:\n  source: postgres\n  refresh_interval: 90s\ncard:\n  probe_origin: http://card.test\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envConfigPath, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7000" || cfg.Roster.Source != "postgres" {
		t.Fatalf("expected yaml values, got port=%s source=%s", cfg.Port, cfg.Roster.Source)
	}
	if cfg.Roster.RefreshInterval.Std() != 90*time.Second {
		t.Fatalf("expected 90s refresh from yaml, got %s", cfg.Roster.RefreshInterval)
	}
	if cfg.Card.ProbeOrigin != "http://card.test" {
		t.Fatalf("expected probe origin from yaml, got %s", cfg.Card.ProbeOrigin)
	}
	if cfg.Stats.Provider != "fixture" {
		t.Fatalf("expected env default to fill unset yaml field, got %s", cfg.Stats.Provider)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestDurationSetValue(t *testing.T) {
	var d Duration
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"5s", 5 * time.Second},
		{" 2m ", 2 * time.Minute},
		{"-1s", 0},
		{"bogus", 0},
	}
	for _, tc := range cases {
		if err := d.SetValue(tc.raw); err != nil {
			t.Fatalf("SetValue(%q) returned error %v", tc.raw, err)
		}
		if d.Std() != tc.want {
			t.Fatalf("SetValue(%q) = %s, want %s", tc.raw, d, tc.want)
		}
	}
}
