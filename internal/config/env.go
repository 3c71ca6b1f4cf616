package config

import (
	"strings"
	"time"
)

// Duration is a time.Duration that tolerates bad input: anything that does not
// parse to a positive duration is stored as zero and replaced by the section
// default after loading.
type Duration time.Duration

// SetValue implements cleanenv.Setter.
func (d *Duration) SetValue(raw string) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || parsed <= 0 {
		*d = 0
		return nil
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalText lets YAML config files use the same "30s" notation.
func (d *Duration) UnmarshalText(text []byte) error {
	return d.SetValue(string(text))
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func durationOrDefault(d Duration, fallback time.Duration) Duration {
	if d <= 0 {
		return Duration(fallback)
	}
	return d
}

func intOrDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
