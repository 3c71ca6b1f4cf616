package timeutil

import (
	"testing"
	"time"
)

func TestDateKeyRoundTrip(t *testing.T) {
	parsed, err := ParseDateKey("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC, got %s", parsed.Location())
	}
	if got := DateKey(parsed); got != "2024-01-02" {
		t.Fatalf("expected key to round-trip, got %s", got)
	}
	if _, err := ParseDateKey("latest"); err == nil {
		t.Fatalf("expected non-date key to fail")
	}
}

func TestDateKeyNormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	value := time.Date(2024, 1, 2, 23, 0, 0, 0, loc)
	if got := DateKey(value); got != "2024-01-03" {
		t.Fatalf("expected UTC date, got %s", got)
	}
}

func TestRetentionCutoff(t *testing.T) {
	now := time.Date(2024, 3, 10, 17, 45, 0, 0, time.UTC)
	got := RetentionCutoff(now, 2)
	want := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
