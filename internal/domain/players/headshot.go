package players

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	bbrefImageBase = "https://www.basketball-reference.com/req/202106291/images/players/"
	nbaCDNBase     = "https://cdn.nba.com/headshots/nba/latest/1040x760/"
)

// BBRefID derives the Basketball-Reference player id from a full name:
// first five letters of the surname, first two of the given name, then "01".
// Names with fewer than two parts have no id.
func BBRefID(fullName string) (string, bool) {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(fullName)))
	if len(parts) < 2 {
		return "", false
	}

	first := parts[0]
	last := parts[len(parts)-1]
	// "de 'aaron fox" style splits keep the apostrophe fragment with the given name.
	if len(parts) > 2 && strings.HasPrefix(parts[1], "'") {
		first = parts[0] + parts[1]
		last = parts[2]
	}

	first = alnum(first)
	last = alnum(last)
	// Punctuation-only parts ("Mr. .") would yield ids like "mr01"; report none instead.
	if first == "" || last == "" {
		return "", false
	}
	return truncate(last, 5) + truncate(first, 2) + "01", true
}

// BBRefImageURL returns the Basketball-Reference headshot URL for a full name.
func BBRefImageURL(fullName string) (string, bool) {
	id, ok := BBRefID(fullName)
	if !ok {
		return "", false
	}
	return bbrefImageBase + id + ".jpg", true
}

// NBACDNImageURL returns the NBA CDN headshot URL for an NBA player id.
func NBACDNImageURL(playerID int64) string {
	return fmt.Sprintf("%s%d.png", nbaCDNBase, playerID)
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
