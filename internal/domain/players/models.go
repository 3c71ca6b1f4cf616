package players

import (
	"errors"
	"strings"
)

var (
	// ErrNoPlayers is returned when the roster is empty.
	ErrNoPlayers = errors.New("no players available")
	// ErrPlayerNotFound is returned when a lookup misses the roster.
	ErrPlayerNotFound = errors.New("player not found")
)

// Player is one All-Star roster entry as stored by a roster source.
// RetirementYear is nil for active players or when it was never backfilled.
type Player struct {
	ID             int64  `json:"id" validate:"gt=0"`
	Name           string `json:"name" validate:"required"`
	AllStarCount   int    `json:"all_star_count" validate:"gte=0"`
	RetirementYear *int   `json:"retirement_year,omitempty"`
}

// Active reports whether the player has no recorded retirement year.
func (p Player) Active() bool {
	return p.RetirementYear == nil
}

// Record is the payload served by /api/generate and rendered by the card.
type Record struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name" validate:"required"`
	AllStarCount int     `json:"all_star_count" validate:"gte=0"`
	ImageURL     *string `json:"image_url,omitempty"`
}

// HasImage reports whether the record carries a non-empty image URL.
func (r Record) HasImage() bool {
	return r.ImageURL != nil && *r.ImageURL != ""
}

// Image returns the image URL or "" when absent.
func (r Record) Image() string {
	if r.ImageURL == nil {
		return ""
	}
	return *r.ImageURL
}

// Normalized returns r with a blank image URL cleared, so HasImage is false
// and the card falls back to the glyph. Unusable URLs are kept; the image
// load failing is what hides them.
func (r Record) Normalized() Record {
	if r.ImageURL != nil && strings.TrimSpace(*r.ImageURL) == "" {
		r.ImageURL = nil
	}
	return r
}

// NewRecord builds the generate payload for p. An empty imageURL leaves the field absent.
func NewRecord(p Player, imageURL string) Record {
	rec := Record{
		ID:           p.ID,
		Name:         p.Name,
		AllStarCount: p.AllStarCount,
	}
	if imageURL != "" {
		rec.ImageURL = &imageURL
	}
	return rec.Normalized()
}
