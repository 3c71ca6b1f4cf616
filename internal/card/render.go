package card

import (
	"encoding/json"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

// Branch is the visual branch a View takes.
type Branch string

const (
	BranchPrompt  Branch = "prompt"
	BranchLoading Branch = "loading"
	BranchCard    Branch = "card"
)

const (
	ButtonGenerate = "Generate Random Player"
	ButtonBusy     = "Loading..."
	FallbackGlyph  = "🏀"
	FallbackTitle  = "Image not available"
	FallbackReason = "CORS restricted"
)

// View is everything a renderer needs to draw the card.
type View struct {
	Branch         Branch `json:"branch"`
	ButtonLabel    string `json:"button_label"`
	ButtonDisabled bool   `json:"button_disabled"`
	Notice         string `json:"notice,omitempty"`
	Token          uint64 `json:"token,omitempty"`

	Name         string `json:"name,omitempty"`
	AllStarCount int    `json:"all_star_count,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	ShowImage    bool   `json:"show_image"`
	ImageStatus  string `json:"image_status,omitempty"`
	Debug        string `json:"debug,omitempty"`
}

// Render maps a state to its view. It is total over State and has no side effects.
func Render(s State) View {
	switch s.Phase() {
	case PhaseLoading:
		return View{
			Branch:         BranchLoading,
			ButtonLabel:    ButtonBusy,
			ButtonDisabled: true,
			Token:          s.Token(),
		}
	case PhaseLoaded:
		rec, _ := s.Record()
		return View{
			Branch:       BranchCard,
			ButtonLabel:  ButtonGenerate,
			Notice:       s.Notice(),
			Token:        s.Token(),
			Name:         rec.Name,
			AllStarCount: rec.AllStarCount,
			ImageURL:     rec.Image(),
			ShowImage:    rec.HasImage() && s.Image() != ImageErrored,
			ImageStatus:  s.Image().String(),
			Debug:        debugDump(rec),
		}
	default:
		return View{
			Branch:      BranchPrompt,
			ButtonLabel: ButtonGenerate,
			Notice:      s.Notice(),
		}
	}
}

// debugDump pretty-prints the record with a two-space indent.
func debugDump(rec players.Record) string {
	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}
