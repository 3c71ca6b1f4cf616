package card

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders v for a terminal.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder
	if v.Notice != "" {
		fmt.Fprintf(&b, "! %s\n", v.Notice)
	}
	switch v.Branch {
	case BranchLoading:
		fmt.Fprintf(&b, "[ %s ]\n", v.ButtonLabel)
	case BranchCard:
		b.WriteString("Player Data\n")
		if v.ShowImage {
			fmt.Fprintf(&b, "  [image] %s\n", v.ImageURL)
		} else {
			fmt.Fprintf(&b, "  %s %s (%s)\n", FallbackGlyph, FallbackTitle, FallbackReason)
		}
		fmt.Fprintf(&b, "  %s\n", v.Name)
		fmt.Fprintf(&b, "  All-Star Appearances: %d\n", v.AllStarCount)
		if v.ImageURL != "" {
			fmt.Fprintf(&b, "  Image URL: %s\n", v.ImageURL)
		}
		b.WriteString(v.Debug)
		b.WriteString("\n")
	default:
		fmt.Fprintf(&b, "[ %s ]\n", v.ButtonLabel)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
