package card

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/card.html"))

// PageData feeds the HTML page.
type PageData struct {
	Title        string
	Tagline      string
	View         View
	GeneratePath string
	ImagePath    string
}

// NewPageData fills the page chrome around v.
func NewPageData(v View) PageData {
	return PageData{
		Title:        "SwishAI",
		Tagline:      "Guess the NBA player from their career stats!",
		View:         v,
		GeneratePath: "/card/generate",
		ImagePath:    "/card/image",
	}
}

// WritePage renders the HTML card page.
func WritePage(w io.Writer, data PageData) error {
	return pageTemplate.Execute(w, data)
}
