// Package report writes a rendered dashboard page as self-contained HTML.
package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

// ContentType is the media type of the written page.
const ContentType = "text/html; charset=utf-8"

// Renderer executes the dashboard template.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		"markdown": Markdown,
		"datauri":  DataURI,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

// Write renders page to w. Nothing is written when the template fails.
func (r *Renderer) Write(w io.Writer, page *models.Page) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "dashboard.html", page); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Markdown converts the catalog description to HTML. Raw HTML in the source is dropped.
func Markdown(s string) template.HTML {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions | mdparser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank | mdhtml.SkipHTML,
	})
	return template.HTML(markdown.ToHTML([]byte(s), p, renderer))
}

// DataURI inlines a slot's image so the page needs no further requests.
func DataURI(slot *models.Slot) template.URL {
	if slot == nil || len(slot.Image) == 0 {
		return ""
	}
	return template.URL("data:" + slot.MediaType + ";base64," + base64.StdEncoding.EncodeToString(slot.Image))
}
