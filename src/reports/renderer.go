package reports

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/username/stockledger/src/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer turns an aggregated report into the downloadable HTML page.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded report template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("report.html").
		Funcs(template.FuncMap{"upper": strings.ToUpper}).
		ParseFS(templatesFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the report page to w. Nothing is written if execution fails.
func (r *Renderer) Render(w io.Writer, report *models.ReportResult) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "report.html", report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
