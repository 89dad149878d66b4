// Package render turns roster and aggregation data into HTML pages and SVG charts.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Clark-Hu/gradeboard/internal/domain"
	"github.com/Clark-Hu/gradeboard/internal/grades"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed all:static
var staticFS embed.FS

// Page names accepted by Renderer.Render.
const (
	PageIndex  = "index"
	PageTables = "tables"
	PageCharts = "charts"
	PageError  = "error"
)

var pageNames = []string{PageIndex, PageTables, PageCharts, PageError}

// PageData is the model handed to every template. Fields unused by a page stay zero.
type PageData struct {
	Title   string
	Page    string
	Rows    []TableRow
	Charts  grades.ChartData
	Status  int
	Message string
}

// TableRow is one student line of the tables page.
type TableRow struct {
	Student domain.Student
	Average float64
	Graded  bool
	Bucket  string
}

// NewTableRows computes the average and bucket label shown next to each student.
func NewTableRows(students []domain.Student) []TableRow {
	rows := make([]TableRow, 0, len(students))
	for _, s := range students {
		row := TableRow{Student: s}
		if avg, ok := grades.Average(s.Grades); ok {
			row.Average = avg
			row.Graded = true
			row.Bucket = grades.Classify(avg).Label()
		}
		rows = append(rows, row)
	}
	return rows
}

var funcs = template.FuncMap{
	"score": func(s domain.Score) string {
		return strconv.FormatFloat(float64(s), 'f', -1, 64)
	},
	"average": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	// Course codes are opaque and may contain '/', '?' or '#'.
	"pathEscape": func(code domain.CourseCode) string {
		return url.PathEscape(string(code))
	},
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes a page into w. Output is buffered so a template failure never
// leaves a half-written page behind.
func (r *Renderer) Render(w io.Writer, name string, data PageData) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown page %q", name)
	}
	data.Page = name

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded CSS and JavaScript assets.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
