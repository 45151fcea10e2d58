package view

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
)

// Renderer renders pages and fragments from the embedded templates.
type Renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

// NewRenderer parses the embedded templates. Every page template defines a
// "content" block rendered inside the shared layout.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, layoutFile, partialsFile)
	if err != nil {
		return nil, fmt.Errorf("view: parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/page_*.html")
	if err != nil {
		return nil, fmt.Errorf("view: list pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("view: clone layout: %w", err)
		}
		t, err := clone.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", file, err)
		}
		name := path.Base(file)
		name = name[len("page_") : len(name)-len(".html")]
		pages[name] = t
	}

	return &Renderer{pages: pages, partials: base}, nil
}

// Page renders a full page. Output is buffered so a template error never
// leaves a half-written response.
func (r *Renderer) Page(w io.Writer, name string, p *Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Fragment renders one named partial, e.g. "tbody".
func (r *Renderer) Fragment(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.partials.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("view: render fragment %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RowsFragment is the payload of the "tbody" partial.
type RowsFragment struct {
	Table *Table
	Hint  string
}

var funcs = template.FuncMap{
	"vals": func(pairs ...string) (string, error) {
		if len(pairs)%2 != 0 {
			return "", fmt.Errorf("vals: odd number of arguments")
		}
		m := make(map[string]string, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			m[pairs[i]] = pairs[i+1]
		}
		b, err := json.Marshal(m)
		return string(b), err
	},
	"identity": func(hidden []Hidden) (string, error) {
		m := make(map[string]string, len(hidden))
		for _, h := range hidden {
			m[h.Name] = h.Value
		}
		b, err := json.Marshal(m)
		return string(b), err
	},
	"colspan": func(t *Table) int {
		if t == nil || len(t.Headers) == 0 {
			return 1
		}
		return len(t.Headers)
	},
}
