// Package view holds the per-page view-model and renders it to HTML.
//
// A Page owns its tables, filter state, form and notice. Handlers fill the
// page from backend data and hand it to a Renderer; nothing here performs
// I/O other than writing the rendered output, so pages can be built and
// inspected in tests without a browser.
package view

import (
	"html/template"
	"log/slog"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/aanand-mishra/theater-records/internal/notify"
	"github.com/aanand-mishra/theater-records/internal/types"
)

// Option is a value/label pair for select lists.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Hidden is a hidden input carried with a form or row.
type Hidden struct {
	Name  string
	Value string
}

// Link is a navigation link.
type Link struct {
	Label string
	Href  string
}

// Cell is one table cell. Text is sanitised into HTML when the row is
// populated; Href turns the cell into a link.
type Cell struct {
	Text    string
	Href    string
	Class   string
	Default string

	HTML template.HTML
}

// ActionMenu is the per-row dropdown. Its blank option shows Label (usually
// the row identity); choosing another option sends the choice together with
// Identity to Endpoint.
type ActionMenu struct {
	Label    string
	Endpoint string
	Identity []Hidden
	Options  []Option
}

// Row is a rendered record.
type Row struct {
	Menu  *ActionMenu
	Cells []Cell
}

// RowBuilder maps one record to its row. Builders must not have side
// effects beyond reading the record.
type RowBuilder func(types.Record) Row

// Table is a table body addressed by ID.
type Table struct {
	ID      string
	Caption string
	Headers []string
	Rows    []Row
	Empty   string
}

// FilterState is the filter bar above a table.
type FilterState struct {
	TableID     string
	Endpoint    string
	Token       string
	Options     []Option
	Column      string
	Value       string
	Placeholder string
}

// Page is the view-model of one screen.
type Page struct {
	Title   string
	Heading string
	Notice  *notify.Notice
	Links   []Link
	Filter  *FilterState
	Form    *FormView
	Confirm *ConfirmView

	tables []*Table
}

// NewPage starts an empty page.
func NewPage(title string) *Page {
	return &Page{Title: title, Heading: title}
}

// AddTable registers a table on the page, replacing any table with the same ID.
func (p *Page) AddTable(t *Table) *Table {
	for i, existing := range p.tables {
		if existing.ID == t.ID {
			p.tables[i] = t
			return t
		}
	}
	p.tables = append(p.tables, t)
	return t
}

// Table looks a table up by ID.
func (p *Page) Table(id string) (*Table, bool) {
	for _, t := range p.tables {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Tables returns the registered tables in registration order.
func (p *Page) Tables() []*Table { return p.tables }

// Populate replaces the rows of the table with one row per record, in input
// order. A missing table is a template mismatch: it is logged and nothing
// else happens.
func Populate(p *Page, tableID string, records []types.Record, build RowBuilder) {
	t, ok := p.Table(tableID)
	if !ok {
		slog.Error("table body not found", slog.String("table", tableID))
		return
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := build(rec)
		for i := range row.Cells {
			row.Cells[i].HTML = sanitize(row.Cells[i].Text, row.Cells[i].Default)
		}
		rows = append(rows, row)
	}
	t.Rows = rows
}

// Placeholder is the filter input hint for the selected column label.
func Placeholder(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "Search"
	}
	return "Search by " + label
}

// SelectOption marks the option with the given value as selected and returns
// its label. When no option matches, the first one is selected.
func SelectOption(opts []Option, value string) string {
	idx := 0
	for i, o := range opts {
		if o.Value == value {
			idx = i
			break
		}
	}
	label := ""
	for i := range opts {
		opts[i].Selected = i == idx
		if i == idx {
			label = opts[i].Label
		}
	}
	return label
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitize strips any markup stored in free-text fields and escapes the rest.
func sanitize(text, fallback string) template.HTML {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	if strings.TrimSpace(text) == "" {
		text = fallback
	}
	return template.HTML(policy.Sanitize(text))
}
