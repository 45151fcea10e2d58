// Package entity declares the list pages, detail pages and forms of every
// record type: which backend endpoints feed them, which columns they show,
// what the row dropdown does and which fields the forms send.
package entity

import (
	"net/url"
	"strings"

	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/form"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

// MenuItem is one option of a row dropdown.
type MenuItem struct {
	Value  string
	Label  string
	Action dispatch.Action
}

// Menu is an ordered row dropdown.
type Menu []MenuItem

// Actions returns the dispatch table of the menu.
func (m Menu) Actions() dispatch.Menu {
	out := make(dispatch.Menu, len(m))
	for _, item := range m {
		out[item.Value] = item.Action
	}
	return out
}

// Options returns the dropdown options in display order.
func (m Menu) Options() []view.Option {
	out := make([]view.Option, 0, len(m))
	for _, item := range m {
		out = append(out, view.Option{Value: item.Value, Label: item.Label})
	}
	return out
}

// Prefilter pre-selects the filter from a query parameter, e.g.
// /characters/loadpage?netID=ABC123.
type Prefilter struct {
	Param    string
	Selector string
}

// Table describes one table page. Endpoints, Title and Links may contain
// {key} placeholders filled from the page scope (Keys).
type Table struct {
	Name    string
	Title   string
	Path    string
	Keys    []string
	TableID string
	Headers []string
	Empty   string

	Endpoints     filter.Endpoints
	Filterable    bool
	FilterOptions []view.Option
	Prefilters    []Prefilter

	// Identity lists the record fields that address a row. MenuLabel is
	// the field shown on the dropdown's blank option.
	Identity  []string
	MenuLabel string
	Menu      Menu

	Links []view.Link

	// Heading overrides Title once the records are known.
	Heading func(scope dispatch.Identity, records []types.Record) string

	Cells func(types.Record) []view.Cell
}

// ActionEndpoint is where row dropdowns send their choice.
func (t *Table) ActionEndpoint() string { return "/ui/" + t.Name + "/action" }

// RowsEndpoint serves the filtered table body.
func (t *Table) RowsEndpoint() string { return "/ui/" + t.Name + "/rows" }

// Row builds the table row of rec. It is used for both the unfiltered and
// the filtered list so both always show the same columns.
func (t *Table) Row(rec types.Record) view.Row {
	row := view.Row{Cells: t.Cells(rec)}
	if len(t.Menu) == 0 {
		return row
	}

	menu := &view.ActionMenu{
		Label:    rec.Get(t.MenuLabel),
		Endpoint: t.ActionEndpoint(),
		Options:  t.Menu.Options(),
	}
	for _, k := range t.Identity {
		menu.Identity = append(menu.Identity, view.Hidden{Name: k, Value: rec.Get(k)})
	}
	row.Menu = menu
	return row
}

// View returns an empty table ready to be populated.
func (t *Table) View() *view.Table {
	headers := t.Headers
	if len(t.Menu) > 0 {
		headers = append([]string{t.menuHeader()}, headers...)
	}
	return &view.Table{ID: t.TableID, Headers: headers, Empty: t.Empty}
}

func (t *Table) menuHeader() string {
	if t.MenuLabel == "" {
		return ""
	}
	return headerFor(t.MenuLabel)
}

// Query builds the filter query for the selected option and text. When the
// table has no column selector the first option is implied.
func (t *Table) Query(column, value string) filter.Query {
	if column == "" && len(t.FilterOptions) > 0 {
		column = t.FilterOptions[0].Value
	}
	return filter.Query{Selector: filter.ParseSelector(column), Value: value}
}

// Prefilter reads the first matching prefilter parameter out of q.
func (t *Table) Prefilter(q url.Values) (filter.Query, bool) {
	for _, p := range t.Prefilters {
		if v := q.Get(p.Param); v != "" {
			return t.Query(p.Selector, v), true
		}
	}
	return filter.Query{}, false
}

// Scoped expands the endpoints for a page scope.
func (t *Table) Scoped(scope dispatch.Identity) filter.Endpoints {
	ep := t.Endpoints
	ep.All = dispatch.Expand(ep.All, scope)
	return ep
}

// ScopedLinks expands the page links for a page scope.
func (t *Table) ScopedLinks(scope dispatch.Identity) []view.Link {
	out := make([]view.Link, 0, len(t.Links))
	for _, l := range t.Links {
		out = append(out, view.Link{Label: l.Label, Href: dispatch.Expand(l.Href, scope)})
	}
	return out
}

// Lookup binds an autocomplete list to a form.
type Lookup struct {
	Kind     LookupKind
	SelectID string
	ButtonID string

	// SearchBy and Input seed the list when the page is first shown.
	SearchBy string
	Input    string
}

// LookupKind selects the search endpoint of a Lookup.
type LookupKind int

const (
	StudentLookup LookupKind = iota + 1
	ShowLookup
)

// Prefill fetches the current values of an edit form. Match picks the
// record when the endpoint returns more than the one being edited.
type Prefill struct {
	Endpoint string
	Match    func(rec types.Record, scope dispatch.Identity) bool
}

// FormPage describes an add or edit page.
type FormPage struct {
	Path     string
	Title    string
	Keys     []string
	Endpoint string
	Form     form.Definition
	Prefill  *Prefill
	Lookups  []Lookup

	// Validate checks the page scope before the form is shown or sent.
	Validate func(dispatch.Identity) error
}

// Combined shows several prefiltered tables for one key on one page.
type Combined struct {
	Path     string
	Title    string
	Key      string
	Sections []*Table
}

// Registry holds every table, form and redirect the front end serves.
type Registry struct {
	tables    []*Table
	byName    map[string]*Table
	forms     []*FormPage
	combined  []*Combined
	redirects map[string]string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Table), redirects: make(map[string]string)}
}

// AddTable registers t.
func (r *Registry) AddTable(t *Table) {
	r.tables = append(r.tables, t)
	r.byName[t.Name] = t
}

// AddForm registers f.
func (r *Registry) AddForm(f *FormPage) { r.forms = append(r.forms, f) }

// AddCombined registers c.
func (r *Registry) AddCombined(c *Combined) { r.combined = append(r.combined, c) }

// AddRedirect serves path as a redirect to target. Target may reference
// path wildcards as {name}.
func (r *Registry) AddRedirect(path, target string) { r.redirects[path] = target }

// Table looks a table up by name.
func (r *Registry) Table(name string) (*Table, bool) {
	t, ok := r.byName[name]
	return t, ok
}

func (r *Registry) Tables() []*Table { return r.tables }

func (r *Registry) Forms() []*FormPage { return r.forms }

func (r *Registry) Combined() []*Combined { return r.combined }

func (r *Registry) Redirects() map[string]string { return r.redirects }

// Default returns the registry of all theater record pages.
func Default() *Registry {
	r := NewRegistry()
	registerStudents(r)
	registerActors(r)
	registerCrew(r)
	registerShows(r)
	registerCharacters(r)
	registerScenes(r)
	r.AddCombined(&Combined{
		Path:     "/student/{netID}/crewActor",
		Title:    "Crew and Actor Profile for {netID}",
		Key:      "netID",
		Sections: []*Table{r.byName["crew"], r.byName["actor"]},
	})
	return r
}

func text(rec types.Record, field string) view.Cell {
	return view.Cell{Text: rec.Get(field)}
}

func fullName(rec types.Record) view.Cell {
	return view.Cell{Text: strings.TrimSpace(rec.Get("firstName") + " " + rec.Get("lastName"))}
}

func studentLink(id string) string {
	return "/student/loadpage?" + url.Values{"netID": {id}}.Encode()
}

var headerNames = map[string]string{
	"netID":         "NetID",
	"showID":        "Show ID",
	"sceneName":     "Scene",
	"characterName": "Character",
}

func headerFor(field string) string {
	if h, ok := headerNames[field]; ok {
		return h
	}
	return field
}
