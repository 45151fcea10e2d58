// Package web serves the theater records front end: list pages with live
// filters, row actions, add and edit forms with autocomplete lists.
//
// Handlers follow the factory pattern used across the HTTP layer: each
// exported function receives its dependencies once at startup and returns
// the http.HandlerFunc the router calls on every request. Nothing here
// keeps state between requests except the filter sequencer.
package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aanand-mishra/theater-records/internal/autocomplete"
	"github.com/aanand-mishra/theater-records/internal/backend"
	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/entity"
	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/form"
	"github.com/aanand-mishra/theater-records/internal/loader"
	"github.com/aanand-mishra/theater-records/internal/notify"
	"github.com/aanand-mishra/theater-records/internal/view"
)

// Deps bundles what the front-end handlers need.
type Deps struct {
	Render   *view.Renderer
	Records  *entity.Registry
	Loader   *loader.Loader
	Filter   *filter.Controller
	Submit   *form.Submitter
	Lookup   *autocomplete.Helper
	Dispatch *dispatch.Dispatcher
	Notices  *notify.Store
	Log      *slog.Logger
}

// NewDeps wires the front-end components around one backend client.
func NewDeps(c *backend.Client, render *view.Renderer, reg *entity.Registry, seq *filter.Sequencer, notices *notify.Store, log *slog.Logger) *Deps {
	if log == nil {
		log = slog.Default()
	}
	l := loader.New(c, log)
	return &Deps{
		Render:   render,
		Records:  reg,
		Loader:   l,
		Filter:   filter.NewController(l, seq),
		Submit:   form.NewSubmitter(c, log),
		Lookup:   autocomplete.New(c, log),
		Dispatch: dispatch.New(c, log),
		Notices:  notices,
		Log:      log,
	}
}

// Register adds every front-end route to mux.
func Register(mux *http.ServeMux, d *Deps) {
	mux.Handle("GET /static/", view.Static())
	mux.HandleFunc("GET /{$}", Index(d))

	for _, t := range d.Records.Tables() {
		mux.HandleFunc("GET "+t.Path, ListPage(d, t))
		if t.Filterable {
			mux.HandleFunc("GET "+t.RowsEndpoint(), Rows(d, t))
		}
		if len(t.Menu) > 0 {
			mux.HandleFunc("GET "+t.ActionEndpoint(), Action(d, t))
			mux.HandleFunc("GET "+confirmPath(t), Confirm(d, t))
			mux.HandleFunc("POST "+confirmPath(t), ConfirmSubmit(d, t))
		}
	}
	for _, f := range d.Records.Forms() {
		mux.HandleFunc("GET "+f.Path, FormPage(d, f))
		mux.HandleFunc("POST "+f.Path, SubmitForm(d, f))
	}
	for _, c := range d.Records.Combined() {
		mux.HandleFunc("GET "+c.Path, CombinedPage(d, c))
	}
	for path, target := range d.Records.Redirects() {
		mux.HandleFunc("GET "+path, Redirect(target))
	}
}

// Index renders the landing page.
func Index(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := view.NewPage("Theater Database")
		p.Notice = d.Notices.Pop(w, r)
		p.Links = []view.Link{
			{Label: "Students", Href: "/student/loadpage"},
			{Label: "Actors", Href: "/actors/loadpage"},
			{Label: "Crew", Href: "/crew/loadpage"},
			{Label: "Shows", Href: "/show/loadpage"},
			{Label: "Characters", Href: "/characters/loadpage"},
		}
		d.page(w, "index", p)
	}
}

// Redirect answers with a 303 to target, filling {name} placeholders from
// the request's path wildcards.
func Redirect(target string) http.HandlerFunc {
	names := placeholders(target)
	return func(w http.ResponseWriter, r *http.Request) {
		id := make(dispatch.Identity, len(names))
		for _, n := range names {
			id[n] = r.PathValue(n)
		}
		http.Redirect(w, r, dispatch.Expand(target, id), http.StatusSeeOther)
	}
}

// flash stores n for the next page. A failure only loses the notice.
func (d *Deps) flash(w http.ResponseWriter, r *http.Request, n *notify.Notice) {
	if err := d.Notices.Set(w, r, n); err != nil {
		d.Log.Error("failed to store notice", slog.String("error", err.Error()))
	}
}

func (d *Deps) page(w http.ResponseWriter, name string, p *view.Page) {
	d.pageStatus(w, http.StatusOK, name, p)
}

func (d *Deps) pageStatus(w http.ResponseWriter, status int, name string, p *view.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var buf bytes.Buffer
	if err := d.Render.Page(&buf, name, p); err != nil {
		d.Log.Error("failed to render page", slog.String("page", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// navigate sends the browser to target. htmx requests get an HX-Redirect
// header, plain requests a 303.
func navigate(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// scopeOf reads the page keys from path wildcards, falling back to the
// query string.
func scopeOf(r *http.Request, keys []string) dispatch.Identity {
	id := make(dispatch.Identity, len(keys))
	q := r.URL.Query()
	for _, k := range keys {
		if v := r.PathValue(k); v != "" {
			id[k] = v
			continue
		}
		id[k] = q.Get(k)
	}
	return id
}

// selfURL is the request path plus the scope keys that travel in the query.
func selfURL(r *http.Request, keys []string) string {
	q := url.Values{}
	src := r.URL.Query()
	for _, k := range keys {
		if r.PathValue(k) == "" && src.Has(k) {
			q.Set(k, src.Get(k))
		}
	}
	if len(q) == 0 {
		return r.URL.Path
	}
	return r.URL.Path + "?" + q.Encode()
}

func placeholders(s string) []string {
	var out []string
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			return out
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			return out
		}
		out = append(out, s[open+1:open+end])
		s = s[open+end+1:]
	}
}
