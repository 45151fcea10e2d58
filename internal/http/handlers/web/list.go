package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/entity"
	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/notify"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

// ─────────────────────────────────────────────────────────────────────────────
// ListPage handles GET on a table page, e.g. /student/loadpage.
//
// Filterable tables start unfiltered unless the query pre-selects a filter
// (/characters/loadpage?netID=ABC123). Scoped detail tables such as
// /student/{netID}/shows read their keys from the path or query.
// ─────────────────────────────────────────────────────────────────────────────
func ListPage(d *Deps, t *entity.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeOf(r, t.Keys)
		p := view.NewPage(dispatch.Fill(t.Title, scope))
		p.Notice = d.Notices.Pop(w, r)
		p.Links = t.ScopedLinks(scope)
		p.AddTable(t.View())

		onErr := func(err error) {
			p.Notice = notify.Error("Error loading data: " + err.Error())
		}

		switch {
		case t.Filterable:
			q := initialQuery(t, r.URL.Query())
			p.Filter = filterState(t, q)
			if q.Empty() {
				_ = d.Loader.Load(r.Context(), p, t.Endpoints.All, t.TableID, t.Row, onErr)
				break
			}
			if err := d.Filter.Apply(r.Context(), p, "", t.TableID, t.Endpoints, q, t.Row); err != nil {
				d.Log.Error("error filtering", slog.String("table", t.Name), slog.String("error", err.Error()))
				onErr(err)
			}

		default:
			records, err := d.Loader.Fetch(r.Context(), t.Scoped(scope).All)
			if err != nil {
				d.Log.Error("error fetching data", slog.String("table", t.Name), slog.String("error", err.Error()))
				onErr(err)
				break
			}
			view.Populate(p, t.TableID, records, t.Row)
			if t.Heading != nil {
				p.Heading = t.Heading(scope, records)
			}
		}

		d.page(w, "list", p)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Rows handles GET /ui/{table}/rows, fired by the filter bar on every
// keystroke. It answers with the repainted table body.
//
// Query parameters:
//
//	token  - per-page view token; orders the responses of one page
//	column - selected filter option ("column" or "column,alias")
//	value  - filter text; empty shows the unfiltered list
//
// A response overtaken by a newer keystroke is dropped: 204 with
// HX-Reswap: none so the table is left alone. A failed request empties the
// table and puts the error where the filter hint was.
// ─────────────────────────────────────────────────────────────────────────────
func Rows(d *Deps, t *entity.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := r.URL.Query()
		q := t.Query(in.Get("column"), in.Get("value"))

		p := view.NewPage(t.Title)
		p.AddTable(t.View())

		err := d.Filter.Apply(r.Context(), p, in.Get("token"), t.TableID, t.Endpoints, q, t.Row)
		if errors.Is(err, filter.ErrStale) {
			w.Header().Set("HX-Reswap", "none")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		tbl, _ := p.Table(t.TableID)
		opts := append([]view.Option(nil), t.FilterOptions...)
		hint := view.Placeholder(view.SelectOption(opts, q.Selector.String()))
		if err != nil {
			d.Log.Error("error filtering", slog.String("table", t.Name), slog.String("error", err.Error()))
			hint = "Error loading data: " + err.Error()
		}

		var buf bytes.Buffer
		if err := d.Render.Fragment(&buf, "tbody", view.RowsFragment{Table: tbl, Hint: hint}); err != nil {
			d.Log.Error("failed to render rows", slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// CombinedPage handles pages that show several tables for one key, e.g.
// /student/{netID}/crewActor. The tables are fetched concurrently.
// ─────────────────────────────────────────────────────────────────────────────
func CombinedPage(d *Deps, c *entity.Combined) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue(c.Key)
		scope := dispatch.Identity{c.Key: key}

		p := view.NewPage(dispatch.Fill(c.Title, scope))
		p.Notice = d.Notices.Pop(w, r)
		p.Links = []view.Link{{Label: "Back to Students", Href: "/student/loadpage?" + url.Values{c.Key: {key}}.Encode()}}

		results, err := fetchSections(r.Context(), d, c, key)
		if err != nil {
			d.Log.Error("error loading sections", slog.String("key", key), slog.String("error", err.Error()))
			p.Notice = notify.Error("Error loading data: " + err.Error())
		}

		for i, sec := range c.Sections {
			tbl := sec.View()
			tbl.Caption = sec.Title
			p.AddTable(tbl)
			if results[i] != nil {
				view.Populate(p, sec.TableID, results[i], sec.Row)
			}
		}

		d.page(w, "list", p)
	}
}

func fetchSections(ctx context.Context, d *Deps, c *entity.Combined, key string) ([][]types.Record, error) {
	results := make([][]types.Record, len(c.Sections))
	g, ctx := errgroup.WithContext(ctx)
	for i, sec := range c.Sections {
		q, _ := sec.Prefilter(url.Values{c.Key: {key}})
		endpoint := sec.Endpoints.Endpoint(q)
		g.Go(func() error {
			records, err := d.Loader.Fetch(ctx, endpoint)
			if err != nil {
				return fmt.Errorf("%s: %w", sec.Name, err)
			}
			results[i] = records
			return nil
		})
	}
	return results, g.Wait()
}

func initialQuery(t *entity.Table, in url.Values) filter.Query {
	if v := in.Get("value"); v != "" {
		return t.Query(in.Get("column"), v)
	}
	q, _ := t.Prefilter(in)
	return q
}

// filterState builds the filter bar. Every page view gets a fresh token so
// the responses of its keystrokes are ordered independently of other tabs.
func filterState(t *entity.Table, q filter.Query) *view.FilterState {
	opts := append([]view.Option(nil), t.FilterOptions...)
	label := view.SelectOption(opts, q.Selector.String())
	return &view.FilterState{
		TableID:     t.TableID,
		Endpoint:    t.RowsEndpoint(),
		Token:       uuid.NewString(),
		Options:     opts,
		Column:      q.Selector.String(),
		Value:       q.Value,
		Placeholder: view.Placeholder(label),
	}
}
