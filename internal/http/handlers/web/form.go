package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/entity"
	"github.com/aanand-mishra/theater-records/internal/notify"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

var errNotFound = errors.New("record not found")

// ─────────────────────────────────────────────────────────────────────────────
// FormPage handles GET on an add or edit page.
//
// Edit pages are pre-filled from the backend. The same handler serves the
// autocomplete requests of the page:
//
//	lookup=<list id>&field=<input>&searchBy=<column>  - a keystroke in a
//	    bound input; the list and submit button are swapped out of band
//	lookup=<list id>&<list id>=<payload>              - an entry picked from
//	    the list; the whole form is swapped with the fields filled in
//
// ─────────────────────────────────────────────────────────────────────────────
func FormPage(d *Deps, f *entity.FormPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeOf(r, f.Keys)
		q := r.URL.Query()

		p := view.NewPage(dispatch.Fill(f.Title, scope))
		p.Notice = d.Notices.Pop(w, r)

		values := map[string]string{}
		if f.Validate != nil {
			if err := f.Validate(scope); err != nil {
				p.Notice = notify.Error("Error: " + err.Error())
			}
		}
		if f.Prefill != nil && !q.Has("lookup") && p.Notice == nil {
			rec, err := d.prefill(r.Context(), f, scope)
			if err != nil {
				d.Log.Error("error loading form values", slog.String("form", f.Form.ID), slog.String("error", err.Error()))
				p.Notice = notify.Error("Error loading data: " + err.Error())
			} else {
				values = f.Form.Prefill(rec)
			}
		}
		for k, v := range f.Form.InputValues(q) {
			values[k] = v
		}

		p.Form = d.formView(r.Context(), f, selfURL(r, f.Keys), values, q)
		d.page(w, "form", p)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// SubmitForm handles POST on an add or edit page.
//
// The posted inputs are collected per the form definition, the page keys
// are added so every mutation carries its full identity, and the result is
// posted to the backend. Success redirects with a notice (the fresh page
// is the reset form). Failure re-renders the form with the server's text
// and does not navigate.
// ─────────────────────────────────────────────────────────────────────────────
func SubmitForm(d *Deps, f *entity.FormPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		scope := scopeOf(r, f.Keys)
		action := selfURL(r, f.Keys)

		fields := f.Form.Collect(r.PostForm)
		for k, v := range scope {
			fields.Set(k, v)
		}

		fail := func(msg string) {
			p := view.NewPage(dispatch.Fill(f.Title, scope))
			fv := d.formView(r.Context(), f, action, f.Form.InputValues(r.PostForm), url.Values{})
			fv.Errors = append(fv.Errors, msg)
			p.Form = fv
			d.pageStatus(w, http.StatusUnprocessableEntity, "form", p)
		}

		if f.Validate != nil {
			if err := f.Validate(scope); err != nil {
				fail("Error: " + err.Error())
				return
			}
		}
		if err := f.Form.Check(fields); err != nil {
			fail("Error: " + err.Error())
			return
		}

		merged := dispatch.Identity{}
		for k := range fields.Values() {
			merged[k] = fields.Get(k)
		}
		sub := f.Form.Submission(dispatch.Expand(f.Endpoint, scope), fields)
		sub.Redirect = dispatch.Expand(sub.Redirect, merged)

		res := d.Submit.Submit(r.Context(), sub)
		if !res.OK {
			fail(res.Message)
			return
		}

		target := res.Redirect
		if target == "" {
			target = action
		}
		d.flash(w, r, res.Notice())
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

func (d *Deps) prefill(ctx context.Context, f *entity.FormPage, scope dispatch.Identity) (types.Record, error) {
	records, err := d.Loader.Fetch(ctx, dispatch.Expand(f.Prefill.Endpoint, scope))
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if f.Prefill.Match == nil || f.Prefill.Match(rec, scope) {
			return rec, nil
		}
	}
	return nil, errNotFound
}

// formView renders the form and its autocomplete lists. q carries the
// lookup parameters of an autocomplete request, if any.
func (d *Deps) formView(ctx context.Context, f *entity.FormPage, action string, values map[string]string, q url.Values) *view.FormView {
	fv := f.Form.View(action, values)

	active := q.Get("lookup")
	for _, lk := range f.Lookups {
		var (
			listing *view.Listing
			err     error
		)
		switch {
		case active == lk.SelectID && q.Has("field"):
			listing, err = d.find(ctx, lk, q.Get(q.Get("field")), q.Get("searchBy"))
		case active == lk.SelectID && q.Get(lk.SelectID) != "":
			listing, err = d.pick(ctx, lk, q.Get(lk.SelectID), fv)
		default:
			seed := ""
			if in, ok := fv.Field(lk.Input); ok {
				seed = in.Value
			}
			if seed == "" {
				listing = &view.Listing{SelectID: lk.SelectID, ButtonID: lk.ButtonID, Hidden: true}
				break
			}
			listing, err = d.find(ctx, lk, seed, lk.SearchBy)
		}
		if err != nil {
			fv.Errors = append(fv.Errors, "Error: "+err.Error())
			listing = &view.Listing{SelectID: lk.SelectID, ButtonID: lk.ButtonID, Hidden: true}
		}

		listing.FormID = fv.ID
		listing.SelectEndpoint = action
		if listing.Autofill != nil {
			fv.Fill(listing.Autofill)
		}
		if listing.SubmitDisabled {
			fv.SubmitDisabled = true
		}
		fv.Lists = append(fv.Lists, listing)
	}

	for i := range fv.Fields {
		b := fv.Fields[i].Lookup
		if b == nil {
			continue
		}
		bound := *b
		bound.Endpoint = action
		bound.ButtonID = fv.SubmitID
		swap := []string{"#" + bound.ListID, "#" + bound.ButtonID}
		for _, lk := range f.Lookups {
			if lk.SelectID == bound.ListID && lk.Kind == entity.ShowLookup {
				swap = append(swap, "#showID")
			}
		}
		bound.Swap = strings.Join(swap, ",")
		fv.Fields[i].Lookup = &bound
	}
	return fv
}

func (d *Deps) find(ctx context.Context, lk entity.Lookup, value, searchBy string) (*view.Listing, error) {
	if searchBy == "" {
		searchBy = lk.SearchBy
	}
	if lk.Kind == entity.ShowLookup {
		return d.Lookup.FindShows(ctx, searchBy, value, lk.SelectID, lk.ButtonID)
	}
	return d.Lookup.FindStudents(ctx, value, searchBy, lk.SelectID, lk.ButtonID)
}

func (d *Deps) pick(ctx context.Context, lk entity.Lookup, payload string, fv *view.FormView) (*view.Listing, error) {
	pick := d.Lookup.SelectStudent
	if lk.Kind == entity.ShowLookup {
		pick = d.Lookup.SelectShow
	}
	sel, err := pick(ctx, payload, lk.SelectID, lk.ButtonID)
	if err != nil {
		return nil, err
	}
	fv.Fill(sel.Fields)
	return sel.Listing, nil
}
