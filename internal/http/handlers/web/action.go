package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/entity"
	"github.com/aanand-mishra/theater-records/internal/notify"
	"github.com/aanand-mishra/theater-records/internal/view"
)

func confirmPath(t *entity.Table) string { return "/ui/" + t.Name + "/confirm" }

// ─────────────────────────────────────────────────────────────────────────────
// Action handles GET /ui/{table}/action, sent when a row dropdown changes.
//
//	action   - the chosen option; blank or unknown does nothing (204)
//	identity - the row's key fields, e.g. netID=ABC123
//
// Navigations redirect straight away. Deletes go to the confirmation page
// first; no delete request is sent from here.
// ─────────────────────────────────────────────────────────────────────────────
func Action(d *Deps, t *entity.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := r.URL.Query()
		choice := in.Get("action")
		id := dispatch.IdentityFrom(in, t.Identity...)

		out := d.Dispatch.Dispatch(r.Context(), t.Menu.Actions(), choice, id, false)
		switch out.Kind {
		case dispatch.Navigated:
			navigate(w, r, out.URL)
		case dispatch.NeedsConfirm:
			q := id.Values()
			q.Set("action", choice)
			navigate(w, r, confirmPath(t)+"?"+q.Encode())
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

// Confirm renders the delete confirmation for a row.
func Confirm(d *Deps, t *entity.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := r.URL.Query()
		choice := in.Get("action")
		id := dispatch.IdentityFrom(in, t.Identity...)

		out := d.Dispatch.Dispatch(r.Context(), t.Menu.Actions(), choice, id, false)
		if out.Kind != dispatch.NeedsConfirm {
			http.Redirect(w, r, backURL(t, id), http.StatusSeeOther)
			return
		}

		hidden := []view.Hidden{{Name: "action", Value: choice}}
		for _, k := range t.Identity {
			hidden = append(hidden, view.Hidden{Name: k, Value: id[k]})
		}

		p := view.NewPage("Confirm")
		p.Confirm = &view.ConfirmView{
			Prompt: out.Prompt,
			Action: confirmPath(t),
			Hidden: hidden,
			Cancel: backURL(t, id),
		}
		d.page(w, "confirm", p)
	}
}

// ConfirmSubmit runs a confirmed delete and redirects with a notice. A post
// without confirmed=yes is treated as declined and sends nothing.
func ConfirmSubmit(d *Deps, t *entity.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		id := dispatch.IdentityFrom(r.PostForm, t.Identity...)
		back := backURL(t, id)

		if r.PostForm.Get("confirmed") != "yes" {
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}

		out := d.Dispatch.Dispatch(r.Context(), t.Menu.Actions(), r.PostForm.Get("action"), id, true)
		switch out.Kind {
		case dispatch.Reloaded:
			d.flash(w, r, notify.Info(out.Message))
		case dispatch.Redirected:
			d.flash(w, r, notify.Info(out.Message))
			back = out.URL
		case dispatch.Failed:
			d.flash(w, r, notify.Error(out.Message))
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

// backURL is the page listing the row: the table path with its scope keys
// taken from the row identity.
func backURL(t *entity.Table, id dispatch.Identity) string {
	if strings.Contains(t.Path, "{") {
		return dispatch.Expand(t.Path, id)
	}
	if len(t.Keys) == 0 {
		return t.Path
	}
	q := url.Values{}
	for _, k := range t.Keys {
		q.Set(k, id[k])
	}
	return t.Path + "?" + q.Encode()
}
