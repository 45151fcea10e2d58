// Package dispatch handles the per-row action dropdowns of the list tables.
//
// A row's select starts idle on its blank option. Choosing an option
// dispatches exactly one action, either a navigation to a page addressed
// by the row's identity or a confirmed delete. The select is reset
// afterwards so choosing the same option again re-triggers it.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aanand-mishra/theater-records/internal/backend"
)

// Kind is the type of a menu action.
type Kind int

const (
	Navigate Kind = iota + 1
	Delete
)

// Identity is the set of key fields of a row, e.g. {"netID": "ABC123"}.
type Identity map[string]string

// Values encodes the identity as request parameters.
func (id Identity) Values() url.Values {
	v := make(url.Values, len(id))
	for k, val := range id {
		v.Set(k, val)
	}
	return v
}

// IdentityFrom keeps the named keys of v.
func IdentityFrom(v url.Values, keys ...string) Identity {
	id := make(Identity, len(keys))
	for _, k := range keys {
		id[k] = v.Get(k)
	}
	return id
}

// DeleteSpec describes a delete action. Endpoint and Prompt may contain
// {key} placeholders filled from the row identity.
type DeleteSpec struct {
	Endpoint string
	Method   string
	Prompt   string
	Success  string
	Failure  string

	// Redirect is where to go after a successful delete. Empty reloads the
	// current list.
	Redirect string

	// Validate rejects incomplete identities before any request is sent.
	Validate func(Identity) error
}

// Action is one menu entry.
type Action struct {
	Kind   Kind
	Route  string
	Delete *DeleteSpec
}

// Menu maps option values to actions.
type Menu map[string]Action

// OutcomeKind is the terminal state of a dispatch.
type OutcomeKind int

const (
	Idle OutcomeKind = iota
	Navigated
	NeedsConfirm
	Reloaded
	Redirected
	Failed
)

// Outcome is the result of a dispatch.
type Outcome struct {
	Kind        OutcomeKind
	URL         string
	Prompt      string
	Message     string
	ResetSelect bool
}

// Requester issues the delete request. *backend.Client satisfies it.
type Requester interface {
	Do(ctx context.Context, method, endpoint string, values url.Values) (*backend.Response, error)
}

// Dispatcher runs menu actions.
type Dispatcher struct {
	req Requester
	log *slog.Logger
}

// New builds a Dispatcher. A nil logger uses slog.Default().
func New(r Requester, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{req: r, log: log}
}

// Dispatch runs the action for choice. A delete that has not been confirmed
// returns NeedsConfirm with the prompt to show and sends nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, menu Menu, choice string, id Identity, confirmed bool) Outcome {
	out := Outcome{Kind: Idle, ResetSelect: true}
	if choice == "" {
		return out
	}
	action, ok := menu[choice]
	if !ok {
		d.log.Warn("unknown dropdown action", slog.String("choice", choice))
		return out
	}

	switch action.Kind {
	case Navigate:
		out.Kind = Navigated
		out.URL = Expand(action.Route, id)
		return out

	case Delete:
		spec := action.Delete
		if spec == nil {
			return out
		}
		if !confirmed {
			out.Kind = NeedsConfirm
			out.Prompt = Fill(spec.Prompt, id)
			return out
		}
		return d.delete(ctx, spec, id, out)
	}
	return out
}

func (d *Dispatcher) delete(ctx context.Context, spec *DeleteSpec, id Identity, out Outcome) Outcome {
	if spec.Validate != nil {
		if err := spec.Validate(id); err != nil {
			out.Kind = Failed
			out.Message = "Error: " + err.Error()
			return out
		}
	}

	method := spec.Method
	if method == "" {
		method = http.MethodPost
	}
	endpoint := Expand(spec.Endpoint, id)

	resp, err := d.req.Do(ctx, method, endpoint, id.Values())
	if err != nil {
		d.log.Error("error deleting", slog.String("endpoint", endpoint), slog.String("error", err.Error()))
		out.Kind = Failed
		out.Message = failure(spec, err.Error())
		return out
	}
	if !resp.OK() {
		out.Kind = Failed
		out.Message = failure(spec, resp.Message())
		return out
	}

	out.Message = spec.Success
	if spec.Redirect != "" {
		out.Kind = Redirected
		out.URL = Expand(spec.Redirect, id)
		return out
	}
	out.Kind = Reloaded
	return out
}

func failure(spec *DeleteSpec, detail string) string {
	msg := spec.Failure
	if msg == "" {
		msg = "Error"
	}
	if detail == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, detail)
}

// Expand fills {key} placeholders in a route. Placeholders in the path are
// path-escaped, those in the query string query-escaped.
func Expand(route string, id Identity) string {
	path, query, hasQuery := strings.Cut(route, "?")
	path = replace(path, id, url.PathEscape)
	if !hasQuery {
		return path
	}
	return path + "?" + replace(query, id, url.QueryEscape)
}

// Fill replaces {key} placeholders in display text without escaping.
func Fill(text string, id Identity) string {
	return replace(text, id, func(v string) string { return v })
}

// replace substitutes placeholders in one left-to-right pass. Inserted
// values are never scanned again; unknown keys are left as written.
func replace(s string, id Identity, escape func(string) string) string {
	var b strings.Builder
	for {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			break
		}
		open := strings.LastIndexByte(s[:end], '{')
		if open < 0 {
			b.WriteString(s[:end+1])
			s = s[end+1:]
			continue
		}
		b.WriteString(s[:open])
		if v, ok := id[s[open+1:end]]; ok {
			b.WriteString(escape(v))
		} else {
			b.WriteString(s[open : end+1])
		}
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}
