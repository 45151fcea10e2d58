// Package api contains the HTTP handlers of the reference records backend.
//
// HANDLER PATTERN
// ───────────────
// Every handler is built by a factory that receives its dependencies once
// at startup and returns the http.HandlerFunc the router calls on every
// request:
//
//	router.HandleFunc("GET /student/getAll", api.List(store, storage.Students))
//
// Read endpoints answer with a bare JSON array of records. Write endpoints
// take form-encoded parameters and answer with the response envelope
// {"status": ..., "message": ...}.
package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aanand-mishra/theater-records/internal/storage"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/utils/response"
)

// maxFormBytes caps request bodies read by params.
const maxFormBytes = 1 << 20

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /<entity>/getAll and returns every row.
// ─────────────────────────────────────────────────────────────────────────────
func List(s storage.Storage, e storage.Entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing records", slog.String("entity", string(e)))

		records, err := s.List(r.Context(), e)
		writeRecords(w, records, err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// FilterBy handles GET /<entity>/filterBy?column=&value=[&page=]
//
// page is the alias of the joined table the column belongs to (characters
// only). When the endpoint has a single filter column, column may be left
// out and defaultColumn is used.
//
// Error responses:
//
//	400 Bad Request  - column not in the entity's whitelist
//	500 Internal     - database error
//
// ─────────────────────────────────────────────────────────────────────────────
func FilterBy(s storage.Storage, e storage.Entity, defaultColumn string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := storage.Filter{
			Column: q.Get("column"),
			Alias:  q.Get("page"),
			Value:  q.Get("value"),
		}
		if f.Column == "" {
			f.Column = defaultColumn
		}

		records, err := s.FilterBy(r.Context(), e, f)
		writeRecords(w, records, err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Search handles the autocomplete lookups, e.g.
//
//	GET /student/search?searchBy=lastName&value=do
//	GET /shows/getShowIDName?searchBy=showName&searchValue=ham
//
// valueParam names the query parameter holding the search text.
// ─────────────────────────────────────────────────────────────────────────────
func Search(s storage.Storage, e storage.Entity, valueParam, defaultColumn string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := storage.Filter{Column: q.Get("searchBy"), Value: q.Get(valueParam)}
		if f.Column == "" {
			f.Column = defaultColumn
		}

		records, err := s.FilterBy(r.Context(), e, f)
		writeRecords(w, records, err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Get handles exact lookups such as GET /student/get?netID=ABC123.
//
// The answer is always an array, empty when nothing matches, so callers
// read it the same way as a list.
//
// Error responses:
//
//	400 Bad Request  - a key parameter is missing
//
// ─────────────────────────────────────────────────────────────────────────────
func Get(s storage.Storage, e storage.Entity, keys ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		key := make(storage.Key, len(keys))
		for _, k := range keys {
			v := strings.TrimSpace(q.Get(k))
			if v == "" {
				response.WriteJSON(w, http.StatusBadRequest, response.Error("Missing required parameter: "+k))
				return
			}
			key[k] = v
		}

		records, err := s.Find(r.Context(), e, key)
		writeRecords(w, records, err)
	}
}

// Report handles the joined detail queries, e.g. GET /student/getShows?netID=.
func Report(s storage.Storage, d storage.Detail, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := strings.TrimSpace(r.URL.Query().Get(param))
		if v == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.Error("Missing required parameter: "+param))
			return
		}

		records, err := s.Report(r.Context(), d, v)
		writeRecords(w, records, err)
	}
}

func writeRecords(w http.ResponseWriter, records []types.Record, err error) {
	switch {
	case errors.Is(err, storage.ErrUnknownColumn):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	case err != nil:
		slog.Error("error reading records", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	default:
		if records == nil {
			records = []types.Record{}
		}
		response.WriteJSON(w, http.StatusOK, records)
	}
}

// params returns the request's query and form values, path wildcards
// excluded. net/http only parses bodies of POST, PUT and PATCH, so a
// form-encoded DELETE body is read here.
func params(r *http.Request) (url.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	if r.Method != http.MethodDelete || r.Body == nil {
		return r.Form, nil
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		return r.Form, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBytes))
	if err != nil {
		return nil, err
	}
	fromBody, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}
	out := url.Values{}
	for k, vs := range fromBody {
		out[k] = append(out[k], vs...)
	}
	for k, vs := range r.Form {
		out[k] = append(out[k], vs...)
	}
	return out, nil
}
