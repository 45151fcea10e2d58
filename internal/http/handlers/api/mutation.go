package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/theater-records/internal/storage"
	"github.com/aanand-mishra/theater-records/internal/utils/response"
)

// Param maps one request parameter to a column.
type Param struct {
	Name     string
	Column   string
	Required bool

	// Convert turns the raw text into the stored value. Nil stores the
	// text as is.
	Convert func(string) (any, error)
}

func (p Param) column() string {
	if p.Column == "" {
		return p.Name
	}
	return p.Column
}

// Mutation describes one write endpoint.
type Mutation struct {
	Entity storage.Entity

	// Noun names the record in messages, e.g. "student".
	Noun string

	// Key selects the rows an update or delete applies to. Values are read
	// from path wildcards first, then from the parameters.
	Key []Param

	// Fields are the columns written by an insert or update. A parameter
	// that was not sent leaves its column untouched.
	Fields []Param

	// Validate checks the parameters before anything is written.
	Validate func(url.Values) error

	Success  string
	NotFound string

	// Duplicate and Conflict replace the generic error text when the
	// write hits a unique or foreign key constraint.
	Duplicate string
	Conflict  string
}

// ─────────────────────────────────────────────────────────────────────────────
// Create handles POST /<entity>/add.
//
// Success response (200 OK):
//
//	{ "status": "success", "message": "Student added successfully!" }
//
// Error responses:
//
//	400 Bad Request  - missing parameter, failed validation, duplicate
//	                   record or a referenced record that does not exist
//	500 Internal     - database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Create(s storage.Storage, m Mutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("adding record", slog.String("entity", string(m.Entity)))

		values, ok := m.read(w, r)
		if !ok {
			return
		}
		row, ok := m.row(w, values)
		if !ok {
			return
		}

		err := s.Insert(r.Context(), m.Entity, row)
		m.finish(w, "adding", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles the edit endpoints, e.g. POST /student/{netID}/edit.
//
// Error responses add 404 Not Found when no row matches the key.
// ─────────────────────────────────────────────────────────────────────────────
func Update(s storage.Storage, m Mutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("editing record", slog.String("entity", string(m.Entity)))

		values, ok := m.read(w, r)
		if !ok {
			return
		}
		key, ok := m.key(w, r, values)
		if !ok {
			return
		}
		row, ok := m.row(w, values)
		if !ok {
			return
		}
		if len(row) == 0 {
			response.WriteJSON(w, http.StatusBadRequest, response.Error("Nothing to update"))
			return
		}

		err := s.Update(r.Context(), m.Entity, key, row)
		m.finish(w, "editing", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles the delete endpoints. Both POST and DELETE carry the key
// as form parameters.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(s storage.Storage, m Mutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("deleting record", slog.String("entity", string(m.Entity)))

		values, ok := m.read(w, r)
		if !ok {
			return
		}
		key, ok := m.key(w, r, values)
		if !ok {
			return
		}

		err := s.Delete(r.Context(), m.Entity, key)
		m.finish(w, "deleting", err)
	}
}

// read parses the parameters and runs Validate.
func (m Mutation) read(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	values, err := params(r)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return nil, false
	}
	for _, p := range append(append([]Param{}, m.Key...), m.Fields...) {
		if p.Required && strings.TrimSpace(values.Get(p.Name)) == "" && r.PathValue(p.Name) == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.Error("Missing required parameter: "+p.Name))
			return nil, false
		}
	}
	if m.Validate != nil {
		if err := m.Validate(values); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
			} else {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			}
			return nil, false
		}
	}
	return values, true
}

func (m Mutation) key(w http.ResponseWriter, r *http.Request, values url.Values) (storage.Key, bool) {
	key := make(storage.Key, len(m.Key))
	for _, p := range m.Key {
		v := r.PathValue(p.Name)
		if v == "" {
			v = values.Get(p.Name)
		}
		if v == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.Error("Missing required parameter: "+p.Name))
			return nil, false
		}
		key[p.column()] = v
	}
	return key, true
}

func (m Mutation) row(w http.ResponseWriter, values url.Values) (storage.Row, bool) {
	row := make(storage.Row, len(m.Fields))
	for _, p := range m.Fields {
		if !values.Has(p.Name) {
			continue
		}
		raw := strings.TrimSpace(values.Get(p.Name))
		if p.Convert == nil {
			row[p.column()] = raw
			continue
		}
		v, err := p.Convert(raw)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Error(fmt.Sprintf("Invalid value for %s: %s", p.Name, raw)))
			return nil, false
		}
		row[p.column()] = v
	}
	return row, true
}

// finish maps the storage outcome onto the response envelope.
func (m Mutation) finish(w http.ResponseWriter, verb string, err error) {
	switch {
	case err == nil:
		response.WriteJSON(w, http.StatusOK, response.Success(m.Success))
	case errors.Is(err, storage.ErrNotFound):
		msg := m.NotFound
		if msg == "" {
			msg = capitalize(m.Noun) + " not found"
		}
		response.WriteJSON(w, http.StatusNotFound, response.Error(msg))
	case errors.Is(err, storage.ErrDuplicate) && m.Duplicate != "":
		response.WriteJSON(w, http.StatusBadRequest, response.Error(m.Duplicate))
	case errors.Is(err, storage.ErrForeignKey) && m.Conflict != "":
		response.WriteJSON(w, http.StatusBadRequest, response.Error(m.Conflict))
	case errors.Is(err, storage.ErrDuplicate), errors.Is(err, storage.ErrForeignKey):
		response.WriteJSON(w, http.StatusBadRequest,
			response.Error(fmt.Sprintf("Error %s %s: %s", verb, m.Noun, err.Error())))
	default:
		slog.Error("error writing record",
			slog.String("entity", string(m.Entity)),
			slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError,
			response.Error(fmt.Sprintf("Error %s %s: %s", verb, m.Noun, err.Error())))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// optionalInt stores an empty value as NULL.
func optionalInt(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("not a whole number: %q", raw)
	}
	return n, nil
}

// yesNo stores a Yes/No choice as 1 or 0; blank is No.
func yesNo(raw string) (any, error) {
	switch strings.ToLower(raw) {
	case "yes", "true", "1", "on":
		return 1, nil
	case "", "no", "false", "0", "off":
		return 0, nil
	}
	return nil, fmt.Errorf("not a yes/no value: %q", raw)
}
