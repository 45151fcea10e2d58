// Package autocomplete looks up students and shows while the user types
// into a name or ID field, and turns a picked entry back into the related
// form fields.
package autocomplete

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

// MaxVisibleRows caps the visible height of a result list.
const MaxVisibleRows = 4

// Input IDs filled in when an entry is picked.
const (
	NetIDInput        = "netIDInput"
	FirstNameInput    = "firstName"
	LastNameInput     = "lastName"
	ShowIDInput       = "showID"
	ShowNameInput     = "showName"
	YearSemesterInput = "yearSemester"
)

// ErrNoSelection is returned when a pick carries no payload.
var ErrNoSelection = errors.New("autocomplete: nothing selected")

// Searcher runs a search endpoint. *backend.Client satisfies it.
type Searcher interface {
	FetchRecords(ctx context.Context, endpoint string) ([]types.Record, error)
}

// StudentPayload is the identity carried by a student option.
type StudentPayload struct {
	NetID     string `json:"netID"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ShowPayload is the identity carried by a show option.
type ShowPayload struct {
	ShowID       string `json:"showID"`
	ShowName     string `json:"showName"`
	YearSemester string `json:"yearSemester"`
}

// Selection is the result of picking an option: the form values to fill,
// keyed by input ID, and the narrowed list.
type Selection struct {
	Fields  map[string]string
	Listing *view.Listing
}

// Helper runs lookups against the backend.
type Helper struct {
	search Searcher
	log    *slog.Logger
}

// New builds a Helper. A nil logger uses slog.Default().
func New(s Searcher, log *slog.Logger) *Helper {
	if log == nil {
		log = slog.Default()
	}
	return &Helper{search: s, log: log}
}

// StudentSearchEndpoint is the backend student search URL.
func StudentSearchEndpoint(value, searchBy string) string {
	return "/student/search?" + url.Values{"value": {value}, "searchBy": {searchBy}}.Encode()
}

// ShowSearchEndpoint is the backend show lookup URL.
func ShowSearchEndpoint(searchBy, value string) string {
	return "/shows/getShowIDName?" + url.Values{"searchBy": {searchBy}, "searchValue": {value}}.Encode()
}

// FindStudents searches students whose searchBy field matches value and
// builds the result list for selectID. With no match the list holds a
// single "No students found" entry and the submit button is disabled.
func (h *Helper) FindStudents(ctx context.Context, value, searchBy, selectID, buttonID string) (*view.Listing, error) {
	records, err := h.search.FetchRecords(ctx, StudentSearchEndpoint(value, searchBy))
	if err != nil {
		h.log.Error("error searching for students", slog.String("error", err.Error()))
		return nil, fmt.Errorf("find students: %w", err)
	}

	l := &view.Listing{SelectID: selectID, ButtonID: buttonID}
	if len(records) == 0 {
		noResults(l, "No students found")
		return l, nil
	}

	for _, r := range records {
		p := StudentPayload{
			NetID:     r.Get("netID"),
			FirstName: r.Get("firstName"),
			LastName:  r.Get("lastName"),
		}
		value, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("find students: encode option: %w", err)
		}
		l.Options = append(l.Options, view.Option{
			Value: string(value),
			Label: fmt.Sprintf("%s %s (%s)", p.FirstName, p.LastName, p.NetID),
		})
	}
	found(l, len(records))
	return l, nil
}

// FindShows searches shows whose searchBy field matches value. A single
// match also fills the show ID field.
func (h *Helper) FindShows(ctx context.Context, searchBy, value, selectID, buttonID string) (*view.Listing, error) {
	records, err := h.search.FetchRecords(ctx, ShowSearchEndpoint(searchBy, value))
	if err != nil {
		h.log.Error("error searching for shows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("find shows: %w", err)
	}

	l := &view.Listing{SelectID: selectID, ButtonID: buttonID}
	if len(records) == 0 {
		noResults(l, "No shows found")
		return l, nil
	}

	for _, r := range records {
		p := ShowPayload{
			ShowID:       r.Get("showID"),
			ShowName:     r.Get("showName"),
			YearSemester: r.Get("yearSemester"),
		}
		value, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("find shows: encode option: %w", err)
		}
		l.Options = append(l.Options, view.Option{
			Value: string(value),
			Label: fmt.Sprintf("%s (%s)", p.ShowName, p.YearSemester),
		})
	}
	if len(records) == 1 {
		l.Autofill = map[string]string{ShowIDInput: records[0].Get("showID")}
	}
	found(l, len(records))
	return l, nil
}

// SelectStudent decodes a picked student option, returns the name and ID
// fields to fill and re-queries by NetID so the list narrows to the pick.
func (h *Helper) SelectStudent(ctx context.Context, raw, selectID, buttonID string) (*Selection, error) {
	if raw == "" {
		return nil, ErrNoSelection
	}
	var p StudentPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("select student: %w", err)
	}

	l, err := h.FindStudents(ctx, p.NetID, "netID", selectID, buttonID)
	if err != nil {
		return nil, err
	}
	markSelected(l, raw)

	return &Selection{
		Fields: map[string]string{
			NetIDInput:     p.NetID,
			FirstNameInput: p.FirstName,
			LastNameInput:  p.LastName,
		},
		Listing: l,
	}, nil
}

// SelectShow decodes a picked show option and re-queries by show name.
func (h *Helper) SelectShow(ctx context.Context, raw, selectID, buttonID string) (*Selection, error) {
	if raw == "" {
		return nil, ErrNoSelection
	}
	var p ShowPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("select show: %w", err)
	}

	l, err := h.FindShows(ctx, "showName", p.ShowName, selectID, buttonID)
	if err != nil {
		return nil, err
	}
	markSelected(l, raw)

	return &Selection{
		Fields: map[string]string{
			ShowNameInput:     p.ShowName,
			YearSemesterInput: p.YearSemester,
			ShowIDInput:       p.ShowID,
		},
		Listing: l,
	}, nil
}

func noResults(l *view.Listing, label string) {
	l.Options = []view.Option{{Label: label}}
	l.Size = 0
	l.Count = 0
	l.SubmitDisabled = true
}

func found(l *view.Listing, n int) {
	l.Count = n
	l.Size = min(n, MaxVisibleRows)
	l.SubmitDisabled = false
}

func markSelected(l *view.Listing, raw string) {
	for i := range l.Options {
		l.Options[i].Selected = l.Options[i].Value == raw
	}
}
