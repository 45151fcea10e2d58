package form

import (
	"net/url"

	"github.com/aanand-mishra/theater-records/internal/netid"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

// Field maps one HTML input to the backend parameter it is sent as. A
// field with an empty Key is shown but never sent.
type Field struct {
	Key      string
	InputID  string

	// Source is the record field an edit form is pre-filled from. Empty
	// means Key.
	Source string

	Label    string
	Kind     view.FieldKind
	Required bool
	ReadOnly bool
	Lookup   *view.LookupBinding
}

// Definition describes an add or edit form.
type Definition struct {
	ID             string
	Title          string
	Fields         []Field
	SuccessMessage string
	Redirect       string
	SubmitID       string
	SubmitLabel    string

	// SendEmpty sends blank optional fields too. Edit forms set it so a
	// cleared field clears the stored value.
	SendEmpty bool

	// Validate runs on the collected fields before anything is sent.
	Validate func(*Fields) error
}

// Collect builds the submission fields from posted form values, which are
// keyed by input ID. NetID inputs are masked.
func (d Definition) Collect(posted url.Values) *Fields {
	f := NewFields()
	for _, field := range d.Fields {
		if field.Key == "" {
			continue
		}
		v := posted.Get(field.InputID)
		if field.Kind == view.KindNetID {
			v = netid.Mask(v)
		}
		if field.Required || d.SendEmpty {
			f.Set(field.Key, v)
			continue
		}
		f.SetIfNotEmpty(field.Key, v)
	}
	return f
}

// Check runs the definition's validator, if any.
func (d Definition) Check(f *Fields) error {
	if d.Validate == nil {
		return nil
	}
	return d.Validate(f)
}

// Submission wraps collected fields for endpoint.
func (d Definition) Submission(endpoint string, f *Fields) Submission {
	return Submission{
		Endpoint:       endpoint,
		Fields:         f,
		SuccessMessage: d.SuccessMessage,
		Redirect:       d.Redirect,
		FormID:         d.ID,
	}
}

// View renders the form with values keyed by input ID.
func (d Definition) View(action string, values map[string]string) *view.FormView {
	fv := &view.FormView{
		ID:          d.ID,
		Action:      action,
		SubmitID:    d.SubmitID,
		SubmitLabel: d.SubmitLabel,
		Cancel:      d.Redirect,
	}
	if fv.SubmitID == "" {
		fv.SubmitID = d.ID + "-submit"
	}
	if fv.SubmitLabel == "" {
		fv.SubmitLabel = "Save"
	}
	for _, field := range d.Fields {
		fv.Fields = append(fv.Fields, view.FieldView{
			ID:       field.InputID,
			Name:     field.InputID,
			Label:    field.Label,
			Kind:     field.Kind,
			Value:    values[field.InputID],
			Required: field.Required,
			ReadOnly: field.ReadOnly,
			Lookup:   field.Lookup,
		})
	}
	return fv
}

// InputValues flattens posted values into the map View expects.
func (d Definition) InputValues(posted url.Values) map[string]string {
	out := make(map[string]string, len(d.Fields))
	for _, field := range d.Fields {
		if posted.Has(field.InputID) {
			out[field.InputID] = posted.Get(field.InputID)
		}
	}
	return out
}

// Prefill maps a fetched record onto input IDs for an edit form.
func (d Definition) Prefill(rec types.Record) map[string]string {
	out := make(map[string]string, len(d.Fields))
	for _, field := range d.Fields {
		src := field.Source
		if src == "" {
			src = field.Key
		}
		if src == "" {
			continue
		}
		out[field.InputID] = rec.Get(src)
	}
	return out
}
