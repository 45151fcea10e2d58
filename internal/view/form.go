package view

// FieldKind selects the input widget for a form field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindNumber   FieldKind = "number"
	KindEmail    FieldKind = "email"
	KindTextarea FieldKind = "textarea"
	KindYesNo    FieldKind = "yesno"
	KindHidden   FieldKind = "hidden"
	KindNetID    FieldKind = "netid"
)

// FieldView is one rendered form input.
type FieldView struct {
	ID       string
	Name     string
	Label    string
	Kind     FieldKind
	Value    string
	Required bool
	ReadOnly bool

	// Lookup wires the input to an autocomplete list: typing issues a
	// search scoped to SearchBy and refreshes the list with that ID.
	Lookup *LookupBinding
}

// LookupBinding connects an input to an autocomplete list. Swap is the
// hx-select-oob selector list of the elements refreshed by a search.
type LookupBinding struct {
	Endpoint string
	SearchBy string
	ListID   string
	ButtonID string
	Swap     string
}

// Listing is an autocomplete select list and the state of the submit button
// it guards.
type Listing struct {
	FormID         string
	SelectID       string
	ButtonID       string
	SelectEndpoint string
	Options        []Option
	Size           int
	SubmitDisabled bool
	Hidden         bool
	Count          int

	// Autofill holds field values to set without a selection, keyed by
	// input ID (a single matching show fills showID).
	Autofill map[string]string
}

// FormView is a rendered add or edit form.
type FormView struct {
	ID          string
	Action      string
	SubmitID    string
	SubmitLabel string
	Cancel      string
	Fields      []FieldView
	Hidden      []Hidden
	Lists       []*Listing
	Errors      []string

	// SubmitDisabled starts the submit button disabled until an
	// autocomplete list has a match.
	SubmitDisabled bool
}

// Reset clears every non-hidden field value, as after a successful submit.
func (f *FormView) Reset() {
	if f == nil {
		return
	}
	for i := range f.Fields {
		if f.Fields[i].Kind != KindHidden && !f.Fields[i].ReadOnly {
			f.Fields[i].Value = ""
		}
	}
	f.Errors = nil
}

// Field returns the field with the given input ID.
func (f *FormView) Field(id string) (*FieldView, bool) {
	if f == nil {
		return nil, false
	}
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i], true
		}
	}
	return nil, false
}

// ClearInput empties one field; unknown IDs are ignored.
func (f *FormView) ClearInput(id string) {
	if field, ok := f.Field(id); ok {
		field.Value = ""
	}
}

// Fill copies values into fields by input ID; unknown IDs are ignored.
func (f *FormView) Fill(values map[string]string) {
	for id, v := range values {
		if field, ok := f.Field(id); ok {
			field.Value = v
		}
	}
}

// ConfirmView asks the user to confirm a destructive action. The action is
// only performed by submitting this form.
type ConfirmView struct {
	Prompt string
	Action string
	Hidden []Hidden
	Cancel string
}
