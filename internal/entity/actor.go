package entity

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/theater-records/internal/autocomplete"
	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/form"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

var measurementLabels = map[string]string{
	"skinTone":              "Skin Tone",
	"piercings":             "Piercings",
	"hairColor":             "Hair Color",
	"previousInjuries":      "Previous Injuries",
	"specialNotes":          "Special Notes",
	"height":                "Height",
	"ringSize":              "Ring Size",
	"shoeSize":              "Shoe Size",
	"headCirc":              "Head Circ.",
	"neckBase":              "Neck Base",
	"chest":                 "Chest",
	"waist":                 "Waist",
	"highHip":               "High Hip",
	"lowHip":                "Low Hip",
	"armseyeToArmseyeFront": "Armseye to Armseye (Front)",
	"neckToWaistFront":      "Neck to Waist (Front)",
	"armseyeToArmseyeBack":  "Armseye to Armseye (Back)",
	"neckToWaistBack":       "Neck to Waist (Back)",
	"centerBackToWrist":     "Center Back to Wrist",
	"outsleeveToWrist":      "Outsleeve to Wrist",
	"outseamBelowKnee":      "Outseam Below Knee",
	"outseamToAnkle":        "Outseam to Ankle",
	"outseamToFloor":        "Outseam to Floor",
	"otherNotes":            "Other Notes",
}

func registerActors(r *Registry) {
	headers := []string{"Name", "Years Acting Experience"}
	for _, f := range types.MeasurementFields {
		headers = append(headers, measurementLabels[f])
	}

	r.AddTable(&Table{
		Name:    "actor",
		Title:   "Actors",
		Path:    "/actors/loadpage",
		TableID: "actor-table-body",
		Headers: headers,
		Empty:   "No actors found",
		Endpoints: filter.Endpoints{
			All:      "/actors/getAll",
			Filtered: filter.FilterBy("actors"),
		},
		Filterable: true,
		FilterOptions: []view.Option{
			{Value: "netID", Label: "NetID"},
			{Value: "firstName", Label: "First Name"},
			{Value: "lastName", Label: "Last Name"},
			{Value: "shows", Label: "Show ID"},
		},
		Prefilters: []Prefilter{{Param: "netID", Selector: "netID"}},
		Identity:   []string{"netID"},
		MenuLabel:  "netID",
		Menu: Menu{
			{"edit", "Edit Actor", navigate("/actor/editPage?netID={netID}")},
			{"student", "Student Page", navigate("/student/loadpage?netID={netID}")},
		},
		Links: []view.Link{{Label: "Add Actor", Href: "/actor/add"}},
		Cells: actorCells,
	})

	r.AddForm(&FormPage{
		Path:     "/actor/add",
		Title:    "Add Actor",
		Endpoint: "/actors/add",
		Form: form.Definition{
			ID:             "add-actor-form",
			Title:          "Add Actor",
			SuccessMessage: "Actor added successfully!",
			Redirect:       "/actors/loadpage",
			SubmitID:       "addActorButton",
			SubmitLabel:    "Add Actor",
			Fields:         append(studentLookupFields("netID", false), actorFields()...),
			Validate:       validateActor(true),
		},
		Lookups: []Lookup{studentLookup("addActorButton")},
	})

	r.AddForm(&FormPage{
		Path:     "/actor/editPage",
		Title:    "Edit Actor {netID}",
		Keys:     []string{"netID"},
		Endpoint: "/actors/edit?netID={netID}",
		Form: form.Definition{
			ID:             "edit-actor-form",
			Title:          "Edit Actor",
			SuccessMessage: "Actor edited successfully!",
			Redirect:       "/actors/loadpage",
			SubmitLabel:    "Save Changes",
			SendEmpty:      true,
			Fields:         actorFields(),
			Validate:       validateActor(false),
		},
		Prefill:  &Prefill{Endpoint: "/actors/get?netID={netID}"},
		Validate: validNetID,
	})
}

func actorCells(rec types.Record) []view.Cell {
	cells := []view.Cell{
		{Text: fullName(rec).Text, Class: "sticky"},
		text(rec, "yearsActingExperience"),
	}
	for _, f := range types.MeasurementFields {
		cells = append(cells, text(rec, f))
	}
	return cells
}

func actorFields() []form.Field {
	fields := []form.Field{
		{Key: "yearsActingExperience", InputID: "yearsActingExperience", Label: "Years Acting Experience", Kind: view.KindNumber},
	}
	for _, f := range types.MeasurementFields {
		kind := view.KindText
		if f == "specialNotes" || f == "otherNotes" || f == "previousInjuries" {
			kind = view.KindTextarea
		}
		fields = append(fields, form.Field{Key: f, InputID: f, Label: measurementLabels[f], Kind: kind})
	}
	return fields
}

var errYears = errors.New("field yearsActingExperience must be a whole number")

// validateActor checks the posted actor. Edit forms carry the netID in the
// endpoint rather than the body, so they skip that field.
func validateActor(withNetID bool) func(*form.Fields) error {
	return func(f *form.Fields) error {
		a := types.Actor{NetID: f.Get("netID")}
		if v := f.Get("yearsActingExperience"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errYears
			}
			a.YearsActingExperience = &n
		}

		err := types.Validator().Struct(a)
		var ve validator.ValidationErrors
		if withNetID || !errors.As(err, &ve) {
			return describe(err)
		}
		var rest validator.ValidationErrors
		for _, fe := range ve {
			if fe.Field() != "netID" {
				rest = append(rest, fe)
			}
		}
		if len(rest) == 0 {
			return nil
		}
		return describe(rest)
	}
}

// studentLookupFields are the NetID and name inputs bound to the student
// autocomplete list. The NetID is sent as key; the names only when
// sendNames is set.
func studentLookupFields(key string, sendNames bool) []form.Field {
	bind := func(searchBy string) *view.LookupBinding {
		return &view.LookupBinding{SearchBy: searchBy, ListID: "student-select"}
	}
	fields := []form.Field{
		{Key: key, InputID: autocomplete.NetIDInput, Source: "netID", Label: "NetID", Kind: view.KindNetID, Required: true, Lookup: bind("netID")},
		{InputID: autocomplete.FirstNameInput, Label: "First Name", Kind: view.KindText, Lookup: bind("firstName")},
		{InputID: autocomplete.LastNameInput, Label: "Last Name", Kind: view.KindText, Lookup: bind("lastName")},
	}
	if sendNames {
		fields[1].Key = "firstName"
		fields[2].Key = "lastName"
	}
	return fields
}

func studentLookup(buttonID string) Lookup {
	return Lookup{
		Kind:     StudentLookup,
		SelectID: "student-select",
		ButtonID: buttonID,
		SearchBy: "netID",
		Input:    autocomplete.NetIDInput,
	}
}
