package entity

import (
	"net/url"

	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/form"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

func registerCrew(r *Registry) {
	r.AddTable(&Table{
		Name:    "crew",
		Title:   "Crew",
		Path:    "/crew/loadpage",
		TableID: "crew-table-body",
		Headers: []string{"Crew ID", "Name", "Wig Trained", "Makeup Trained", "Music Reading", "Lighting", "Sound", "Specialty", "Notes"},
		Empty:   "No crew members found",
		Endpoints: filter.Endpoints{
			All: "/crew/getAll",
			Filtered: func(q filter.Query) string {
				return "/crew/filterBy?" + url.Values{"value": {q.Value}}.Encode()
			},
		},
		Filterable:    true,
		FilterOptions: []view.Option{{Value: "crewID", Label: "Crew ID"}},
		Prefilters:    []Prefilter{{Param: "netID", Selector: "crewID"}},
		Identity:      []string{"crewID"},
		Links:         []view.Link{{Label: "Add Crew Member", Href: "/crew/add"}},
		Cells:         crewCells,
	})

	fields := studentLookupFields("crewID", true)
	fields = append(fields,
		form.Field{Key: "wigTrained", InputID: "wigTrained", Label: "Wig Trained", Kind: view.KindYesNo},
		form.Field{Key: "makeupTrained", InputID: "makeupTrained", Label: "Makeup Trained", Kind: view.KindYesNo},
		form.Field{Key: "musicReading", InputID: "musicReading", Label: "Music Reading", Kind: view.KindYesNo},
		form.Field{Key: "lighting", InputID: "lighting", Label: "Lighting", Kind: view.KindText},
		form.Field{Key: "sound", InputID: "sound", Label: "Sound", Kind: view.KindText},
		form.Field{Key: "specialty", InputID: "specialty", Label: "Specialty", Kind: view.KindText},
		form.Field{Key: "notes", InputID: "notes", Label: "Notes", Kind: view.KindTextarea},
	)

	r.AddForm(&FormPage{
		Path:     "/crew/add",
		Title:    "Add Crew Member",
		Endpoint: "/crew/addCrew",
		Form: form.Definition{
			ID:             "add-crew-form",
			Title:          "Add Crew Member",
			SuccessMessage: "Crew member added successfully!",
			Redirect:       "/crew/loadpage",
			SubmitID:       "addCrewButton",
			SubmitLabel:    "Add Crew Member",
			Fields:         fields,
			Validate: func(f *form.Fields) error {
				return describe(types.Validator().Struct(types.Crew{CrewID: f.Get("crewID")}))
			},
		},
		Lookups: []Lookup{studentLookup("addCrewButton")},
	})
}

func crewCells(rec types.Record) []view.Cell {
	id := rec.Get("crewID")
	return []view.Cell{
		{Text: id, Href: studentLink(id)},
		{Text: fullName(rec).Text, Class: "sticky"},
		{Text: rec.Get("wigTrained"), Default: "No"},
		{Text: rec.Get("makeupTrained"), Default: "No"},
		{Text: rec.Get("musicReading"), Default: "No"},
		text(rec, "lighting"),
		text(rec, "sound"),
		text(rec, "specialty"),
		text(rec, "notes"),
	}
}
