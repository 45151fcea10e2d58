package entity

import (
	"net/http"

	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/form"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

// Character filter options carry the table alias of the joined query:
// c=characters, s=student, sh=shows.
var characterFilterOptions = []view.Option{
	{Value: "netid,c", Label: "NetID"},
	{Value: "firstname,s", Label: "First Name"},
	{Value: "lastname,s", Label: "Last Name"},
	{Value: "showid,sh", Label: "Show ID"},
	{Value: "charactername,c", Label: "Character Name"},
	{Value: "showname,sh", Label: "Show Name"},
	{Value: "yearsemester,sh", Label: "Show Semester"},
}

func characterKey(id dispatch.Identity) types.CharacterKey {
	return types.CharacterKey{CharacterName: id["characterName"], ShowID: id["showID"], NetID: id["netID"]}
}

func registerCharacters(r *Registry) {
	r.AddTable(&Table{
		Name:    "character",
		Title:   "Characters",
		Path:    "/characters/loadpage",
		TableID: "character-table-body",
		Headers: []string{"Show Name", "Show Semester", "Student", "NetID", "Show ID"},
		Empty:   "No characters found",
		Endpoints: filter.Endpoints{
			All:      "/characters/getAll",
			Filtered: filter.FilterBy("characters"),
		},
		Filterable:    true,
		FilterOptions: characterFilterOptions,
		Prefilters: []Prefilter{
			{Param: "netID", Selector: "netid,c"},
			{Param: "showID", Selector: "showid,sh"},
		},
		Identity:  []string{"characterName", "showID", "netID"},
		MenuLabel: "characterName",
		Menu: Menu{
			{"edit", "Edit Character", navigate("/characters/editPage?characterName={characterName}&showID={showID}&netID={netID}")},
			{"delete", "Delete Character", dispatch.Action{Kind: dispatch.Delete, Delete: &dispatch.DeleteSpec{
				Endpoint: "/characters/delete",
				Method:   http.MethodPost,
				Prompt:   "Are you sure you want to delete {characterName} ({netID}) from show {showID}?",
				Success:  "Character deleted successfully!",
				Failure:  "Error deleting character",
				Validate: keyValidator(characterKey),
			}}},
		},
		Links: []view.Link{{Label: "Add Character", Href: "/characters/addpage"}},
		Cells: func(rec types.Record) []view.Cell {
			return []view.Cell{
				text(rec, "showName"),
				text(rec, "showSemester"),
				fullName(rec),
				text(rec, "netID"),
				text(rec, "showID"),
			}
		},
	})

	fields := []form.Field{
		{Key: "characterName", InputID: "characterName", Label: "Character Name", Kind: view.KindText, Required: true},
	}
	fields = append(fields, studentLookupFields("netID", false)...)
	fields = append(fields, showLookupFields()...)

	r.AddForm(&FormPage{
		Path:     "/characters/addpage",
		Title:    "Add Character",
		Endpoint: "/characters/add",
		Form: form.Definition{
			ID:             "add-character-form",
			Title:          "Add Character",
			SuccessMessage: "Character added successfully!",
			Redirect:       "/characters/loadpage",
			SubmitID:       "addCharacterButton",
			SubmitLabel:    "Add Character",
			Fields:         fields,
			Validate: func(f *form.Fields) error {
				return describe(types.CharacterKeyFrom(f.Values()).Validate())
			},
		},
		Lookups: []Lookup{
			studentLookup("addCharacterButton"),
			showLookup("addCharacterButton"),
		},
	})

	r.AddForm(&FormPage{
		Path:     "/characters/editPage",
		Title:    "Edit Character {characterName}",
		Keys:     []string{"characterName", "showID", "netID"},
		Endpoint: "/characters/edit",
		Form: form.Definition{
			ID:             "edit-character-form",
			Title:          "Edit Character",
			SuccessMessage: "Character updated successfully!",
			Redirect:       "/characters/loadpage?showID={showID}",
			SubmitLabel:    "Save Changes",
			SendEmpty:      true,
			Fields: []form.Field{
				{Key: "newCharacterName", InputID: "newCharacterName", Source: "characterName", Label: "Character Name", Kind: view.KindText, Required: true},
				{Key: "newNetID", InputID: "newNetID", Source: "netID", Label: "NetID", Kind: view.KindNetID, Required: true},
			},
		},
		Prefill: &Prefill{
			Endpoint: "/characters/getCharacter?characterName={characterName}&showID={showID}&netID={netID}",
		},
		Validate: keyValidator(characterKey),
	})
}
