package entity

import (
	"github.com/aanand-mishra/theater-records/internal/autocomplete"
	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/form"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

func registerShows(r *Registry) {
	r.AddTable(&Table{
		Name:    "show",
		Title:   "Shows",
		Path:    "/show/loadpage",
		TableID: "show-table-body",
		Headers: []string{"Show Name", "Year/Semester", "Director", "Genre", "Playwright"},
		Empty:   "No shows found",
		Endpoints: filter.Endpoints{
			All: "/shows/getAll",
			Filtered: func(q filter.Query) string {
				return autocomplete.ShowSearchEndpoint(q.Column, q.Value)
			},
		},
		Filterable: true,
		FilterOptions: []view.Option{
			{Value: "showID", Label: "Show ID"},
			{Value: "showName", Label: "Show Name"},
			{Value: "yearSemester", Label: "Year/Semester"},
		},
		Identity:  []string{"showID"},
		MenuLabel: "showID",
		Menu: Menu{
			{"viewCrew", "View Crew", navigate("/show/crewInShow?showID={showID}")},
			{"viewCharacters", "View Characters", navigate("/characters/loadpage?showID={showID}")},
			{"viewScenes", "View Scenes", navigate("/show/scenesInShow?showID={showID}")},
			{"addScene", "Add Scene", navigate("/show/addScene?showID={showID}")},
		},
		Cells: func(rec types.Record) []view.Cell {
			return []view.Cell{
				text(rec, "showName"),
				text(rec, "yearSemester"),
				text(rec, "director"),
				text(rec, "genre"),
				text(rec, "playWright"),
			}
		},
	})

	r.AddTable(&Table{
		Name:    "showCrew",
		Title:   "Crew for {showID}",
		Path:    "/show/crewInShow",
		Keys:    []string{"showID"},
		TableID: "showCrew-table-body",
		Headers: []string{"First Name", "Last Name", "Roles", "Crew ID"},
		Empty:   "No crew assigned to this show",
		Endpoints: filter.Endpoints{
			All: "/shows/getCrew?showID={showID}",
		},
		Links: []view.Link{{Label: "Back to Shows", Href: "/show/loadpage"}},
		Heading: func(scope dispatch.Identity, records []types.Record) string {
			if len(records) == 0 {
				return "Crew for " + scope["showID"]
			}
			return records[0].Get("showName") + " (" + records[0].Get("yearSemester") + ") Crew"
		},
		Cells: func(rec types.Record) []view.Cell {
			id := rec.Get("crewID")
			return []view.Cell{
				text(rec, "firstName"),
				text(rec, "lastName"),
				text(rec, "roles"),
				{Text: id, Href: studentLink(id)},
			}
		},
	})
}

// showLookupFields are the show name and ID inputs bound to the show
// autocomplete list. Only the show ID is sent.
func showLookupFields() []form.Field {
	return []form.Field{
		{
			InputID: autocomplete.ShowNameInput, Label: "Show Name", Kind: view.KindText,
			Lookup: &view.LookupBinding{SearchBy: "showName", ListID: "show-select"},
		},
		{Key: "showID", InputID: autocomplete.ShowIDInput, Label: "Show ID", Kind: view.KindText, Required: true},
	}
}

func showLookup(buttonID string) Lookup {
	return Lookup{
		Kind:     ShowLookup,
		SelectID: "show-select",
		ButtonID: buttonID,
		SearchBy: "showName",
		Input:    autocomplete.ShowNameInput,
	}
}
