package entity

import (
	"net/http"

	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/form"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

func sceneKey(id dispatch.Identity) types.SceneKey {
	return types.SceneKey{SceneName: id["sceneName"], ShowID: id["showID"]}
}

func sceneDetailKey(id dispatch.Identity) types.SceneDetailKey {
	return types.SceneDetailKey{
		CharacterName: id["characterName"],
		SceneName:     id["sceneName"],
		NetID:         id["netID"],
		ShowID:        id["showID"],
	}
}

const (
	scenesPage  = "/show/scenesInShow?showID={showID}"
	detailsPage = "/show/sceneDetails?showID={showID}&sceneName={sceneName}"
)

func registerScenes(r *Registry) {
	r.AddTable(&Table{
		Name:    "scene",
		Title:   "Scenes in {showID}",
		Path:    "/show/scenesInShow",
		Keys:    []string{"showID"},
		TableID: "scene-table-body",
		Headers: []string{"Act", "Location/Set", "Song", "Book/Script Pages", "Crew In Show"},
		Empty:   "No scenes in this show yet",
		Endpoints: filter.Endpoints{
			All: "/shows/getScenesInShow?showID={showID}",
		},
		Identity:  []string{"sceneName", "showID"},
		MenuLabel: "sceneName",
		Menu: Menu{
			{"details", "Scene Details", navigate(detailsPage)},
			{"addDetails", "Add Scene Details", navigate("/show/addSceneDetails?showID={showID}&sceneName={sceneName}")},
			{"edit", "Edit Scene", navigate("/show/editScene?showID={showID}&sceneName={sceneName}")},
			{"delete", "Delete Scene", dispatch.Action{Kind: dispatch.Delete, Delete: &dispatch.DeleteSpec{
				Endpoint: "/shows/deleteScene",
				Method:   http.MethodDelete,
				Prompt:   "Are you sure you want to delete scene {sceneName}?",
				Success:  "Scene deleted successfully!",
				Failure:  "Error deleting scene",
				Redirect: scenesPage,
				Validate: keyValidator(sceneKey),
			}}},
		},
		Links: []view.Link{
			{Label: "Add Scene", Href: "/show/addScene?showID={showID}"},
			{Label: "Back to Shows", Href: "/show/loadpage"},
		},
		Cells: func(rec types.Record) []view.Cell {
			return []view.Cell{
				text(rec, "act"),
				text(rec, "locationSet"),
				text(rec, "song"),
				text(rec, "bookScriptPages"),
				text(rec, "crewInShow"),
			}
		},
	})

	r.AddTable(&Table{
		Name:    "sceneDetail",
		Title:   "{sceneName} Details",
		Path:    "/show/sceneDetails",
		Keys:    []string{"showID", "sceneName"},
		TableID: "sceneDetails-table-body",
		Headers: []string{"Student", "NetID", "Costume", "Blocking"},
		Empty:   "No scene details yet",
		Endpoints: filter.Endpoints{
			All: "/shows/getSceneDetails?showID={showID}&sceneName={sceneName}",
		},
		Identity:  []string{"characterName", "sceneName", "netID", "showID"},
		MenuLabel: "characterName",
		Menu: Menu{
			{"edit", "Edit Scene Details", navigate("/show/editSceneDetails?characterName={characterName}&sceneName={sceneName}&netID={netID}&showID={showID}")},
			{"delete", "Delete Scene Details", dispatch.Action{Kind: dispatch.Delete, Delete: &dispatch.DeleteSpec{
				Endpoint: "/shows/deleteSceneDetails",
				Method:   http.MethodDelete,
				Prompt:   "Are you sure you want to delete the details for {characterName} in {sceneName}?",
				Success:  "Scene details deleted successfully!",
				Failure:  "Error deleting scene details",
				Validate: keyValidator(sceneDetailKey),
			}}},
		},
		Links: []view.Link{
			{Label: "Add Scene Details", Href: "/show/addSceneDetails?showID={showID}&sceneName={sceneName}"},
			{Label: "Back to Scenes", Href: scenesPage},
		},
		Cells: func(rec types.Record) []view.Cell {
			return []view.Cell{
				fullName(rec),
				text(rec, "netID"),
				text(rec, "costume"),
				text(rec, "blocking"),
			}
		},
	})

	sceneFields := func(nameKey string) []form.Field {
		return []form.Field{
			{Key: nameKey, InputID: nameKey, Source: "sceneName", Label: "Scene Name", Kind: view.KindText, Required: true},
			{Key: "act", InputID: "act", Label: "Act", Kind: view.KindText},
			{Key: "locationSet", InputID: "locationSet", Label: "Location/Set", Kind: view.KindText},
			{Key: "song", InputID: "song", Label: "Song", Kind: view.KindText},
			{Key: "bookScriptPages", InputID: "bookScriptPages", Label: "Book/Script Pages", Kind: view.KindText},
			{Key: "crewInShow", InputID: "crewInShow", Label: "Crew In Show", Kind: view.KindTextarea},
		}
	}

	r.AddForm(&FormPage{
		Path:     "/show/addScene",
		Title:    "Add Scene",
		Endpoint: "/shows/addScene",
		Form: form.Definition{
			ID:             "add-scene-form",
			Title:          "Add Scene",
			SuccessMessage: "Scene added successfully!",
			Redirect:       scenesPage,
			SubmitID:       "addSceneButton",
			SubmitLabel:    "Add Scene",
			Fields:         append(showLookupFields(), sceneFields("sceneName")...),
			Validate: func(f *form.Fields) error {
				return describe(types.SceneKeyFrom(f.Values()).Validate())
			},
		},
		Lookups: []Lookup{showLookup("addSceneButton")},
	})

	r.AddForm(&FormPage{
		Path:     "/show/editScene",
		Title:    "Edit Scene {sceneName}",
		Keys:     []string{"showID", "sceneName"},
		Endpoint: "/shows/editScene",
		Form: form.Definition{
			ID:             "edit-scene-form",
			Title:          "Edit Scene",
			SuccessMessage: "Scene updated successfully!",
			Redirect:       scenesPage,
			SubmitLabel:    "Save Changes",
			SendEmpty:      true,
			Fields:         sceneFields("newSceneName"),
		},
		Prefill: &Prefill{
			Endpoint: "/shows/getScenesInShow?showID={showID}",
			Match: func(rec types.Record, scope dispatch.Identity) bool {
				return rec.Get("sceneName") == scope["sceneName"]
			},
		},
		Validate: keyValidator(sceneKey),
	})

	detailFields := []form.Field{
		{Key: "costume", InputID: "costume", Label: "Costume", Kind: view.KindTextarea},
		{Key: "blocking", InputID: "blocking", Label: "Blocking", Kind: view.KindTextarea},
	}

	addDetailFields := []form.Field{
		{Key: "characterName", InputID: "characterName", Label: "Character Name", Kind: view.KindText, Required: true},
	}
	addDetailFields = append(addDetailFields, studentLookupFields("netID", false)...)
	addDetailFields = append(addDetailFields, detailFields...)

	r.AddForm(&FormPage{
		Path:     "/show/addSceneDetails",
		Title:    "Add Details for {sceneName}",
		Keys:     []string{"showID", "sceneName"},
		Endpoint: "/shows/addSceneDetails",
		Form: form.Definition{
			ID:             "add-scene-details-form",
			Title:          "Add Scene Details",
			SuccessMessage: "Scene details added successfully!",
			Redirect:       detailsPage,
			SubmitID:       "addSceneDetailsButton",
			SubmitLabel:    "Add Scene Details",
			Fields:         addDetailFields,
			Validate: func(f *form.Fields) error {
				return describe(types.SceneDetailKeyFrom(f.Values()).Validate())
			},
		},
		Lookups:  []Lookup{studentLookup("addSceneDetailsButton")},
		Validate: keyValidator(sceneKey),
	})

	r.AddForm(&FormPage{
		Path:     "/show/editSceneDetails",
		Title:    "Edit {characterName} in {sceneName}",
		Keys:     []string{"characterName", "sceneName", "netID", "showID"},
		Endpoint: "/shows/editSceneDetails",
		Form: form.Definition{
			ID:             "edit-scene-details-form",
			Title:          "Edit Scene Details",
			SuccessMessage: "Scene details updated successfully!",
			Redirect:       detailsPage,
			SubmitLabel:    "Save Changes",
			SendEmpty:      true,
			Fields:         detailFields,
		},
		Prefill: &Prefill{
			Endpoint: "/shows/getSceneDetails?showID={showID}&sceneName={sceneName}",
			Match: func(rec types.Record, scope dispatch.Identity) bool {
				return rec.Get("characterName") == scope["characterName"] && rec.Get("netID") == scope["netID"]
			},
		},
		Validate: keyValidator(sceneDetailKey),
	})
}
