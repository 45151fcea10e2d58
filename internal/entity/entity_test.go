package entity_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/entity"
	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

func TestEveryRowMatchesItsHeaders(t *testing.T) {
	reg := entity.Default()
	for _, tbl := range reg.Tables() {
		t.Run(tbl.Name, func(t *testing.T) {
			row := tbl.Row(types.Record{})
			cols := len(row.Cells)
			if row.Menu != nil {
				cols++
			}
			assert.Equal(t, len(tbl.View().Headers), cols)
		})
	}
}

func TestStudentRow(t *testing.T) {
	tbl, ok := entity.Default().Table("student")
	require.True(t, ok)

	row := tbl.Row(types.Record{
		"netid": "ABC12345", "firstname": "Jane", "lastname": "Doe", "gradelevel": "10", "pronouns": nil,
	})

	require.NotNil(t, row.Menu)
	assert.Equal(t, "ABC12345", row.Menu.Label)
	assert.Equal(t, "/ui/student/action", row.Menu.Endpoint)
	assert.Equal(t, []view.Hidden{{Name: "netID", Value: "ABC12345"}}, row.Menu.Identity)

	got := make([]string, 0, len(row.Cells))
	for _, c := range row.Cells {
		got = append(got, c.Text)
	}
	want := []string{"Jane Doe", "10", "", "", "", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("student cells mismatch (-want +got):\n%s", diff)
	}
}

func TestCrewRowDefaults(t *testing.T) {
	tbl, _ := entity.Default().Table("crew")
	row := tbl.Row(types.Record{"crewID": "ABC123", "firstName": "Sam", "lastName": "Lee", "wigTrained": "Yes"})

	assert.Nil(t, row.Menu)
	assert.Equal(t, "/student/loadpage?netID=ABC123", row.Cells[0].Href)
	assert.Equal(t, "Yes", row.Cells[2].Text)
	assert.Equal(t, "No", row.Cells[3].Default)
}

func TestMenusDispatchEveryOption(t *testing.T) {
	for _, tbl := range entity.Default().Tables() {
		actions := tbl.Menu.Actions()
		for _, opt := range tbl.Menu.Options() {
			_, ok := actions[opt.Value]
			assert.True(t, ok, "%s: option %q has no action", tbl.Name, opt.Value)
		}
	}
}

func TestStudentMenuRoutes(t *testing.T) {
	tbl, _ := entity.Default().Table("student")
	d := dispatch.New(nil, nil)
	id := dispatch.Identity{"netID": "ABC123"}

	cases := map[string]string{
		"roles": "/student/ABC123/roles",
		"shows": "/student/ABC123/shows",
		"crew":  "/crew/loadpage?netID=ABC123",
		"actor": "/actors/loadpage?netID=ABC123",
		"edit":  "/student/ABC123/editPage",
	}
	for choice, want := range cases {
		out := d.Dispatch(context.Background(), tbl.Menu.Actions(), choice, id, false)
		assert.Equal(t, want, out.URL, choice)
	}

	out := d.Dispatch(context.Background(), tbl.Menu.Actions(), "delete", id, false)
	assert.Equal(t, dispatch.NeedsConfirm, out.Kind)
	assert.Equal(t, "Are you sure you want to delete student with NetID: ABC123?", out.Prompt)
}

func TestPrefilter(t *testing.T) {
	tbl, _ := entity.Default().Table("character")

	q, ok := tbl.Prefilter(url.Values{"showID": {"S1"}})
	require.True(t, ok)
	assert.Equal(t, filter.Query{Selector: filter.Selector{Column: "showid", Table: "sh"}, Value: "S1"}, q)
	assert.Equal(t, "/characters/filterBy?column=showid&page=sh&value=S1", tbl.Endpoints.Endpoint(q))

	_, ok = tbl.Prefilter(url.Values{})
	assert.False(t, ok)
}

func TestEmptyFilterLoadsEverything(t *testing.T) {
	for _, tbl := range entity.Default().Tables() {
		if !tbl.Filterable {
			continue
		}
		assert.Equal(t, tbl.Endpoints.All, tbl.Endpoints.Endpoint(tbl.Query("", "   ")), tbl.Name)
	}
}

func TestShowAndCrewFilterEndpoints(t *testing.T) {
	reg := entity.Default()

	show, _ := reg.Table("show")
	assert.Equal(t, "/shows/getShowIDName?searchBy=showName&searchValue=Into", show.Endpoints.Endpoint(show.Query("showName", "Into")))

	crew, _ := reg.Table("crew")
	assert.Equal(t, "/crew/filterBy?value=ABC", crew.Endpoints.Endpoint(crew.Query("", "ABC")))
}

func TestScopedEndpoints(t *testing.T) {
	tbl, _ := entity.Default().Table("sceneDetail")
	ep := tbl.Scoped(dispatch.Identity{"showID": "S1", "sceneName": "Act 1"})
	assert.Equal(t, "/shows/getSceneDetails?showID=S1&sceneName=Act+1", ep.All)
}

func findForm(t *testing.T, path string) *entity.FormPage {
	t.Helper()
	for _, f := range entity.Default().Forms() {
		if f.Path == path {
			return f
		}
	}
	t.Fatalf("no form at %s", path)
	return nil
}

func TestAddStudentForm(t *testing.T) {
	page := findForm(t, "/addStudent")
	posted := url.Values{
		"netID": {"abc12345"}, "firstName": {"Jane"}, "lastName": {"Doe"}, "gradeLevel": {"10"}, "email": {""},
	}

	fields := page.Form.Collect(posted)
	require.NoError(t, page.Form.Check(fields))
	assert.Equal(t, "ABC12345", fields.Get("netID"))
	assert.False(t, fields.Has("email"))

	posted.Set("gradeLevel", "")
	err := page.Form.Check(page.Form.Collect(posted))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field gradeLevel is required")
}

func TestEditStudentFormKeys(t *testing.T) {
	page := findForm(t, "/student/{netID}/editPage")

	fields := page.Form.Collect(url.Values{
		"netID": {"xyz9"}, "firstName": {"Jane"}, "lastName": {"Doe"}, "gradeLevel": {"11"}, "allergies": {""},
	})
	assert.Equal(t, "XYZ9", fields.Get("newNetID"))
	assert.True(t, fields.Has("allergies_sensitivities"), "edit sends cleared fields")
	assert.Equal(t, "/student/ABC123/edit", dispatch.Expand(page.Endpoint, dispatch.Identity{"netID": "ABC123"}))

	values := page.Form.Prefill(types.Record{"netid": "ABC123", "allergies_sensitivities": "Peanuts"})
	assert.Equal(t, "ABC123", values["netID"])
	assert.Equal(t, "Peanuts", values["allergies"])
}

func TestActorFormValidation(t *testing.T) {
	add := findForm(t, "/actor/add")
	err := add.Form.Check(add.Form.Collect(url.Values{"netIDInput": {"ABC123"}, "yearsActingExperience": {"two"}}))
	assert.Error(t, err)

	edit := findForm(t, "/actor/editPage")
	assert.NoError(t, edit.Form.Check(edit.Form.Collect(url.Values{"yearsActingExperience": {"3"}})))
	assert.Error(t, edit.Form.Check(edit.Form.Collect(url.Values{"yearsActingExperience": {"-1"}})))
}

func TestCompositeKeyDeletesAreValidated(t *testing.T) {
	tbl, _ := entity.Default().Table("character")
	out := dispatch.New(nil, nil).Dispatch(context.Background(), tbl.Menu.Actions(), "delete",
		dispatch.Identity{"characterName": "Hamlet", "netID": "ABC123"}, true)

	assert.Equal(t, dispatch.Failed, out.Kind)
	assert.Contains(t, out.Message, "showID")
}

func TestCharacterAddFormSendsOnlyKeys(t *testing.T) {
	page := findForm(t, "/characters/addpage")
	got := page.Form.Collect(url.Values{
		"characterName": {"Hamlet"}, "netIDInput": {"abc123"}, "firstName": {"Jane"},
		"showName": {"Hamlet"}, "showID": {"S1"},
	}).Values()

	want := url.Values{"characterName": {"Hamlet"}, "netID": {"ABC123"}, "showID": {"S1"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("character fields mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, page.Lookups, 2)
}
