package entity

import (
	"errors"
	"net/http"

	"github.com/aanand-mishra/theater-records/internal/dispatch"
	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/form"
	"github.com/aanand-mishra/theater-records/internal/netid"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

var studentFilterOptions = []view.Option{
	{Value: "netid", Label: "NetID"},
	{Value: "firstname", Label: "First Name"},
	{Value: "lastname", Label: "Last Name"},
	{Value: "gradelevel", Label: "Grade Level"},
	{Value: "allergies_sensitivities", Label: "Allergies/Sensitivities"},
}

func registerStudents(r *Registry) {
	r.AddTable(&Table{
		Name:    "student",
		Title:   "Students",
		Path:    "/student/loadpage",
		TableID: "student-table-body",
		Headers: []string{"Name", "Grade Level", "Pronouns", "Special Notes", "Email", "Allergies/Sensitivities"},
		Empty:   "No students found",
		Endpoints: filter.Endpoints{
			All:      "/student/getAll",
			Filtered: filter.FilterBy("student"),
		},
		Filterable:    true,
		FilterOptions: studentFilterOptions,
		Prefilters:    []Prefilter{{Param: "netID", Selector: "netid"}},
		Identity:      []string{"netID"},
		MenuLabel:     "netID",
		Menu: Menu{
			{"roles", "Previous Roles", navigate("/student/{netID}/roles")},
			{"shows", "Previous Shows", navigate("/student/{netID}/shows")},
			{"crew", "Crew Page", navigate("/crew/loadpage?netID={netID}")},
			{"actor", "Actor Page", navigate("/actors/loadpage?netID={netID}")},
			{"crewActor", "Crew and Actor Profile", navigate("/student/{netID}/crewActor")},
			{"delete", "Delete Student", dispatch.Action{Kind: dispatch.Delete, Delete: &dispatch.DeleteSpec{
				Endpoint: "/student/delete",
				Method:   http.MethodPost,
				Prompt:   "Are you sure you want to delete student with NetID: {netID}?",
				Success:  "Student deleted successfully!",
				Failure:  "Error deleting student",
				Validate: validNetID,
			}}},
			{"edit", "Edit Student", navigate("/student/{netID}/editPage")},
		},
		Links: []view.Link{{Label: "Add Student", Href: "/addStudent"}},
		Cells: studentCells,
	})

	r.AddTable(&Table{
		Name:    "studentShows",
		Title:   "Previous Shows for {netID}",
		Path:    "/student/{netID}/shows",
		Keys:    []string{"netID"},
		TableID: "student-shows-table-body",
		Headers: []string{"Show ID", "Show Name", "Year/Semester", "Characters", "Director", "Genre", "Playwright"},
		Endpoints: filter.Endpoints{
			All: "/student/getShows?netID={netID}",
		},
		Links: []view.Link{
			{Label: "Back to Students", Href: "/student/loadpage?netID={netID}"},
			{Label: "Roles", Href: "/student/{netID}/roles"},
		},
		Heading: func(scope dispatch.Identity, records []types.Record) string {
			if len(records) == 0 {
				return "No Previous Shows Found for " + scope["netID"]
			}
			return "Previous Shows for " + scope["netID"]
		},
		Cells: func(rec types.Record) []view.Cell {
			return []view.Cell{
				text(rec, "showID"),
				text(rec, "showName"),
				text(rec, "yearSemester"),
				text(rec, "characters"),
				text(rec, "director"),
				text(rec, "genre"),
				text(rec, "playWright"),
			}
		},
	})

	r.AddRedirect("/student/{netID}/roles", "/characters/loadpage?netID={netID}")

	r.AddForm(&FormPage{
		Path:     "/addStudent",
		Title:    "Add Student",
		Endpoint: "/student/add",
		Form: form.Definition{
			ID:             "add-student-form",
			Title:          "Add Student",
			SuccessMessage: "Student added successfully!",
			Redirect:       "/student/loadpage",
			SubmitLabel:    "Add Student",
			Fields:         studentFields("netID"),
			Validate:       validateStudent("netID"),
		},
	})

	r.AddForm(&FormPage{
		Path:     "/student/{netID}/editPage",
		Title:    "Edit Student {netID}",
		Keys:     []string{"netID"},
		Endpoint: "/student/{netID}/edit",
		Form: form.Definition{
			ID:             "edit-student-form",
			Title:          "Edit Student",
			SuccessMessage: "Student edited successfully!",
			Redirect:       "/student/loadpage",
			SubmitLabel:    "Save Changes",
			SendEmpty:      true,
			Fields:         editStudentFields(),
			Validate:       validateStudent("newNetID"),
		},
		Prefill:  &Prefill{Endpoint: "/student/get?netID={netID}"},
		Validate: validNetID,
	})
}

func studentCells(rec types.Record) []view.Cell {
	return []view.Cell{
		fullName(rec),
		text(rec, "gradeLevel"),
		text(rec, "pronouns"),
		text(rec, "specialNotes"),
		text(rec, "email"),
		text(rec, "allergies_sensitivities"),
	}
}

func studentFields(netIDKey string) []form.Field {
	return []form.Field{
		{Key: netIDKey, InputID: "netID", Source: "netID", Label: "NetID", Kind: view.KindNetID, Required: true},
		{Key: "firstName", InputID: "firstName", Label: "First Name", Kind: view.KindText, Required: true},
		{Key: "lastName", InputID: "lastName", Label: "Last Name", Kind: view.KindText, Required: true},
		{Key: "gradeLevel", InputID: "gradeLevel", Label: "Grade Level", Kind: view.KindText, Required: true},
		{Key: "pronouns", InputID: "pronouns", Label: "Pronouns", Kind: view.KindText},
		{Key: "specialNotes", InputID: "specialNotes", Label: "Special Notes", Kind: view.KindTextarea},
		{Key: "email", InputID: "email", Label: "Email", Kind: view.KindEmail},
		{Key: "allergies", InputID: "allergies", Source: "allergies_sensitivities", Label: "Allergies/Sensitivities", Kind: view.KindTextarea},
	}
}

// The edit endpoint takes the new netID as newNetID and the allergies under
// their column name.
func editStudentFields() []form.Field {
	fields := studentFields("newNetID")
	fields[len(fields)-1].Key = "allergies_sensitivities"
	return fields
}

func validateStudent(netIDKey string) func(*form.Fields) error {
	return func(f *form.Fields) error {
		s := types.Student{
			NetID:      f.Get(netIDKey),
			FirstName:  f.Get("firstName"),
			LastName:   f.Get("lastName"),
			GradeLevel: f.Get("gradeLevel"),
			Email:      f.Get("email"),
		}
		return describe(types.Validator().Struct(s))
	}
}

func validNetID(id dispatch.Identity) error {
	if !netid.Valid(id["netID"]) {
		return errors.New("invalid NetID: " + id["netID"])
	}
	return nil
}

func navigate(route string) dispatch.Action {
	return dispatch.Action{Kind: dispatch.Navigate, Route: route}
}
