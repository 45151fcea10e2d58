package api

import (
	"net/http"
	"net/url"

	"github.com/aanand-mishra/theater-records/internal/storage"
	"github.com/aanand-mishra/theater-records/internal/types"
)

// Register adds every backend endpoint to mux.
//
// Route table:
//
//	student     getAll filterBy search get getShows add {netID}/edit delete
//	actors      getAll filterBy get add edit
//	crew        getAll filterBy addCrew
//	shows       getAll getShowIDName getCrew getScenesInShow getSceneDetails
//	            add addCrew addScene editScene deleteScene
//	            addSceneDetails editSceneDetails deleteSceneDetails
//	characters  getAll filterBy getCharacter add edit delete
func Register(mux *http.ServeMux, s storage.Storage) {
	// ── Students ──────────────────────────────────────────────────────────
	mux.HandleFunc("GET /student/getAll", List(s, storage.Students))
	mux.HandleFunc("GET /student/filterBy", FilterBy(s, storage.Students, ""))
	mux.HandleFunc("GET /student/search", Search(s, storage.Students, "value", "netID"))
	mux.HandleFunc("GET /student/get", Get(s, storage.Students, "netID"))
	mux.HandleFunc("GET /student/getShows", Report(s, storage.StudentShows, "netID"))
	mux.HandleFunc("POST /student/add", Create(s, studentAdd))
	mux.HandleFunc("POST /student/{netID}/edit", Update(s, studentEdit))
	mux.HandleFunc("POST /student/delete", Delete(s, studentDelete))

	// ── Actors ────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /actors/getAll", List(s, storage.Actors))
	mux.HandleFunc("GET /actors/filterBy", FilterBy(s, storage.Actors, "netID"))
	mux.HandleFunc("GET /actors/get", Get(s, storage.Actors, "netID"))
	mux.HandleFunc("POST /actors/add", Create(s, actorAdd))
	mux.HandleFunc("POST /actors/edit", Update(s, actorEdit))

	// ── Crew ──────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /crew/getAll", List(s, storage.Crew))
	mux.HandleFunc("GET /crew/filterBy", FilterBy(s, storage.Crew, "crewID"))
	mux.HandleFunc("POST /crew/addCrew", Create(s, crewAdd))

	// ── Shows, scenes and scene details ───────────────────────────────────
	mux.HandleFunc("GET /shows/getAll", List(s, storage.Shows))
	mux.HandleFunc("GET /shows/getShowIDName", Search(s, storage.Shows, "searchValue", "showName"))
	mux.HandleFunc("GET /shows/getCrew", Report(s, storage.ShowCrew, "showID"))
	mux.HandleFunc("GET /shows/getScenesInShow", Get(s, storage.Scenes, "showID"))
	mux.HandleFunc("GET /shows/getSceneDetails", Get(s, storage.SceneDetails, "showID", "sceneName"))
	mux.HandleFunc("POST /shows/add", Create(s, showAdd))
	mux.HandleFunc("POST /shows/addCrew", Create(s, showCrewAdd))
	mux.HandleFunc("POST /shows/addScene", Create(s, sceneAdd))
	mux.HandleFunc("POST /shows/editScene", Update(s, sceneEdit))
	mux.HandleFunc("DELETE /shows/deleteScene", Delete(s, sceneDelete))
	mux.HandleFunc("POST /shows/addSceneDetails", Create(s, sceneDetailAdd))
	mux.HandleFunc("POST /shows/editSceneDetails", Update(s, sceneDetailEdit))
	mux.HandleFunc("DELETE /shows/deleteSceneDetails", Delete(s, sceneDetailDelete))

	// ── Characters ────────────────────────────────────────────────────────
	mux.HandleFunc("GET /characters/getAll", List(s, storage.Characters))
	mux.HandleFunc("GET /characters/filterBy", FilterBy(s, storage.Characters, ""))
	mux.HandleFunc("GET /characters/getCharacter", Get(s, storage.Characters, "characterName", "showID", "netID"))
	mux.HandleFunc("POST /characters/add", Create(s, characterAdd))
	mux.HandleFunc("POST /characters/edit", Update(s, characterEdit))
	mux.HandleFunc("POST /characters/delete", Delete(s, characterDelete))
}

func texts(names ...string) []Param {
	out := make([]Param, len(names))
	for i, n := range names {
		out[i] = Param{Name: n}
	}
	return out
}

func required(names ...string) []Param {
	out := texts(names...)
	for i := range out {
		out[i].Required = true
	}
	return out
}

// ── Students ──────────────────────────────────────────────────────────────

func studentFields(netIDParam, allergiesParam string) []Param {
	return append(
		[]Param{
			{Name: netIDParam, Column: "netID", Required: true},
			{Name: "firstName", Required: true},
			{Name: "lastName", Required: true},
			{Name: "gradeLevel", Required: true},
		},
		Param{Name: "pronouns"},
		Param{Name: "specialNotes"},
		Param{Name: "email"},
		Param{Name: allergiesParam, Column: "allergies_sensitivities"},
	)
}

func validStudent(netIDParam string) func(url.Values) error {
	return func(v url.Values) error {
		return types.Validator().Struct(types.Student{
			NetID:      v.Get(netIDParam),
			FirstName:  v.Get("firstName"),
			LastName:   v.Get("lastName"),
			GradeLevel: v.Get("gradeLevel"),
			Email:      v.Get("email"),
		})
	}
}

var studentAdd = Mutation{
	Entity:    storage.Students,
	Noun:      "student",
	Fields:    studentFields("netID", "allergies"),
	Validate:  validStudent("netID"),
	Success:   "Student added successfully!",
	Duplicate: "A student with this NetID already exists",
}

var studentEdit = Mutation{
	Entity:    storage.Students,
	Noun:      "student",
	Key:       required("netID"),
	Fields:    studentFields("newNetID", "allergies_sensitivities"),
	Validate:  validStudent("newNetID"),
	Success:   "Student updated successfully!",
	Duplicate: "A student with this NetID already exists",
}

var studentDelete = Mutation{
	Entity:   storage.Students,
	Noun:     "student",
	Key:      required("netID"),
	Success:  "Student deleted successfully!",
	Conflict: "Cannot delete student: they have related records (characters, actor profile, or crew assignments)",
}

// ── Actors ────────────────────────────────────────────────────────────────

func actorFields() []Param {
	fields := []Param{{Name: "yearsActingExperience", Convert: optionalInt}}
	return append(fields, texts(types.MeasurementFields...)...)
}

var actorAdd = Mutation{
	Entity:    storage.Actors,
	Noun:      "actor",
	Fields:    append(required("netID"), actorFields()...),
	Success:   "Actor added successfully!",
	Duplicate: "Actor profile already exists for this student",
	Conflict:  "Cannot add actor: Student with this NetID does not exist",
}

var actorEdit = Mutation{
	Entity:  storage.Actors,
	Noun:    "actor",
	Key:     required("netID"),
	Fields:  actorFields(),
	Success: "Actor updated successfully!",
}

// ── Crew ──────────────────────────────────────────────────────────────────

var crewAdd = Mutation{
	Entity: storage.Crew,
	Noun:   "crew member",
	Fields: append(
		append(required("crewID"), texts("firstName", "lastName")...),
		Param{Name: "wigTrained", Convert: yesNo},
		Param{Name: "makeupTrained", Convert: yesNo},
		Param{Name: "musicReading", Convert: yesNo},
		Param{Name: "lighting"},
		Param{Name: "sound"},
		Param{Name: "specialty"},
		Param{Name: "notes"},
	),
	Success:   "Crew member added successfully!",
	Duplicate: "Crew profile already exists for this student",
	Conflict:  "Cannot add crew member: Student with this NetID does not exist",
}

// ── Shows ─────────────────────────────────────────────────────────────────

var showAdd = Mutation{
	Entity: storage.Shows,
	Noun:   "show",
	Fields: append(required("showID", "showName", "yearSemester"), texts("director", "genre", "playWright")...),
	Validate: func(v url.Values) error {
		return types.Validator().Struct(types.Show{
			ShowID:       v.Get("showID"),
			ShowName:     v.Get("showName"),
			YearSemester: v.Get("yearSemester"),
		})
	},
	Success:   "Show added successfully!",
	Duplicate: "A show with this ID already exists",
}

var showCrewAdd = Mutation{
	Entity:    storage.CrewInShow,
	Noun:      "crew assignment",
	Fields:    append(required("crewID", "showID"), Param{Name: "roles"}),
	Success:   "Crew assigned to show successfully!",
	Duplicate: "This crew member is already assigned to the show",
	Conflict:  "Cannot assign crew: the crew member or show does not exist",
}

// ── Scenes ────────────────────────────────────────────────────────────────

var sceneColumns = texts("act", "locationSet", "song", "bookScriptPages", "crewInShow")

var sceneAdd = Mutation{
	Entity: storage.Scenes,
	Noun:   "scene",
	Fields: append(required("showID", "sceneName"), sceneColumns...),
	Validate: func(v url.Values) error {
		return types.SceneKeyFrom(v).Validate()
	},
	Success:   "Scene added successfully!",
	Duplicate: "This scene already exists for this show",
	Conflict:  "Cannot add scene: the show does not exist",
}

var sceneEdit = Mutation{
	Entity:  storage.Scenes,
	Noun:    "scene",
	Key:     required("showID", "sceneName"),
	Fields:  append([]Param{{Name: "newSceneName", Column: "sceneName", Required: true}}, sceneColumns...),
	Success: "Scene updated successfully!",
}

var sceneDelete = Mutation{
	Entity:   storage.Scenes,
	Noun:     "scene",
	Key:      required("showID", "sceneName"),
	Success:  "Scene deleted successfully!",
	Conflict: "Cannot delete scene: it still has scene details",
}

var sceneDetailKey = required("characterName", "sceneName", "netID", "showID")

var sceneDetailAdd = Mutation{
	Entity: storage.SceneDetails,
	Noun:   "scene details",
	Fields: append(append([]Param{}, sceneDetailKey...), texts("costume", "blocking")...),
	Validate: func(v url.Values) error {
		return types.SceneDetailKeyFrom(v).Validate()
	},
	Success:   "Scene details added successfully!",
	Duplicate: "Details for this character already exist in this scene",
	Conflict:  "Cannot add scene details: the scene or student does not exist",
}

var sceneDetailEdit = Mutation{
	Entity:  storage.SceneDetails,
	Noun:    "scene details",
	Key:     sceneDetailKey,
	Fields:  texts("costume", "blocking"),
	Success: "Scene details updated successfully!",
}

var sceneDetailDelete = Mutation{
	Entity:  storage.SceneDetails,
	Noun:    "scene details",
	Key:     sceneDetailKey,
	Success: "Scene details deleted successfully!",
}

// ── Characters ────────────────────────────────────────────────────────────

var characterKey = required("characterName", "showID", "netID")

var characterAdd = Mutation{
	Entity: storage.Characters,
	Noun:   "character",
	Fields: append([]Param{}, characterKey...),
	Validate: func(v url.Values) error {
		return types.CharacterKeyFrom(v).Validate()
	},
	Success:   "Character added successfully!",
	Duplicate: "This character already exists for this show",
	Conflict:  "Cannot add character: referenced netID or showID does not exist. Make sure the student exists and the show exists.",
}

var characterEdit = Mutation{
	Entity: storage.Characters,
	Noun:   "character",
	Key:    characterKey,
	Fields: []Param{
		{Name: "newCharacterName", Column: "characterName", Required: true},
		{Name: "newNetID", Column: "netID", Required: true},
	},
	Success:   "Character updated successfully!",
	Duplicate: "This character already exists for this show",
	Conflict:  "Cannot edit character: the new NetID does not exist",
}

var characterDelete = Mutation{
	Entity:   storage.Characters,
	Noun:     "character",
	Key:      characterKey,
	Success:  "Character deleted successfully!",
	Conflict: "Cannot delete character: it is used in scene details",
}
