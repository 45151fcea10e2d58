// Package types holds the data shapes shared across the application:
// the loosely-typed Record returned by the backend's JSON endpoints and
// the typed entities used when building forms and requests.
//
// The backend is not consistent about key casing (MySQL hands back
// "netid" on some endpoints and "netID" on others), so list rendering
// works on Record and looks fields up case-insensitively.
package types

// Student is a member of the theater department, keyed by NetID.
type Student struct {
	NetID                  string `json:"netID"        validate:"required,netid"`
	FirstName              string `json:"firstName"    validate:"required"`
	LastName               string `json:"lastName"     validate:"required"`
	GradeLevel             string `json:"gradeLevel"   validate:"required"`
	Pronouns               string `json:"pronouns"`
	SpecialNotes           string `json:"specialNotes"`
	Email                  string `json:"email"        validate:"omitempty,email"`
	AllergiesSensitivities string `json:"allergies_sensitivities"`
}

// MeasurementFields lists the actor measurement columns in the order the
// actor table and forms display them.
var MeasurementFields = []string{
	"skinTone",
	"piercings",
	"hairColor",
	"previousInjuries",
	"specialNotes",
	"height",
	"ringSize",
	"shoeSize",
	"headCirc",
	"neckBase",
	"chest",
	"waist",
	"highHip",
	"lowHip",
	"armseyeToArmseyeFront",
	"neckToWaistFront",
	"armseyeToArmseyeBack",
	"neckToWaistBack",
	"centerBackToWrist",
	"outsleeveToWrist",
	"outseamBelowKnee",
	"outseamToAnkle",
	"outseamToFloor",
	"otherNotes",
}

// Actor extends a student identity with costume measurements.
// Measurements are keyed by the names in MeasurementFields.
type Actor struct {
	NetID                 string            `json:"netID" validate:"required,netid"`
	YearsActingExperience *int              `json:"yearsActingExperience" validate:"omitempty,gte=0"`
	Measurements          map[string]string `json:"-"`
}

// Crew is a student's crew profile; CrewID is the student's NetID.
type Crew struct {
	CrewID        string `json:"crewID" validate:"required,netid"`
	WigTrained    string `json:"wigTrained"`
	MakeupTrained string `json:"makeupTrained"`
	MusicReading  string `json:"musicReading"`
	Lighting      string `json:"lighting"`
	Sound         string `json:"sound"`
	Specialty     string `json:"specialty"`
	Notes         string `json:"notes"`
}

// Show is a production in a given semester.
type Show struct {
	ShowID       string `json:"showID"       validate:"required"`
	ShowName     string `json:"showName"     validate:"required"`
	YearSemester string `json:"yearSemester" validate:"required"`
	Director     string `json:"director"`
	Genre        string `json:"genre"`
	Playwright   string `json:"playWright"`
}

// Scene is a scene in a show.
type Scene struct {
	Key             SceneKey
	Act             string `json:"act"`
	LocationSet     string `json:"locationSet"`
	Song            string `json:"song"`
	BookScriptPages string `json:"bookScriptPages"`
	CrewInShow      string `json:"crewInShow"`
}

// SceneDetail holds per-character costume and blocking notes for a scene.
type SceneDetail struct {
	Key      SceneDetailKey
	Costume  string `json:"costume"`
	Blocking string `json:"blocking"`
}
