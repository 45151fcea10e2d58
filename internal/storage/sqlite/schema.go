package sqlite

import (
	"strings"

	"github.com/aanand-mishra/theater-records/internal/storage"
	"github.com/aanand-mishra/theater-records/internal/types"
)

// schema is idempotent and runs on every startup. NetIDs cascade on update
// so renaming a student carries over to every profile that references it.
const schema = `
CREATE TABLE IF NOT EXISTS student (
	netID                   TEXT PRIMARY KEY,
	firstName               TEXT NOT NULL,
	lastName                TEXT NOT NULL,
	gradeLevel              TEXT NOT NULL,
	pronouns                TEXT,
	specialNotes            TEXT,
	email                   TEXT,
	allergies_sensitivities TEXT
);

CREATE TABLE IF NOT EXISTS actor (
	netID                 TEXT PRIMARY KEY REFERENCES student(netID) ON UPDATE CASCADE,
	yearsActingExperience INTEGER,
	skinTone              TEXT,
	piercings             TEXT,
	hairColor             TEXT,
	previousInjuries      TEXT,
	specialNotes          TEXT,
	height                TEXT,
	ringSize              TEXT,
	shoeSize              TEXT,
	headCirc              TEXT,
	neckBase              TEXT,
	chest                 TEXT,
	waist                 TEXT,
	highHip               TEXT,
	lowHip                TEXT,
	armseyeToArmseyeFront TEXT,
	neckToWaistFront      TEXT,
	armseyeToArmseyeBack  TEXT,
	neckToWaistBack       TEXT,
	centerBackToWrist     TEXT,
	outsleeveToWrist      TEXT,
	outseamBelowKnee      TEXT,
	outseamToAnkle        TEXT,
	outseamToFloor        TEXT,
	otherNotes            TEXT
);

CREATE TABLE IF NOT EXISTS crew (
	crewID        TEXT PRIMARY KEY REFERENCES student(netID) ON UPDATE CASCADE,
	firstName     TEXT,
	lastName      TEXT,
	wigTrained    INTEGER NOT NULL DEFAULT 0,
	makeupTrained INTEGER NOT NULL DEFAULT 0,
	musicReading  INTEGER NOT NULL DEFAULT 0,
	lighting      TEXT,
	sound         TEXT,
	specialty     TEXT,
	notes         TEXT
);

CREATE TABLE IF NOT EXISTS shows (
	showID       TEXT PRIMARY KEY,
	showName     TEXT NOT NULL,
	yearSemester TEXT NOT NULL,
	director     TEXT,
	genre        TEXT,
	playWright   TEXT
);

CREATE TABLE IF NOT EXISTS characters (
	characterName TEXT NOT NULL,
	netID         TEXT NOT NULL REFERENCES student(netID) ON UPDATE CASCADE,
	showID        TEXT NOT NULL REFERENCES shows(showID) ON UPDATE CASCADE,
	PRIMARY KEY (characterName, showID)
);

CREATE TABLE IF NOT EXISTS crew_in_show (
	crewID TEXT NOT NULL REFERENCES crew(crewID) ON UPDATE CASCADE,
	showID TEXT NOT NULL REFERENCES shows(showID) ON UPDATE CASCADE,
	roles  TEXT,
	PRIMARY KEY (crewID, showID)
);

CREATE TABLE IF NOT EXISTS scenes (
	showID          TEXT NOT NULL REFERENCES shows(showID) ON UPDATE CASCADE,
	sceneName       TEXT NOT NULL,
	act             TEXT,
	locationSet     TEXT,
	song            TEXT,
	bookScriptPages TEXT,
	crewInShow      TEXT,
	PRIMARY KEY (showID, sceneName)
);

CREATE TABLE IF NOT EXISTS scene_details (
	showID        TEXT NOT NULL,
	sceneName     TEXT NOT NULL,
	characterName TEXT NOT NULL,
	netID         TEXT NOT NULL REFERENCES student(netID) ON UPDATE CASCADE,
	costume       TEXT,
	blocking      TEXT,
	PRIMARY KEY (showID, sceneName, characterName, netID),
	FOREIGN KEY (showID, sceneName) REFERENCES scenes(showID, sceneName) ON UPDATE CASCADE
);
`

// table describes how one entity is read and written.
type table struct {
	// name is the base table every write goes to.
	name string

	// query selects the display columns; alias is the base table's alias
	// inside it and order its ORDER BY clause.
	query string
	alias string
	order string

	// columns are the writable columns of the base table.
	columns []string

	// filters maps a table alias ("" for the default) and a lower-cased
	// column name to a condition with one placeholder.
	filters map[string]map[string]string
}

// column returns the canonical spelling of a writable column.
func (t *table) column(name string) (string, bool) {
	for _, c := range t.columns {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

func likeFilters(alias string, columns ...string) map[string]string {
	m := make(map[string]string, len(columns))
	for _, c := range columns {
		m[strings.ToLower(c)] = alias + "." + c + " LIKE ?"
	}
	return m
}

func merge(ms ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

var studentColumns = []string{
	"netID", "firstName", "lastName", "gradeLevel",
	"pronouns", "specialNotes", "email", "allergies_sensitivities",
}

func actorColumns() []string {
	return append([]string{"netID", "yearsActingExperience"}, types.MeasurementFields...)
}

func actorQuery() string {
	cols := make([]string, 0, len(types.MeasurementFields)+4)
	cols = append(cols, "s.firstName AS firstName", "s.lastName AS lastName", "a.netID AS netID",
		"a.yearsActingExperience AS yearsActingExperience")
	for _, f := range types.MeasurementFields {
		cols = append(cols, "a."+f+" AS "+f)
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM actor a JOIN student s ON a.netID = s.netID"
}

const characterQuery = `SELECT
	s.firstName AS firstName,
	s.lastName AS lastName,
	c.characterName AS characterName,
	c.netID AS netID,
	c.showID AS showID,
	sh.showName AS showName,
	sh.yearSemester AS showSemester
FROM characters c
JOIN student s ON c.netID = s.netID
JOIN shows sh ON c.showID = sh.showID`

var tables = map[storage.Entity]*table{
	storage.Students: {
		name:    "student",
		query:   "SELECT " + strings.Join(studentColumns, ", ") + " FROM student st",
		alias:   "st",
		order:   "st.lastName, st.firstName",
		columns: studentColumns,
		filters: map[string]map[string]string{"": likeFilters("st", studentColumns...)},
	},
	storage.Actors: {
		name:    "actor",
		query:   actorQuery(),
		alias:   "a",
		order:   "s.lastName, s.firstName",
		columns: actorColumns(),
		filters: map[string]map[string]string{"": merge(
			likeFilters("a", "netID"),
			likeFilters("s", "firstName", "lastName"),
			map[string]string{"shows": "a.netID IN (SELECT ch.netID FROM characters ch WHERE ch.showID LIKE ?)"},
		)},
	},
	storage.Crew: {
		name: "crew",
		query: `SELECT
	c.crewID AS crewID,
	c.firstName AS firstName,
	c.lastName AS lastName,
	CASE WHEN c.wigTrained THEN 'Yes' ELSE 'No' END AS wigTrained,
	CASE WHEN c.makeupTrained THEN 'Yes' ELSE 'No' END AS makeupTrained,
	CASE WHEN c.musicReading THEN 'Yes' ELSE 'No' END AS musicReading,
	c.lighting AS lighting,
	c.sound AS sound,
	c.specialty AS specialty,
	c.notes AS notes
FROM crew c`,
		alias: "c",
		order: "c.lastName, c.firstName",
		columns: []string{
			"crewID", "firstName", "lastName", "wigTrained", "makeupTrained",
			"musicReading", "lighting", "sound", "specialty", "notes",
		},
		filters: map[string]map[string]string{"": likeFilters("c", "crewID", "firstName", "lastName")},
	},
	storage.Shows: {
		name:    "shows",
		query:   "SELECT s.showID, s.showName, s.yearSemester, s.director, s.genre, s.playWright FROM shows s",
		alias:   "s",
		order:   "s.yearSemester DESC, s.showName",
		columns: []string{"showID", "showName", "yearSemester", "director", "genre", "playWright"},
		filters: map[string]map[string]string{
			"": likeFilters("s", "showID", "showName", "yearSemester", "director", "genre", "playWright"),
		},
	},
	storage.Characters: {
		name:    "characters",
		query:   characterQuery,
		alias:   "c",
		order:   "sh.yearSemester DESC, sh.showName, c.characterName",
		columns: []string{"characterName", "netID", "showID"},
		filters: map[string]map[string]string{
			"":   likeFilters("c", "netID", "characterName", "showID"),
			"c":  likeFilters("c", "netID", "characterName", "showID"),
			"s":  likeFilters("s", "firstName", "lastName"),
			"sh": likeFilters("sh", "showID", "showName", "yearSemester"),
		},
	},
	storage.CrewInShow: {
		name:    "crew_in_show",
		query:   "SELECT cs.crewID, cs.showID, cs.roles FROM crew_in_show cs",
		alias:   "cs",
		order:   "cs.showID, cs.crewID",
		columns: []string{"crewID", "showID", "roles"},
		filters: map[string]map[string]string{"": likeFilters("cs", "crewID", "showID")},
	},
	storage.Scenes: {
		name:    "scenes",
		query:   "SELECT sc.showID, sc.sceneName, sc.act, sc.locationSet, sc.song, sc.bookScriptPages, sc.crewInShow FROM scenes sc",
		alias:   "sc",
		order:   "sc.act, sc.sceneName",
		columns: []string{"showID", "sceneName", "act", "locationSet", "song", "bookScriptPages", "crewInShow"},
		filters: map[string]map[string]string{"": likeFilters("sc", "showID", "sceneName")},
	},
	storage.SceneDetails: {
		name: "scene_details",
		query: `SELECT
	d.showID AS showID,
	d.sceneName AS sceneName,
	d.characterName AS characterName,
	d.netID AS netID,
	st.firstName AS firstName,
	st.lastName AS lastName,
	d.costume AS costume,
	d.blocking AS blocking
FROM scene_details d
JOIN student st ON st.netID = d.netID`,
		alias:   "d",
		order:   "d.characterName",
		columns: []string{"showID", "sceneName", "characterName", "netID", "costume", "blocking"},
		filters: map[string]map[string]string{"": likeFilters("d", "characterName", "netID")},
	},
}

var reports = map[storage.Detail]string{
	storage.StudentShows: `SELECT
	s.showID AS showID,
	s.showName AS showName,
	s.yearSemester AS yearSemester,
	s.director AS director,
	s.genre AS genre,
	s.playWright AS playWright,
	group_concat(c.characterName, ', ') AS characters
FROM shows s
JOIN characters c ON s.showID = c.showID
WHERE c.netID = ?
GROUP BY s.showID, s.showName, s.yearSemester, s.director, s.genre, s.playWright
ORDER BY s.yearSemester DESC, s.showName`,

	storage.ShowCrew: `SELECT s.showName, s.yearSemester, st.firstName, st.lastName, cs.roles, cs.crewID
FROM crew_in_show cs
JOIN shows s ON cs.showID = s.showID
JOIN student st ON st.netID = cs.crewID
WHERE s.showID = ?
ORDER BY st.lastName, st.firstName`,
}
