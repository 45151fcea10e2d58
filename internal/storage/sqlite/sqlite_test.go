package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/theater-records/internal/storage"
	"github.com/aanand-mishra/theater-records/internal/storage/sqlite"
)

func open(t *testing.T) *sqlite.SQLite {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "theater.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, db *sqlite.SQLite) {
	t.Helper()
	ctx := context.Background()
	students := []storage.Row{
		{"netID": "ABC123", "firstName": "Jane", "lastName": "Doe", "gradeLevel": "10"},
		{"netID": "XYZ999", "firstName": "Sam", "lastName": "Adams", "gradeLevel": "11"},
	}
	for _, s := range students {
		require.NoError(t, db.Insert(ctx, storage.Students, s))
	}
	require.NoError(t, db.Insert(ctx, storage.Shows, storage.Row{
		"showID": "S1", "showName": "Hamlet", "yearSemester": "2024 Fall", "director": "Lee",
	}))
	require.NoError(t, db.Insert(ctx, storage.Characters, storage.Row{
		"characterName": "Ophelia", "netID": "ABC123", "showID": "S1",
	}))
	require.NoError(t, db.Insert(ctx, storage.Characters, storage.Row{
		"characterName": "Gertrude", "netID": "ABC123", "showID": "S1",
	}))
}

func TestListOrderAndFilter(t *testing.T) {
	db := open(t)
	seed(t, db)
	ctx := context.Background()

	all, err := db.List(ctx, storage.Students)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Adams", all[0]["lastName"], "ordered by last name")

	got, err := db.FilterBy(ctx, storage.Students, storage.Filter{Column: "netid", Value: "abc"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ABC123", got[0]["netID"])

	_, err = db.FilterBy(ctx, storage.Students, storage.Filter{Column: "netID; DROP TABLE student", Value: "x"})
	assert.ErrorIs(t, err, storage.ErrUnknownColumn)
}

func TestCharacterFilterByAlias(t *testing.T) {
	db := open(t)
	seed(t, db)

	got, err := db.FilterBy(context.Background(), storage.Characters, storage.Filter{Column: "showname", Alias: "sh", Value: "ham"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024 Fall", got[0]["showSemester"])
	assert.Equal(t, "Jane", got[0]["firstName"])

	_, err = db.FilterBy(context.Background(), storage.Characters, storage.Filter{Column: "showname", Alias: "s", Value: "ham"})
	assert.ErrorIs(t, err, storage.ErrUnknownColumn)
}

func TestStudentShowsReport(t *testing.T) {
	db := open(t)
	seed(t, db)

	got, err := db.Report(context.Background(), storage.StudentShows, "ABC123")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Hamlet", got[0]["showName"])
	assert.Contains(t, got[0]["characters"], "Ophelia")
	assert.Contains(t, got[0]["characters"], "Gertrude")

	none, err := db.Report(context.Background(), storage.StudentShows, "XYZ999")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestConstraintErrors(t *testing.T) {
	db := open(t)
	seed(t, db)
	ctx := context.Background()

	err := db.Insert(ctx, storage.Students, storage.Row{"netID": "ABC123", "firstName": "J", "lastName": "D", "gradeLevel": "9"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	err = db.Insert(ctx, storage.Actors, storage.Row{"netID": "NOPE1"})
	assert.ErrorIs(t, err, storage.ErrForeignKey)

	err = db.Delete(ctx, storage.Students, storage.Key{"netID": "ABC123"})
	assert.ErrorIs(t, err, storage.ErrForeignKey, "characters still reference the student")

	err = db.Delete(ctx, storage.Students, storage.Key{"netID": "NOPE1"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateCascadesNetID(t *testing.T) {
	db := open(t)
	seed(t, db)
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, storage.Students, storage.Key{"netID": "ABC123"}, storage.Row{"netID": "ABC124"}))

	got, err := db.Find(ctx, storage.Characters, storage.Key{"characterName": "Ophelia", "showID": "S1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ABC124", got[0]["netID"])
}

func TestCrewFlagsRenderYesNo(t *testing.T) {
	db := open(t)
	seed(t, db)
	ctx := context.Background()

	require.NoError(t, db.Insert(ctx, storage.Crew, storage.Row{
		"crewID": "XYZ999", "firstName": "Sam", "lastName": "Adams", "wigTrained": 1, "lighting": "Board op",
	}))

	got, err := db.List(ctx, storage.Crew)
	require.NoError(t, err)
	require.Len(t, got, 1)

	want := map[string]any{
		"wigTrained":    "Yes",
		"makeupTrained": "No",
		"musicReading":  "No",
		"lighting":      "Board op",
	}
	gotFlags := map[string]any{}
	for k := range want {
		gotFlags[k] = got[0][k]
	}
	if diff := cmp.Diff(want, gotFlags); diff != "" {
		t.Fatalf("crew row mismatch (-want +got):\n%s", diff)
	}
}
