package types_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/theater-records/internal/types"
)

func TestRecordGet(t *testing.T) {
	records, err := types.DecodeRecords([]byte(`[
		{"netid":"ABC123","firstname":"Jane","yearsActingExperience":4,"pronouns":null,"wigTrained":true}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "ABC123", r.Get("netID"), "lookup ignores key casing")
	assert.Equal(t, "Jane", r.Get("firstName"))
	assert.Equal(t, "4", r.Get("yearsActingExperience"))
	assert.Equal(t, "", r.Get("pronouns"), "null renders empty")
	assert.Equal(t, "", r.Get("email"), "missing renders empty")
	assert.Equal(t, "Yes", r.Get("wigTrained"))
	assert.False(t, r.Has("pronouns"))
	assert.True(t, r.Has("netid"))
}

func TestDecodeRecordsEmpty(t *testing.T) {
	records, err := types.DecodeRecords([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	_, err = types.DecodeRecords([]byte(`{"message":"nope"}`))
	assert.Error(t, err)
}

func TestCompositeKeys(t *testing.T) {
	key := types.CharacterKey{CharacterName: "Hamlet", ShowID: "S1", NetID: "ABC123"}
	require.NoError(t, key.Validate())

	got := types.CharacterKeyFrom(key.Values())
	if diff := cmp.Diff(key, got); diff != "" {
		t.Fatalf("character key mismatch (-want +got):\n%s", diff)
	}

	assert.Error(t, types.CharacterKey{CharacterName: "Hamlet", ShowID: "S1"}.Validate())
	assert.Error(t, types.CharacterKey{CharacterName: "Hamlet", ShowID: "S1", NetID: "12AB"}.Validate())
	assert.Error(t, types.SceneKey{SceneName: "Prologue"}.Validate())

	detail := types.SceneDetailKey{CharacterName: "Hamlet", SceneName: "Act I", NetID: "ABC123", ShowID: "S1"}
	require.NoError(t, detail.Validate())
	if diff := cmp.Diff(detail, types.SceneDetailKeyFrom(detail.Values())); diff != "" {
		t.Fatalf("scene detail key mismatch (-want +got):\n%s", diff)
	}
}

func TestStudentValidation(t *testing.T) {
	s := types.Student{NetID: "ABC12345", FirstName: "Jane", LastName: "Doe", GradeLevel: "10"}
	assert.NoError(t, types.Validator().Struct(s))

	s.Email = "not-an-email"
	assert.Error(t, types.Validator().Struct(s))
}
