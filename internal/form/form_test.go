package form_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/theater-records/internal/backend"
	"github.com/aanand-mishra/theater-records/internal/form"
	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

type stubPoster struct {
	resp     *backend.Response
	err      error
	endpoint string
	sent     url.Values
}

func (s *stubPoster) PostForm(_ context.Context, endpoint string, values url.Values) (*backend.Response, error) {
	s.endpoint = endpoint
	s.sent = values
	return s.resp, s.err
}

func sub(fields *form.Fields) form.Submission {
	return form.Submission{
		Endpoint:       "/student/add",
		Fields:         fields,
		SuccessMessage: "Student added successfully!",
		Redirect:       "/student/loadpage",
		FormID:         "add-student-form",
	}
}

func TestSubmitSuccess(t *testing.T) {
	p := &stubPoster{resp: &backend.Response{Status: 200, ContentType: "application/json", Body: []byte(`{"status":"success","message":"ok"}`)}}
	f := form.NewFields()
	f.Set("netID", "ABC12345")

	res := form.NewSubmitter(p, nil).Submit(context.Background(), sub(f))

	want := form.Result{
		OK:        true,
		Status:    200,
		Message:   "Student added successfully!",
		Redirect:  "/student/loadpage",
		ResetForm: "add-student-form",
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "/student/add", p.endpoint)
	assert.Equal(t, "ABC12345", p.sent.Get("netID"))
	assert.False(t, res.Notice().IsError())
}

func TestSubmitServerErrorJSON(t *testing.T) {
	p := &stubPoster{resp: &backend.Response{
		Status:      500,
		ContentType: "application/json; charset=utf-8",
		Body:        []byte(`{"status":"error","message":"Error adding student: duplicate key"}`),
	}}

	res := form.NewSubmitter(p, nil).Submit(context.Background(), sub(form.NewFields()))

	assert.False(t, res.OK)
	assert.Equal(t, "Error: Error adding student: duplicate key", res.Message)
	assert.Empty(t, res.Redirect, "failed submission must not navigate")
	assert.Empty(t, res.ResetForm)
	assert.True(t, res.Notice().IsError())
}

func TestSubmitServerErrorText(t *testing.T) {
	p := &stubPoster{resp: &backend.Response{Status: 400, ContentType: "text/plain", Body: []byte("Missing netID\n")}}

	res := form.NewSubmitter(p, nil).Submit(context.Background(), sub(form.NewFields()))

	assert.False(t, res.OK)
	assert.Equal(t, 400, res.Status)
	assert.Equal(t, "Error: Missing netID", res.Message)
}

func TestSubmitServerErrorEmptyBody(t *testing.T) {
	p := &stubPoster{resp: &backend.Response{Status: 502}}
	res := form.NewSubmitter(p, nil).Submit(context.Background(), sub(form.NewFields()))
	assert.Equal(t, "Error: HTTP error! status: 502", res.Message)
}

func TestSubmitTransportError(t *testing.T) {
	p := &stubPoster{err: errors.New("connection refused")}

	res := form.NewSubmitter(p, nil).Submit(context.Background(), sub(form.NewFields()))

	assert.False(t, res.OK)
	assert.Equal(t, "Error: connection refused", res.Message)
	assert.Empty(t, res.Redirect)
}

func TestCollectSkipsEmptyOptionalFields(t *testing.T) {
	def := form.Definition{
		ID: "add-crew-form",
		Fields: []form.Field{
			{Key: "crewID", InputID: "netIDInput", Kind: view.KindNetID, Required: true},
			{Key: "lighting", InputID: "lighting"},
			{Key: "notes", InputID: "notes"},
		},
	}
	posted := url.Values{"netIDInput": {"abc123x"}, "lighting": {""}, "notes": {"Runs the fly rail"}}

	got := def.Collect(posted).Values()

	want := url.Values{"crewID": {"ABC123"}, "notes": {"Runs the fly rail"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collected fields mismatch (-want +got):\n%s", diff)
	}

	def.SendEmpty = true
	assert.True(t, def.Collect(posted).Has("lighting"))
}

func TestDefinitionView(t *testing.T) {
	def := form.Definition{
		ID:       "edit-student-form",
		Redirect: "/student/loadpage",
		Fields: []form.Field{
			{Key: "newNetID", InputID: "netID", Label: "NetID", Kind: view.KindNetID, Required: true},
			{Key: "pronouns", InputID: "pronouns", Label: "Pronouns"},
		},
	}

	fv := def.View("/student/ABC123/editPage", map[string]string{"netID": "ABC123"})

	require.Len(t, fv.Fields, 2)
	assert.Equal(t, "ABC123", fv.Fields[0].Value)
	assert.Equal(t, "edit-student-form-submit", fv.SubmitID)
	assert.Equal(t, "/student/loadpage", fv.Cancel)

	fv.Reset()
	assert.Empty(t, fv.Fields[0].Value)
}

func TestCheck(t *testing.T) {
	def := form.Definition{Validate: func(f *form.Fields) error {
		if f.Get("netID") == "" {
			return errors.New("netID is required")
		}
		return nil
	}}
	assert.Error(t, def.Check(form.NewFields()))
	assert.NoError(t, form.Definition{}.Check(form.NewFields()))
}

func TestPrefillAndDisplayOnlyFields(t *testing.T) {
	def := form.Definition{
		Fields: []form.Field{
			{Key: "newNetID", InputID: "netID", Source: "netID", Kind: view.KindNetID},
			{InputID: "firstName"},
			{Key: "allergies_sensitivities", InputID: "allergies"},
		},
		SendEmpty: true,
	}
	rec := types.Record{"netid": "ABC123", "allergies_sensitivities": "Latex"}

	want := map[string]string{"netID": "ABC123", "allergies": "Latex"}
	if diff := cmp.Diff(want, def.Prefill(rec)); diff != "" {
		t.Fatalf("prefill mismatch (-want +got):\n%s", diff)
	}

	got := def.Collect(url.Values{"netID": {"abc123"}, "firstName": {"Jane"}})
	assert.False(t, got.Has("firstName"), "display-only field is never sent")
	assert.Equal(t, "ABC123", got.Get("newNetID"))
}
