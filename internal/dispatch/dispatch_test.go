package dispatch_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/theater-records/internal/backend"
	"github.com/aanand-mishra/theater-records/internal/dispatch"
)

type call struct {
	method   string
	endpoint string
	values   url.Values
}

type fakeRequester struct {
	calls []call
	resp  *backend.Response
	err   error
}

func (f *fakeRequester) Do(_ context.Context, method, endpoint string, values url.Values) (*backend.Response, error) {
	f.calls = append(f.calls, call{method, endpoint, values})
	return f.resp, f.err
}

func studentMenu() dispatch.Menu {
	return dispatch.Menu{
		"edit": {Kind: dispatch.Navigate, Route: "/student/{netID}/editPage"},
		"roles": {Kind: dispatch.Navigate, Route: "/characters/loadpage?netID={netID}"},
		"delete": {Kind: dispatch.Delete, Delete: &dispatch.DeleteSpec{
			Endpoint: "/student/delete",
			Prompt:   "Are you sure you want to delete student {netID}?",
			Success:  "Student deleted successfully",
			Failure:  "Error deleting student",
		}},
	}
}

func TestDispatchNavigate(t *testing.T) {
	req := &fakeRequester{}
	d := dispatch.New(req, nil)
	id := dispatch.Identity{"netID": "ABC123"}

	out := d.Dispatch(context.Background(), studentMenu(), "edit", id, false)
	assert.Equal(t, dispatch.Navigated, out.Kind)
	assert.Equal(t, "/student/ABC123/editPage", out.URL)
	assert.True(t, out.ResetSelect)

	out = d.Dispatch(context.Background(), studentMenu(), "roles", id, false)
	assert.Equal(t, "/characters/loadpage?netID=ABC123", out.URL)
	assert.Empty(t, req.calls)
}

func TestDispatchIdle(t *testing.T) {
	req := &fakeRequester{}
	d := dispatch.New(req, nil)

	for _, choice := range []string{"", "bogus"} {
		out := d.Dispatch(context.Background(), studentMenu(), choice, dispatch.Identity{"netID": "ABC123"}, true)
		assert.Equal(t, dispatch.Idle, out.Kind, choice)
		assert.True(t, out.ResetSelect)
	}
	assert.Empty(t, req.calls)
}

func TestDispatchDeleteNeedsConfirm(t *testing.T) {
	req := &fakeRequester{}
	d := dispatch.New(req, nil)

	out := d.Dispatch(context.Background(), studentMenu(), "delete", dispatch.Identity{"netID": "ABC123"}, false)
	assert.Equal(t, dispatch.NeedsConfirm, out.Kind)
	assert.Equal(t, "Are you sure you want to delete student ABC123?", out.Prompt)
	assert.Empty(t, req.calls, "declined or unconfirmed delete sends nothing")
}

func TestDispatchDeleteConfirmed(t *testing.T) {
	req := &fakeRequester{resp: &backend.Response{Status: http.StatusOK}}
	d := dispatch.New(req, nil)

	out := d.Dispatch(context.Background(), studentMenu(), "delete", dispatch.Identity{"netID": "ABC123"}, true)
	assert.Equal(t, dispatch.Reloaded, out.Kind)
	assert.Equal(t, "Student deleted successfully", out.Message)

	require.Len(t, req.calls, 1)
	assert.Equal(t, http.MethodPost, req.calls[0].method)
	assert.Equal(t, "/student/delete", req.calls[0].endpoint)
	assert.Equal(t, "ABC123", req.calls[0].values.Get("netID"))
}

func TestDispatchDeleteRedirect(t *testing.T) {
	req := &fakeRequester{resp: &backend.Response{Status: http.StatusOK}}
	d := dispatch.New(req, nil)
	menu := dispatch.Menu{"delete": {Kind: dispatch.Delete, Delete: &dispatch.DeleteSpec{
		Endpoint: "/shows/deleteScene",
		Method:   http.MethodDelete,
		Redirect: "/show/scenesInShow?showID={showID}",
	}}}

	out := d.Dispatch(context.Background(), menu, "delete", dispatch.Identity{"sceneName": "Act 1", "showID": "S 1"}, true)
	assert.Equal(t, dispatch.Redirected, out.Kind)
	assert.Equal(t, "/show/scenesInShow?showID=S+1", out.URL)
	require.Len(t, req.calls, 1)
	assert.Equal(t, http.MethodDelete, req.calls[0].method)
}

func TestDispatchDeleteFailures(t *testing.T) {
	t.Run("backend message", func(t *testing.T) {
		req := &fakeRequester{resp: &backend.Response{
			Status:      http.StatusBadRequest,
			ContentType: "application/json",
			Body:        []byte(`{"status":"Error","message":"student has roles"}`),
		}}
		out := dispatch.New(req, nil).Dispatch(context.Background(), studentMenu(), "delete", dispatch.Identity{"netID": "ABC123"}, true)
		assert.Equal(t, dispatch.Failed, out.Kind)
		assert.Equal(t, "Error deleting student: student has roles", out.Message)
	})

	t.Run("transport", func(t *testing.T) {
		req := &fakeRequester{err: errors.New("connection refused")}
		out := dispatch.New(req, nil).Dispatch(context.Background(), studentMenu(), "delete", dispatch.Identity{"netID": "ABC123"}, true)
		assert.Equal(t, dispatch.Failed, out.Kind)
		assert.Contains(t, out.Message, "connection refused")
	})

	t.Run("invalid identity", func(t *testing.T) {
		req := &fakeRequester{}
		menu := dispatch.Menu{"delete": {Kind: dispatch.Delete, Delete: &dispatch.DeleteSpec{
			Endpoint: "/characters/delete",
			Validate: func(id dispatch.Identity) error {
				if id["showID"] == "" {
					return errors.New("missing showID")
				}
				return nil
			},
		}}}
		out := dispatch.New(req, nil).Dispatch(context.Background(), menu, "delete", dispatch.Identity{"netID": "ABC123"}, true)
		assert.Equal(t, dispatch.Failed, out.Kind)
		assert.Empty(t, req.calls)
	})
}

func TestExpand(t *testing.T) {
	id := dispatch.Identity{"netID": "AB/C", "showID": "a&b"}
	assert.Equal(t, "/student/AB%2FC/shows", dispatch.Expand("/student/{netID}/shows", id))
	assert.Equal(t, "/x?showID=a%26b", dispatch.Expand("/x?showID={showID}", id))
}

func TestFillSubstitutesOnce(t *testing.T) {
	id := dispatch.Identity{"characterName": "{sceneName}", "sceneName": "Act 1", "showID": "S1"}
	const prompt = "Delete {characterName} from {sceneName} of {showID}?"

	for range 20 {
		assert.Equal(t, "Delete {sceneName} from Act 1 of S1?", dispatch.Fill(prompt, id))
	}
	assert.Equal(t, "/x?characterName=%7BsceneName%7D&sceneName=Act+1",
		dispatch.Expand("/x?characterName={characterName}&sceneName={sceneName}", id))
}

func TestFillLeavesUnknownPlaceholders(t *testing.T) {
	id := dispatch.Identity{"netID": "ABC123"}
	assert.Equal(t, "{missing} ABC123 } {{netID", dispatch.Fill("{missing} {netID} } {{netID", id))
	assert.Equal(t, "{ABC123", dispatch.Fill("{{netID}", id))
}
