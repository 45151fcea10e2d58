package backend_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/theater-records/internal/backend"
	"github.com/aanand-mishra/theater-records/internal/http/middleware"
)

func newClient(t *testing.T, h http.HandlerFunc, opts ...backend.Option) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := backend.New(srv.URL+"/", opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeBase(t *testing.T) {
	_, err := backend.New("localhost:8080")
	assert.Error(t, err)

	_, err = backend.New("/api")
	assert.Error(t, err)
}

func TestFetchRecords(t *testing.T) {
	var gotPath, gotQuery string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"netID":"ABC123","gradeLevel":10},{"netID":"XYZ9"}]`)
	})

	records, err := c.FetchRecords(context.Background(), "/student/filterBy?column=netid&value=ab")
	require.NoError(t, err)

	assert.Equal(t, "/student/filterBy", gotPath)
	assert.Equal(t, "column=netid&value=ab", gotQuery)
	require.Len(t, records, 2)
	assert.Equal(t, "ABC123", records[0].Get("netID"))
	assert.Equal(t, "10", records[0].Get("gradeLevel"))
}

func TestFetchRecordsStatusError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"status":"error","message":"Invalid column name"}`)
	})

	_, err := c.FetchRecords(context.Background(), "/student/filterBy")

	var se *backend.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode())
	assert.Equal(t, "Invalid column name", se.Error())
}

func TestFetchRecordsNotAnArray(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success"}`)
	})
	_, err := c.FetchRecords(context.Background(), "/shows/getAll")
	assert.Error(t, err)
}

func TestPostFormSendsBody(t *testing.T) {
	var got url.Values
	var contentType string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got, contentType = r.PostForm, r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"status":"error","message":"Error adding student: boom"}`)
	})

	resp, err := c.PostForm(context.Background(), "/student/add", url.Values{"netID": {"ABC123"}})
	require.NoError(t, err, "non-2xx is not a transport error")

	if diff := cmp.Diff(url.Values{"netID": {"ABC123"}}, got); diff != "" {
		t.Fatalf("posted form mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.False(t, resp.OK())
	assert.True(t, resp.IsJSON())
	assert.Equal(t, "Error adding student: boom", resp.Message())
}

func TestDoDeleteCarriesBody(t *testing.T) {
	var method, body string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		_, _ = io.WriteString(w, "Scene deleted")
	})

	resp, err := c.Do(context.Background(), http.MethodDelete, "/shows/deleteScene", url.Values{"showID": {"S1"}})
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "showID=S1", body)
	assert.Equal(t, "Scene deleted", resp.Message(), "plain text bodies are read literally")
}

func TestDoRejectsAbsoluteEndpoint(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent")
	})
	_, err := c.Do(context.Background(), http.MethodGet, "http://elsewhere.example/student/getAll", nil)
	assert.Error(t, err)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, backend.WithTimeout(20*time.Millisecond))
	defer close(release)

	_, err := c.FetchRecords(context.Background(), "/student/getAll")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResponseMessageFallsBackToErrorField(t *testing.T) {
	r := &backend.Response{Status: 400, ContentType: "application/json", Body: []byte(`{"error":"bad input"}`)}
	assert.Equal(t, "bad input", r.Message())

	r = &backend.Response{Status: 400, ContentType: "application/json", Body: []byte(`not json`)}
	assert.Equal(t, "not json", r.Message())
}

func TestForwardsRequestID(t *testing.T) {
	var got []string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get(middleware.HeaderRequestID))
		_, _ = io.WriteString(w, "[]")
	})

	ctx := middleware.WithRequestID(context.Background(), "req-42")
	_, err := c.FetchRecords(ctx, "/student/getAll")
	require.NoError(t, err)
	_, err = c.PostForm(ctx, "/student/add", url.Values{"netID": {"ABC123"}})
	require.NoError(t, err)
	_, err = c.FetchRecords(context.Background(), "/student/getAll")
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"req-42", "req-42", ""}, got); diff != "" {
		t.Fatalf("forwarded ids mismatch (-want +got):\n%s", diff)
	}
}
