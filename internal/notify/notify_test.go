package notify_test

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/theater-records/internal/notify"
)

var key = []byte("0123456789abcdef0123456789abcdef")

// follow builds a request carrying the cookies set on rec.
func follow(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSetThenPop(t *testing.T) {
	store := notify.NewStore(key)

	rec := httptest.NewRecorder()
	require.NoError(t, store.Set(rec, httptest.NewRequest(http.MethodPost, "/", nil), notify.Error("Error: Student not found")))

	next := httptest.NewRecorder()
	n := store.Pop(next, follow(rec))
	require.NotNil(t, n)
	assert.True(t, n.IsError())
	assert.Equal(t, "Error: Student not found", n.Text)

	assert.Nil(t, store.Pop(httptest.NewRecorder(), follow(next)), "a notice is shown once")
}

func TestPopWithoutCookie(t *testing.T) {
	store := notify.NewStore(key)
	assert.Nil(t, store.Pop(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestPopRejectsForgedCookie(t *testing.T) {
	store := notify.NewStore(key)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"level":"info","text":"Student deleted successfully!"}`))
	req.AddCookie(&http.Cookie{Name: "theater_notice", Value: forged})
	assert.Nil(t, store.Pop(httptest.NewRecorder(), req))

	rec := httptest.NewRecorder()
	require.NoError(t, notify.NewStore([]byte("another-key-another-key-another!")).
		Set(rec, httptest.NewRequest(http.MethodPost, "/", nil), notify.Info("hello")))
	assert.Nil(t, store.Pop(httptest.NewRecorder(), follow(rec)), "cookie signed with another key")
}

func TestSetIgnoresEmpty(t *testing.T) {
	store := notify.NewStore(key)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	require.NoError(t, store.Set(rec, req, nil))
	require.NoError(t, store.Set(rec, req, notify.Info("")))
	assert.Empty(t, rec.Result().Cookies())
}
