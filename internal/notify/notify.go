// Package notify carries one-shot notices (success or error text) across a
// redirect. A notice is added as a flash to a signed session cookie by the
// handler that performed the action and consumed by the next page render.
package notify

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "theater_notice"

// Level is the severity of a notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a message shown once to the user.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

func init() {
	gob.Register(Notice{})
}

// Info builds an informational notice.
func Info(text string) *Notice { return &Notice{Level: LevelInfo, Text: text} }

// Error builds an error notice.
func Error(text string) *Notice { return &Notice{Level: LevelError, Text: text} }

// IsError reports whether the notice reports a failure.
func (n *Notice) IsError() bool { return n != nil && n.Level == LevelError }

// Store keeps pending notices in a signed cookie session.
type Store struct {
	sessions sessions.Store
}

// NewStore builds a Store signing its cookie with key.
func NewStore(key []byte) *Store {
	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{sessions: cs}
}

// Set stores n so that the next Pop on this client returns it.
func (s *Store) Set(w http.ResponseWriter, r *http.Request, n *Notice) error {
	if n == nil || n.Text == "" {
		return nil
	}
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil && sess == nil {
		return err
	}
	sess.AddFlash(*n)
	return sess.Save(r, w)
}

// Pop returns the pending notice, if any, and clears it. A cookie that
// fails its signature check is treated as no notice.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) *Notice {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil || sess == nil {
		return nil
	}
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		return nil
	}

	for i := len(flashes) - 1; i >= 0; i-- {
		if n, ok := flashes[i].(Notice); ok && n.Text != "" {
			return &n
		}
	}
	return nil
}
