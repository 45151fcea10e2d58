// Package form collects add/edit form input and submits it to the backend.
package form

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/aanand-mishra/theater-records/internal/backend"
	"github.com/aanand-mishra/theater-records/internal/notify"
)

// Fields is the set of key/value pairs sent with a submission.
type Fields struct {
	values url.Values
}

// NewFields returns an empty set.
func NewFields() *Fields { return &Fields{values: url.Values{}} }

// Set adds key unconditionally.
func (f *Fields) Set(key, value string) { f.values.Set(key, value) }

// SetIfNotEmpty adds key only when value is non-empty, so optional fields
// the user left blank are not sent at all.
func (f *Fields) SetIfNotEmpty(key, value string) {
	if value != "" {
		f.values.Set(key, value)
	}
}

// Get returns the value for key.
func (f *Fields) Get(key string) string { return f.values.Get(key) }

// Has reports whether key will be sent.
func (f *Fields) Has(key string) bool { return f.values.Has(key) }

// Values returns the encoded form body values.
func (f *Fields) Values() url.Values { return f.values }

// Poster sends a form-encoded POST. *backend.Client satisfies it.
type Poster interface {
	PostForm(ctx context.Context, endpoint string, values url.Values) (*backend.Response, error)
}

// Submission describes one form POST.
type Submission struct {
	Endpoint       string
	Fields         *Fields
	SuccessMessage string
	Redirect       string
	FormID         string
}

// Result is the outcome of a submission. On success Redirect and ResetForm
// are set from the submission; on failure both are empty and Message holds
// the error text to show.
type Result struct {
	OK        bool
	Status    int
	Message   string
	Redirect  string
	ResetForm string
}

// Notice converts the result into the message shown to the user.
func (r Result) Notice() *notify.Notice {
	if r.OK {
		return notify.Info(r.Message)
	}
	return notify.Error(r.Message)
}

// Submitter posts submissions.
type Submitter struct {
	poster Poster
	log    *slog.Logger
}

// NewSubmitter builds a Submitter. A nil logger uses slog.Default().
func NewSubmitter(p Poster, log *slog.Logger) *Submitter {
	if log == nil {
		log = slog.Default()
	}
	return &Submitter{poster: p, log: log}
}

// Submit posts the fields. A JSON response is read as {"message": ...},
// anything else as literal text. A transport failure is reported the same
// way as a server error.
func (s *Submitter) Submit(ctx context.Context, sub Submission) Result {
	fields := sub.Fields
	if fields == nil {
		fields = NewFields()
	}

	resp, err := s.poster.PostForm(ctx, sub.Endpoint, fields.Values())
	if err != nil {
		s.log.Error("error submitting form",
			slog.String("endpoint", sub.Endpoint),
			slog.String("error", err.Error()))
		return Result{OK: false, Message: "Error: " + err.Error()}
	}

	if !resp.OK() {
		msg := resp.Message()
		if msg == "" {
			msg = (&backend.StatusError{Code: resp.Status}).Error()
		}
		s.log.Warn("form rejected",
			slog.String("endpoint", sub.Endpoint),
			slog.Int("status", resp.Status),
			slog.String("message", msg))
		return Result{OK: false, Status: resp.Status, Message: "Error: " + msg}
	}

	return Result{
		OK:        true,
		Status:    resp.Status,
		Message:   sub.SuccessMessage,
		Redirect:  sub.Redirect,
		ResetForm: sub.FormID,
	}
}
