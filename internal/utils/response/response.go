// Package response provides helpers for writing consistent JSON HTTP responses.
//
// The records API answers list endpoints with a bare JSON array and every
// mutation with a small status envelope. The front end reads the same
// envelope back when it surfaces a server message, so both sides share
// these helpers.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the envelope returned by every mutating endpoint.
//
//	{ "status": "success", "message": "Student added successfully!" }
//	{ "status": "error",   "message": "Student not found" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	StatusOK    = "success"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Success wraps a confirmation message.
func Success(msg string) Response {
	return Response{Status: StatusOK, Message: msg}
}

// Error wraps a plain error message.
func Error(msg string) Response {
	return Response{Status: StatusError, Message: msg}
}

// ─────────────────────────────────────────────────────────────────────────────
// GeneralError wraps any Go error into our standard Response shape.
// Use this for unexpected errors (DB failures, decode errors, etc.)
//
//	response.WriteJSON(w, http.StatusInternalServerError,
//	    response.GeneralError(err))
//
// ─────────────────────────────────────────────────────────────────────────────
func GeneralError(err error) Response {
	return Error(err.Error())
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts validator.FieldError values into one
// human-readable Response, e.g.
//
//	{ "status": "error", "message": "field netID is required, field email must be a valid email address" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "netid":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be 3 letters followed by up to 5 digits", e.Field()))
		case "gte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Error(strings.Join(errMessages, ", "))
}
