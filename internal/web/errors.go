package web

// errors.go provides unified error response handling for the API.
//
// Handlers call respondError with whatever error they hit; the error is
// mapped to a stable code plus a user-facing message and action, logged
// server-side with the request ID, and returned as JSON.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/statware/genesis/internal/cube"
	"github.com/statware/genesis/internal/format"
	"github.com/statware/genesis/internal/importer"
	"github.com/statware/genesis/internal/logging"
	"github.com/statware/genesis/internal/store"
)

// UserMessage is the user-facing rendering of an internal error.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// mapError translates an internal error into a user message, a stable
// support code, and the HTTP status to respond with.
func mapError(err error) (UserMessage, int) {
	var missing *cube.MissingSectionError
	if errors.As(err, &missing) {
		return UserMessage{
			Message: "The export is missing the " + missing.Section + " section.",
			Action:  "Re-export the cube with all sections included.",
			Code:    "CUBE001",
		}, http.StatusUnprocessableEntity
	}

	var malformed *cube.MalformedRecordError
	if errors.As(err, &malformed) {
		return UserMessage{
			Message: "A record in the " + malformed.Section + " section could not be parsed.",
			Action:  "Check the export for truncated or corrupted lines.",
			Code:    "CUBE002",
		}, http.StatusUnprocessableEntity
	}

	var coercion *cube.CoercionError
	if errors.As(err, &coercion) {
		return UserMessage{
			Message: "The field " + coercion.Field + " in section " + coercion.Section + " has an invalid value.",
			Action:  "Verify the export was produced by a supported GENESIS version.",
			Code:    "CUBE003",
		}, http.StatusUnprocessableEntity
	}

	var mismatch *cube.SchemaMismatchError
	if errors.As(err, &mismatch) {
		return UserMessage{
			Message: "The export does not match its own declared structure.",
			Action:  "Re-export the cube; the file may be truncated.",
			Code:    "CUBE004",
		}, http.StatusUnprocessableEntity
	}

	if errors.Is(err, format.ErrUnrecognizedToken) {
		return UserMessage{
			Message: "The export contains a value in an unrecognized format.",
			Action:  "Verify the export was produced by a supported GENESIS version.",
			Code:    "CUBE005",
		}, http.StatusUnprocessableEntity
	}

	if errors.Is(err, store.ErrNotFound) {
		return UserMessage{
			Message: "No stored cube with that name exists.",
			Action:  "List stored cubes with GET /api/cubes.",
			Code:    "STORE001",
		}, http.StatusNotFound
	}

	if errors.Is(err, importer.ErrTooManyImports) {
		return UserMessage{
			Message: "Too many imports are running right now.",
			Action:  "Retry after a short delay.",
			Code:    "REQ002",
		}, http.StatusTooManyRequests
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return UserMessage{
			Message: "The export exceeds the maximum allowed size.",
			Action:  "Raise IMPORT_MAX_BODY_SIZE or split the export.",
			Code:    "REQ001",
		}, http.StatusRequestEntityTooLarge
	}

	return UserMessage{
		Message: "An unexpected error occurred.",
		Action:  "Try again; contact support with the error code if it persists.",
		Code:    "SYS001",
	}, http.StatusInternalServerError
}

// respondError logs the technical error with its request ID and writes the
// mapped user message as JSON.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg, status := mapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:  userMsg.Message,
		Action: userMsg.Action,
		Code:   userMsg.Code,
	})
}
