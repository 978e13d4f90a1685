package http

import (
	"net/http"

	"github.com/aussiebroadwan/tasktab/pkg/httpx"
)

// APIError is the error envelope every endpoint returns on failure.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "invalid_request")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// errInvalidRequest is returned for malformed bodies or missing fields.
	errInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_request",
		Description: "the request is malformed or missing required parameters",
	}

	// errDuplicateUser is returned when the username is already registered.
	errDuplicateUser = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "duplicate_user",
		Description: "a user with that username already exists",
	}

	// errInvalidCredentials covers both unknown usernames and wrong
	// passwords; the client cannot tell which.
	errInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_credentials",
		Description: "invalid username or password",
	}

	// errInvalidToken mirrors the middleware's 401 for handlers that find
	// no identity on the request context.
	errInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_token",
		Description: "the access token is missing, invalid or expired",
	}

	// errTaskNotFound covers both missing tasks and tasks owned by another
	// user; the two cases are deliberately indistinguishable.
	errTaskNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        "not_found",
		Description: "task not found",
	}

	// errServerError never leaks internal detail; the cause is logged
	// server-side instead.
	errServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        "server_error",
		Description: "internal server error",
	}
)
