// Package apierror provides the error envelope shared by all API handlers.
//
// Domain failures are always reported with HTTP 400 and a machine-readable
// "status" string that discriminates the failure (for example "not-found" or
// "name-exist"). Unexpected faults surface as HTTP 500 with status "error".
package apierror

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// StatusSuccess tags every successful response envelope.
const StatusSuccess = "success"

// Error represents an API error with its wire-level status string.
type Error struct {
	// HTTP status code
	HTTPStatus int `json:"-"`

	// Machine-readable status string, e.g. "name-exist"
	Status string `json:"status"`

	// Internal error (not exposed to the client)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Status, e.Err)
	}
	return e.Status
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Response is the failure envelope written to clients.
type Response struct {
	Status string `json:"status"`
}

// WriteJSON writes the error envelope to the response writer.
func (e *Error) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus)
	_ = json.NewEncoder(w).Encode(Response{Status: e.Status})
}

// New creates a new API error.
func New(httpStatus int, status string) *Error {
	return &Error{
		HTTPStatus: httpStatus,
		Status:     status,
	}
}

// WithError attaches an internal error for logging.
func (e *Error) WithError(err error) *Error {
	e.Err = err
	return e
}

// NotFound reports an identifier that does not resolve. The API reports
// domain failures at 400 with a discriminating status, never 404.
func NotFound() *Error {
	return New(http.StatusBadRequest, "not-found")
}

// NameExist reports a duplicate unique name on create.
func NameExist() *Error {
	return New(http.StatusBadRequest, "name-exist")
}

// NoSuchPage reports an out-of-range page request, carrying the offending
// page number.
func NoSuchPage(page int) *Error {
	return New(http.StatusBadRequest, "no-such-page:"+strconv.Itoa(page))
}

// UnknownSortBy reports a sort field outside the allow-list, carrying the
// offending field name.
func UnknownSortBy(field string) *Error {
	return New(http.StatusBadRequest, "unknown-sort-by:"+field)
}

// BadRequest reports a malformed request body.
func BadRequest(status string) *Error {
	return New(http.StatusBadRequest, status)
}

// Internal reports an unclassified storage or infrastructure fault.
func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "error").WithError(err)
}
