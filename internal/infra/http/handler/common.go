// Package handler contains the HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openauthz/api/pkg/apierror"
	"github.com/openauthz/api/pkg/domain/permission"
	"github.com/openauthz/api/pkg/domain/role"
	"github.com/openauthz/api/pkg/domain/user"
	"github.com/openauthz/api/pkg/logger"
	"github.com/openauthz/api/pkg/pagination"
)

// envelope is the success response body. Every successful response carries
// status "success" next to its payload fields.
type envelope map[string]any

// writeSuccess writes a success envelope with the given payload fields.
func writeSuccess(w http.ResponseWriter, payload envelope) {
	body := envelope{"status": apierror.StatusSuccess}
	for k, v := range payload {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeServiceError maps a service-layer failure onto the wire protocol.
// Domain failures become 400 with their discriminating status string;
// anything unclassified is a 500 and gets logged.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		apiErr.WriteJSON(w)
		return
	}

	var noPage *pagination.NoSuchPageError
	if errors.As(err, &noPage) {
		apierror.NoSuchPage(noPage.Page).WriteJSON(w)
		return
	}

	var unknownSort *pagination.UnknownSortByError
	if errors.As(err, &unknownSort) {
		apierror.UnknownSortBy(unknownSort.Field).WriteJSON(w)
		return
	}

	switch {
	case errors.Is(err, role.ErrNotFound),
		errors.Is(err, permission.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		apierror.NotFound().WriteJSON(w)
	case errors.Is(err, role.ErrNameExists),
		errors.Is(err, permission.ErrNameExists):
		apierror.NameExist().WriteJSON(w)
	default:
		log.Error("request failed", "error", err)
		apierror.Internal(err).WriteJSON(w)
	}
}

// errorStatus returns the wire status string for a service failure, used for
// operation metrics labels.
func errorStatus(err error) string {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}

	var noPage *pagination.NoSuchPageError
	if errors.As(err, &noPage) {
		return "no-such-page"
	}
	var unknownSort *pagination.UnknownSortByError
	if errors.As(err, &unknownSort) {
		return "unknown-sort-by"
	}

	switch {
	case errors.Is(err, role.ErrNotFound),
		errors.Is(err, permission.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		return "not-found"
	case errors.Is(err, role.ErrNameExists),
		errors.Is(err, permission.ErrNameExists):
		return "name-exist"
	default:
		return "error"
	}
}
