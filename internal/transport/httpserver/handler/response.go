package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	boxingdomain "highspirit-app-go/internal/domain/boxing"
	importerdomain "highspirit-app-go/internal/domain/importer"
	membershipdomain "highspirit-app-go/internal/domain/membership"
	userdomain "highspirit-app-go/internal/domain/user"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps domain errors to responses. Anything unknown is
// logged and reported as a 500.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, membershipdomain.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "customer_not_found", "customer not found")
	case errors.Is(err, membershipdomain.ErrMembershipNotFound):
		writeError(w, http.StatusNotFound, "membership_not_found", "membership not found")
	case errors.Is(err, boxingdomain.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "boxing_member_not_found", "boxing member not found")
	case errors.Is(err, membershipdomain.ErrPhotoNotFound), errors.Is(err, boxingdomain.ErrPhotoNotFound):
		writeError(w, http.StatusNotFound, "photo_not_found", "photo not found")
	case errors.Is(err, membershipdomain.ErrInvalidInput), errors.Is(err, boxingdomain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, importerdomain.ErrNoSheets):
		writeError(w, http.StatusBadRequest, "invalid_workbook", err.Error())
	case errors.Is(err, userdomain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
	case errors.Is(err, userdomain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
	default:
		h.log.InternalError("http: request failed", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
