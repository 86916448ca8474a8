package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
	"github.com/datapact/datapact-go/internal/service"
)

// strategyHeader carries the optional per-request backend selector.
const strategyHeader = "Strategy"

func strategyTag(r *http.Request) repository.StrategyTag {
	return repository.ParseStrategyTag(r.Header.Get(strategyHeader))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeServiceError maps the service failure taxonomy onto transport status
// codes. Anything outside the taxonomy is an internal error and its detail
// stays out of the response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrBadArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse(service.ErrBadArgument.Error()))
	case errors.Is(err, service.ErrInvalidSignature), errors.Is(err, service.ErrAccessDenied):
		writeJSON(w, http.StatusForbidden, errorResponse(service.ErrAccessDenied.Error()))
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(service.ErrNotFound.Error()))
	case errors.Is(err, service.ErrAlreadyRegistered):
		writeJSON(w, http.StatusConflict, errorResponse(service.ErrAlreadyRegistered.Error()))
	case errors.Is(err, service.ErrAlreadyAccepted):
		writeJSON(w, http.StatusConflict, errorResponse(service.ErrAlreadyAccepted.Error()))
	case errors.Is(err, service.ErrDataNotSaved):
		writeJSON(w, http.StatusInternalServerError, errorResponse(service.ErrDataNotSaved.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

// decodeSignedRequest reads a signed envelope from the body. The data payload
// is kept raw so the signature check downstream covers the exact bytes the
// client signed.
func decodeSignedRequest(w http.ResponseWriter, r *http.Request) (*model.SignedRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	env := &model.SignedRequest{}
	if err := json.NewDecoder(r.Body).Decode(env); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return nil, false
	}

	return env, true
}
