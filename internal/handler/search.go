package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/service"
)

// SearchHandler handles owner-scoped search requests.
type SearchHandler struct {
	accounts *service.AccountService
	requests *service.SearchRequestService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(accounts *service.AccountService, requests *service.SearchRequestService) *SearchHandler {
	return &SearchHandler{accounts: accounts, requests: requests}
}

// HandleSave handles POST /client/{pk}/search/request/ requests.
func (h *SearchHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	env, ok := decodeSignedRequest(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.AccountBySignedRequest(r.Context(), env, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if pk := chi.URLParam(r, "pk"); pk != "" && pk != account.PublicKey {
		writeServiceError(w, service.ErrAccessDenied)
		return
	}

	request := &model.SearchRequest{}
	if err := json.Unmarshal(env.Data, request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid search request payload"))
		return
	}

	created, err := h.requests.SaveSearchRequest(r.Context(), account.PublicKey, request, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleGet handles GET /client/{pk}/search/request/ requests with an
// optional ?id= selector.
func (h *SearchHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "pk")

	var id int64
	if raw := r.URL.Query().Get("id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid search request id"))
			return
		}
		id = parsed
	}

	requests, err := h.requests.GetSearchRequests(r.Context(), owner, id, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// HandleDelete handles DELETE /client/{pk}/search/request/{id}/ requests.
// The signed payload is the id being deleted.
func (h *SearchHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	env, ok := decodeSignedRequest(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.AccountBySignedRequest(r.Context(), env, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if pk := chi.URLParam(r, "pk"); pk != "" && pk != account.PublicKey {
		writeServiceError(w, service.ErrAccessDenied)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid search request id"))
		return
	}

	var signedID int64
	if err := json.Unmarshal(env.Data, &signedID); err != nil || signedID != id {
		writeJSON(w, http.StatusBadRequest, errorResponse("signed id does not match url"))
		return
	}

	deleted, err := h.requests.DeleteSearchRequest(r.Context(), id, account.PublicKey, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleted)
}
