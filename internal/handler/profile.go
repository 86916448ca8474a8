package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/datapact/datapact-go/internal/service"
)

// ProfileHandler handles encrypted client profile data.
type ProfileHandler struct {
	accounts *service.AccountService
	profiles *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(accounts *service.AccountService, profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, profiles: profiles}
}

// HandleGetData handles GET /client/{pk}/ requests. Reads are owner-keyed:
// anyone who knows the key can fetch the (client-side encrypted) data.
func (h *ProfileHandler) HandleGetData(w http.ResponseWriter, r *http.Request) {
	publicKey := chi.URLParam(r, "pk")
	if publicKey == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("missing public key"))
		return
	}

	data, err := h.profiles.GetData(r.Context(), publicKey, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// HandleUpdateData handles PATCH /client/ requests. The target identity is
// whoever signed the envelope, never a client-chosen parameter.
func (h *ProfileHandler) HandleUpdateData(w http.ResponseWriter, r *http.Request) {
	env, ok := decodeSignedRequest(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.AccountBySignedRequest(r.Context(), env, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var data map[string]string
	if err := json.Unmarshal(env.Data, &data); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid profile payload"))
		return
	}

	updated, err := h.profiles.UpdateData(r.Context(), account.PublicKey, data, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
