package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/service"
)

// AuthHandler handles identity registration and existence checks.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// decodeAccount verifies the envelope, then decodes and cross-checks the
// account payload against the verified identity. Nothing is stored when any
// of these steps fail.
func (h *AuthHandler) decodeAccount(w http.ResponseWriter, r *http.Request) (*model.Account, bool) {
	env, ok := decodeSignedRequest(w, r)
	if !ok {
		return nil, false
	}

	verifiedKey, err := h.accounts.CheckSignature(env)
	if err != nil {
		writeServiceError(w, err)
		return nil, false
	}

	account := &model.Account{}
	if err := json.Unmarshal(env.Data, account); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid account payload"))
		return nil, false
	}

	// The identity inside the payload must be the one that signed it.
	if strings.ToLower(account.PublicKey) != verifiedKey {
		writeServiceError(w, service.ErrAccessDenied)
		return nil, false
	}

	return account, true
}

// HandleRegistration handles POST /registration requests.
func (h *AuthHandler) HandleRegistration(w http.ResponseWriter, r *http.Request) {
	account, ok := h.decodeAccount(w, r)
	if !ok {
		return
	}

	created, err := h.accounts.RegisterClient(r.Context(), account, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleExist handles POST /exist requests.
func (h *AuthHandler) HandleExist(w http.ResponseWriter, r *http.Request) {
	account, ok := h.decodeAccount(w, r)
	if !ok {
		return
	}

	stored, err := h.accounts.AccountExists(r.Context(), account, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stored)
}
