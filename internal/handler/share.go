package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/service"
)

// ShareHandler handles the offer-sharing negotiation.
type ShareHandler struct {
	accounts *service.AccountService
	shares   *service.OfferShareService
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(accounts *service.AccountService, shares *service.OfferShareService) *ShareHandler {
	return &ShareHandler{accounts: accounts, shares: shares}
}

// HandleShare handles POST /client/{pk}/offer/share/ requests: a client
// proposes disclosure of its data against an offer.
func (h *ShareHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	env, ok := decodeSignedRequest(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.AccountBySignedRequest(r.Context(), env, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	share := &model.OfferShareData{}
	if err := json.Unmarshal(env.Data, share); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid share payload"))
		return
	}

	created, err := h.shares.Share(r.Context(), account.PublicKey, share, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleAccept handles PATCH /client/{pk}/offer/share/ requests: the offer
// owner accepts a proposed disclosure and fixes its price.
func (h *ShareHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	env, ok := decodeSignedRequest(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.AccountBySignedRequest(r.Context(), env, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	accept := &model.AcceptShareData{}
	if err := json.Unmarshal(env.Data, accept); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid accept payload"))
		return
	}

	share, err := h.shares.AcceptShareData(r.Context(),
		account.PublicKey, accept.OfferID, accept.ClientID, accept.Worth, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, share)
}

// HandleGetShareData handles GET /client/{pk}/offer/share/ requests, with an
// optional ?accepted=true|false filter.
func (h *ShareHandler) HandleGetShareData(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "pk")

	var accepted *bool
	if raw := r.URL.Query().Get("accepted"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid accepted filter"))
			return
		}
		accepted = &parsed
	}

	shares, err := h.shares.GetShareData(r.Context(), owner, accepted, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, shares)
}
