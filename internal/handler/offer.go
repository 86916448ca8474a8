package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/service"
)

// OfferHandler handles published data-request offers.
type OfferHandler struct {
	accounts *service.AccountService
	offers   *service.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(accounts *service.AccountService, offers *service.OfferService) *OfferHandler {
	return &OfferHandler{accounts: accounts, offers: offers}
}

// resolveOwner authenticates the envelope and checks the caller is the owner
// addressed by the URL.
func (h *OfferHandler) resolveOwner(w http.ResponseWriter, r *http.Request, env *model.SignedRequest) (string, bool) {
	account, err := h.accounts.AccountBySignedRequest(r.Context(), env, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return "", false
	}

	if pk := chi.URLParam(r, "pk"); pk != "" && pk != account.PublicKey {
		writeServiceError(w, service.ErrAccessDenied)
		return "", false
	}

	return account.PublicKey, true
}

// HandleSaveOffer handles PUT /client/{pk}/offer/ and
// PUT /client/{pk}/offer/{id}/ requests.
func (h *OfferHandler) HandleSaveOffer(w http.ResponseWriter, r *http.Request) {
	env, ok := decodeSignedRequest(w, r)
	if !ok {
		return
	}

	owner, ok := h.resolveOwner(w, r, env)
	if !ok {
		return
	}

	offer := &model.Offer{}
	if err := json.Unmarshal(env.Data, offer); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid offer payload"))
		return
	}

	// The URL decides create vs update; a stale id in the payload loses.
	offer.ID = 0
	if raw := chi.URLParam(r, "id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid offer id"))
			return
		}
		offer.ID = id
	}

	creating := offer.ID == 0
	saved, err := h.offers.SaveOffer(r.Context(), owner, offer, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

// HandleGetOffers handles GET /client/{pk}/offer/ requests.
func (h *OfferHandler) HandleGetOffers(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "pk")

	offers, err := h.offers.GetOffersByOwner(r.Context(), owner, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, offers)
}

// HandleGetOffer handles GET /client/{pk}/offer/{id}/ requests.
func (h *OfferHandler) HandleGetOffer(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "pk")
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid offer id"))
		return
	}

	offer, err := h.offers.GetOfferByIDAndOwner(r.Context(), id, owner, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, offer)
}

// HandleDeleteOffer handles DELETE /client/{pk}/offer/{id}/ requests. The
// signed payload is the offer id being deleted.
func (h *OfferHandler) HandleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	env, ok := decodeSignedRequest(w, r)
	if !ok {
		return
	}

	owner, ok := h.resolveOwner(w, r, env)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid offer id"))
		return
	}

	var signedID int64
	if err := json.Unmarshal(env.Data, &signedID); err != nil || signedID != id {
		writeJSON(w, http.StatusBadRequest, errorResponse("signed id does not match url"))
		return
	}

	deleted, err := h.offers.DeleteOffer(r.Context(), id, owner, strategyTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleted)
}
