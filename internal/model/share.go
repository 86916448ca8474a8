package model

// OfferShareData tracks a client's disclosure of attributes against an offer
// and its acceptance outcome. OfferOwner is a snapshot of the offer's owner
// taken when the share was created, not a live join.
type OfferShareData struct {
	ID             int64  `json:"id"`
	OfferID        int64  `json:"offerId"`
	ClientID       string `json:"clientId"`
	ClientResponse string `json:"clientResponse"`
	// Worth is a decimal string; it stays "0" until the offer owner accepts.
	Worth      string `json:"worth"`
	Accepted   bool   `json:"accepted"`
	OfferOwner string `json:"offerOwner"`
}

// AcceptShareData is the signed payload the offer owner sends to accept a
// proposed share and fix its price.
type AcceptShareData struct {
	OfferID  int64  `json:"offerId"`
	ClientID string `json:"clientId"`
	Worth    string `json:"worth"`
}
