package model

// CompareAction defines how a client attribute is matched against an offer
// requirement.
type CompareAction string

const (
	CompareEqual       CompareAction = "EQUAL"
	CompareNotEqual    CompareAction = "NOT_EQUAL"
	CompareLessOrEqual CompareAction = "LESS_OR_EQUAL"
	CompareMoreOrEqual CompareAction = "MORE_OR_EQUAL"
	CompareMore        CompareAction = "MORE"
	CompareLess        CompareAction = "LESS"
)

// Valid reports whether the action is one of the recognized comparison kinds.
func (a CompareAction) Valid() bool {
	switch a {
	case CompareEqual, CompareNotEqual, CompareLessOrEqual,
		CompareMoreOrEqual, CompareMore, CompareLess:
		return true
	}
	return false
}

// OfferPriceRule matches one client attribute against a requirement scoped to
// a single price tier.
type OfferPriceRule struct {
	ID       int64         `json:"id"`
	RulesKey string        `json:"rulesKey"`
	Value    string        `json:"value"`
	Rule     CompareAction `json:"rule"`
}

// OfferPrice is one price tier of an offer: the worth the owner pays when the
// client's data satisfies every rule of the tier.
type OfferPrice struct {
	ID          int64            `json:"id"`
	Description string           `json:"description"`
	Worth       string           `json:"worth"`
	Rules       []OfferPriceRule `json:"rules"`
}

// Offer is a published data request. Owner is the public key of the issuing
// account and is immutable once the offer is created.
type Offer struct {
	ID          int64  `json:"id"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`

	// Tags are free-form attributes describing the offer itself.
	Tags map[string]string `json:"tags"`
	// Compare maps attribute names to the values the offer requires.
	Compare map[string]string `json:"compare"`
	// Rules maps attribute names to how the client value is matched.
	Rules map[string]CompareAction `json:"rules"`
	// Prices are the offer's price tiers, saved and loaded with the offer.
	Prices []OfferPrice `json:"offerPrices"`
}
