package model

// SearchRequest is an owner-scoped request describing what data a requester
// is looking for. The tags payload is opaque to this service.
type SearchRequest struct {
	ID    int64             `json:"id"`
	Owner string            `json:"owner"`
	Tags  map[string]string `json:"tags"`
}
