package model

import "time"

// File is an uploaded binary blob owned by the account identified by
// PublicKey. Delete and update require both the id and the owner key to match.
type File struct {
	ID        int64     `json:"id"`
	PublicKey string    `json:"publicKey"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"size"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// UploadedFile is the metadata returned after an upload; the payload itself
// is not echoed back.
type UploadedFile struct {
	ID        int64  `json:"id"`
	PublicKey string `json:"publicKey"`
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size"`
}
