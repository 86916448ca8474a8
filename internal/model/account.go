package model

import "encoding/json"

// Account represents a registered identity. The compressed secp256k1 public
// key is the sole identifier; there is no secondary credential.
type Account struct {
	PublicKey string `json:"publicKey"`
}

// SignedRequest is the envelope every mutating call arrives in. Signature is
// a base64-encoded compact secp256k1 signature over the exact raw bytes of
// Data, and PublicKey is the identity the caller claims to be.
//
// Data stays raw until the signature has been checked, so the verified bytes
// are byte-for-byte what the client signed.
type SignedRequest struct {
	Data      json.RawMessage `json:"data"`
	PublicKey string          `json:"pk"`
	Signature string          `json:"sig"`
}
