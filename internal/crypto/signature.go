package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

var (
	ErrInvalidSignature = errors.New("signature does not recover to a valid identity")
	ErrInvalidPublicKey = errors.New("invalid public key encoding")
)

// compactSigLen is the length of a serialized compact signature:
// 1 recovery byte + 32-byte R + 32-byte S.
const compactSigLen = 65

// PublicKeyHexLen is the length of a hex-encoded compressed secp256k1 public key.
const PublicKeyHexLen = 66

// digest returns the Keccak-256 hash of the message. Signatures always cover
// the digest, never the raw message.
func digest(message []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(message)
	return h.Sum(nil)
}

// RecoverSigner recovers the identity that signed message and returns it as a
// lowercase hex-encoded compressed public key. It reports ErrInvalidSignature
// when no identity can be recovered; matching the recovered identity against
// a claimed one is the caller's job.
//
// Stateless and safe for concurrent use.
func RecoverSigner(message, signature []byte) (string, error) {
	if len(signature) != compactSigLen {
		return "", ErrInvalidSignature
	}

	pub, _, err := ecdsa.RecoverCompact(signature, digest(message))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return hex.EncodeToString(pub.SerializeCompressed()), nil
}

// SignMessage produces a compact signature over message with the given key.
// RecoverSigner applied to the result yields PublicKeyHex(priv).
func SignMessage(priv *secp256k1.PrivateKey, message []byte) []byte {
	return ecdsa.SignCompact(priv, digest(message), true)
}

// GenerateKey creates a new secp256k1 private key.
func GenerateKey() (*secp256k1.PrivateKey, error) {
	return secp256k1.GeneratePrivateKey()
}

// PublicKeyHex returns the hex-encoded compressed public key for priv.
func PublicKeyHex(priv *secp256k1.PrivateKey) string {
	return hex.EncodeToString(priv.PubKey().SerializeCompressed())
}

// ValidatePublicKeyHex checks that s is a well-formed hex-encoded compressed
// secp256k1 public key (a real curve point, not just 33 bytes).
func ValidatePublicKeyHex(s string) error {
	if len(s) != PublicKeyHexLen {
		return ErrInvalidPublicKey
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ErrInvalidPublicKey
	}
	if _, err := secp256k1.ParsePubKey(raw); err != nil {
		return ErrInvalidPublicKey
	}
	return nil
}
