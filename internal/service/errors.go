package service

import "errors"

// Failure taxonomy shared by every domain service. All of these are terminal:
// nothing here is retried, and every one short-circuits the rest of the
// request pipeline.
var (
	ErrInvalidSignature  = errors.New("signature cannot be verified")
	ErrAccessDenied      = errors.New("access denied")
	ErrNotFound          = errors.New("entity not found")
	ErrAlreadyRegistered = errors.New("account already registered")
	ErrAlreadyAccepted   = errors.New("share data already accepted")
	ErrBadArgument       = errors.New("bad argument")
	ErrDataNotSaved      = errors.New("backend rejected the write")
)
