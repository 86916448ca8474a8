package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/datapact/datapact-go/internal/crypto"
	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
)

// AccountService owns identity registration and authenticated-caller
// resolution. Every other service relies on AccountBySignedRequest instead of
// touching signatures itself.
type AccountService struct {
	accounts *repository.Strategy[repository.AccountRepository]
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts *repository.Strategy[repository.AccountRepository]) *AccountService {
	return &AccountService{accounts: accounts}
}

// RegisterClient creates the account in the selected backend. The existence
// check runs to completion before the create is issued; there is no upsert.
func (s *AccountService) RegisterClient(ctx context.Context, account *model.Account, tag repository.StrategyTag) (*model.Account, error) {
	account.PublicKey = strings.ToLower(account.PublicKey)
	if err := crypto.ValidatePublicKeyHex(account.PublicKey); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArgument, err)
	}

	repo := s.accounts.Select(tag)

	_, err := repo.FindByPublicKey(ctx, account.PublicKey)
	if err == nil {
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, err
	}

	if err := repo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return nil, ErrAlreadyRegistered
		}
		if errors.Is(err, repository.ErrNotSaved) {
			return nil, fmt.Errorf("%w: %w", ErrDataNotSaved, err)
		}
		return nil, err
	}

	return account, nil
}

// AccountExists returns the stored account or ErrNotFound.
func (s *AccountService) AccountExists(ctx context.Context, account *model.Account, tag repository.StrategyTag) (*model.Account, error) {
	stored, err := s.accounts.Select(tag).FindByPublicKey(ctx, strings.ToLower(account.PublicKey))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return stored, nil
}

// CheckSignature recovers the signing identity from the envelope and verifies
// it matches the claimed public key. It returns the verified key without
// touching storage, which makes it usable for registration where no account
// exists yet.
func (s *AccountService) CheckSignature(env *model.SignedRequest) (string, error) {
	if len(env.Data) == 0 || env.PublicKey == "" || env.Signature == "" {
		return "", ErrBadArgument
	}

	sig, err := base64.StdEncoding.DecodeString(env.Signature)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	recovered, err := crypto.RecoverSigner(env.Data, sig)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if recovered != strings.ToLower(env.PublicKey) {
		return "", ErrAccessDenied
	}

	return recovered, nil
}

// AccountBySignedRequest resolves the authenticated caller behind the
// envelope: signature verified, identity matched against the claimed key, and
// the account loaded from the selected backend. This is the single
// authentication path for every mutating operation; it always completes
// before any write is issued.
func (s *AccountService) AccountBySignedRequest(ctx context.Context, env *model.SignedRequest, tag repository.StrategyTag) (*model.Account, error) {
	publicKey, err := s.CheckSignature(env)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.Select(tag).FindByPublicKey(ctx, publicKey)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return account, nil
}
