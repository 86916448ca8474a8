package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
)

// AccountRepository is the ledger-backed variant of the account storage
// contract. Accounts are stored as JSON payloads keyed by their own public
// key. Writes are submitted, not committed: an account submitted but not yet
// finalized reads back as absent, which is exactly the eventually-final
// behavior the strategy contract allows.
type AccountRepository struct {
	client Client
}

// NewAccountRepository creates an account repository on top of a ledger client.
func NewAccountRepository(client Client) *AccountRepository {
	return &AccountRepository{client: client}
}

// SaveAccount submits the account to the ledger. A duplicate check against
// finalized state runs first so the contract matches the relational variant
// as closely as the ledger allows; two submits racing inside the pending
// window are indistinguishable on-chain and the later one simply rewrites the
// same key.
func (r *AccountRepository) SaveAccount(ctx context.Context, account *model.Account) error {
	if _, err := r.client.Read(ctx, account.PublicKey); err == nil {
		return repository.ErrDuplicateAccount
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	payload, err := json.Marshal(account)
	if err != nil {
		return err
	}

	handle, err := r.client.Submit(ctx, account.PublicKey, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", repository.ErrNotSaved, err)
	}

	slog.Info("account submitted to ledger", "tx", handle.ID, "status", handle.Status)
	return nil
}

// FindByPublicKey reads the finalized account entry for publicKey.
func (r *AccountRepository) FindByPublicKey(ctx context.Context, publicKey string) (*model.Account, error) {
	payload, err := r.client.Read(ctx, publicKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, err
	}

	account := &model.Account{}
	if err := json.Unmarshal(payload, account); err != nil {
		return nil, fmt.Errorf("decoding ledger account entry: %w", err)
	}

	return account, nil
}
