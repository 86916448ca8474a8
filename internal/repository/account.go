package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/datapact/datapact-go/internal/model"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists")
)

// AccountRepository is the per-backend storage contract for accounts. The
// relational and ledger variants both satisfy it with the same observable
// behavior; callers must treat every call as potentially slow.
type AccountRepository interface {
	// SaveAccount persists the account. An account with the same public key
	// already present surfaces as ErrDuplicateAccount.
	SaveAccount(ctx context.Context, account *model.Account) error

	// FindByPublicKey returns the stored account or ErrAccountNotFound.
	FindByPublicKey(ctx context.Context, publicKey string) (*model.Account, error)
}

// RelationalAccountRepository stores accounts in MySQL.
type RelationalAccountRepository struct {
	db *sql.DB
}

// NewRelationalAccountRepository creates a new RelationalAccountRepository.
func NewRelationalAccountRepository(db *sql.DB) *RelationalAccountRepository {
	return &RelationalAccountRepository{db: db}
}

// SaveAccount inserts a new account row keyed by public key.
func (r *RelationalAccountRepository) SaveAccount(ctx context.Context, account *model.Account) error {
	query := `INSERT INTO accounts (public_key) VALUES (?)`

	if _, err := r.db.ExecContext(ctx, query, account.PublicKey); err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateAccount
		}
		return err
	}
	return nil
}

// FindByPublicKey retrieves an account by its public key.
func (r *RelationalAccountRepository) FindByPublicKey(ctx context.Context, publicKey string) (*model.Account, error) {
	query := `SELECT public_key FROM accounts WHERE public_key = ?`

	account := &model.Account{}
	err := r.db.QueryRowContext(ctx, query, publicKey).Scan(&account.PublicKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return account, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
