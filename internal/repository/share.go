package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/datapact/datapact-go/internal/model"
)

var (
	ErrShareNotFound  = errors.New("share data not found")
	ErrDuplicateShare = errors.New("share data already exists for offer and client")
)

// OfferShareRepository is the per-backend storage contract for share records.
type OfferShareRepository interface {
	// SaveShareData inserts a new record when ID is zero, otherwise updates
	// the existing one. The (offer, client) pair is unique; a second insert
	// for the same pair surfaces as ErrDuplicateShare.
	SaveShareData(ctx context.Context, share *model.OfferShareData) error

	// FindByOfferIDAndClientID returns the record for the pair or
	// ErrShareNotFound.
	FindByOfferIDAndClientID(ctx context.Context, offerID int64, clientID string) (*model.OfferShareData, error)

	// FindByOfferOwner returns every record snapshotted to owner.
	FindByOfferOwner(ctx context.Context, owner string) ([]model.OfferShareData, error)

	// FindByOfferOwnerAndAccepted filters FindByOfferOwner by accepted state.
	FindByOfferOwnerAndAccepted(ctx context.Context, owner string, accepted bool) ([]model.OfferShareData, error)
}

// RelationalOfferShareRepository stores share records in MySQL. The unique
// key on (offer_id, client_id) is the sole guard against two concurrent
// share() calls creating duplicate records.
type RelationalOfferShareRepository struct {
	db *sql.DB
}

// NewRelationalOfferShareRepository creates a new RelationalOfferShareRepository.
func NewRelationalOfferShareRepository(db *sql.DB) *RelationalOfferShareRepository {
	return &RelationalOfferShareRepository{db: db}
}

func (r *RelationalOfferShareRepository) SaveShareData(ctx context.Context, share *model.OfferShareData) error {
	if share.ID == 0 {
		query := `INSERT INTO offer_shares (offer_id, client_id, client_response, worth, accepted, offer_owner)
			VALUES (?, ?, ?, ?, ?, ?)`

		result, err := r.db.ExecContext(ctx, query,
			share.OfferID, share.ClientID, share.ClientResponse, share.Worth, share.Accepted, share.OfferOwner)
		if err != nil {
			if isDuplicateEntryError(err) {
				return ErrDuplicateShare
			}
			return fmt.Errorf("%w: %w", ErrNotSaved, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		share.ID = id
		return nil
	}

	query := `UPDATE offer_shares SET client_response = ?, worth = ?, accepted = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query,
		share.ClientResponse, share.Worth, share.Accepted, share.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	return nil
}

func (r *RelationalOfferShareRepository) FindByOfferIDAndClientID(ctx context.Context, offerID int64, clientID string) (*model.OfferShareData, error) {
	query := shareSelect + ` WHERE offer_id = ? AND client_id = ?`

	share := &model.OfferShareData{}
	err := r.db.QueryRowContext(ctx, query, offerID, clientID).Scan(
		&share.ID, &share.OfferID, &share.ClientID, &share.ClientResponse,
		&share.Worth, &share.Accepted, &share.OfferOwner,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}

	return share, nil
}

func (r *RelationalOfferShareRepository) FindByOfferOwner(ctx context.Context, owner string) ([]model.OfferShareData, error) {
	query := shareSelect + ` WHERE offer_owner = ? ORDER BY id`
	return r.queryShares(ctx, query, owner)
}

func (r *RelationalOfferShareRepository) FindByOfferOwnerAndAccepted(ctx context.Context, owner string, accepted bool) ([]model.OfferShareData, error) {
	query := shareSelect + ` WHERE offer_owner = ? AND accepted = ? ORDER BY id`
	return r.queryShares(ctx, query, owner, accepted)
}

const shareSelect = `SELECT id, offer_id, client_id, client_response, worth, accepted, offer_owner FROM offer_shares`

func (r *RelationalOfferShareRepository) queryShares(ctx context.Context, query string, args ...any) ([]model.OfferShareData, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []model.OfferShareData
	for rows.Next() {
		var s model.OfferShareData
		if err := rows.Scan(
			&s.ID, &s.OfferID, &s.ClientID, &s.ClientResponse,
			&s.Worth, &s.Accepted, &s.OfferOwner,
		); err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}

	return shares, rows.Err()
}
