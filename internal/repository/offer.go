package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/datapact/datapact-go/internal/model"
)

var (
	ErrOfferNotFound = errors.New("offer not found")
	ErrNotSaved      = errors.New("write rejected by backend")
)

// OfferRepository is the per-backend storage contract for offers.
type OfferRepository interface {
	// SaveOffer inserts the offer when its ID is zero, otherwise updates the
	// existing row. The backend-assigned ID is set on the offer after insert,
	// and price tiers are saved together with the offer. Updating an offer
	// that no longer exists surfaces as ErrOfferNotFound.
	SaveOffer(ctx context.Context, offer *model.Offer) error

	// FindByID returns the offer or ErrOfferNotFound.
	FindByID(ctx context.Context, id int64) (*model.Offer, error)

	// FindByOwner returns every offer issued by owner, newest first.
	FindByOwner(ctx context.Context, owner string) ([]model.Offer, error)

	// FindByIDAndOwner returns the offer only when owner matches, else
	// ErrOfferNotFound.
	FindByIDAndOwner(ctx context.Context, id int64, owner string) (*model.Offer, error)

	// DeleteOffer removes the offer when owner matches and returns the number
	// of rows removed. Zero is "nothing to delete", not a fault.
	DeleteOffer(ctx context.Context, id int64, owner string) (int64, error)
}

// RelationalOfferRepository stores offers in MySQL. The tag, compare and rule
// maps are kept as JSON columns.
type RelationalOfferRepository struct {
	db *sql.DB
}

// NewRelationalOfferRepository creates a new RelationalOfferRepository.
func NewRelationalOfferRepository(db *sql.DB) *RelationalOfferRepository {
	return &RelationalOfferRepository{db: db}
}

func (r *RelationalOfferRepository) SaveOffer(ctx context.Context, offer *model.Offer) error {
	assignPriceIDs(offer)

	tags, compare, rules, prices, err := marshalOfferMaps(offer)
	if err != nil {
		return err
	}

	if offer.ID == 0 {
		query := `INSERT INTO offers (owner, description, title, image_url, tags, compare_fields, compare_rules, prices)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

		result, err := r.db.ExecContext(ctx, query,
			offer.Owner, offer.Description, offer.Title, offer.ImageURL, tags, compare, rules, prices)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotSaved, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		offer.ID = id
		return nil
	}

	query := `UPDATE offers SET description = ?, title = ?, image_url = ?, tags = ?,
		compare_fields = ?, compare_rules = ?, prices = ? WHERE id = ? AND owner = ?`

	result, err := r.db.ExecContext(ctx, query,
		offer.Description, offer.Title, offer.ImageURL, tags, compare, rules, prices,
		offer.ID, offer.Owner)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// assignPriceIDs gives unassigned price tiers and rules ids scoped to the
// offer, mirroring how the relational backend assigns the offer id itself.
func assignPriceIDs(offer *model.Offer) {
	for i := range offer.Prices {
		if offer.Prices[i].ID == 0 {
			offer.Prices[i].ID = int64(i + 1)
		}
		for j := range offer.Prices[i].Rules {
			if offer.Prices[i].Rules[j].ID == 0 {
				offer.Prices[i].Rules[j].ID = int64(j + 1)
			}
		}
	}
}

func (r *RelationalOfferRepository) FindByID(ctx context.Context, id int64) (*model.Offer, error) {
	query := offerSelect + ` WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *RelationalOfferRepository) FindByIDAndOwner(ctx context.Context, id int64, owner string) (*model.Offer, error) {
	query := offerSelect + ` WHERE id = ? AND owner = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, owner))
}

func (r *RelationalOfferRepository) FindByOwner(ctx context.Context, owner string) ([]model.Offer, error) {
	query := offerSelect + ` WHERE owner = ? ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		offer, err := scanOffer(rows.Scan)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}

	return offers, rows.Err()
}

func (r *RelationalOfferRepository) DeleteOffer(ctx context.Context, id int64, owner string) (int64, error) {
	query := `DELETE FROM offers WHERE id = ? AND owner = ?`

	result, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const offerSelect = `SELECT id, owner, description, title, image_url, tags, compare_fields, compare_rules, prices FROM offers`

func (r *RelationalOfferRepository) scanOne(row *sql.Row) (*model.Offer, error) {
	offer, err := scanOffer(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return offer, nil
}

func scanOffer(scan func(...any) error) (*model.Offer, error) {
	offer := &model.Offer{}
	var tags, compare, rules, prices []byte

	if err := scan(&offer.ID, &offer.Owner, &offer.Description, &offer.Title,
		&offer.ImageURL, &tags, &compare, &rules, &prices); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &offer.Tags); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(compare, &offer.Compare); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rules, &offer.Rules); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(prices, &offer.Prices); err != nil {
		return nil, err
	}
	return offer, nil
}

func marshalOfferMaps(offer *model.Offer) (tags, compare, rules, prices []byte, err error) {
	if tags, err = json.Marshal(emptyIfNil(offer.Tags)); err != nil {
		return nil, nil, nil, nil, err
	}
	if compare, err = json.Marshal(emptyIfNil(offer.Compare)); err != nil {
		return nil, nil, nil, nil, err
	}
	if rules, err = json.Marshal(offer.Rules); err != nil {
		return nil, nil, nil, nil, err
	}
	priceTiers := offer.Prices
	if priceTiers == nil {
		priceTiers = []model.OfferPrice{}
	}
	if prices, err = json.Marshal(priceTiers); err != nil {
		return nil, nil, nil, nil, err
	}
	return tags, compare, rules, prices, nil
}

func emptyIfNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
