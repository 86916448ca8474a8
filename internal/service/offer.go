package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
)

// OfferService manages published data requests. Ownership is fixed at
// creation; every mutation is scoped to the owner resolved by the caller's
// signature upstream.
type OfferService struct {
	offers *repository.Strategy[repository.OfferRepository]
}

// NewOfferService creates a new OfferService.
func NewOfferService(offers *repository.Strategy[repository.OfferRepository]) *OfferService {
	return &OfferService{offers: offers}
}

// SaveOffer creates the offer when its ID is zero, otherwise updates an
// existing offer after confirming it belongs to ownerKey.
func (s *OfferService) SaveOffer(ctx context.Context, ownerKey string, offer *model.Offer, tag repository.StrategyTag) (*model.Offer, error) {
	if offer.Title == "" || offer.Description == "" {
		return nil, ErrBadArgument
	}
	for field, action := range offer.Rules {
		if !action.Valid() {
			return nil, fmt.Errorf("%w: unknown compare action for field %q", ErrBadArgument, field)
		}
	}
	for _, price := range offer.Prices {
		if err := validateWorth(price.Worth); err != nil {
			return nil, fmt.Errorf("%w: invalid price worth %q", ErrBadArgument, price.Worth)
		}
		for _, rule := range price.Rules {
			if !rule.Rule.Valid() {
				return nil, fmt.Errorf("%w: unknown compare action for price rule %q", ErrBadArgument, rule.RulesKey)
			}
		}
	}

	repo := s.offers.Select(tag)

	if offer.ID != 0 {
		existing, err := repo.FindByID(ctx, offer.ID)
		if err != nil {
			if errors.Is(err, repository.ErrOfferNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if existing.Owner != ownerKey {
			return nil, ErrAccessDenied
		}
	}

	offer.Owner = ownerKey
	if err := repo.SaveOffer(ctx, offer); err != nil {
		// The offer can vanish between the owner check and the write.
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrNotSaved) {
			return nil, fmt.Errorf("%w: %w", ErrDataNotSaved, err)
		}
		return nil, err
	}

	return offer, nil
}

// GetOffersByOwner lists every offer issued by ownerKey.
func (s *OfferService) GetOffersByOwner(ctx context.Context, ownerKey string, tag repository.StrategyTag) ([]model.Offer, error) {
	offers, err := s.offers.Select(tag).FindByOwner(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if offers == nil {
		offers = []model.Offer{}
	}
	return offers, nil
}

// GetOfferByIDAndOwner returns one offer scoped to its owner.
func (s *OfferService) GetOfferByIDAndOwner(ctx context.Context, id int64, ownerKey string, tag repository.StrategyTag) (*model.Offer, error) {
	offer, err := s.offers.Select(tag).FindByIDAndOwner(ctx, id, ownerKey)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return offer, nil
}

// DeleteOffer removes an offer owned by ownerKey and returns its id.
// Nothing matching is reported as ErrNotFound.
func (s *OfferService) DeleteOffer(ctx context.Context, id int64, ownerKey string, tag repository.StrategyTag) (int64, error) {
	deleted, err := s.offers.Select(tag).DeleteOffer(ctx, id, ownerKey)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
