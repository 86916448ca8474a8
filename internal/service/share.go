package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
)

// OfferShareService runs the disclosure negotiation between a client and an
// offer owner. Each (offer, client) pair moves through exactly one path:
// nothing → proposed (Share) → accepted (AcceptShareData). There is no
// rejection or withdrawal transition.
type OfferShareService struct {
	shares *repository.Strategy[repository.OfferShareRepository]
	offers *repository.Strategy[repository.OfferRepository]
}

// NewOfferShareService creates a new OfferShareService.
func NewOfferShareService(
	shares *repository.Strategy[repository.OfferShareRepository],
	offers *repository.Strategy[repository.OfferRepository],
) *OfferShareService {
	return &OfferShareService{shares: shares, offers: offers}
}

// Share proposes a disclosure: the caller offers its response against an
// existing offer. The record's OfferOwner is snapshotted from the offer at
// this instant, and the record always starts unaccepted with zero worth
// regardless of what the client sent.
func (s *OfferShareService) Share(
	ctx context.Context,
	callerKey string,
	share *model.OfferShareData,
	tag repository.StrategyTag,
) (*model.OfferShareData, error) {
	if share.OfferID == 0 || share.ClientID == "" {
		return nil, ErrBadArgument
	}
	// Clients share on their own behalf only.
	if share.ClientID != callerKey {
		return nil, ErrAccessDenied
	}

	offer, err := s.offers.Select(tag).FindByID(ctx, share.OfferID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	share.ID = 0
	share.OfferOwner = offer.Owner
	share.Accepted = false
	share.Worth = "0"

	if err := s.shares.Select(tag).SaveShareData(ctx, share); err != nil {
		if errors.Is(err, repository.ErrNotSaved) || errors.Is(err, repository.ErrDuplicateShare) {
			return nil, fmt.Errorf("%w: %w", ErrDataNotSaved, err)
		}
		return nil, err
	}

	return share, nil
}

// AcceptShareData fixes the price of a proposed disclosure. Only the offer's
// owner may accept, and a record that is already accepted stays terminal:
// re-acceptance fails with ErrAlreadyAccepted instead of silently rewriting
// the worth.
func (s *OfferShareService) AcceptShareData(
	ctx context.Context,
	callerKey string,
	offerID int64,
	clientID string,
	worth string,
	tag repository.StrategyTag,
) (*model.OfferShareData, error) {
	if err := validateWorth(worth); err != nil {
		return nil, err
	}

	offer, err := s.offers.Select(tag).FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if offer.Owner != callerKey {
		return nil, ErrAccessDenied
	}

	shareRepo := s.shares.Select(tag)
	share, err := shareRepo.FindByOfferIDAndClientID(ctx, offerID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrShareNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if share.Accepted {
		return nil, ErrAlreadyAccepted
	}

	share.Accepted = true
	share.Worth = worth

	if err := shareRepo.SaveShareData(ctx, share); err != nil {
		if errors.Is(err, repository.ErrNotSaved) {
			return nil, fmt.Errorf("%w: %w", ErrDataNotSaved, err)
		}
		return nil, err
	}

	return share, nil
}

// GetShareData lists share records snapshotted to ownerKey. A nil accepted
// filter returns records in every state. The read is owner-keyed, not
// caller-keyed, like every other read path in the system.
func (s *OfferShareService) GetShareData(
	ctx context.Context,
	ownerKey string,
	accepted *bool,
	tag repository.StrategyTag,
) ([]model.OfferShareData, error) {
	repo := s.shares.Select(tag)

	var (
		shares []model.OfferShareData
		err    error
	)
	if accepted == nil {
		shares, err = repo.FindByOfferOwner(ctx, ownerKey)
	} else {
		shares, err = repo.FindByOfferOwnerAndAccepted(ctx, ownerKey, *accepted)
	}
	if err != nil {
		return nil, err
	}

	if shares == nil {
		shares = []model.OfferShareData{}
	}
	return shares, nil
}

// maxWorthLen bounds a monetary amount's textual length.
const maxWorthLen = 32

// validateWorth checks that worth is a plain non-negative decimal string:
// digits with at most one decimal point. Fraction and exponent syntax is not
// a monetary amount and is rejected.
func validateWorth(worth string) error {
	if worth == "" || len(worth) > maxWorthLen {
		return ErrBadArgument
	}

	seenDot := false
	seenDigit := false
	for _, c := range worth {
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot:
			seenDot = true
		default:
			return ErrBadArgument
		}
	}
	if !seenDigit {
		return ErrBadArgument
	}
	return nil
}
