package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
)

// SearchRequestService manages owner-scoped search requests.
type SearchRequestService struct {
	requests *repository.Strategy[repository.SearchRequestRepository]
}

// NewSearchRequestService creates a new SearchRequestService.
func NewSearchRequestService(requests *repository.Strategy[repository.SearchRequestRepository]) *SearchRequestService {
	return &SearchRequestService{requests: requests}
}

// SaveSearchRequest persists a new request for ownerKey.
func (s *SearchRequestService) SaveSearchRequest(ctx context.Context, ownerKey string, request *model.SearchRequest, tag repository.StrategyTag) (*model.SearchRequest, error) {
	if len(request.Tags) == 0 {
		return nil, ErrBadArgument
	}

	request.ID = 0
	request.Owner = ownerKey

	if err := s.requests.Select(tag).SaveSearchRequest(ctx, request); err != nil {
		if errors.Is(err, repository.ErrNotSaved) {
			return nil, fmt.Errorf("%w: %w", ErrDataNotSaved, err)
		}
		return nil, err
	}

	return request, nil
}

// GetSearchRequests lists ownerKey's requests, or just one when id is
// non-zero.
func (s *SearchRequestService) GetSearchRequests(ctx context.Context, ownerKey string, id int64, tag repository.StrategyTag) ([]model.SearchRequest, error) {
	repo := s.requests.Select(tag)

	if id != 0 {
		request, err := repo.FindByIDAndOwner(ctx, id, ownerKey)
		if err != nil {
			if errors.Is(err, repository.ErrSearchRequestNotFound) {
				return []model.SearchRequest{}, nil
			}
			return nil, err
		}
		return []model.SearchRequest{*request}, nil
	}

	requests, err := repo.FindByOwner(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []model.SearchRequest{}
	}
	return requests, nil
}

// DeleteSearchRequest removes a request scoped to its owner and returns the
// deleted id, or ErrNotFound when nothing matched.
func (s *SearchRequestService) DeleteSearchRequest(ctx context.Context, id int64, ownerKey string, tag repository.StrategyTag) (int64, error) {
	deleted, err := s.requests.Select(tag).DeleteSearchRequest(ctx, id, ownerKey)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
