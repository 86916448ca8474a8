package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
)

type memSearchRepo struct {
	mu       sync.Mutex
	requests map[int64]model.SearchRequest
	nextID   int64
	writes   int
}

func newMemSearchRepo() *memSearchRepo {
	return &memSearchRepo{requests: make(map[int64]model.SearchRequest), nextID: 1}
}

func (r *memSearchRepo) SaveSearchRequest(_ context.Context, request *model.SearchRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if request.ID == 0 {
		request.ID = r.nextID
		r.nextID++
	}
	r.requests[request.ID] = *request
	return nil
}

func (r *memSearchRepo) FindByOwner(_ context.Context, owner string) ([]model.SearchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SearchRequest
	for _, req := range r.requests {
		if req.Owner == owner {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *memSearchRepo) FindByIDAndOwner(_ context.Context, id int64, owner string) (*model.SearchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Owner != owner {
		return nil, repository.ErrSearchRequestNotFound
	}
	return &req, nil
}

func (r *memSearchRepo) DeleteSearchRequest(_ context.Context, id int64, owner string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Owner != owner {
		return 0, nil
	}
	delete(r.requests, id)
	r.writes++
	return 1, nil
}

func newTestSearchService() (*SearchRequestService, *memSearchRepo) {
	repo := newMemSearchRepo()
	return NewSearchRequestService(repository.NewStrategy[repository.SearchRequestRepository](repo)), repo
}

func TestSaveSearchRequest(t *testing.T) {
	svc, _ := newTestSearchService()

	created, err := svc.SaveSearchRequest(context.Background(), businessKey, &model.SearchRequest{
		Tags: map[string]string{"interest": "cars"},
	}, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected a backend-assigned id")
	}
	if created.Owner != businessKey {
		t.Errorf("owner = %q, want %q", created.Owner, businessKey)
	}
}

func TestSaveSearchRequest_EmptyTags(t *testing.T) {
	svc, repo := newTestSearchService()

	_, err := svc.SaveSearchRequest(context.Background(), businessKey,
		&model.SearchRequest{}, repository.StrategyRelational)
	if !errors.Is(err, ErrBadArgument) {
		t.Fatalf("expected ErrBadArgument, got %v", err)
	}
	if repo.writes != 0 {
		t.Error("rejected save reached storage")
	}
}

func TestGetSearchRequests(t *testing.T) {
	svc, _ := newTestSearchService()
	ctx := context.Background()

	created, err := svc.SaveSearchRequest(ctx, businessKey, &model.SearchRequest{
		Tags: map[string]string{"interest": "cars"},
	}, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	all, err := svc.GetSearchRequests(ctx, businessKey, 0, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 request, got %d", len(all))
	}

	one, err := svc.GetSearchRequests(ctx, businessKey, created.ID, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if len(one) != 1 || one[0].ID != created.ID {
		t.Errorf("get by id returned %v, want the created request", one)
	}

	// Unknown id and foreign owner both resolve to empty, not an error.
	none, err := svc.GetSearchRequests(ctx, businessKey, 999, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("get by unknown id failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty result for unknown id, got %v", none)
	}

	none, err = svc.GetSearchRequests(ctx, clientKey, 0, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("get for other owner failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", none)
	}
}

func TestDeleteSearchRequest(t *testing.T) {
	svc, _ := newTestSearchService()
	ctx := context.Background()

	created, err := svc.SaveSearchRequest(ctx, businessKey, &model.SearchRequest{
		Tags: map[string]string{"interest": "cars"},
	}, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Wrong owner deletes nothing.
	if _, err := svc.DeleteSearchRequest(ctx, created.ID, clientKey, repository.StrategyRelational); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for wrong owner, got %v", err)
	}

	id, err := svc.DeleteSearchRequest(ctx, created.ID, businessKey, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if id != created.ID {
		t.Errorf("deleted id = %d, want %d", id, created.ID)
	}
}
