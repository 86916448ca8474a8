package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/datapact/datapact-go/internal/model"
)

var ErrSearchRequestNotFound = errors.New("search request not found")

// SearchRequestRepository is the per-backend storage contract for search
// requests.
type SearchRequestRepository interface {
	// SaveSearchRequest inserts the request and sets its backend-assigned ID.
	SaveSearchRequest(ctx context.Context, request *model.SearchRequest) error

	// FindByOwner lists all requests issued by owner.
	FindByOwner(ctx context.Context, owner string) ([]model.SearchRequest, error)

	// FindByIDAndOwner returns the request only when owner matches, else
	// ErrSearchRequestNotFound.
	FindByIDAndOwner(ctx context.Context, id int64, owner string) (*model.SearchRequest, error)

	// DeleteSearchRequest removes the request when owner matches and returns
	// the number of rows removed.
	DeleteSearchRequest(ctx context.Context, id int64, owner string) (int64, error)
}

// RelationalSearchRequestRepository stores search requests in MySQL.
type RelationalSearchRequestRepository struct {
	db *sql.DB
}

// NewRelationalSearchRequestRepository creates a new RelationalSearchRequestRepository.
func NewRelationalSearchRequestRepository(db *sql.DB) *RelationalSearchRequestRepository {
	return &RelationalSearchRequestRepository{db: db}
}

func (r *RelationalSearchRequestRepository) SaveSearchRequest(ctx context.Context, request *model.SearchRequest) error {
	tags, err := json.Marshal(emptyIfNil(request.Tags))
	if err != nil {
		return err
	}

	query := `INSERT INTO search_requests (owner, tags) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, query, request.Owner, tags)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	request.ID = id
	return nil
}

func (r *RelationalSearchRequestRepository) FindByOwner(ctx context.Context, owner string) ([]model.SearchRequest, error) {
	query := `SELECT id, owner, tags FROM search_requests WHERE owner = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []model.SearchRequest
	for rows.Next() {
		var req model.SearchRequest
		var tags []byte
		if err := rows.Scan(&req.ID, &req.Owner, &tags); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &req.Tags); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func (r *RelationalSearchRequestRepository) FindByIDAndOwner(ctx context.Context, id int64, owner string) (*model.SearchRequest, error) {
	query := `SELECT id, owner, tags FROM search_requests WHERE id = ? AND owner = ?`

	req := &model.SearchRequest{}
	var tags []byte
	err := r.db.QueryRowContext(ctx, query, id, owner).Scan(&req.ID, &req.Owner, &tags)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSearchRequestNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(tags, &req.Tags); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *RelationalSearchRequestRepository) DeleteSearchRequest(ctx context.Context, id int64, owner string) (int64, error) {
	query := `DELETE FROM search_requests WHERE id = ? AND owner = ?`

	result, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
