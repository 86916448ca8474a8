package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/datapact/datapact-go/internal/repository"
)

// ProfileService stores and serves a client's encrypted profile attributes.
// Values arrive already encrypted by the client; this service never sees
// plaintext.
type ProfileService struct {
	profiles *repository.Strategy[repository.ProfileRepository]
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles *repository.Strategy[repository.ProfileRepository]) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// GetData returns all attributes stored for publicKey. Unknown clients get an
// empty map, not an error.
func (s *ProfileService) GetData(ctx context.Context, publicKey string, tag repository.StrategyTag) (map[string]string, error) {
	data, err := s.profiles.Select(tag).GetData(ctx, publicKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]string{}
	}
	return data, nil
}

// UpdateData merge-updates the caller's attributes. The caller must already
// have been resolved through AccountBySignedRequest; publicKey is the
// authenticated identity, never a client-supplied value.
func (s *ProfileService) UpdateData(ctx context.Context, publicKey string, data map[string]string, tag repository.StrategyTag) (map[string]string, error) {
	if len(data) == 0 {
		return nil, ErrBadArgument
	}

	if err := s.profiles.Select(tag).UpdateData(ctx, publicKey, data); err != nil {
		if errors.Is(err, repository.ErrNotSaved) {
			return nil, fmt.Errorf("%w: %w", ErrDataNotSaved, err)
		}
		return nil, err
	}

	return data, nil
}
