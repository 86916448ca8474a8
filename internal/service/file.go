package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
)

// FileService manages uploaded binary blobs owned by a single account.
type FileService struct {
	files *repository.Strategy[repository.FileRepository]
}

// NewFileService creates a new FileService.
func NewFileService(files *repository.Strategy[repository.FileRepository]) *FileService {
	return &FileService{files: files}
}

// SaveFile stores a new file when id is zero, otherwise replaces the payload
// of an existing file owned by the same key.
func (s *FileService) SaveFile(ctx context.Context, file *model.File, id int64, tag repository.StrategyTag) (*model.UploadedFile, error) {
	if file.PublicKey == "" || len(file.Data) == 0 {
		return nil, ErrBadArgument
	}

	file.ID = id
	file.Size = int64(len(file.Data))

	if err := s.files.Select(tag).SaveFile(ctx, file); err != nil {
		switch {
		case errors.Is(err, repository.ErrFileNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrNotSaved):
			return nil, fmt.Errorf("%w: %w", ErrDataNotSaved, err)
		}
		return nil, err
	}

	return &model.UploadedFile{
		ID:        file.ID,
		PublicKey: file.PublicKey,
		Name:      file.Name,
		MimeType:  file.MimeType,
		Size:      file.Size,
	}, nil
}

// GetFile returns the stored file including its payload.
func (s *FileService) GetFile(ctx context.Context, id int64, publicKey string, tag repository.StrategyTag) (*model.File, error) {
	file, err := s.files.Select(tag).FindByIDAndPublicKey(ctx, id, publicKey)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return file, nil
}

// GetUserFiles lists an owner's file metadata.
func (s *FileService) GetUserFiles(ctx context.Context, publicKey string, tag repository.StrategyTag) ([]model.File, error) {
	files, err := s.files.Select(tag).FindByPublicKey(ctx, publicKey)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []model.File{}
	}
	return files, nil
}

// DeleteFile removes a file scoped to its owner and returns the deleted id.
// Nothing matching, including an id owned by someone else, returns 0
// without error; a mismatched owner can never remove another account's file.
func (s *FileService) DeleteFile(ctx context.Context, id int64, publicKey string, tag repository.StrategyTag) (int64, error) {
	deleted, err := s.files.Select(tag).DeleteFile(ctx, id, publicKey)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, nil
	}
	return id, nil
}
