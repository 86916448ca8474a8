package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/datapact/datapact-go/internal/model"
)

var ErrFileNotFound = errors.New("file not found")

// FileRepository is the per-backend storage contract for uploaded files.
type FileRepository interface {
	// SaveFile inserts the file when ID is zero, otherwise replaces the
	// payload of the existing record scoped to the same owner.
	SaveFile(ctx context.Context, file *model.File) error

	// FindByIDAndPublicKey returns the file (including payload) or
	// ErrFileNotFound.
	FindByIDAndPublicKey(ctx context.Context, id int64, publicKey string) (*model.File, error)

	// FindByPublicKey lists an owner's files without payloads.
	FindByPublicKey(ctx context.Context, publicKey string) ([]model.File, error)

	// DeleteFile removes the file when the owner matches and returns the
	// number of rows removed; zero means nothing matched.
	DeleteFile(ctx context.Context, id int64, publicKey string) (int64, error)
}

// RelationalFileRepository stores uploaded files in MySQL.
type RelationalFileRepository struct {
	db *sql.DB
}

// NewRelationalFileRepository creates a new RelationalFileRepository.
func NewRelationalFileRepository(db *sql.DB) *RelationalFileRepository {
	return &RelationalFileRepository{db: db}
}

func (r *RelationalFileRepository) SaveFile(ctx context.Context, file *model.File) error {
	if file.ID == 0 {
		query := `INSERT INTO files (public_key, name, mime_type, size, data) VALUES (?, ?, ?, ?, ?)`

		result, err := r.db.ExecContext(ctx, query,
			file.PublicKey, file.Name, file.MimeType, file.Size, file.Data)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotSaved, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		file.ID = id
		return nil
	}

	query := `UPDATE files SET name = ?, mime_type = ?, size = ?, data = ?
		WHERE id = ? AND public_key = ?`

	result, err := r.db.ExecContext(ctx, query,
		file.Name, file.MimeType, file.Size, file.Data, file.ID, file.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *RelationalFileRepository) FindByIDAndPublicKey(ctx context.Context, id int64, publicKey string) (*model.File, error) {
	query := `SELECT id, public_key, name, mime_type, size, data, created_at
		FROM files WHERE id = ? AND public_key = ?`

	file := &model.File{}
	err := r.db.QueryRowContext(ctx, query, id, publicKey).Scan(
		&file.ID, &file.PublicKey, &file.Name, &file.MimeType,
		&file.Size, &file.Data, &file.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return file, nil
}

func (r *RelationalFileRepository) FindByPublicKey(ctx context.Context, publicKey string) ([]model.File, error) {
	// Payload excluded; listings only need metadata.
	query := `SELECT id, public_key, name, mime_type, size, created_at
		FROM files WHERE public_key = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, publicKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []model.File
	for rows.Next() {
		var f model.File
		if err := rows.Scan(&f.ID, &f.PublicKey, &f.Name, &f.MimeType, &f.Size, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

func (r *RelationalFileRepository) DeleteFile(ctx context.Context, id int64, publicKey string) (int64, error) {
	query := `DELETE FROM files WHERE id = ? AND public_key = ?`

	result, err := r.db.ExecContext(ctx, query, id, publicKey)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
