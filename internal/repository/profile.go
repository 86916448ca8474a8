package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// ProfileRepository is the per-backend storage contract for encrypted client
// profile attributes, a string-to-string map keyed by the owner's public key.
type ProfileRepository interface {
	// GetData returns all stored attributes for publicKey. An unknown client
	// yields an empty map, never an error.
	GetData(ctx context.Context, publicKey string) (map[string]string, error)

	// UpdateData merge-updates the provided attributes; keys not present in
	// data are left untouched.
	UpdateData(ctx context.Context, publicKey string, data map[string]string) error
}

// RelationalProfileRepository stores profile attributes as one MySQL row per
// key.
type RelationalProfileRepository struct {
	db *sql.DB
}

// NewRelationalProfileRepository creates a new RelationalProfileRepository.
func NewRelationalProfileRepository(db *sql.DB) *RelationalProfileRepository {
	return &RelationalProfileRepository{db: db}
}

func (r *RelationalProfileRepository) GetData(ctx context.Context, publicKey string) (map[string]string, error) {
	query := `SELECT data_key, data_value FROM profile_data WHERE public_key = ?`

	rows, err := r.db.QueryContext(ctx, query, publicKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		data[k] = v
	}

	return data, rows.Err()
}

// upsertAttrQuery is the shared SQL for insert-or-update of one attribute.
const upsertAttrQuery = `
	INSERT INTO profile_data (public_key, data_key, data_value)
	VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE data_value = VALUES(data_value)`

func (r *RelationalProfileRepository) UpdateData(ctx context.Context, publicKey string, data map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for k, v := range data {
		if _, err := tx.ExecContext(ctx, upsertAttrQuery, publicKey, k, v); err != nil {
			return fmt.Errorf("%w: %w", ErrNotSaved, err)
		}
	}

	return tx.Commit()
}
