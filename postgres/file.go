package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/hitalo07/bootcamp-gostack-meetapp/file"
)

// FileStore records uploaded attachment metadata.
type FileStore struct {
	DB *DB
}

func (s *FileStore) CreateFile(ctx context.Context, f *file.File) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return &file.StoreError{Err: err}
	}
	defer tx.Rollback(ctx)

	f.ID = uuid.New().String()
	f.CreatedAt = tx.now

	_, err = tx.Exec(ctx, `
		INSERT INTO files (id, name, path, created_at)
		VALUES ($1, $2, $3, $4)
	`, f.ID, f.Name, f.Path, f.CreatedAt)
	if err != nil {
		return &file.StoreError{Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &file.StoreError{Err: err}
	}
	return nil
}
