package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/hitalo07/bootcamp-gostack-meetapp/user"
)

// UserStore persists accounts.
type UserStore struct {
	DB *DB
}

func (s *UserStore) CreateUser(ctx context.Context, u *user.User) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return &user.StoreError{Err: err}
	}
	defer tx.Rollback(ctx)

	u.ID = uuid.New().String()
	u.CreatedAt = tx.now

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return &user.StoreError{Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &user.StoreError{Err: err}
	}
	return nil
}

func (s *UserStore) FindUserByID(ctx context.Context, id string) (*user.User, error) {
	return s.findUser(ctx, `WHERE id = $1`, id)
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.findUser(ctx, `WHERE email = $1`, email)
}

func (s *UserStore) UpdateUser(ctx context.Context, u *user.User) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return &user.StoreError{Err: err}
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users SET name = $1, email = $2, password_hash = $3 WHERE id = $4
	`, u.Name, u.Email, u.PasswordHash, u.ID)
	if err != nil {
		return &user.StoreError{Err: err}
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return &user.StoreError{Err: err}
	}
	return nil
}

func (s *UserStore) findUser(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return nil, &user.StoreError{Err: err}
	}
	defer tx.Rollback(ctx)

	u := &user.User{}
	err = tx.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
	`+where, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, &user.StoreError{Err: err}
	}

	return u, nil
}
