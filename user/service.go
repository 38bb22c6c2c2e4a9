package user

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence contract for accounts.
type Store interface {
	CreateUser(ctx context.Context, u *User) error

	// FindUserByID returns ErrNotFound when no user has that id.
	FindUserByID(ctx context.Context, id string) (*User, error)

	// FindUserByEmail returns ErrNotFound when no user has that email.
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	UpdateUser(ctx context.Context, u *User) error
}

type Service struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register creates an account with a bcrypt-hashed password. Emails are
// unique across accounts.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	_, err := s.store.FindUserByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		s.logger.Error("creating user", zap.Error(err))
		return nil, err
	}

	return u, nil
}

// Authenticate checks an email/password pair and returns the matching
// account. Both an unknown email and a wrong password yield
// ErrInvalidCredentials so callers cannot probe which one failed.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// Update applies a partial profile change to the caller's own account.
func (s *Service) Update(ctx context.Context, callerID string, in UpdateInput) (*User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.store.FindUserByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != u.Email {
		if _, err := s.store.FindUserByEmail(ctx, *in.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		u.Email = *in.Email
	}

	if in.Name != nil {
		u.Name = *in.Name
	}

	if in.Password != nil {
		if in.OldPassword == nil ||
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(*in.OldPassword)) != nil {
			return nil, ErrPasswordMismatch
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if err := s.store.UpdateUser(ctx, u); err != nil {
		s.logger.Error("updating user", zap.String("id", callerID), zap.Error(err))
		return nil, err
	}

	return u, nil
}
